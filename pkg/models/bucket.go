package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// AnyPackages is the package pattern of a bucket without package requirements.
	AnyPackages = "%"
	// AnyPartition is the partition pattern of a bucket accepting every partition.
	AnyPartition = "%"
)

// Requirements is the signature shared by every job in a capability bucket. The numeric
// fields are acceptance bounds: a worker must offer more TTL and disk than the bucket
// floor and at least CPUCores cores.
type Requirements struct {
	TTL       int64    `json:"TTL"`
	Disk      int64    `json:"Disk"`
	CPUCores  int      `json:"CPUCores"`
	Packages  []string `json:"Packages,omitempty"`
	Partition string   `json:"Partition,omitempty"`
	Sites     []string `json:"Sites,omitempty"`
	CEs       []string `json:"CEs,omitempty"`
	NoCEs     []string `json:"NoCEs,omitempty"`
	UserID    int64    `json:"UserID"`
	Price     float64  `json:"Price"`
}

// Signature is the stable hash identifying the bucket of these requirements.
func (r Requirements) Signature() string {
	canonical := fmt.Sprintf("ttl=%d;disk=%d;cores=%d;packages=%s;partition=%s;site=%s;ce=%s;noce=%s;user=%d;price=%g",
		r.TTL, r.Disk, r.CPUCores, r.PackagePattern(), r.PartitionPattern(),
		CSV(r.Sites), CSV(r.CEs), CSV(r.NoCEs), r.UserID, r.Price)
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// PackagePattern returns the LIKE pattern a worker's package list has to satisfy.
// Packages are sorted, so a sorted worker list matches regardless of declaration order.
func (r Requirements) PackagePattern() string {
	if len(r.Packages) == 0 {
		return AnyPackages
	}
	return "%," + strings.Join(r.Packages, ",%,") + ",%"
}

func (r Requirements) PartitionPattern() string {
	if r.Partition == "" {
		return AnyPartition
	}
	return r.Partition
}

// Bucket aggregates the WAITING jobs sharing one requirement signature.
type Bucket struct {
	ID           int64  `json:"ID"`
	Signature    string `json:"Signature"`
	Requirements `json:"Requirements"`
	// Counter is the number of WAITING jobs linked to the bucket.
	Counter     int   `json:"Counter"`
	Priority    int   `json:"Priority"`
	OldestJobID int64 `json:"OldestJobID"`
}

// CSV renders a list as ",a,b," so that membership can be tested with LIKE '%,x,%'.
// An empty list renders as the empty string.
func CSV(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return "," + strings.Join(values, ",") + ","
}

// SplitCSV is the inverse of CSV; empty elements and '%' wildcards are dropped.
func SplitCSV(value string) []string {
	var out []string
	for _, v := range strings.Split(value, ",") {
		v = strings.TrimSpace(strings.ReplaceAll(v, "%", ""))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
