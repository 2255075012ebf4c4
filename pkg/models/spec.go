package models

import (
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
)

const (
	DefaultJobTTL           = 18000 * time.Second
	DefaultJobPrice         = 1.0
	DefaultRemoteTimeout    = 43200 * time.Second
	DefaultWorkDirSizeMB    = 10 * 1024
	MaxCPUCores             = 100
	bytesPerMB              = 1024 * 1024
	maxWorkDirSizeScaleRate = 2
)

// JobSpec is the decoded job description. Parsing the job description language is done
// by the submitting client; the broker only consumes the decoded fields.
type JobSpec struct {
	Owner       string   `json:"Owner"`
	Executable  string   `json:"Executable"`
	Arguments   []string `json:"Arguments,omitempty"`
	TTL         int64    `json:"TTL,omitempty"`
	Price       float64  `json:"Price,omitempty"`
	CPUCores    int      `json:"CPUCores,omitempty"`
	WorkDirSize int64    `json:"WorkDirSizeMB,omitempty"`
	Packages    []string `json:"Packages,omitempty"`
	// Sites are the close sites the job must run at, if any.
	Sites         []string `json:"Sites,omitempty"`
	CEs           []string `json:"CEs,omitempty"`
	NoCEs         []string `json:"NoCEs,omitempty"`
	Partition     string   `json:"Partition,omitempty"`
	RemoteTimeout int64    `json:"RemoteTimeout,omitempty"`
	OutputDir     string   `json:"OutputDir,omitempty"`
	Email         string   `json:"Email,omitempty"`
	MasterJobID   int64    `json:"MasterJobID,omitempty"`
	// Split marks a master job whose children are submitted separately.
	Split bool `json:"Split,omitempty"`
}

// Cores returns the number of cores requested, falling back to 1 for values out of range.
func (s JobSpec) Cores() int {
	if s.CPUCores < 1 || s.CPUCores > MaxCPUCores {
		return 1
	}
	return s.CPUCores
}

// DiskBytes returns the work directory size the job needs. The request is capped at twice
// the default allowance for the requested cores.
func (s JobSpec) DiskBytes() int64 {
	limit := int64(DefaultWorkDirSizeMB * s.Cores())
	size := s.WorkDirSize
	if size <= 0 {
		size = limit
	}
	if size > limit*maxWorkDirSizeScaleRate {
		size = limit * maxWorkDirSizeScaleRate
	}
	return size * bytesPerMB
}

func (s JobSpec) TTLSeconds() int64 {
	if s.TTL <= 0 {
		return int64(DefaultJobTTL / time.Second)
	}
	return s.TTL
}

func (s JobSpec) JobPrice() float64 {
	if s.Price <= 0 {
		return DefaultJobPrice
	}
	return s.Price
}

// RemoteWait returns the per job remote eligibility timeout, zero when unset.
func (s JobSpec) RemoteWait() time.Duration {
	if s.RemoteTimeout <= 0 {
		return 0
	}
	return time.Duration(s.RemoteTimeout) * time.Second
}

// Requirements derives the normalized bucket signature of the job.
func (s JobSpec) Requirements(ownerID int64) Requirements {
	return Requirements{
		TTL:       s.TTLSeconds(),
		Disk:      s.DiskBytes(),
		CPUCores:  s.Cores(),
		Packages:  normalizeList(s.Packages, false),
		Partition: strings.TrimSpace(s.Partition),
		Sites:     normalizeList(s.Sites, true),
		CEs:       normalizeList(s.CEs, false),
		NoCEs:     normalizeList(s.NoCEs, false),
		UserID:    ownerID,
		Price:     s.JobPrice(),
	}
}

func normalizeList(values []string, upper bool) []string {
	out := lo.FilterMap(values, func(v string, _ int) (string, bool) {
		v = strings.TrimSpace(v)
		if upper {
			v = strings.ToUpper(v)
		}
		return v, v != ""
	})
	out = lo.Uniq(out)
	sort.Strings(out)
	return out
}
