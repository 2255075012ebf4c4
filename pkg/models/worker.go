package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// WorkerSnapshot is the capability advertisement a job agent sends with each poll.
// It lives for the duration of one match call and is never persisted.
type WorkerSnapshot struct {
	CE   string `json:"CE"`
	Host string `json:"Host"`
	Site string `json:"Site"`
	// ExtraSites are close sites whose jobs the worker may also run.
	ExtraSites []string `json:"ExtraSites,omitempty"`
	// CPUCores is zero when the worker schedules whole nodes.
	CPUCores int   `json:"CPUCores"`
	Disk     int64 `json:"Disk"`
	// TTL is the remaining lifetime of the worker, in seconds.
	TTL               int64    `json:"TTL"`
	InstalledPackages []string `json:"InstalledPackages,omitempty"`
	// OnDemandImage workers install packages on demand, so package requirements are not checked.
	OnDemandImage bool     `json:"OnDemandImage,omitempty"`
	Partitions    []string `json:"Partitions,omitempty"`
	// ImageRevision is the platform image revision the worker runs, zero when unknown.
	ImageRevision int      `json:"ImageRevision,omitempty"`
	RemoteAllowed bool     `json:"RemoteAllowed,omitempty"`
	Users         []string `json:"Users,omitempty"`
	NoUsers       []string `json:"NoUsers,omitempty"`
	// RequiredCPUs is an optional comparison applied to the bucket cores, such as ">=8".
	RequiredCPUs string `json:"RequiredCPUs,omitempty"`
}

// MatchRequest is one poll of a job agent.
type MatchRequest struct {
	WorkerSnapshot
	// ConstraintsResolved is set when the caller already merged the CE configuration.
	ConstraintsResolved bool `json:"ConstraintsResolved,omitempty"`
}

// PackageCSV renders the installed packages as a sorted ",a,,b," list. Every package keeps
// its own pair of commas so that the "%,a,%,b,%" bucket pattern can match adjacent packages.
func (w WorkerSnapshot) PackageCSV() string {
	packages := normalizeList(w.InstalledPackages, false)
	if len(packages) == 0 {
		return ""
	}
	return "," + strings.Join(packages, ",,") + ","
}

// AllSites returns the worker site followed by its extra sites, upper-cased.
func (w WorkerSnapshot) AllSites() []string {
	sites := normalizeList(append([]string{w.Site}, w.ExtraSites...), true)
	return sites
}

// PartitionCSV renders the advertised partitions as ",a,b,".
func (w WorkerSnapshot) PartitionCSV() string {
	return CSV(normalizeList(w.Partitions, false))
}

// TTLDuration is the advertised TTL as a duration.
func (w WorkerSnapshot) TTLDuration() time.Duration {
	return time.Duration(w.TTL) * time.Second
}

var cpuOperators = []string{">=", "<=", "==", "!=", ">", "<", "="}

// CPUExpression is a parsed RequiredCPUs comparison.
type CPUExpression struct {
	Operator string
	Value    int
}

// ParseCPUExpression parses expressions like ">=8" or "==1". The single "=" is normalized to "=".
func ParseCPUExpression(expr string) (CPUExpression, error) {
	expr = strings.TrimSpace(expr)
	for _, op := range cpuOperators {
		if strings.HasPrefix(expr, op) {
			value, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(expr, op)))
			if err != nil {
				return CPUExpression{}, fmt.Errorf("invalid cpu expression %q: %w", expr, err)
			}
			if op == "==" {
				op = "="
			}
			return CPUExpression{Operator: op, Value: value}, nil
		}
	}
	return CPUExpression{}, fmt.Errorf("invalid cpu expression %q: missing operator", expr)
}

// Matches evaluates the expression against a core count.
func (e CPUExpression) Matches(cores int) bool {
	switch e.Operator {
	case ">=":
		return cores >= e.Value
	case "<=":
		return cores <= e.Value
	case ">":
		return cores > e.Value
	case "<":
		return cores < e.Value
	case "=":
		return cores == e.Value
	case "!=":
		return cores != e.Value
	default:
		return false
	}
}

// sortedCopy returns a sorted copy of values.
func sortedCopy(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}

// MissingPackages returns the required packages absent from the installed list.
func MissingPackages(required, installed []string) []string {
	have := make(map[string]struct{}, len(installed))
	for _, p := range installed {
		have[p] = struct{}{}
	}
	var missing []string
	for _, p := range sortedCopy(required) {
		if _, ok := have[p]; !ok {
			missing = append(missing, p)
		}
	}
	return missing
}
