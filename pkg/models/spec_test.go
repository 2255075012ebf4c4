//go:build unit || !integration

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequirementsDefaults(t *testing.T) {
	req := JobSpec{Owner: "alice"}.Requirements(7)

	assert.Equal(t, int64(18000), req.TTL)
	assert.Equal(t, 1, req.CPUCores)
	assert.Equal(t, int64(10*1024)*1024*1024, req.Disk)
	assert.Equal(t, 1.0, req.Price)
	assert.Equal(t, AnyPackages, req.PackagePattern())
	assert.Equal(t, AnyPartition, req.PartitionPattern())
	assert.Equal(t, int64(7), req.UserID)
}

func TestRequirementsNormalization(t *testing.T) {
	spec := JobSpec{
		CPUCores:    250,
		WorkDirSize: 100 * 1024,
		Packages:    []string{"VO_ALICE@ROOT::v6", " VO_ALICE@AliPhysics::v1", "VO_ALICE@ROOT::v6"},
		Sites:       []string{"cern", "Torino"},
	}
	req := spec.Requirements(1)

	assert.Equal(t, 1, req.CPUCores, "out of range cores fall back to one")
	assert.Equal(t, int64(2*10*1024)*1024*1024, req.Disk, "disk is capped at twice the default")
	assert.Equal(t, "%,VO_ALICE@AliPhysics::v1,%,VO_ALICE@ROOT::v6,%", req.PackagePattern())
	assert.Equal(t, ",CERN,TORINO,", CSV(req.Sites))
}

func TestSignatureIgnoresDeclarationOrder(t *testing.T) {
	a := JobSpec{Packages: []string{"b", "a"}, CEs: []string{"ce2", "ce1"}}.Requirements(3)
	b := JobSpec{Packages: []string{"a", "b"}, CEs: []string{"ce1", "ce2"}}.Requirements(3)
	c := JobSpec{Packages: []string{"a", "b"}, CEs: []string{"ce1", "ce2"}}.Requirements(4)

	assert.Equal(t, a.Signature(), b.Signature())
	assert.NotEqual(t, a.Signature(), c.Signature())
	assert.Len(t, a.Signature(), 64)
}

func TestPackageCSVKeepsSeparatorsPerPackage(t *testing.T) {
	w := WorkerSnapshot{InstalledPackages: []string{"VO_ALICE@ROOT::v6", "VO_ALICE@AliPhysics::v1", ""}}
	assert.Equal(t, ",VO_ALICE@AliPhysics::v1,,VO_ALICE@ROOT::v6,", w.PackageCSV())
	assert.Equal(t, "", WorkerSnapshot{}.PackageCSV())
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitCSV("%,a,%,b,%"))
	assert.Nil(t, SplitCSV("%"))
	assert.Equal(t, ",x,", CSV([]string{"x"}))
	assert.Equal(t, "", CSV(nil))
}

func TestCPUExpression(t *testing.T) {
	expr, err := ParseCPUExpression(">=8")
	require.NoError(t, err)
	assert.True(t, expr.Matches(8))
	assert.False(t, expr.Matches(4))

	expr, err = ParseCPUExpression("== 1")
	require.NoError(t, err)
	assert.Equal(t, CPUExpression{Operator: "=", Value: 1}, expr)

	expr, err = ParseCPUExpression("!=2")
	require.NoError(t, err)
	assert.True(t, expr.Matches(3))

	_, err = ParseCPUExpression("8")
	assert.Error(t, err)
	_, err = ParseCPUExpression(">=many")
	assert.Error(t, err)
}

func TestMissingPackages(t *testing.T) {
	missing := MissingPackages([]string{"c", "a", "b"}, []string{"b"})
	assert.Equal(t, []string{"a", "c"}, missing)
	assert.Empty(t, MissingPackages([]string{"a"}, []string{"a", "b"}))
}

func TestPrincipalCanModify(t *testing.T) {
	assert.True(t, NewPrincipal("alice").CanModify("alice"))
	assert.False(t, NewPrincipal("bob").CanModify("alice"))
	assert.True(t, NewPrincipal("bob", "alice").CanModify("alice"))
	assert.True(t, NewPrincipal("ops", RoleAdmin).CanModify("alice"))
}

func TestCEConfigOnlyFillsMissingFields(t *testing.T) {
	cfg := CEConfig{Users: []string{"alice"}, Partitions: []string{"gpu"}, RequiredCPUs: ">=8"}
	w := cfg.Apply(WorkerSnapshot{Users: []string{"bob"}})

	assert.Equal(t, []string{"bob"}, w.Users)
	assert.Equal(t, []string{"gpu"}, w.Partitions)
	assert.Equal(t, ">=8", w.RequiredCPUs)
}

func TestKillMessageTarget(t *testing.T) {
	msg := NewKillMessage("node01", 42, 3, Job{}.Modified)
	assert.Equal(t, "node01-42-3", msg.Target)
	assert.Equal(t, MessageActionKill, msg.Action)
}
