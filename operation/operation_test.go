package operation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windrose-labs/tspdrone/bitset"
	"github.com/windrose-labs/tspdrone/instance"
	"github.com/windrose-labs/tspdrone/operation"
)

func triangleInstance(t *testing.T) instance.Instance {
	t.Helper()
	inst, err := instance.NewGeometric(
		[]string{"depot", "a", "b"},
		[]float64{0, 1, 0},
		[]float64{0, 0, 1},
		1.0, 2.0,
	)
	require.NoError(t, err)
	return inst
}

func TestOperationEvaluateTruckOnly(t *testing.T) {
	inst := triangleInstance(t)
	op := operation.Operation{Start: 0, DrivePath: []int{1}, End: 2}
	drive, fly, cost := op.Evaluate(inst)
	assert.Greater(t, drive, 0.0)
	assert.Equal(t, 0.0, fly)
	assert.Equal(t, drive, cost)
}

func TestOperationEvaluateWithFlyUsesMax(t *testing.T) {
	inst := triangleInstance(t)
	flyIdx := 1
	op := operation.Operation{Start: 0, End: 2, Fly: &flyIdx}
	drive, fly, cost := op.Evaluate(inst)
	assert.Equal(t, cost, maxF(drive, fly))
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func TestCoveredSetIncludesEverything(t *testing.T) {
	flyIdx := 2
	op := operation.Operation{Start: 0, DrivePath: []int{1}, End: 3, Fly: &flyIdx}
	want := bitset.FromIndices([]int{0, 1, 2, 3})
	assert.Equal(t, want, op.CoveredSet())
}

func TestTruckOnlyCount(t *testing.T) {
	flyIdx := 5
	op := operation.Operation{Start: 0, DrivePath: []int{1, 2}, End: 3, Fly: &flyIdx}
	// covered = {0,1,2,3,5} (5), minus start, minus end(distinct), minus fly(distinct) => 2
	assert.Equal(t, 2, op.TruckOnlyCount())
}

func TestSolutionIsFeasible(t *testing.T) {
	inst := triangleInstance(t)
	sol := operation.Solution{Ops: []operation.Operation{
		{Start: 0, DrivePath: []int{1, 2}, End: 0},
	}}
	assert.True(t, sol.IsTour(inst))
	assert.True(t, sol.CoversAll(inst))
	assert.True(t, sol.IsFeasible(inst))
	assert.True(t, sol.IsStrict(inst))
}

func TestSolutionNotATourWhenChainBreaks(t *testing.T) {
	inst := triangleInstance(t)
	sol := operation.Solution{Ops: []operation.Operation{
		{Start: 0, End: 1},
		{Start: 2, End: 0}, // does not chain: previous ended at 1
	}}
	assert.False(t, sol.IsTour(inst))
}

func TestSimplifyDropsInteriorRevisitAndSplitsTruckOnlyPath(t *testing.T) {
	inst := triangleInstance(t)
	sol := operation.Solution{Ops: []operation.Operation{
		{Start: 0, DrivePath: []int{1}, End: 2},
		{Start: 2, DrivePath: []int{1}, End: 0}, // revisits 1 as interior: must drop
	}}
	simplified := operation.Simplify(sol, inst)
	require.Len(t, simplified.Ops, 3, "each adjacent pair of the truck-only path becomes its own operation")
	assert.Equal(t, operation.Operation{Start: 0, End: 1}, simplified.Ops[0])
	assert.Equal(t, operation.Operation{Start: 1, End: 2}, simplified.Ops[1])
	assert.Equal(t, operation.Operation{Start: 2, End: 0}, simplified.Ops[2], "interior revisit of 1 was dropped before the split")
}

func TestSimplifyIsIdempotent(t *testing.T) {
	inst := triangleInstance(t)
	sol := operation.Solution{Ops: []operation.Operation{
		{Start: 0, DrivePath: []int{1, 1}, End: 2},
		{Start: 2, End: 0},
	}}
	once := operation.Simplify(sol, inst)
	twice := operation.Simplify(once, inst)
	assert.Equal(t, once, twice)
}

func TestSimplifyDropsFlyIfAlreadyCoveredAndSplitsTheRemainder(t *testing.T) {
	inst := triangleInstance(t)
	flyIdx := 1
	sol := operation.Solution{Ops: []operation.Operation{
		{Start: 0, DrivePath: []int{1}, End: 2},
		{Start: 2, End: 0, Fly: &flyIdx}, // 1 already covered: fly must drop
	}}
	simplified := operation.Simplify(sol, inst)
	last := simplified.Ops[len(simplified.Ops)-1]
	assert.Nil(t, last.Fly)
	assert.Equal(t, operation.Operation{Start: 2, End: 0}, last)
}

func TestSimplifyKeepsFlyWhenNotYetCovered(t *testing.T) {
	inst, err := instance.NewGeometric(
		[]string{"depot", "a", "b", "c"},
		[]float64{0, 1, 0, 2},
		[]float64{0, 0, 1, 2},
		1.0, 2.0,
	)
	require.NoError(t, err)
	flyIdx := 3
	sol := operation.Solution{Ops: []operation.Operation{
		{Start: 0, DrivePath: []int{1}, End: 2},
		{Start: 2, End: 0, Fly: &flyIdx},
	}}
	simplified := operation.Simplify(sol, inst)
	last := simplified.Ops[len(simplified.Ops)-1]
	require.NotNil(t, last.Fly)
	assert.Equal(t, 3, *last.Fly)
	assert.Equal(t, 2, last.Start)
	assert.Equal(t, 0, last.End)
}
