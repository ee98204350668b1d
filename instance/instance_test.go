package instance_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windrose-labs/tspdrone/instance"
)

func lineInstance(t *testing.T, alpha float64) instance.Instance {
	t.Helper()
	inst, err := instance.NewGeometric(
		[]string{"depot", "left", "right"},
		[]float64{0, -1, 1},
		[]float64{0, 0, 0},
		1.0, alpha,
	)
	require.NoError(t, err)
	return inst
}

func TestGeometricFlyDistanceIsTriangle(t *testing.T) {
	inst := lineInstance(t, 2.0)
	fly := inst.FlyDistance()
	// depot(0,0) -> left(-1,0) -> depot(0,0) at speed 2: 1/2 + 1/2 = 1.
	got := instance.FlyDistance(fly, 0, 0, 1)
	assert.InDelta(t, 1.0, got, 1e-9)
}

func TestMatrixInstanceLooksUpRawValues(t *testing.T) {
	drive := [][]float64{{0, 1, 2}, {1, 0, 1}, {2, 1, 0}}
	fly := [][]float64{{0, 0.5, 1}, {0.5, 0, 0.5}, {1, 0.5, 0}}
	inst, err := instance.NewMatrix([]string{"d", "a", "b"}, drive, fly)
	require.NoError(t, err)
	assert.Equal(t, 2.0, instance.ContextFree(inst.DriveDistance(), 0, 2, 0))
	assert.Equal(t, 0.5, instance.ContextFree(inst.FlyDistance(), 0, 1, 0))
}

func TestGraphInstanceCompletesMissingPairsWithFloydWarshall(t *testing.T) {
	// Path depot(0) - a(1) - b(2), no direct 0-2 edge.
	edges := []instance.GraphEdge{
		{From: 0, To: 1, Drive: 3, Fly: 3},
		{From: 1, To: 2, Drive: 4, Fly: 4},
	}
	inst, err := instance.NewGraph([]string{"d", "a", "b"}, true, edges)
	require.NoError(t, err)
	assert.Equal(t, 7.0, instance.ContextFree(inst.DriveDistance(), 0, 2, 0))
	assert.Equal(t, 3.0, instance.ContextFree(inst.DriveDistance(), 0, 1, 0))
}

func TestRestrictedInstanceBlocksForbiddenAndNoVisit(t *testing.T) {
	inst := lineInstance(t, 2.0)
	restricted := instance.NewRestricted(inst, math.Inf(1), nil, []int{1})

	// Location 1 ("left") is no-visit: VISIT there must be +Inf.
	d := restricted.FlyDistance().Distance(0, 1, instance.ActionDeparture, instance.ActionVisit, 0)
	assert.True(t, math.IsInf(d, 1))

	// But a drone departure/arrival at location 1 remains fine.
	dd := restricted.FlyDistance().Distance(0, 1, instance.ActionDeparture, instance.ActionArrival, 0)
	assert.False(t, math.IsInf(dd, 1))
}

func TestRestrictedInstanceEnforcesMaxFly(t *testing.T) {
	inst := lineInstance(t, 2.0)
	restricted := instance.NewRestricted(inst, 0.1, nil, nil)
	d := instance.FlyDistance(restricted.FlyDistance(), 0, 0, 1)
	assert.True(t, math.IsInf(d, 1))
}

func TestRestrictByFactorAtLeastTwoMatchesUnrestricted(t *testing.T) {
	inst := lineInstance(t, 2.0)
	restricted, err := instance.RestrictByFactor(inst, 2.0, nil, nil)
	require.NoError(t, err)

	for a := 0; a < inst.N(); a++ {
		for b := 0; b < inst.N(); b++ {
			if a == b {
				continue
			}
			for k := 0; k < inst.N(); k++ {
				if k == a || k == b {
					continue
				}
				base := instance.FlyDistance(inst.FlyDistance(), a, b, k)
				got := instance.FlyDistance(restricted.FlyDistance(), a, b, k)
				if math.IsInf(base, 1) {
					continue
				}
				assert.InDelta(t, base, got, 1e-9)
			}
		}
	}
}

func TestSubInstanceAlwaysKeepsDepot(t *testing.T) {
	inst := lineInstance(t, 2.0)
	sub := inst.SubInstance(func(i int) bool { return false })
	assert.Equal(t, 1, sub.N())
	assert.True(t, sub.IsDepot(0))
}

func TestLongestDroneLeg(t *testing.T) {
	inst := lineInstance(t, 2.0)
	// Longest single drone leg is left<->right customer: distance 2 at fly speed 2.
	assert.InDelta(t, 1.0, instance.LongestDroneLeg(inst), 1e-9)
}
