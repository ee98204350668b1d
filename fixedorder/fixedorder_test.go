package fixedorder_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windrose-labs/tspdrone/fixedorder"
	"github.com/windrose-labs/tspdrone/instance"
)

// lineInstance places a depot at (0,0) with customers at (-1,0) and
// (1,0), drone twice as fast as the truck.
func lineInstance(t *testing.T) instance.Instance {
	t.Helper()
	inst, err := instance.NewGeometric(
		[]string{"depot", "left", "right"},
		[]float64{0, -1, 1},
		[]float64{0, 0, 0},
		1.0, 2.0,
	)
	require.NoError(t, err)
	return inst
}

func TestSolveProducesFeasibleTour(t *testing.T) {
	inst := lineInstance(t)
	sol, err := fixedorder.Solve(inst, []int{1, 2}, nil)
	require.NoError(t, err)
	assert.True(t, sol.IsFeasible(inst))
}

func TestSolveRejectsWrongLength(t *testing.T) {
	inst := lineInstance(t)
	_, err := fixedorder.Solve(inst, []int{1}, nil)
	assert.Error(t, err)
}

func TestSolveRejectsRepeatedLocation(t *testing.T) {
	inst := lineInstance(t)
	_, err := fixedorder.Solve(inst, []int{1, 1}, nil)
	assert.Error(t, err)
}

func TestSolveRejectsDepotInOrder(t *testing.T) {
	inst := lineInstance(t)
	_, err := fixedorder.Solve(inst, []int{0, 1}, nil)
	assert.Error(t, err)
}

func TestSolveOnFiveLocationsCoversEveryLocationExactlyOnce(t *testing.T) {
	inst, err := instance.NewGeometric(
		[]string{"depot", "a", "b", "c", "d"},
		[]float64{0, 1, 2, 3, 4},
		[]float64{0, 0, 0, 0, 0},
		1.0, 1.5,
	)
	require.NoError(t, err)

	sol, err := fixedorder.Solve(inst, []int{1, 2, 3, 4}, nil)
	require.NoError(t, err)
	assert.True(t, sol.IsFeasible(inst))
	assert.True(t, sol.IsStrict(inst))
}

func TestSolveLogsDPStepsAndFinalCost(t *testing.T) {
	inst, err := instance.NewGeometric(
		[]string{"depot", "a", "b", "c", "d"},
		[]float64{0, 1, 2, 3, 4},
		[]float64{0, 0, 0, 0, 0},
		1.0, 1.5,
	)
	require.NoError(t, err)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	sol, err := fixedorder.Solve(inst, []int{1, 2, 3, 4}, logger)
	require.NoError(t, err)
	assert.True(t, sol.IsFeasible(inst))

	out := buf.String()
	assert.Contains(t, out, "fixed-order dp step")
	assert.Contains(t, out, "fixed-order dp finished")
}
