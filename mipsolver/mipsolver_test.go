package mipsolver_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windrose-labs/tspdrone/instance"
	"github.com/windrose-labs/tspdrone/mipsolver"
	"github.com/windrose-labs/tspdrone/optable"
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

func TestSolveFindsFeasibleTourCoveringEveryLocation(t *testing.T) {
	inst := lineInstance(t)
	table, err := optable.Build(context.Background(), inst, nil)
	require.NoError(t, err)

	result, err := mipsolver.Solve(context.Background(), table, inst, 0, nil)
	require.NoError(t, err)

	assert.True(t, result.Solution.CoversAll(inst))

	stats, err := result.Solution.Evaluate(inst)
	require.NoError(t, err)
	assert.InDelta(t, result.Cost, stats.TotalCost, 1e-6)
}

func TestSolveRejectsInstancesBeyondSubtourCap(t *testing.T) {
	n := 25
	names := make([]string, n)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range names {
		names[i] = "loc"
		xs[i] = float64(i)
	}
	inst, err := instance.NewGeometric(names, xs, ys, 1, 1)
	require.NoError(t, err)

	table, err := optable.Build(context.Background(), inst, nil)
	require.NoError(t, err)

	_, err = mipsolver.Solve(context.Background(), table, inst, 0, nil)
	require.Error(t, err)
}

func TestSolveLogsModelSizeAndFinalCost(t *testing.T) {
	inst := lineInstance(t)
	table, err := optable.Build(context.Background(), inst, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err = mipsolver.Solve(context.Background(), table, inst, 0, logger)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "mip model built from table entries")
	assert.Contains(t, out, "mip solve finished")
}
