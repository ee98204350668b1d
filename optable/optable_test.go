package optable_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windrose-labs/tspdrone/instance"
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

func TestBuildProducesDepotEndingOperations(t *testing.T) {
	inst := lineInstance(t)
	table, err := optable.Build(context.Background(), inst, nil)
	require.NoError(t, err)

	depotEnding := table.GetOperations(0, 0)
	assert.NotEmpty(t, depotEnding, "must find at least one operation returning to the depot")
}

func TestEveryEntryCostMatchesReconstructedOperation(t *testing.T) {
	inst := lineInstance(t)
	table, err := optable.Build(context.Background(), inst, nil)
	require.NoError(t, err)

	for _, e := range table.All() {
		op := table.Reconstruct(e)
		_, _, cost := op.Evaluate(inst)
		assert.InDelta(t, e.Cost(), cost, 1e-8)
	}
}

func TestCardinalityConstraintBoundsTruckOnlyStops(t *testing.T) {
	inst := lineInstance(t)
	table, err := optable.Build(context.Background(), inst, nil, optable.WithMaxCardinality(0))
	require.NoError(t, err)

	for _, e := range table.All() {
		assert.LessOrEqual(t, e.TruckOnlyCount(), 0)
	}
}

func TestBuildRejectsOversizedInstance(t *testing.T) {
	n := 33
	names := make([]string, n)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range names {
		names[i] = "loc"
		xs[i] = float64(i)
	}
	inst, err := instance.NewGeometric(names, xs, ys, 1, 1)
	require.NoError(t, err)

	_, err = optable.Build(context.Background(), inst, nil)
	require.Error(t, err)
}

func TestBuildRespectsCancellation(t *testing.T) {
	inst := lineInstance(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := optable.Build(ctx, inst, nil)
	require.Error(t, err)
}

func TestBuildLogsEntryCountsPerPhase(t *testing.T) {
	inst := lineInstance(t)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := optable.Build(context.Background(), inst, logger)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "operation table phase 1 complete")
	assert.Contains(t, out, "operation table phase 2 complete")
}
