package murraychu_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windrose-labs/tspdrone/instance"
	"github.com/windrose-labs/tspdrone/murraychu"
)

func lineInstance(t *testing.T) instance.Instance {
	t.Helper()
	inst, err := instance.NewGeometric(
		[]string{"depot", "a", "b", "c"},
		[]float64{0, 1, 2, 3},
		[]float64{0, 0, 0, 0},
		1.0, 2.0,
	)
	require.NoError(t, err)
	return inst
}

func TestNewRejectsInvalidOrder(t *testing.T) {
	inst := lineInstance(t)
	_, err := murraychu.New(inst, []int{1, 1, 2}, nil)
	assert.Error(t, err)
}

func TestSolutionOnUnmodifiedListIsFeasible(t *testing.T) {
	inst := lineInstance(t)
	s, err := murraychu.New(inst, []int{1, 2, 3}, nil)
	require.NoError(t, err)

	sol, err := s.Solution()
	require.NoError(t, err)
	assert.True(t, sol.IsFeasible(inst))
}

func TestRunNeverIncreasesCost(t *testing.T) {
	inst := lineInstance(t)
	s, err := murraychu.New(inst, []int{1, 2, 3}, nil)
	require.NoError(t, err)

	before, err := s.Solution()
	require.NoError(t, err)
	beforeStats, err := before.Evaluate(inst)
	require.NoError(t, err)

	after, err := s.Run()
	require.NoError(t, err)
	assert.True(t, after.IsFeasible(inst))
	afterStats, err := after.Evaluate(inst)
	require.NoError(t, err)
	assert.LessOrEqual(t, afterStats.TotalCost, beforeStats.TotalCost+1e-9)
}

func TestRunLogsChosenMovesAndFinalCost(t *testing.T) {
	inst := lineInstance(t)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s, err := murraychu.New(inst, []int{1, 2, 3}, logger)
	require.NoError(t, err)

	_, err = s.Run()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "murray-chu local search finished")
}
