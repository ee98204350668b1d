package tspdio_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windrose-labs/tspdrone/instance"
	"github.com/windrose-labs/tspdrone/operation"
	"github.com/windrose-labs/tspdrone/tspdio"
)

func TestGeometricInstanceRoundTrips(t *testing.T) {
	inst, err := instance.NewGeometric(
		[]string{"depot", "a b", "c*d"},
		[]float64{0, 1, 2},
		[]float64{0, 3, 4},
		1.0, 2.0,
	)
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, tspdio.WriteGeometricInstance(&buf, inst, 1.0, 2.0))

	parsed, err := tspdio.ReadGeometricInstance(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, inst.N(), parsed.N())
	for i := 0; i < inst.N(); i++ {
		assert.Equal(t, inst.Location(i).X, parsed.Location(i).X)
		assert.Equal(t, inst.Location(i).Y, parsed.Location(i).Y)
	}
	// Names containing spaces/asterisks are rewritten with underscores.
	assert.Equal(t, "a_b", parsed.Location(1).Name)
	assert.Equal(t, "c_d", parsed.Location(2).Name)
}

func TestMatrixInstanceRoundTrips(t *testing.T) {
	inst, err := instance.NewMatrix(
		[]string{"depot", "a", "b"},
		[][]float64{{0, 1, 2}, {1, 0, 3}, {2, 3, 0}},
		[][]float64{{0, 0.5, 1}, {0.5, 0, 1.5}, {1, 1.5, 0}},
	)
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, tspdio.WriteMatrixInstance(&buf, inst))

	parsed, err := tspdio.ReadMatrixInstance(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, inst.N(), parsed.N())
	for i := 0; i < inst.N(); i++ {
		for j := 0; j < inst.N(); j++ {
			assert.Equal(t,
				instance.ContextFree(inst.DriveDistance(), i, j, 0),
				instance.ContextFree(parsed.DriveDistance(), i, j, 0))
		}
	}
}

func TestGraphInstanceCompletesMissingPairs(t *testing.T) {
	var buf strings.Builder
	buf.WriteString("3\ntrue\n0 1 1 2\n1 2 1 2\n")

	inst, err := tspdio.ReadGraphInstance(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, 2.0, instance.ContextFree(inst.DriveDistance(), 0, 2, 0))
}

func TestParseOverlayExtractsDirectives(t *testing.T) {
	input := "#MAXFLY 12.5\n#FORBID 3\n#NOVISIT 4\n1\n2\n3\n"
	ov, rest, err := tspdio.ParseOverlay(input)
	require.NoError(t, err)
	assert.True(t, ov.HasMaxFly)
	assert.Equal(t, 12.5, ov.MaxFly)
	assert.Equal(t, []int{3}, ov.Forbidden)
	assert.Equal(t, []int{4}, ov.NoVisit)
	assert.Contains(t, rest, "1")
}

func TestParseOverlayWithoutDirectivesLeavesInputUntouched(t *testing.T) {
	input := "1\n2\n3\n"
	ov, rest, err := tspdio.ParseOverlay(input)
	require.NoError(t, err)
	assert.False(t, ov.HasMaxFly)
	assert.Empty(t, ov.Forbidden)
	assert.Contains(t, rest, "1")
}

func TestOverlayApplyUnboundedWithoutMaxFly(t *testing.T) {
	base, err := instance.NewGeometric(
		[]string{"depot", "a"}, []float64{0, 10}, []float64{0, 0}, 1.0, 1.0,
	)
	require.NoError(t, err)
	ov := tspdio.Overlay{}
	restricted := ov.Apply(base)
	assert.True(t, math.IsInf(restricted.MaxFly(), 1))
}

func TestSolutionRoundTrips(t *testing.T) {
	inst, err := instance.NewGeometric(
		[]string{"depot", "a", "b"},
		[]float64{0, 1, 2},
		[]float64{0, 0, 0},
		1.0, 1.0,
	)
	require.NoError(t, err)

	fly := 2
	sol := operation.Solution{Ops: []operation.Operation{
		{Start: 0, End: 0, Fly: &fly},
	}}

	var buf strings.Builder
	require.NoError(t, tspdio.WriteSolution(&buf, sol, inst))

	ops, err := tspdio.ReadSolution(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, 0, ops[0].Start)
	assert.Equal(t, 0, ops[0].End)
	require.NotNil(t, ops[0].Fly)
	assert.Equal(t, 2, *ops[0].Fly)
}
