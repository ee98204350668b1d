package instance

import (
	"math"

	"github.com/windrose-labs/tspdrone/tsperr"
)

// matrixDistance is a dense n x n row-major lookup, ignoring action
// context: the wire formats that produce it (matrix, graph) already bake
// direction into the two independent drive/fly matrices.
type matrixDistance struct {
	m [][]float64
}

func (md matrixDistance) Distance(from, to int, _, _ Action, _ float64) float64 {
	return md.m[from][to]
}

func validateSquare(m [][]float64, n int, label string) error {
	if len(m) != n {
		return tsperr.New(tsperr.InvalidInput, label+": row count does not match n")
	}
	for _, row := range m {
		if len(row) != n {
			return tsperr.New(tsperr.InvalidInput, label+": ragged matrix, expected n columns")
		}
	}
	return nil
}

// NewMatrix builds an Instance directly from dense drive/fly matrices, with
// names[0] the depot.
func NewMatrix(names []string, drive, fly [][]float64) (*BaseInstance, error) {
	n := len(names)
	if err := validateSquare(drive, n, "drive matrix"); err != nil {
		return nil, err
	}
	if err := validateSquare(fly, n, "fly matrix"); err != nil {
		return nil, err
	}
	locs := make([]Location, n)
	for i, name := range names {
		locs[i] = Location{Name: name}
	}
	return newBaseInstance(locs, matrixDistance{m: drive}, matrixDistance{m: fly})
}

// GraphEdge is one directed (or, when the graph is bidirectional, one
// undirected) edge of a graph-format instance.
type GraphEdge struct {
	From, To    int
	Drive, Fly  float64
}

// NewGraph builds an Instance from a sparse edge list, completing every
// missing pair by all-pairs shortest path (Floyd-Warshall) before use, as
// required by the graph wire format (see tspdio).
func NewGraph(names []string, bidirectional bool, edges []GraphEdge) (*BaseInstance, error) {
	n := len(names)
	drive := newInfMatrix(n)
	fly := newInfMatrix(n)
	for _, e := range edges {
		if e.From < 0 || e.From >= n || e.To < 0 || e.To >= n {
			return nil, tsperr.New(tsperr.InvalidInput, "graph instance: edge index out of range")
		}
		setIfShorter(drive, e.From, e.To, e.Drive)
		setIfShorter(fly, e.From, e.To, e.Fly)
		if bidirectional {
			setIfShorter(drive, e.To, e.From, e.Drive)
			setIfShorter(fly, e.To, e.From, e.Fly)
		}
	}
	floydWarshall(drive)
	floydWarshall(fly)
	return NewMatrix(names, drive, fly)
}

func newInfMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			if i == j {
				m[i][j] = 0
			} else {
				m[i][j] = math.Inf(1)
			}
		}
	}
	return m
}

func setIfShorter(m [][]float64, from, to int, w float64) {
	if w < m[from][to] {
		m[from][to] = w
	}
}

// floydWarshall completes m in place with all-pairs shortest paths. Missing
// pairs (still +Inf after the triple loop) mean the graph is not strongly
// connected under that distance; callers that require completeness should
// check for remaining +Inf entries.
func floydWarshall(m [][]float64) {
	n := len(m)
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if math.IsInf(m[i][k], 1) {
				continue
			}
			for j := 0; j < n; j++ {
				alt := m[i][k] + m[k][j]
				if alt < m[i][j] {
					m[i][j] = alt
				}
			}
		}
	}
}
