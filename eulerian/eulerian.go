// Package eulerian assembles a multiset of operation arcs into a single
// tour: a directed-multigraph Eulerian walk built by Hierholzer's rule,
// with sub-walks spliced into the main walk wherever arcs remain
// unvisited.
package eulerian

import (
	"github.com/windrose-labs/tspdrone/operation"
	"github.com/windrose-labs/tspdrone/tsperr"
)

// Assemble builds a single closed tour from ops, a multiset of operations
// whose endpoint multidegrees balance (every location's out-degree equals
// its in-degree across ops). The walk starts and ends at start.
//
// Algorithm: build an adjacency map start-location -> remaining outgoing
// arcs; walk from start consuming one outgoing arc at a time until no arc
// remains at the current location (closing a sub-walk); while arcs remain
// globally, find a vertex already on some built sub-walk that still has
// outgoing arcs, walk a fresh sub-walk from there, and splice it into the
// walk that contains that vertex at the point it occurs. Repeat until
// every arc has been consumed.
func Assemble(ops []operation.Operation, start int) (operation.Solution, error) {
	remaining := 0
	outArcs := make(map[int][]operation.Operation)
	for _, op := range ops {
		outArcs[op.Start] = append(outArcs[op.Start], op)
		remaining++
	}

	walk, err := walkFrom(outArcs, start, &remaining)
	if err != nil {
		return operation.Solution{}, err
	}

	for remaining > 0 {
		spliceAt := -1
		for i, op := range walk {
			if len(outArcs[op.Start]) > 0 {
				spliceAt = i
				break
			}
		}
		if spliceAt == -1 && len(outArcs[start]) > 0 && len(walk) == 0 {
			spliceAt = 0
		}
		if spliceAt == -1 {
			return operation.Solution{}, tsperr.New(tsperr.IllFormedGraph,
				"arcs remain but no vertex on the current walk has an outgoing arc")
		}

		sub, err := walkFrom(outArcs, walk[spliceAt].Start, &remaining)
		if err != nil {
			return operation.Solution{}, err
		}

		spliced := make([]operation.Operation, 0, len(walk)+len(sub))
		spliced = append(spliced, walk[:spliceAt]...)
		spliced = append(spliced, sub...)
		spliced = append(spliced, walk[spliceAt:]...)
		walk = spliced
	}

	if len(walk) > 0 && walk[len(walk)-1].End != start {
		return operation.Solution{}, tsperr.New(tsperr.IllFormedGraph,
			"walk does not return to start: location degrees do not balance")
	}

	return operation.Solution{Ops: walk}, nil
}

// walkFrom consumes outgoing arcs starting at from until none remain at
// the current location, decrementing remaining for each arc consumed.
func walkFrom(outArcs map[int][]operation.Operation, from int, remaining *int) ([]operation.Operation, error) {
	var walk []operation.Operation
	cur := from
	for len(outArcs[cur]) > 0 {
		arcs := outArcs[cur]
		op := arcs[len(arcs)-1]
		outArcs[cur] = arcs[:len(arcs)-1]
		*remaining--
		walk = append(walk, op)
		cur = op.End
	}
	return walk, nil
}
