package operation

import (
	"github.com/windrose-labs/tspdrone/bitset"
	"github.com/windrose-labs/tspdrone/instance"
)

// Simplify drops redundant revisits from s, walking operations in order
// and tracking which locations have already been covered.
//
// For each operation, interior DrivePath duplicates are deleted while the
// first and last position of the truck path (Start and End) stay pinned
// even when already covered — they are the chain's connective tissue, not
// discretionary visits. If the operation still carries a fly node that is
// not itself a duplicate, it is kept as one combined truck+drone
// operation. Otherwise — no fly node, or the fly node duplicates an
// already-covered location — the drone leg no longer ties the truck path
// together into one unit, so the remaining path is split into one atomic
// truck-only operation per adjacent pair of stops.
func Simplify(s Solution, inst instance.Instance) Solution {
	covered := bitset.Singleton(inst.Depot())
	out := make([]Operation, 0, len(s.Ops))

	for _, op := range s.Ops {
		newDrive := make([]int, 0, len(op.DrivePath))
		for _, idx := range op.DrivePath {
			if bitset.Contains(covered, idx) {
				continue
			}
			newDrive = append(newDrive, idx)
			covered = bitset.Add(covered, idx)
		}
		covered = bitset.Add(covered, op.Start)
		covered = bitset.Add(covered, op.End)

		fly := op.Fly
		if fly != nil && bitset.Contains(covered, *fly) {
			fly = nil
		}

		if fly != nil {
			covered = bitset.Add(covered, *fly)
			out = append(out, Operation{
				Start:     op.Start,
				DrivePath: newDrive,
				End:       op.End,
				Fly:       fly,
			})
			continue
		}

		path := make([]int, 0, len(newDrive)+2)
		path = append(path, op.Start)
		path = append(path, newDrive...)
		path = append(path, op.End)
		for i := 0; i+1 < len(path); i++ {
			out = append(out, Operation{Start: path[i], End: path[i+1]})
		}
	}

	return Solution{Ops: out}
}
