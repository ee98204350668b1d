package tspdio

import (
	"fmt"
	"io"

	"github.com/windrose-labs/tspdrone/instance"
	"github.com/windrose-labs/tspdrone/operation"
	"github.com/windrose-labs/tspdrone/tsperr"
)

// WriteSolution writes sol in the solution wire format: a leading
// operation count, one record per operation (start, end, fly index or -1,
// internal count, internal indices), and a trailing informational comment
// with the total cost. Per-operation and total costs are computed
// directly against inst rather than through Solution.Evaluate, since an
// infeasible solution should still serialize (the comment is informational
// only, never a correctness gate).
func WriteSolution(w io.Writer, sol operation.Solution, inst instance.Instance) error {
	if _, err := fmt.Fprintf(w, "/* Number of Operations */\n%d\n", len(sol.Ops)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "/* List of Operations. */\n/* Start\tEnd\tFly\t#Internal\tLocations...*/"); err != nil {
		return err
	}
	total := 0.0
	for _, op := range sol.Ops {
		flyIdx := -1
		if op.Fly != nil {
			flyIdx = *op.Fly
		}
		if _, err := fmt.Fprintf(w, "%d\t%d\t%d\t%d", op.Start, op.End, flyIdx, len(op.DrivePath)); err != nil {
			return err
		}
		for _, idx := range op.DrivePath {
			if _, err := fmt.Fprintf(w, "\t%d", idx); err != nil {
				return err
			}
		}
		_, _, cost := op.Evaluate(inst)
		total += cost
		if _, err := fmt.Fprintf(w, "\t/* Operation cost : %g */\n", cost); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "/* Total cost : %g */\n", total)
	return err
}

// ReadSolution parses the solution wire format written by WriteSolution,
// returning the bare operation list (callers wrap it as
// operation.Solution{Ops: ops} once they decide whether to validate it
// against a particular instance).
func ReadSolution(r io.Reader) ([]operation.Operation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	sc := newScanner(string(data))

	count, err := sc.nextInt()
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, tsperr.New(tsperr.InvalidInput, "solution: operation count must be non-negative")
	}
	ops := make([]operation.Operation, 0, count)
	for t := 0; t < count; t++ {
		start, err := sc.nextInt()
		if err != nil {
			return nil, err
		}
		end, err := sc.nextInt()
		if err != nil {
			return nil, err
		}
		flyIdx, err := sc.nextInt()
		if err != nil {
			return nil, err
		}
		internalCount, err := sc.nextInt()
		if err != nil {
			return nil, err
		}
		if internalCount < 0 {
			return nil, tsperr.New(tsperr.InvalidInput, "solution: internal count must be non-negative")
		}
		internal := make([]int, internalCount)
		for k := 0; k < internalCount; k++ {
			idx, err := sc.nextInt()
			if err != nil {
				return nil, err
			}
			internal[k] = idx
		}
		op := operation.Operation{Start: start, End: end, DrivePath: internal}
		if flyIdx != -1 {
			fly := flyIdx
			op.Fly = &fly
		}
		ops = append(ops, op)
	}
	return ops, nil
}
