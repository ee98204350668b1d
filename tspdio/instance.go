package tspdio

import (
	"fmt"
	"io"

	"github.com/windrose-labs/tspdrone/instance"
	"github.com/windrose-labs/tspdrone/tsperr"
)

// WriteGeometricInstance writes inst in the geometric wire format: drive
// speed, fly speed, node count, then depot and every customer as
// "x y name". driveSpeed/flySpeed are written verbatim; callers that built
// inst through instance.NewGeometric already know these scalars, since the
// Instance interface itself only exposes the resulting Distance, not the
// speed it was scaled by.
func WriteGeometricInstance(w io.Writer, inst instance.Instance, driveSpeed, flySpeed float64) error {
	if _, err := fmt.Fprintf(w, "/*The speed of the Truck*/\n%g\n", driveSpeed); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "/*The speed of the Drone*/\n%g\n", flySpeed); err != nil {
		return err
	}
	n := inst.N()
	if _, err := fmt.Fprintf(w, "/*Number of Nodes*/\n%d\n", n); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "/*The Locations (x_coor y_coor name), depot first*/"); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		loc := inst.Location(i)
		if _, err := fmt.Fprintf(w, "%g %g %s\n", loc.X, loc.Y, transformIdentifier(loc.Name)); err != nil {
			return err
		}
	}
	return nil
}

// ReadGeometricInstance parses the geometric wire format written by
// WriteGeometricInstance.
func ReadGeometricInstance(r io.Reader) (*instance.BaseInstance, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	sc := newScanner(string(data))

	driveSpeed, err := sc.nextFloat()
	if err != nil {
		return nil, err
	}
	flySpeed, err := sc.nextFloat()
	if err != nil {
		return nil, err
	}
	n, err := sc.nextInt()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, tsperr.New(tsperr.InvalidInput, "geometric instance: node count must be positive")
	}

	names := make([]string, n)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		x, err := sc.nextFloat()
		if err != nil {
			return nil, err
		}
		y, err := sc.nextFloat()
		if err != nil {
			return nil, err
		}
		name, err := sc.next()
		if err != nil {
			return nil, err
		}
		xs[i], ys[i], names[i] = x, y, name
	}
	return instance.NewGeometric(names, xs, ys, driveSpeed, flySpeed)
}

// WriteMatrixInstance writes inst as a dense drive/fly matrix pair,
// recovering the matrices by evaluating the context-free distance for
// every ordered pair: the matrix wire format has no action context, so
// this is exact for any Instance whose Distance ignores Action (geometric,
// graph, and matrix instances all do).
func WriteMatrixInstance(w io.Writer, inst instance.Instance) error {
	n := inst.N()
	if _, err := fmt.Fprintf(w, "/* Number of Locations including the Depot */\n%d\n", n); err != nil {
		return err
	}
	if err := writeMatrixBody(w, "/* The distance matrix for driving */", inst, inst.DriveDistance()); err != nil {
		return err
	}
	return writeMatrixBody(w, "/* The distance matrix for flying */", inst, inst.FlyDistance())
}

func writeMatrixBody(w io.Writer, header string, inst instance.Instance, d instance.Distance) error {
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	n := inst.N()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sep := " "
			if j == n-1 {
				sep = "\n"
			}
			if _, err := fmt.Fprintf(w, "%g%s", instance.ContextFree(d, i, j, 0), sep); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadMatrixInstance parses the dense matrix wire format written by
// WriteMatrixInstance. Locations are unnamed (loc1, loc2, ...).
func ReadMatrixInstance(r io.Reader) (*instance.BaseInstance, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	sc := newScanner(string(data))

	n, err := sc.nextInt()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, tsperr.New(tsperr.InvalidInput, "matrix instance: node count must be positive")
	}
	drive, err := readMatrixBody(sc, n)
	if err != nil {
		return nil, err
	}
	fly, err := readMatrixBody(sc, n)
	if err != nil {
		return nil, err
	}
	return instance.NewMatrix(locationNames(n), drive, fly)
}

func readMatrixBody(sc *scanner, n int) ([][]float64, error) {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			v, err := sc.nextFloat()
			if err != nil {
				return nil, err
			}
			m[i][j] = v
		}
	}
	return m, nil
}

func locationNames(n int) []string {
	names := make([]string, n)
	names[0] = "depot"
	for i := 1; i < n; i++ {
		names[i] = fmt.Sprintf("loc%d", i)
	}
	return names
}

// WriteGraphInstance writes inst as a complete directed edge list: every
// ordered pair of distinct locations, with its drive and fly distance.
// Always written directional (bidirectional=false), since the underlying
// Instance is already a dense, possibly asymmetric matrix by the time it
// reaches this writer.
func WriteGraphInstance(w io.Writer, inst instance.Instance) error {
	n := inst.N()
	if _, err := fmt.Fprintf(w, "/*Number of Locations including Depot*/\n%d\n", n); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "/*Is this a bidirectional instance?*/\nfalse"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "/*Edges (from to drive_distance fly_distance)*/"); err != nil {
		return err
	}
	drive, fly := inst.DriveDistance(), inst.FlyDistance()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			d := instance.ContextFree(drive, i, j, 0)
			f := instance.ContextFree(fly, i, j, 0)
			if _, err := fmt.Fprintf(w, "%d %d %g %g\n", i, j, d, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadGraphInstance parses the graph wire format: a node count, a
// bidirectional flag, then an edge list read until input is exhausted.
// Missing pairs default to infinite distance and are completed by
// all-pairs shortest path inside instance.NewGraph.
func ReadGraphInstance(r io.Reader) (*instance.BaseInstance, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	sc := newScanner(string(data))

	n, err := sc.nextInt()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, tsperr.New(tsperr.InvalidInput, "graph instance: node count must be positive")
	}
	bidirectional, err := sc.nextBool()
	if err != nil {
		return nil, err
	}
	var edges []instance.GraphEdge
	for sc.hasNext() {
		from, err := sc.nextInt()
		if err != nil {
			return nil, err
		}
		to, err := sc.nextInt()
		if err != nil {
			return nil, err
		}
		drive, err := sc.nextFloat()
		if err != nil {
			return nil, err
		}
		fly, err := sc.nextFloat()
		if err != nil {
			return nil, err
		}
		edges = append(edges, instance.GraphEdge{From: from, To: to, Drive: drive, Fly: fly})
	}
	return instance.NewGraph(locationNames(n), bidirectional, edges)
}
