// Package mst builds a minimum spanning tree over an instance's drive
// distances and turns it into a truck-only seed tour: a doubled-MST walk
// that visits every location, used to seed heuristic solvers before local
// search improves it.
package mst

import (
	"sort"

	"github.com/windrose-labs/tspdrone/instance"
	"github.com/windrose-labs/tspdrone/unionfind"
)

// Edge is one candidate MST edge between two location indices.
type Edge struct {
	From, To int
	Weight   float64
}

// Build runs Kruskal's algorithm over every pairwise drive distance in
// inst and returns the n-1 edges of a minimum spanning tree, sorted by
// weight ascending in the order they were accepted.
func Build(inst instance.Instance) []Edge {
	n := inst.N()
	if n <= 1 {
		return nil
	}
	drive := inst.DriveDistance()

	candidates := make([]Edge, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			w := instance.ContextFree(drive, i, j, 0)
			candidates = append(candidates, Edge{From: i, To: j, Weight: w})
		}
	}
	sort.Slice(candidates, func(a, b int) bool { return candidates[a].Weight < candidates[b].Weight })

	dsu := unionfind.New(n)
	tree := make([]Edge, 0, n-1)
	for _, e := range candidates {
		if dsu.Union(e.From, e.To) {
			tree = append(tree, e)
			if len(tree) == n-1 {
				break
			}
		}
	}
	return tree
}

// SeedTour turns a spanning tree into a truck-only visiting order by a
// preorder DFS walk starting at the depot, doubling back over tree edges
// where the DFS must backtrack, then deduplicating repeated consecutive
// visits. The result always starts and ends at the depot.
func SeedTour(inst instance.Instance, tree []Edge) []int {
	adj := make(map[int][]int)
	for _, e := range tree {
		adj[e.From] = append(adj[e.From], e.To)
		adj[e.To] = append(adj[e.To], e.From)
	}

	visited := make([]bool, inst.N())
	var walk []int
	depot := inst.Depot()

	var dfs func(u int)
	dfs = func(u int) {
		visited[u] = true
		walk = append(walk, u)
		for _, v := range adj[u] {
			if !visited[v] {
				dfs(v)
				walk = append(walk, u)
			}
		}
	}
	dfs(depot)

	// Any location the tree didn't reach (disconnected instance) is
	// appended as its own direct-from-depot round trip.
	for i := 0; i < inst.N(); i++ {
		if !visited[i] {
			walk = append(walk, i, depot)
		}
	}

	out := make([]int, 0, len(walk))
	for i, loc := range walk {
		if i > 0 && out[len(out)-1] == loc {
			continue
		}
		out = append(out, loc)
	}
	if len(out) == 0 || out[len(out)-1] != depot {
		out = append(out, depot)
	}
	return out
}
