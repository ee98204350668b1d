// Package unionfind provides a disjoint-set forest over location indices.
// It is used exclusively to build the MST edge set that seeds the heuristic
// solvers' initial tour (see package mst); nothing else in the engine needs
// a general-purpose DSU.
package unionfind

// DisjointSet is a forest of disjoint sets over the fixed universe
// {0, ..., n-1}. Implicit unioning attaches the loser's root under the
// winner's root by rank; Find applies path compression on every lookup.
type DisjointSet struct {
	parent []int
	rank   []int
}

// New builds a DisjointSet over n singleton sets {0}, {1}, ..., {n-1}.
func New(n int) *DisjointSet {
	d := &DisjointSet{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	d.MakeSet()
	return d
}

// MakeSet resets every element back to its own singleton set.
func (d *DisjointSet) MakeSet() {
	for i := range d.parent {
		d.parent[i] = i
		d.rank[i] = 0
	}
}

// Find returns the representative (root) of x's set, compressing the path
// from x to the root as it walks up.
func (d *DisjointSet) Find(x int) int {
	for d.parent[x] != x {
		d.parent[x] = d.parent[d.parent[x]]
		x = d.parent[x]
	}
	return x
}

// SameSet reports whether x and y belong to the same set.
func (d *DisjointSet) SameSet(x, y int) bool {
	return d.Find(x) == d.Find(y)
}

// Union merges the sets containing x and y. It reports whether a merge
// actually happened (false if x and y were already in the same set).
// The smaller-rank root becomes a child of the larger-rank root; on a tie
// the root of x's set wins and its rank increments.
func (d *DisjointSet) Union(x, y int) bool {
	rx, ry := d.Find(x), d.Find(y)
	if rx == ry {
		return false
	}
	switch {
	case d.rank[rx] < d.rank[ry]:
		d.parent[rx] = ry
	case d.rank[rx] > d.rank[ry]:
		d.parent[ry] = rx
	default:
		d.parent[ry] = rx
		d.rank[rx]++
	}
	return true
}
