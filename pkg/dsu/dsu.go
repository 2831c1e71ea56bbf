// Package dsu is a disjoint-set forest over dense integer ids with path
// compression and union by size.
package dsu

type DSU struct {
	parent []int
	size   []int
	sets   int
}

// New returns n singleton sets 0..n-1.
func New(n int) *DSU {
	d := &DSU{
		parent: make([]int, n),
		size:   make([]int, n),
		sets:   n,
	}
	for i := range d.parent {
		d.parent[i] = i
		d.size[i] = 1
	}
	return d
}

func (d *DSU) Len() int { return len(d.parent) }

// Find returns the representative of x. It panics when x is out of range.
func (d *DSU) Find(x int) int {
	root := x
	for d.parent[root] != root {
		root = d.parent[root]
	}
	for d.parent[x] != root {
		d.parent[x], x = root, d.parent[x]
	}
	return root
}

// Union merges the sets of a and b and reports whether they were distinct.
func (d *DSU) Union(a, b int) bool {
	ra, rb := d.Find(a), d.Find(b)
	if ra == rb {
		return false
	}
	if d.size[ra] < d.size[rb] {
		ra, rb = rb, ra
	}
	d.parent[rb] = ra
	d.size[ra] += d.size[rb]
	d.sets--
	return true
}

func (d *DSU) Same(a, b int) bool { return d.Find(a) == d.Find(b) }

// Sets is the number of disjoint sets.
func (d *DSU) Sets() int { return d.sets }
