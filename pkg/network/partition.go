package network

// Partition assigns every vertex of a graph, indexed by handle, to the "in"
// (true) or "out" (false) side of a candidate community.
//
// A partition is a total function over the vertex set: its length must equal
// the number of vertices of the graph it is used with. Partitions are
// disposable values; building one never touches the graph.
type Partition []bool

// FromMembers returns a partition of n vertices with exactly the given
// handles on the "in" side. Handles outside [0, n) are ignored.
func FromMembers(n int, members []Handle) Partition {
	p := make(Partition, n)
	for _, h := range members {
		if h >= 0 && int(h) < n {
			p[h] = true
		}
	}
	return p
}

// Size returns the number of vertices on the "in" side.
func (p Partition) Size() int {
	n := 0
	for _, in := range p {
		if in {
			n++
		}
	}
	return n
}

// Members returns the handles on the "in" side in ascending order.
func (p Partition) Members() []Handle {
	var out []Handle
	for i, in := range p {
		if in {
			out = append(out, Handle(i))
		}
	}
	return out
}

// Complement returns a new partition with both sides swapped.
func (p Partition) Complement() Partition {
	out := make(Partition, len(p))
	for i, in := range p {
		out[i] = !in
	}
	return out
}

// Groups converts p into integer group labels (1 = in, 0 = out).
func (p Partition) Groups() []int {
	out := make([]int, len(p))
	for i, in := range p {
		if in {
			out[i] = 1
		}
	}
	return out
}
