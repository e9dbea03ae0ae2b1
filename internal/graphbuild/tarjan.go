package graphbuild

import "github.com/google/uuid"

// SCC computes strongly connected components of the directed graph
// described by adjacency (capsule id -> ids it depends on), using Tarjan's
// algorithm. Each returned component is in discovery order; singleton
// components (no self-loop) are included like every other component.
func SCC(ids []uuid.UUID, adjacency map[uuid.UUID][]uuid.UUID) [][]uuid.UUID {
	t := &tarjan{
		index:    make(map[uuid.UUID]int),
		lowlink:  make(map[uuid.UUID]int),
		onStack:  make(map[uuid.UUID]bool),
		adjacency: adjacency,
	}
	for _, id := range ids {
		if _, seen := t.index[id]; !seen {
			t.strongConnect(id)
		}
	}
	return t.components
}

type tarjan struct {
	counter    int
	index      map[uuid.UUID]int
	lowlink    map[uuid.UUID]int
	onStack    map[uuid.UUID]bool
	stack      []uuid.UUID
	adjacency  map[uuid.UUID][]uuid.UUID
	components [][]uuid.UUID
}

func (t *tarjan) strongConnect(v uuid.UUID) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.adjacency[v] {
		if _, seen := t.index[w]; !seen {
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var component []uuid.UUID
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			component = append(component, w)
			if w == v {
				break
			}
		}
		t.components = append(t.components, component)
	}
}
