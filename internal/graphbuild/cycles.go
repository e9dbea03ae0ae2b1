package graphbuild

import (
	"sort"

	"github.com/google/uuid"

	"archlens/internal/capsule"
)

// CyclePaths returns, for every SCC of size >= 2 in the dependency
// subgraph, the cycle path (by capsule name) rotated to start at the
// lexicographically smallest name — shared by the cycle validator and the
// exporter's cycles_top projection so both agree on path shape.
func CyclePaths(g *capsule.CapsuleGraph) [][]string {
	ids, adjacency := DependencyAdjacency(g)
	sccs := SCC(ids, adjacency)

	var paths [][]string
	for _, comp := range sccs {
		if len(comp) < 2 {
			continue
		}
		paths = append(paths, rotatedCyclePath(g, comp, adjacency))
	}
	return paths
}

func rotatedCyclePath(g *capsule.CapsuleGraph, comp []uuid.UUID, adjacency map[uuid.UUID][]uuid.UUID) []string {
	inComp := make(map[uuid.UUID]bool, len(comp))
	for _, id := range comp {
		inComp[id] = true
	}
	sort.Slice(comp, func(i, j int) bool {
		return nameOf(g, comp[i]) < nameOf(g, comp[j])
	})
	start := comp[0]

	order := []uuid.UUID{start}
	visited := map[uuid.UUID]bool{start: true}
	cur := start
	for len(order) < len(comp) {
		next := uuid.Nil
		for _, cand := range adjacency[cur] {
			if inComp[cand] && !visited[cand] {
				next = cand
				break
			}
		}
		if next == uuid.Nil {
			break
		}
		order = append(order, next)
		visited[next] = true
		cur = next
	}
	order = append(order, start)

	names := make([]string, len(order))
	for i, id := range order {
		names[i] = nameOf(g, id)
	}
	return names
}

func nameOf(g *capsule.CapsuleGraph, id uuid.UUID) string {
	if c := g.Get(id); c != nil {
		return c.Name
	}
	return id.String()
}
