package graphbuild

import (
	"github.com/google/uuid"

	"archlens/internal/capsule"
)

// RecomputeMetrics recomputes GraphMetrics from g's current capsules and
// relations, for callers (such as the optimizer pass) that mutate the
// relation set after Build.
func RecomputeMetrics(g *capsule.CapsuleGraph) capsule.GraphMetrics {
	return computeMetrics(g)
}

func computeMetrics(g *capsule.CapsuleGraph) capsule.GraphMetrics {
	n := len(g.Capsules)
	m := capsule.GraphMetrics{
		TotalCapsules:  n,
		TotalRelations: len(g.Relations),
	}
	if n == 0 {
		m.CohesionIndex = 1
		return m
	}

	outEdges := make(map[uuid.UUID]int)
	inEdges := make(map[uuid.UUID]int)
	crossLayer := 0
	totalComplexity := 0

	for id := range g.Capsules {
		outEdges[id] = 0
		inEdges[id] = 0
	}
	for _, r := range g.Relations {
		outEdges[r.FromID]++
		inEdges[r.ToID]++
		from := g.Get(r.FromID)
		to := g.Get(r.ToID)
		if from != nil && to != nil && from.Layer != "" && to.Layer != "" && from.Layer != to.Layer {
			crossLayer++
		}
	}

	for _, c := range g.Capsules {
		totalComplexity += c.Complexity
	}
	m.MeanComplexity = float64(totalComplexity) / float64(n)

	sumOut := 0
	for _, v := range outEdges {
		sumOut += v
	}
	meanOut := float64(sumOut) / float64(n)
	denom := n - 1
	if denom < 1 {
		denom = 1
	}
	m.CouplingIndex = clamp01(meanOut / float64(denom))

	if len(g.Relations) == 0 {
		m.CohesionIndex = 1
	} else {
		m.CohesionIndex = 1 - (float64(crossLayer) / float64(len(g.Relations)))
	}

	components := undirectedComponents(g)
	m.CyclomaticAggregate = totalComplexity - n + 2*components

	ids := make([]uuid.UUID, 0, n)
	adjacency := make(map[uuid.UUID][]uuid.UUID)
	for id := range g.Capsules {
		ids = append(ids, id)
	}
	for _, r := range g.Relations {
		adjacency[r.FromID] = append(adjacency[r.FromID], r.ToID)
	}
	sccs := SCC(ids, adjacency)
	m.DepthLevels = condensationDepth(sccs, adjacency)

	return m
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// undirectedComponents counts connected components of the graph treated as
// undirected, for the cyclomatic-aggregate formula.
func undirectedComponents(g *capsule.CapsuleGraph) int {
	adjacency := make(map[uuid.UUID][]uuid.UUID)
	for _, r := range g.Relations {
		adjacency[r.FromID] = append(adjacency[r.FromID], r.ToID)
		adjacency[r.ToID] = append(adjacency[r.ToID], r.FromID)
	}
	visited := make(map[uuid.UUID]bool)
	count := 0
	for id := range g.Capsules {
		if visited[id] {
			continue
		}
		count++
		stack := []uuid.UUID{id}
		visited[id] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, next := range adjacency[cur] {
				if !visited[next] {
					visited[next] = true
					stack = append(stack, next)
				}
			}
		}
	}
	return count
}

// condensationDepth builds the SCC condensation DAG and returns the length
// of its longest path (number of SCC nodes visited).
func condensationDepth(sccs [][]uuid.UUID, adjacency map[uuid.UUID][]uuid.UUID) int {
	if len(sccs) == 0 {
		return 0
	}
	sccOf := make(map[uuid.UUID]int)
	for i, comp := range sccs {
		for _, id := range comp {
			sccOf[id] = i
		}
	}
	condAdj := make(map[int]map[int]bool)
	for from, tos := range adjacency {
		fi := sccOf[from]
		for _, to := range tos {
			ti := sccOf[to]
			if fi == ti {
				continue
			}
			if condAdj[fi] == nil {
				condAdj[fi] = make(map[int]bool)
			}
			condAdj[fi][ti] = true
		}
	}

	memo := make(map[int]int)
	var longest func(n int) int
	longest = func(n int) int {
		if v, ok := memo[n]; ok {
			return v
		}
		best := 1
		for next := range condAdj[n] {
			if d := 1 + longest(next); d > best {
				best = d
			}
		}
		memo[n] = best
		return best
	}

	maxDepth := 0
	for i := range sccs {
		if d := longest(i); d > maxDepth {
			maxDepth = d
		}
	}
	return maxDepth
}
