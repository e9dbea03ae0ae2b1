package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"archlens/internal/capsule"
	"archlens/internal/graphbuild"
)

// Mermaid renders the dependency graph as a "graph TD" diagram. Edges that
// participate in a cycle get a red "linkStyle <index>" line each so a
// reader can spot them without re-running the cycle validator.
func Mermaid(g *capsule.CapsuleGraph, req Request) Output {
	var b strings.Builder
	b.WriteString("graph TD\n")

	ids := make([]uuid.UUID, 0, len(g.Capsules))
	for id := range g.Capsules {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return g.Capsules[ids[i]].Name < g.Capsules[ids[j]].Name
	})
	for _, id := range ids {
		c := g.Capsules[id]
		fmt.Fprintf(&b, "  %s[\"%s\"]\n", nodeID(id), escapeLabel(c.Name))
	}

	cycleEdge := cycleEdgeSet(g)

	type edge struct {
		from, to uuid.UUID
		inCycle  bool
	}
	edges := make([]edge, 0, len(g.Relations))
	seen := make(map[[2]uuid.UUID]bool)
	for _, r := range g.Relations {
		key := [2]uuid.UUID{r.FromID, r.ToID}
		if seen[key] {
			continue
		}
		seen[key] = true
		edges = append(edges, edge{from: r.FromID, to: r.ToID, inCycle: cycleEdge[key]})
	}
	sort.Slice(edges, func(i, j int) bool {
		ni, nj := g.Capsules[edges[i].from], g.Capsules[edges[j].from]
		if ni == nil || nj == nil {
			return edges[i].from.String() < edges[j].from.String()
		}
		if ni.Name != nj.Name {
			return ni.Name < nj.Name
		}
		ti, tj := g.Capsules[edges[i].to], g.Capsules[edges[j].to]
		if ti == nil || tj == nil {
			return edges[i].to.String() < edges[j].to.String()
		}
		return ti.Name < tj.Name
	})

	var cycleIndices []int
	for i, e := range edges {
		fmt.Fprintf(&b, "  %s --> %s\n", nodeID(e.from), nodeID(e.to))
		if e.inCycle {
			cycleIndices = append(cycleIndices, i)
		}
	}
	for _, i := range cycleIndices {
		fmt.Fprintf(&b, "  linkStyle %d stroke:#e05252,stroke-width:2px\n", i)
	}

	text := Clamp(b.String(), req.maxChars())
	return Output{Text: text, ETag: ETag(text)}
}

func cycleEdgeSet(g *capsule.CapsuleGraph) map[[2]uuid.UUID]bool {
	ids, adjacency := graphbuild.DependencyAdjacency(g)
	sccs := graphbuild.SCC(ids, adjacency)

	inSameSCC := make(map[uuid.UUID]int)
	for idx, comp := range sccs {
		if len(comp) < 2 {
			continue
		}
		for _, id := range comp {
			inSameSCC[id] = idx
		}
	}

	set := make(map[[2]uuid.UUID]bool)
	for from, tos := range adjacency {
		comp, ok := inSameSCC[from]
		if !ok {
			continue
		}
		for _, to := range tos {
			if c, ok := inSameSCC[to]; ok && c == comp {
				set[[2]uuid.UUID{from, to}] = true
			}
		}
	}
	return set
}

func nodeID(id uuid.UUID) string {
	return "n" + strings.ReplaceAll(id.String(), "-", "")
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	return s
}
