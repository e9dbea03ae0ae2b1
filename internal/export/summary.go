package export

import (
	"sort"

	"archlens/internal/capsule"
	"archlens/internal/graphbuild"
)

// LayerCount is one entry of summary.layers.
type LayerCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary mirrors the AI Summary JSON's top-level "summary" object.
type Summary struct {
	Components     int          `json:"components"`
	Relations      int          `json:"relations"`
	ComplexityAvg  float64      `json:"complexity_avg"`
	CouplingIndex  float64      `json:"coupling_index"`
	CohesionIndex  float64      `json:"cohesion_index"`
	Layers         []LayerCount `json:"layers"`
}

// ProblemGroup is one entry of problems_validated.
type ProblemGroup struct {
	Category      capsule.Category  `json:"category"`
	Count         int               `json:"count"`
	Severity      map[string]int    `json:"severity"`
	TopComponents []string          `json:"top_components"`
	Hint          string            `json:"hint"`
}

// CoupledComponent is one entry of top_coupling.
type CoupledComponent struct {
	Component string `json:"component"`
	Score     int    `json:"score"`
}

// ComplexComponent is one entry of top_complexity_components.
type ComplexComponent struct {
	Component  string `json:"component"`
	Complexity int    `json:"complexity"`
}

// CyclePath is one entry of cycles_top.
type CyclePath struct {
	Path []string `json:"path"`
}

func buildSummary(g *capsule.CapsuleGraph) Summary {
	names := make([]string, 0, len(g.Layers))
	for name := range g.Layers {
		names = append(names, name)
	}
	sort.Strings(names)

	layers := make([]LayerCount, 0, len(names))
	for _, name := range names {
		layers = append(layers, LayerCount{Name: name, Count: len(g.Layers[name])})
	}

	return Summary{
		Components:    g.Metrics.TotalCapsules,
		Relations:     g.Metrics.TotalRelations,
		ComplexityAvg: g.Metrics.MeanComplexity,
		CouplingIndex: g.Metrics.CouplingIndex,
		CohesionIndex: g.Metrics.CohesionIndex,
		Layers:        layers,
	}
}

var categoryOrder = []capsule.Category{
	capsule.CategoryCycle, capsule.CategoryCoupling, capsule.CategoryCohesion,
	capsule.CategoryComplexity, capsule.CategoryLayer, capsule.CategoryNaming,
	capsule.CategoryPattern, capsule.CategorySolid,
}

var categoryHints = map[capsule.Category]string{
	capsule.CategoryCycle:      "break the cycle by introducing an abstraction or inverting a dependency",
	capsule.CategoryCoupling:   "reduce fan-in/fan-out by splitting responsibilities",
	capsule.CategoryCohesion:   "move misplaced capsules into the layer they actually belong to",
	capsule.CategoryComplexity: "extract smaller functions or simplify control flow",
	capsule.CategoryLayer:      "redistribute capsules so no single layer dominates",
	capsule.CategoryNaming:     "rename to match the kind's convention",
	capsule.CategoryPattern:    "informational: no action required",
	capsule.CategorySolid:      "introduce an interface or split the responsibility",
}

func buildProblemsValidated(g *capsule.CapsuleGraph) []ProblemGroup {
	byCategory := make(map[capsule.Category][]capsule.Finding)
	for _, f := range g.Findings {
		byCategory[f.Category] = append(byCategory[f.Category], f)
	}

	var groups []ProblemGroup
	for _, cat := range categoryOrder {
		findings := byCategory[cat]
		if len(findings) == 0 {
			continue
		}
		sev := map[string]int{"H": 0, "M": 0, "L": 0}
		var top []string
		for _, f := range findings {
			sev[string(f.Severity)]++
			if f.HasTarget {
				if c := g.Get(f.TargetCapsuleID); c != nil {
					top = append(top, c.Name)
				}
			}
		}
		sort.Strings(top)
		if len(top) > 5 {
			top = top[:5]
		}
		groups = append(groups, ProblemGroup{
			Category:      cat,
			Count:         len(findings),
			Severity:      sev,
			TopComponents: top,
			Hint:          categoryHints[cat],
		})
	}
	return groups
}

func buildCyclesTop(g *capsule.CapsuleGraph, topN int) []CyclePath {
	paths := graphbuild.CyclePaths(g)
	sort.Slice(paths, func(i, j int) bool {
		if len(paths[i]) != len(paths[j]) {
			return len(paths[i]) > len(paths[j])
		}
		return joinPath(paths[i]) < joinPath(paths[j])
	})
	if len(paths) > topN {
		paths = paths[:topN]
	}
	out := make([]CyclePath, len(paths))
	for i, p := range paths {
		out[i] = CyclePath{Path: p}
	}
	return out
}

func joinPath(p []string) string {
	s := ""
	for i, part := range p {
		if i > 0 {
			s += ">"
		}
		s += part
	}
	return s
}

func buildTopCoupling(g *capsule.CapsuleGraph, topN int) []CoupledComponent {
	fanIn := make(map[string]int)
	fanOut := make(map[string]int)
	for _, r := range g.Relations {
		if from := g.Get(r.FromID); from != nil {
			fanOut[from.Name]++
		}
		if to := g.Get(r.ToID); to != nil {
			fanIn[to.Name]++
		}
	}
	scores := make(map[string]int)
	for name, v := range fanIn {
		scores[name] += v
	}
	for name, v := range fanOut {
		scores[name] += v
	}

	var names []string
	for name := range scores {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if scores[names[i]] != scores[names[j]] {
			return scores[names[i]] > scores[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > topN {
		names = names[:topN]
	}
	out := make([]CoupledComponent, len(names))
	for i, n := range names {
		out[i] = CoupledComponent{Component: n, Score: scores[n]}
	}
	return out
}

func buildTopComplexity(g *capsule.CapsuleGraph, topN int) []ComplexComponent {
	var capsules []*capsule.Capsule
	for _, c := range g.Capsules {
		capsules = append(capsules, c)
	}
	sort.Slice(capsules, func(i, j int) bool {
		if capsules[i].Complexity != capsules[j].Complexity {
			return capsules[i].Complexity > capsules[j].Complexity
		}
		return capsules[i].Name < capsules[j].Name
	})
	if len(capsules) > topN {
		capsules = capsules[:topN]
	}
	out := make([]ComplexComponent, len(capsules))
	for i, c := range capsules {
		out[i] = ComplexComponent{Component: c.Name, Complexity: c.Complexity}
	}
	return out
}
