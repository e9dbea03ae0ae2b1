// Package graphbuild implements the Graph Builder: name-based resolution of
// intra-project references between capsules, layer inheritance, and the
// graph's baseline metrics.
package graphbuild

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"archlens/internal/capsule"
)

// Build resolves relations between capsules and computes GraphMetrics,
// returning a graph ready for the validator suite.
func Build(capsules []*capsule.Capsule, priorFindings []capsule.Finding) *capsule.CapsuleGraph {
	g := capsule.NewGraph()
	for _, c := range capsules {
		g.AddCapsule(c)
	}
	g.Findings = append(g.Findings, priorFindings...)

	relations := resolveRelations(g)
	g.Relations = relations
	syncDependencies(g)
	inheritLayers(g)
	g.Metrics = computeMetrics(g)
	return g
}

// fileGroup holds one file's import capsules and non-import capsules separately.
type fileGroup struct {
	imports []*capsule.Capsule
	decls   []*capsule.Capsule
}

func resolveRelations(g *capsule.CapsuleGraph) []capsule.Relation {
	nameIndex := make(map[string][]*capsule.Capsule)
	files := make(map[string]*fileGroup)

	for _, c := range g.Capsules {
		if c.Name != "" {
			nameIndex[c.Name] = append(nameIndex[c.Name], c)
		}
		fg := files[c.Location.Path]
		if fg == nil {
			fg = &fileGroup{}
			files[c.Location.Path] = fg
		}
		if c.Kind == capsule.KindImport {
			fg.imports = append(fg.imports, c)
		} else if c.Metadata["enclosing"] == "" {
			fg.decls = append(fg.decls, c)
		}
	}

	seen := make(map[string]*capsule.Relation)
	var order []string

	addEdge := func(from, to uuid.UUID, kind capsule.RelationKind, strength float64) {
		key := from.String() + ":" + to.String() + ":" + string(kind)
		if existing, ok := seen[key]; ok {
			if strength > existing.Strength {
				existing.Strength = strength
			}
			return
		}
		rel := capsule.Relation{FromID: from, ToID: to, Kind: kind, Strength: strength}
		seen[key] = &rel
		order = append(order, key)
	}

	for _, fg := range files {
		if len(fg.imports) == 0 || len(fg.decls) == 0 {
			continue
		}
		strength := 1.0 / float64(len(fg.imports))
		for _, imp := range fg.imports {
			target := importTargetName(imp)
			candidates := nameIndex[target]
			if len(candidates) == 0 {
				continue
			}
			resolved := pickCandidate(candidates, fg.decls)
			if resolved == nil {
				continue
			}
			for _, decl := range fg.decls {
				if decl.ID == resolved.ID {
					continue
				}
				addEdge(decl.ID, resolved.ID, capsule.RelDepends, strength)
			}
		}
	}

	relations := make([]capsule.Relation, 0, len(order))
	for _, key := range order {
		relations = append(relations, *seen[key])
	}
	return relations
}

func importTargetName(imp *capsule.Capsule) string {
	raw := imp.Metadata["raw"]
	raw = strings.Trim(raw, `"`)
	raw = strings.TrimPrefix(raw, "import ")
	if raw == "" {
		raw = imp.Name
	}
	parts := strings.Split(raw, "/")
	last := parts[len(parts)-1]
	last = strings.TrimSuffix(last, ";")
	return last
}

// pickCandidate resolves ambiguous matches: in-layer candidates first, then
// the cross-layer candidate whose path has the shortest segment distance
// from any of the referencing file's declarations.
func pickCandidate(candidates []*capsule.Capsule, referencing []*capsule.Capsule) *capsule.Capsule {
	if len(candidates) == 1 {
		return candidates[0]
	}
	refLayer := ""
	refPath := ""
	if len(referencing) > 0 {
		refLayer = referencing[0].Layer
		refPath = referencing[0].Location.Path
	}
	for _, c := range candidates {
		if c.Layer != "" && c.Layer == refLayer {
			return c
		}
	}
	best := candidates[0]
	bestDist := segmentDistance(refPath, best.Location.Path)
	for _, c := range candidates[1:] {
		d := segmentDistance(refPath, c.Location.Path)
		if d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

func segmentDistance(a, b string) int {
	as := strings.Split(filepath.ToSlash(filepath.Dir(a)), "/")
	bs := strings.Split(filepath.ToSlash(filepath.Dir(b)), "/")
	i := 0
	for i < len(as) && i < len(bs) && as[i] == bs[i] {
		i++
	}
	return (len(as) - i) + (len(bs) - i)
}

func syncDependencies(g *capsule.CapsuleGraph) {
	for _, c := range g.Capsules {
		c.Dependencies = nil
	}
	for _, r := range g.Relations {
		switch r.Kind {
		case capsule.RelDepends, capsule.RelUses, capsule.RelCalls, capsule.RelReferences:
			if from := g.Get(r.FromID); from != nil {
				from.Dependencies = append(from.Dependencies, r.ToID)
			}
		}
	}
}

// inheritLayers assigns a layer to capsules lacking one when their resolved
// dependencies have a strict-plurality layer.
func inheritLayers(g *capsule.CapsuleGraph) {
	depLayers := make(map[uuid.UUID]map[string]int)
	for _, r := range g.Relations {
		to := g.Get(r.ToID)
		if to == nil || to.Layer == "" {
			continue
		}
		if depLayers[r.FromID] == nil {
			depLayers[r.FromID] = make(map[string]int)
		}
		depLayers[r.FromID][to.Layer]++
	}

	for id, c := range g.Capsules {
		if c.Layer != "" {
			continue
		}
		counts := depLayers[id]
		if len(counts) == 0 {
			continue
		}
		best, bestCount, tie := "", 0, false
		for layer, count := range counts {
			switch {
			case count > bestCount:
				best, bestCount, tie = layer, count, false
			case count == bestCount && layer != best:
				tie = true
			}
		}
		if !tie && best != "" {
			c.Layer = best
			g.Layers[best] = append(g.Layers[best], id)
		}
	}
}
