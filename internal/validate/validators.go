package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"archlens/internal/capsule"
	"archlens/internal/graphbuild"
)

// Validator is a pure function over a graph producing findings. It never
// mutates the graph — the reconciliation step appends results in order.
type Validator func(*capsule.CapsuleGraph) []capsule.Finding

// Order is the fixed sequence validators run in. Each validator reads only
// the graph, not the findings of the validators before it; the order fixes
// the order in which RunAll concatenates their findings.
var Order = []struct {
	Name string
	Fn   Validator
}{
	{"cycles", Cycles},
	{"coupling", Coupling},
	{"cohesion", Cohesion},
	{"complexity", Complexity},
	{"layers", Layers},
	{"naming", Naming},
	{"patterns", Patterns},
	{"solid", Solid},
}

// RunAll runs every validator in Order and returns the concatenated
// findings. The set of findings is a function of the input graph only —
// running validators in a different order never changes which findings
// appear, only the order they'd be appended in.
func RunAll(g *capsule.CapsuleGraph) []capsule.Finding {
	var findings []capsule.Finding
	for _, v := range Order {
		findings = append(findings, v.Fn(g)...)
	}
	return findings
}

// Cycles runs Tarjan SCC over the dependency subgraph; every SCC of size
// >= 2 becomes a cycle finding, severity scaled by size, path rotated to
// start at the lexicographically smallest capsule name for stable output.
func Cycles(g *capsule.CapsuleGraph) []capsule.Finding {
	paths := graphbuild.CyclePaths(g)

	var findings []capsule.Finding
	for _, path := range paths {
		size := len(path) - 1
		severity := capsule.SeverityMedium
		if size >= 3 {
			severity = capsule.SeverityHigh
		}
		msg := strings.Join(path, " -> ")
		suffix := ""
		if size >= 5 {
			suffix = " [critical]"
		}
		findings = append(findings, capsule.Finding{
			Category: capsule.CategoryCycle,
			Severity: severity,
			Message:  fmt.Sprintf("dependency cycle: %s%s", msg, suffix),
		})
	}
	return findings
}

func nameOf(g *capsule.CapsuleGraph, id uuid.UUID) string {
	if c := g.Get(id); c != nil {
		return c.Name
	}
	return id.String()
}

// Coupling flags capsules in the top decile of fan_in+fan_out, escalating
// to High for the top percentile or for hub capsules whose fan-in alone
// reaches 20% of all capsules.
func Coupling(g *capsule.CapsuleGraph) []capsule.Finding {
	n := len(g.Capsules)
	if n == 0 {
		return nil
	}
	fanIn := make(map[uuid.UUID]int)
	fanOut := make(map[uuid.UUID]int)
	for _, r := range g.Relations {
		fanOut[r.FromID]++
		fanIn[r.ToID]++
	}

	type scored struct {
		id    uuid.UUID
		total int
	}
	var scores []scored
	for id := range g.Capsules {
		scores = append(scores, scored{id, fanIn[id] + fanOut[id]})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].total != scores[j].total {
			return scores[i].total > scores[j].total
		}
		return nameOf(g, scores[i].id) < nameOf(g, scores[j].id)
	})

	decileCount := (n + 9) / 10
	percentileCount := (n + 99) / 100

	var findings []capsule.Finding
	for i, s := range scores {
		if s.total == 0 || i >= decileCount {
			continue
		}
		severity := capsule.SeverityMedium
		if i < percentileCount {
			severity = capsule.SeverityHigh
		}
		if float64(fanIn[s.id]) >= 0.2*float64(n) {
			severity = capsule.SeverityHigh
		}
		findings = append(findings, capsule.Finding{
			Category:        capsule.CategoryCoupling,
			Severity:        severity,
			Message:         fmt.Sprintf("%s has high coupling (fan-in %d, fan-out %d)", nameOf(g, s.id), fanIn[s.id], fanOut[s.id]),
			TargetCapsuleID: s.id,
			HasTarget:       true,
		})
	}
	return findings
}

// Cohesion flags layers whose intra-layer edge ratio is below threshold.
func Cohesion(g *capsule.CapsuleGraph) []capsule.Finding {
	type counts struct{ intra, touching int }
	byLayer := make(map[string]*counts)

	for _, r := range g.Relations {
		from := g.Get(r.FromID)
		to := g.Get(r.ToID)
		if from == nil || to == nil || from.Layer == "" {
			continue
		}
		c := byLayer[from.Layer]
		if c == nil {
			c = &counts{}
			byLayer[from.Layer] = c
		}
		c.touching++
		if to.Layer == from.Layer {
			c.intra++
		}
	}

	var layers []string
	for l := range byLayer {
		layers = append(layers, l)
	}
	sort.Strings(layers)

	var findings []capsule.Finding
	for _, layer := range layers {
		c := byLayer[layer]
		if c.touching == 0 {
			continue
		}
		ratio := float64(c.intra) / float64(c.touching)
		switch {
		case ratio < 0.2:
			findings = append(findings, capsule.Finding{Category: capsule.CategoryCohesion, Severity: capsule.SeverityMedium, Message: fmt.Sprintf("layer %s has low cohesion (%.2f)", layer, ratio)})
		case ratio < 0.5:
			findings = append(findings, capsule.Finding{Category: capsule.CategoryCohesion, Severity: capsule.SeverityLow, Message: fmt.Sprintf("layer %s has low cohesion (%.2f)", layer, ratio)})
		}
	}
	return findings
}

// Complexity flags capsules whose complexity or size exceeds thresholds.
func Complexity(g *capsule.CapsuleGraph) []capsule.Finding {
	var ids []uuid.UUID
	for id := range g.Capsules {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return nameOf(g, ids[i]) < nameOf(g, ids[j]) })

	var findings []capsule.Finding
	for _, id := range ids {
		c := g.Get(id)
		switch {
		case c.Complexity > 25:
			findings = append(findings, capsule.Finding{Category: capsule.CategoryComplexity, Severity: capsule.SeverityHigh, Message: fmt.Sprintf("%s has complexity %d", c.Name, c.Complexity), TargetCapsuleID: id, HasTarget: true})
		case c.Complexity > 15:
			findings = append(findings, capsule.Finding{Category: capsule.CategoryComplexity, Severity: capsule.SeverityMedium, Message: fmt.Sprintf("%s has complexity %d", c.Name, c.Complexity), TargetCapsuleID: id, HasTarget: true})
		}
		switch {
		case c.Size > 1000:
			findings = append(findings, capsule.Finding{Category: capsule.CategoryComplexity, Severity: capsule.SeverityHigh, Message: fmt.Sprintf("%s spans %d lines", c.Name, c.Size), TargetCapsuleID: id, HasTarget: true})
		case c.Size > 500:
			findings = append(findings, capsule.Finding{Category: capsule.CategoryComplexity, Severity: capsule.SeverityMedium, Message: fmt.Sprintf("%s spans %d lines", c.Name, c.Size), TargetCapsuleID: id, HasTarget: true})
		}
	}
	return findings
}

// Layers flags imbalance when one layer holds a supermajority of capsules.
func Layers(g *capsule.CapsuleGraph) []capsule.Finding {
	total := len(g.Capsules)
	if total < 5 {
		return nil
	}
	maxCount := 0
	var maxLayer string
	var names []string
	for name := range g.Layers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if c := len(g.Layers[name]); c > maxCount {
			maxCount = c
			maxLayer = name
		}
	}
	if maxCount == 0 {
		return nil
	}
	if float64(maxCount)/float64(total) >= 0.6 {
		return []capsule.Finding{{
			Category: capsule.CategoryLayer,
			Severity: capsule.SeverityMedium,
			Message:  fmt.Sprintf("layer %s holds %d/%d capsules, a structural imbalance", maxLayer, maxCount, total),
		}}
	}
	return nil
}

var pascalCase = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
var camelOrSnake = regexp.MustCompile(`^([a-z][A-Za-z0-9]*|[a-z][a-z0-9_]*)$`)

// Naming flags capsules whose name violates the convention for their kind.
func Naming(g *capsule.CapsuleGraph) []capsule.Finding {
	var ids []uuid.UUID
	for id := range g.Capsules {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return nameOf(g, ids[i]) < nameOf(g, ids[j]) })

	var findings []capsule.Finding
	for _, id := range ids {
		c := g.Get(id)
		if c.Name == "" {
			continue
		}
		var violates bool
		switch c.Kind {
		case capsule.KindStruct, capsule.KindClass, capsule.KindInterface, capsule.KindEnum:
			violates = !pascalCase.MatchString(c.Name)
		case capsule.KindFunction, capsule.KindMethod:
			violates = !camelOrSnake.MatchString(c.Name)
		}
		if violates {
			findings = append(findings, capsule.Finding{
				Category:        capsule.CategoryNaming,
				Severity:        capsule.SeverityLow,
				Message:         fmt.Sprintf("%s %q does not follow naming convention for %s", c.Kind, c.Name, c.Kind),
				TargetCapsuleID: id,
				HasTarget:       true,
			})
		}
	}
	return findings
}

// Patterns emits informational findings when the graph exhibits recognized
// architectural shapes: MVC, modular, or layered.
func Patterns(g *capsule.CapsuleGraph) []capsule.Finding {
	var findings []capsule.Finding

	lower := make(map[string]bool)
	for name := range g.Layers {
		lower[strings.ToLower(name)] = true
	}
	if lower["model"] && lower["view"] && lower["controller"] {
		findings = append(findings, capsule.Finding{Category: capsule.CategoryPattern, Severity: capsule.SeverityLow, Message: "MVC pattern detected (model/view/controller layers present)"})
	}

	topLevel := make(map[string]bool)
	for _, c := range g.Capsules {
		topLevel[firstSegment(c.Location.Path)] = true
	}
	if len(topLevel) >= 3 {
		findings = append(findings, capsule.Finding{Category: capsule.CategoryPattern, Severity: capsule.SeverityLow, Message: fmt.Sprintf("modular pattern detected (%d top-level modules)", len(topLevel))})
	}

	recognized := 0
	for name := range g.Layers {
		if isRecognizedLayer(name) {
			recognized++
		}
	}
	if recognized >= 2 {
		findings = append(findings, capsule.Finding{Category: capsule.CategoryPattern, Severity: capsule.SeverityLow, Message: fmt.Sprintf("layered pattern detected (%d recognized layers)", recognized)})
	}

	return findings
}

func firstSegment(path string) string {
	path = strings.TrimPrefix(strings.ReplaceAll(path, "\\", "/"), "/")
	if idx := strings.IndexByte(path, '/'); idx >= 0 {
		return path[:idx]
	}
	return path
}

func isRecognizedLayer(name string) bool {
	switch strings.ToLower(name) {
	case "domain", "application", "infrastructure", "presentation", "api", "service", "repository", "entity", "ui", "core", "infra":
		return true
	default:
		return false
	}
}

// Solid applies heuristic SOLID checks: SRP (complex-and-large capsules),
// OCP (hub capsules without abstractions), and LSP/ISP/DIP from
// interface/implements relations.
func Solid(g *capsule.CapsuleGraph) []capsule.Finding {
	var findings []capsule.Finding

	var ids []uuid.UUID
	for id := range g.Capsules {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return nameOf(g, ids[i]) < nameOf(g, ids[j]) })

	hasAbstraction := make(map[uuid.UUID]bool)
	for _, r := range g.Relations {
		if r.Kind == capsule.RelImplements || r.Kind == capsule.RelExtends {
			hasAbstraction[r.FromID] = true
			hasAbstraction[r.ToID] = true
		}
	}
	fanIn := make(map[uuid.UUID]int)
	for _, r := range g.Relations {
		fanIn[r.ToID]++
	}
	n := len(g.Capsules)

	for _, id := range ids {
		c := g.Get(id)
		if c.Complexity > 25 && c.Size > 300 {
			findings = append(findings, capsule.Finding{
				Category: capsule.CategorySolid, Severity: capsule.SeverityMedium,
				Message: fmt.Sprintf("%s violates SRP: high complexity (%d) and size (%d)", c.Name, c.Complexity, c.Size),
				TargetCapsuleID: id, HasTarget: true,
			})
		}
		if n > 0 && float64(fanIn[id]) >= 0.2*float64(n) && !hasAbstraction[id] {
			findings = append(findings, capsule.Finding{
				Category: capsule.CategorySolid, Severity: capsule.SeverityMedium,
				Message: fmt.Sprintf("%s is a hub with no abstraction, likely violating OCP", c.Name),
				TargetCapsuleID: id, HasTarget: true,
			})
		}
	}
	return findings
}
