package export

import (
	"fmt"
	"sort"
	"strings"

	"archlens/internal/capsule"
)

// Markdown renders the fixed-order "AI Compact" Markdown projection.
func Markdown(g *capsule.CapsuleGraph, req Request) Output {
	var b strings.Builder
	b.WriteString("# AI Compact Analysis\n\n")

	if req.wants(SectionSummary) {
		writeSummarySection(&b, g)
	}
	if req.wants(SectionProblemsHeuristic) {
		writeProblemsHeuristicSection(&b, g)
	}
	if req.wants(SectionProblemsValidated) {
		writeProblemsValidatedSection(&b, g, req.topN())
	}
	if req.wants(SectionCyclesTop) {
		writeCyclesSection(&b, g, req.topN())
	}
	if req.wants(SectionTopCoupling) {
		writeTopCouplingSection(&b, g, req.topN())
	}
	if req.wants(SectionTopComplexity) {
		writeTopComplexitySection(&b, g, req.topN())
	}
	if req.wants(SectionLayers) {
		writeLayersSection(&b, g)
	}

	text := Clamp(b.String(), req.maxChars())
	return Output{Text: text, ETag: ETag(text)}
}

func writeSummarySection(b *strings.Builder, g *capsule.CapsuleGraph) {
	s := buildSummary(g)
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(b, "- Components: %d\n", s.Components)
	fmt.Fprintf(b, "- Relations: %d\n", s.Relations)
	fmt.Fprintf(b, "- Mean complexity: %.2f\n", s.ComplexityAvg)
	fmt.Fprintf(b, "- Coupling index: %.2f\n", s.CouplingIndex)
	fmt.Fprintf(b, "- Cohesion index: %.2f\n", s.CohesionIndex)
	b.WriteString("\n")
}

func writeProblemsHeuristicSection(b *strings.Builder, g *capsule.CapsuleGraph) {
	var lines []string
	for _, c := range g.Capsules {
		for _, w := range c.Warnings {
			lines = append(lines, fmt.Sprintf("- [%s] %s: %s", w.Severity, c.Name, w.Message))
		}
	}
	if len(lines) == 0 {
		return
	}
	sort.Strings(lines)
	b.WriteString("## Problems (Heuristic)\n\n")
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeProblemsValidatedSection(b *strings.Builder, g *capsule.CapsuleGraph, topN int) {
	groups := buildProblemsValidated(g)
	if len(groups) == 0 {
		return
	}
	b.WriteString("## Problems (Validated)\n\n")
	for _, grp := range groups {
		fmt.Fprintf(b, "- %s (%d): H=%d M=%d L=%d — %s\n",
			grp.Category, grp.Count, grp.Severity["H"], grp.Severity["M"], grp.Severity["L"], grp.Hint)
		top := grp.TopComponents
		if len(top) > topN {
			top = top[:topN]
		}
		for _, name := range top {
			fmt.Fprintf(b, "  - %s\n", name)
		}
	}
	b.WriteString("\n")
}

func writeCyclesSection(b *strings.Builder, g *capsule.CapsuleGraph, topN int) {
	cycles := buildCyclesTop(g, topN)
	if len(cycles) == 0 {
		return
	}
	b.WriteString("## Cycles (Top)\n\n")
	for _, c := range cycles {
		fmt.Fprintf(b, "- %s\n", strings.Join(c.Path, " -> "))
	}
	b.WriteString("\n")
}

func writeTopCouplingSection(b *strings.Builder, g *capsule.CapsuleGraph, topN int) {
	top := buildTopCoupling(g, topN)
	if len(top) == 0 {
		return
	}
	b.WriteString("## Top Coupling\n\n")
	for _, c := range top {
		fmt.Fprintf(b, "- %s: %d\n", c.Component, c.Score)
	}
	b.WriteString("\n")
}

func writeTopComplexitySection(b *strings.Builder, g *capsule.CapsuleGraph, topN int) {
	top := buildTopComplexity(g, topN)
	if len(top) == 0 {
		return
	}
	b.WriteString("## Top Complexity Components\n\n")
	for _, c := range top {
		fmt.Fprintf(b, "- %s: %d\n", c.Component, c.Complexity)
	}
	b.WriteString("\n")
}

func writeLayersSection(b *strings.Builder, g *capsule.CapsuleGraph) {
	if len(g.Layers) == 0 {
		return
	}
	names := make([]string, 0, len(g.Layers))
	for name := range g.Layers {
		names = append(names, name)
	}
	sort.Strings(names)

	b.WriteString("## Layers\n\n")
	for _, name := range names {
		fmt.Fprintf(b, "- %s: %d\n", name, len(g.Layers[name]))
	}
	b.WriteString("\n")
}
