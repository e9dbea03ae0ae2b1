package export

import (
	"strings"
	"testing"

	"archlens/internal/capsule"
	"archlens/internal/graphbuild"
	"archlens/internal/validate"
)

func buildCycleGraph(t *testing.T) *capsule.CapsuleGraph {
	t.Helper()

	a := &capsule.Capsule{
		ID: capsule.CapsuleID("a.go", capsule.KindFunction, "Alpha", 1),
		Name: "Alpha", Kind: capsule.KindFunction, Layer: "service",
		Complexity: 4, Status: capsule.StatusActive, Priority: capsule.PriorityMedium,
	}
	b := &capsule.Capsule{
		ID: capsule.CapsuleID("b.go", capsule.KindFunction, "Beta", 1),
		Name: "Beta", Kind: capsule.KindFunction, Layer: "service",
		Complexity: 8, Status: capsule.StatusActive, Priority: capsule.PriorityMedium,
	}
	c := &capsule.Capsule{
		ID: capsule.CapsuleID("c.go", capsule.KindFunction, "Gamma", 1),
		Name: "Gamma", Kind: capsule.KindFunction, Layer: "domain",
		Complexity: 2, Status: capsule.StatusActive, Priority: capsule.PriorityLow,
	}

	g := capsule.NewGraph()
	g.AddCapsule(a)
	g.AddCapsule(b)
	g.AddCapsule(c)
	g.Relations = []capsule.Relation{
		{FromID: a.ID, ToID: b.ID, Kind: capsule.RelDepends, Strength: 1},
		{FromID: b.ID, ToID: a.ID, Kind: capsule.RelDepends, Strength: 1},
		{FromID: a.ID, ToID: c.ID, Kind: capsule.RelCalls, Strength: 1},
	}
	g.Metrics = graphbuild.RecomputeMetrics(g)
	g.Findings = validate.RunAll(g)
	return g
}

func TestMarkdownRendersDetectedCycle(t *testing.T) {
	g := buildCycleGraph(t)
	out := Markdown(g, Request{})

	if !strings.Contains(out.Text, "## Cycles (Top)") {
		t.Fatalf("expected a cycles section, got:\n%s", out.Text)
	}
	if !strings.Contains(out.Text, "Alpha -> Beta -> Alpha") && !strings.Contains(out.Text, "Beta -> Alpha -> Beta") {
		t.Fatalf("expected a rendered cycle path, got:\n%s", out.Text)
	}
	if out.ETag == "" {
		t.Fatal("expected a non-empty etag")
	}
}

func TestMarkdownSectionFilteringOmitsUnrequestedSections(t *testing.T) {
	g := buildCycleGraph(t)
	out := Markdown(g, Request{Sections: []string{SectionSummary}})

	if !strings.Contains(out.Text, "## Summary") {
		t.Fatal("expected the summary section to be present")
	}
	if strings.Contains(out.Text, "## Cycles (Top)") {
		t.Fatal("expected the cycles section to be omitted")
	}
}

func TestJSONOutputIsDeterministicAcrossRuns(t *testing.T) {
	g1 := buildCycleGraph(t)
	g2 := buildCycleGraph(t)

	out1, err := JSON(g1, Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out2, err := JSON(g2, Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out1.Text != out2.Text {
		t.Fatalf("expected identical JSON across runs:\n%s\nvs\n%s", out1.Text, out2.Text)
	}
	if out1.ETag != out2.ETag {
		t.Fatal("expected identical etags across runs")
	}
	if !strings.Contains(out1.Text, `"components": 3`) {
		t.Fatalf("expected components count of 3, got:\n%s", out1.Text)
	}
}

func TestClampAppliesHardCapAndMarker(t *testing.T) {
	text := strings.Repeat("x", 100)
	got := Clamp(text, 10)
	if len(got) != 10 {
		t.Fatalf("expected clamped length 10, got %d", len(got))
	}
	if !strings.HasSuffix(got, ")") {
		t.Fatalf("expected truncation marker suffix, got %q", got)
	}
}

func TestMermaidStylesCycleEdges(t *testing.T) {
	g := buildCycleGraph(t)
	out := Mermaid(g, Request{})

	if !strings.Contains(out.Text, "graph TD") {
		t.Fatal("expected a graph TD header")
	}
	if !strings.Contains(out.Text, "linkStyle") {
		t.Fatalf("expected a styled cycle edge, got:\n%s", out.Text)
	}
}
