package graphbuild

import (
	"testing"

	"archlens/internal/capsule"
	"archlens/internal/parsefacade"
)

func mustCapsules(t *testing.T, path string, nodes []parsefacade.AstNode, lines []string) []*capsule.Capsule {
	t.Helper()
	cs, _ := capsule.Construct(path, nodes, lines)
	return cs
}

func TestBuildResolvesImportBasedDependency(t *testing.T) {
	widgetNodes := []parsefacade.AstNode{
		{Kind: "Struct", Name: "Widget", LineStart: 1, LineEnd: 3, Attributes: map[string]string{}},
	}
	userNodes := []parsefacade.AstNode{
		{Kind: "Import", Name: "widget", LineStart: 1, LineEnd: 1, Attributes: map[string]string{"raw": `"app/widget"`}},
		{Kind: "Function", Name: "Use", LineStart: 3, LineEnd: 5, Attributes: map[string]string{}},
	}

	var all []*capsule.Capsule
	all = append(all, mustCapsules(t, "domain/widget.go", widgetNodes, make([]string, 3))...)
	all = append(all, mustCapsules(t, "service/user.go", userNodes, make([]string, 5))...)

	g := Build(all, nil)

	if g.Metrics.TotalCapsules != len(all) {
		t.Fatalf("expected total capsules %d, got %d", len(all), g.Metrics.TotalCapsules)
	}
	if len(g.Relations) == 0 {
		t.Fatal("expected at least one resolved relation")
	}
	foundDepends := false
	for _, r := range g.Relations {
		if r.Kind == capsule.RelDepends {
			foundDepends = true
		}
	}
	if !foundDepends {
		t.Fatal("expected a Depends relation from import resolution")
	}
}

func TestComputeMetricsEmptyGraph(t *testing.T) {
	g := Build(nil, nil)
	if g.Metrics.CohesionIndex != 1 {
		t.Fatalf("expected cohesion index 1 for empty graph, got %f", g.Metrics.CohesionIndex)
	}
}

func TestUndirectedComponentsSingleComponent(t *testing.T) {
	a := &capsule.Capsule{ID: capsule.CapsuleID("a.go", capsule.KindFunction, "A", 1)}
	b := &capsule.Capsule{ID: capsule.CapsuleID("a.go", capsule.KindFunction, "B", 5)}
	g := capsule.NewGraph()
	g.AddCapsule(a)
	g.AddCapsule(b)
	g.Relations = []capsule.Relation{{FromID: a.ID, ToID: b.ID, Kind: capsule.RelDepends, Strength: 1}}

	if got := undirectedComponents(g); got != 1 {
		t.Fatalf("expected 1 component, got %d", got)
	}
}
