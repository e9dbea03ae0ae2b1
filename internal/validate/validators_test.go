package validate

import (
	"strings"
	"testing"

	"archlens/internal/capsule"
)

func newCapsule(name string, kind capsule.Kind, complexity, size int, layer string) *capsule.Capsule {
	return &capsule.Capsule{
		ID:         capsule.CapsuleID(name+".go", kind, name, 1),
		Name:       name,
		Kind:       kind,
		Complexity: complexity,
		Size:       size,
		Layer:      layer,
		Location:   capsule.SourceLocation{Path: name + ".go", LineStart: 1, LineEnd: size},
	}
}

func TestCyclesDetectsRotatedPath(t *testing.T) {
	a := newCapsule("A", capsule.KindFunction, 1, 1, "")
	b := newCapsule("B", capsule.KindFunction, 1, 1, "")
	hub := newCapsule("Hub", capsule.KindFunction, 1, 1, "")

	g := capsule.NewGraph()
	g.AddCapsule(a)
	g.AddCapsule(b)
	g.AddCapsule(hub)
	g.Relations = []capsule.Relation{
		{FromID: a.ID, ToID: b.ID, Kind: capsule.RelDepends, Strength: 1},
		{FromID: b.ID, ToID: a.ID, Kind: capsule.RelDepends, Strength: 1},
		{FromID: hub.ID, ToID: a.ID, Kind: capsule.RelDepends, Strength: 1},
		{FromID: hub.ID, ToID: b.ID, Kind: capsule.RelDepends, Strength: 1},
	}

	findings := Cycles(g)
	if len(findings) != 1 {
		t.Fatalf("expected exactly one cycle finding, got %+v", findings)
	}
	msg := findings[0].Message
	if !strings.Contains(msg, "A -> B -> A") && !strings.Contains(msg, "B -> A -> B") {
		t.Fatalf("expected rotated cycle path in message, got %q", msg)
	}
}

func TestComplexityThresholds(t *testing.T) {
	g := capsule.NewGraph()
	low := newCapsule("Low", capsule.KindFunction, 5, 10, "")
	med := newCapsule("Med", capsule.KindFunction, 20, 10, "")
	high := newCapsule("High", capsule.KindFunction, 30, 10, "")
	g.AddCapsule(low)
	g.AddCapsule(med)
	g.AddCapsule(high)

	findings := Complexity(g)
	var sawMedium, sawHigh bool
	for _, f := range findings {
		if f.TargetCapsuleID == med.ID && f.Severity == capsule.SeverityMedium {
			sawMedium = true
		}
		if f.TargetCapsuleID == high.ID && f.Severity == capsule.SeverityHigh {
			sawHigh = true
		}
	}
	if !sawMedium || !sawHigh {
		t.Fatalf("expected medium and high complexity findings, got %+v", findings)
	}
}

func TestNamingFlagsViolations(t *testing.T) {
	g := capsule.NewGraph()
	bad := newCapsule("lowercase_struct", capsule.KindStruct, 1, 1, "")
	good := newCapsule("GoodStruct", capsule.KindStruct, 1, 1, "")
	g.AddCapsule(bad)
	g.AddCapsule(good)

	findings := Naming(g)
	if len(findings) != 1 || findings[0].TargetCapsuleID != bad.ID {
		t.Fatalf("expected exactly one naming finding for bad struct, got %+v", findings)
	}
}

func TestOptimizeDedupesAndRemovesSelfLoops(t *testing.T) {
	a := newCapsule("A", capsule.KindFunction, 1, 1, "")
	g := capsule.NewGraph()
	g.AddCapsule(a)
	g.Relations = []capsule.Relation{
		{FromID: a.ID, ToID: a.ID, Kind: capsule.RelDepends, Strength: 1},
	}

	findings := Optimize(g)
	if len(g.Relations) != 0 {
		t.Fatalf("expected self-loop removed, got %+v", g.Relations)
	}
	if len(findings) != 1 || findings[0].Category != capsule.CategoryCycle {
		t.Fatalf("expected one self-loop cycle finding, got %+v", findings)
	}
}

func TestRunAllIsOrderIndependentAsASet(t *testing.T) {
	a := newCapsule("A", capsule.KindFunction, 30, 400, "")
	g := capsule.NewGraph()
	g.AddCapsule(a)

	first := RunAll(g)
	var reversed []capsule.Finding
	for i := len(Order) - 1; i >= 0; i-- {
		reversed = append(reversed, Order[i].Fn(g)...)
	}
	if len(first) != len(reversed) {
		t.Fatalf("expected the same finding count in reverse order, got %d vs %d", len(first), len(reversed))
	}
	counts := make(map[string]int)
	for _, f := range first {
		counts[string(f.Category)+"|"+f.Message]++
	}
	for _, f := range reversed {
		counts[string(f.Category)+"|"+f.Message]--
	}
	for k, n := range counts {
		if n != 0 {
			t.Fatalf("finding %q differs between forward and reverse order", k)
		}
	}
}
