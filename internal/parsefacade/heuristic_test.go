package parsefacade

import "testing"

func TestParseGoHeuristicFunctionsAndTypes(t *testing.T) {
	src := []byte(`package sample

import "fmt"

type Widget struct {
	Name string
}

func (w *Widget) Render() string {
	return w.Name
}

func NewWidget() *Widget {
	return &Widget{}
}
`)
	nodes := parseGoHeuristic(src)

	var gotFunc, gotMethod, gotStruct bool
	for _, n := range nodes {
		switch {
		case n.Kind == "Function" && n.Name == "NewWidget":
			gotFunc = true
		case n.Kind == "Method" && n.Name == "Render":
			gotMethod = true
		case n.Kind == "Struct" && n.Name == "Widget":
			gotStruct = true
		}
	}
	if !gotFunc || !gotMethod || !gotStruct {
		t.Fatalf("missing expected declarations in %+v", nodes)
	}
}

func TestParsePyHeuristicClassAndDef(t *testing.T) {
	src := []byte("class Widget(Base):\n    def render(self):\n        pass\n")
	nodes := parsePyHeuristic(src)

	var gotClass, gotDef bool
	for _, n := range nodes {
		if n.Kind == "Class" && n.Name == "Widget" {
			gotClass = true
		}
		if n.Kind == "Function" && n.Name == "render" {
			gotDef = true
		}
	}
	if !gotClass || !gotDef {
		t.Fatalf("missing expected declarations in %+v", nodes)
	}
}

func TestHeuristicParserFallsBackForUnknownLanguage(t *testing.T) {
	p := newHeuristicParser()
	nodes, err := p.Parse("file.unknown", []byte("whatever"), "cobol")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 0 {
		t.Fatalf("expected no nodes for unsupported language, got %+v", nodes)
	}
}
