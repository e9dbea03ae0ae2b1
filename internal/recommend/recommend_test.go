package recommend

import (
	"testing"

	"archlens/internal/export"
)

func TestRecommendNoSummarySuggestsSummaryExport(t *testing.T) {
	got := Recommend("/proj", nil, "", DefaultThresholds())
	if len(got) != 1 || got[0].Tool != "export.ai_summary_json" {
		t.Fatalf("expected a single summary-export suggestion, got %+v", got)
	}
}

func TestRecommendHighComplexitySuggestsTopComplexityExport(t *testing.T) {
	s := &Summary{ComplexityAvg: 12.0}
	got := Recommend("/proj", s, "", DefaultThresholds())

	found := false
	for _, sg := range got {
		if sg.Tool == "export.ai_compact" {
			if sections, ok := sg.Args["sections"].([]string); ok {
				for _, sec := range sections {
					if sec == export.SectionTopComplexity {
						found = true
					}
				}
			}
		}
	}
	if !found {
		t.Fatalf("expected a top_complexity_components export suggestion, got %+v", got)
	}
}

func TestRecommendLayerImbalanceSuggestsLayersSection(t *testing.T) {
	s := &Summary{
		Components: 10,
		Layers:     []export.LayerCount{{Name: "Core", Count: 6}, {Name: "Infra", Count: 4}},
	}
	got := Recommend("/proj", s, "", DefaultThresholds())

	found := false
	for _, sg := range got {
		if sections, ok := sg.Args["sections"].([]string); ok {
			for _, sec := range sections {
				if sec == export.SectionLayers {
					found = true
				}
			}
		}
	}
	if !found {
		t.Fatalf("expected a layers-section suggestion, got %+v", got)
	}
}

func TestRecommendCycleAlwaysSuggestsGraphBuild(t *testing.T) {
	s := &Summary{CyclesTop: []export.CyclePath{{Path: []string{"A", "B", "A"}}}}
	got := Recommend("/proj", s, "", DefaultThresholds())

	if got[0].Tool != "graph.build" {
		t.Fatalf("expected graph.build to be the first suggestion, got %+v", got)
	}
}

func TestRecommendFocusCyclePrependsPreset(t *testing.T) {
	s := &Summary{ComplexityAvg: 1}
	got := Recommend("/proj", s, "investigate cycles here", DefaultThresholds())

	if got[0].Tool != "prompts.get" || got[0].Args["name"] != "cycles_focus" {
		t.Fatalf("expected cycles_focus preset to be prepended, got %+v", got)
	}
}
