// Package recommend implements the Recommender (C9): a pure function that
// turns an AI Summary JSON (plus optional focus/thresholds) into an ordered
// list of suggested next tool calls. It performs no I/O of its own.
package recommend

import (
	"sort"
	"strings"

	"archlens/internal/config"
	"archlens/internal/export"
)

// Suggestion is one recommended follow-up tool call.
type Suggestion struct {
	Tool     string            `json:"tool"`
	Args     map[string]any    `json:"args,omitempty"`
	Reason   string            `json:"reason"`
}

// Thresholds parameterizes the rule set. Recommend uses the values as given:
// a zero field is a zero threshold, not a default. DefaultThresholds returns
// config.Default()'s threshold values.
type Thresholds struct {
	ComplexityAvg     float64
	CouplingIndex     float64
	CohesionIndex     float64
	LayerImbalancePct int
	HighSevCats       int
}

// DefaultThresholds returns the thresholds implied by the ambient config
// defaults, for callers that don't have an explicit Thresholds value.
func DefaultThresholds() Thresholds {
	d := config.Default()
	return Thresholds{
		ComplexityAvg:     d.ThComplexityAvg,
		CouplingIndex:     d.ThCouplingIndex,
		CohesionIndex:     d.ThCohesionIndex,
		LayerImbalancePct: d.ThLayerImbalancePct,
		HighSevCats:       d.ThHighSevCats,
	}
}

// Summary is the subset of the AI Summary JSON the recommender reads.
type Summary struct {
	Components        int
	ComplexityAvg      float64
	CouplingIndex      float64
	CohesionIndex      float64
	Layers             []export.LayerCount
	CyclesTop          []export.CyclePath
	TopCoupling        []export.CoupledComponent
	ProblemsValidated  []export.ProblemGroup
}

// Recommend applies the rule set in the declared order. A nil summary means
// "no summary was supplied yet" and always yields the first rule.
func Recommend(projectPath string, summary *Summary, focus string, th Thresholds) []Suggestion {
	if summary == nil {
		return []Suggestion{{
			Tool:   "export.ai_summary_json",
			Args:   map[string]any{"path": projectPath},
			Reason: "no summary available yet",
		}}
	}

	var suggestions []Suggestion

	if len(summary.CyclesTop) > 0 {
		suggestions = append(suggestions, Suggestion{
			Tool:   "graph.build",
			Args:   map[string]any{"path": projectPath},
			Reason: "dependency cycles detected",
		})
	}

	if hasHighSeverity(summary.ProblemsValidated) {
		suggestions = append(suggestions, Suggestion{
			Tool:   "export.ai_compact",
			Args:   map[string]any{"path": projectPath, "sections": []string{export.SectionProblemsValidated}},
			Reason: "high-severity findings present",
		})
	}

	if maxLayerRatio(summary.Layers, summary.Components) >= float64(th.LayerImbalancePct)/100 {
		suggestions = append(suggestions, Suggestion{
			Tool:   "export.ai_compact",
			Args:   map[string]any{"path": projectPath, "sections": []string{export.SectionLayers, export.SectionProblemsValidated}},
			Reason: "layer distribution is imbalanced",
		})
	}

	if summary.CouplingIndex > th.CouplingIndex || summary.CohesionIndex < th.CohesionIndex || len(summary.TopCoupling) > 0 {
		suggestions = append(suggestions, Suggestion{
			Tool:   "export.ai_compact",
			Args:   map[string]any{"path": projectPath, "sections": []string{export.SectionCyclesTop, export.SectionTopCoupling}},
			Reason: "coupling/cohesion out of range",
		})
	}

	if summary.ComplexityAvg > th.ComplexityAvg {
		suggestions = append(suggestions, Suggestion{
			Tool:   "export.ai_compact",
			Args:   map[string]any{"path": projectPath, "sections": []string{export.SectionTopComplexity}},
			Reason: "average complexity exceeds threshold",
		})
	}

	if countHighSevCategories(summary.ProblemsValidated) >= th.HighSevCats {
		suggestions = append(suggestions, Suggestion{
			Tool:   "ai.refactor.plan",
			Args:   map[string]any{"path": projectPath},
			Reason: "multiple distinct high-severity categories",
		})
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, Suggestion{
			Tool:   "export.ai_summary_json",
			Args:   map[string]any{"path": projectPath},
			Reason: "no rule matched the current summary",
		})
	}

	if preset := presetFor(focus); preset != "" {
		suggestions = append([]Suggestion{{
			Tool:   "prompts.get",
			Args:   map[string]any{"name": preset},
			Reason: "focus preset requested",
		}}, suggestions...)
	}

	return suggestions
}

func hasHighSeverity(groups []export.ProblemGroup) bool {
	for _, g := range groups {
		if g.Severity["H"] > 0 {
			return true
		}
	}
	return false
}

func countHighSevCategories(groups []export.ProblemGroup) int {
	n := 0
	for _, g := range groups {
		if g.Severity["H"] > 0 {
			n++
		}
	}
	return n
}

func maxLayerRatio(layers []export.LayerCount, total int) float64 {
	if total == 0 {
		return 0
	}
	max := 0
	for _, l := range layers {
		if l.Count > max {
			max = l.Count
		}
	}
	return float64(max) / float64(total)
}

func presetFor(focus string) string {
	lower := strings.ToLower(focus)
	switch {
	case lower == "":
		return ""
	case strings.Contains(lower, "cycle"):
		return "cycles_focus"
	case strings.Contains(lower, "plan"):
		return "refactor_plan"
	default:
		return "health_check"
	}
}

// sortSuggestions stably orders suggestions by tool name. Recommend does not
// call it; its output keeps rule evaluation order.
func sortSuggestions(s []Suggestion) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Tool < s[j].Tool })
}
