package export

import (
	"encoding/json"

	"archlens/internal/capsule"
)

// aiSummaryDoc is the AI Summary JSON's exact shape.
type aiSummaryDoc struct {
	Summary                Summary            `json:"summary"`
	ProblemsValidated      []ProblemGroup     `json:"problems_validated,omitempty"`
	CyclesTop              []CyclePath        `json:"cycles_top,omitempty"`
	TopCoupling            []CoupledComponent `json:"top_coupling,omitempty"`
	TopComplexityComponents []ComplexComponent `json:"top_complexity_components,omitempty"`
	Layers                 []LayerCount       `json:"layers,omitempty"`
}

// JSON renders the deterministic AI Summary JSON projection.
func JSON(g *capsule.CapsuleGraph, req Request) (Output, error) {
	doc := aiSummaryDoc{}

	if req.wants(SectionSummary) {
		doc.Summary = buildSummary(g)
	}
	if req.wants(SectionProblemsValidated) {
		doc.ProblemsValidated = buildProblemsValidated(g)
	}
	if req.wants(SectionCyclesTop) {
		doc.CyclesTop = buildCyclesTop(g, req.topN())
	}
	if req.wants(SectionTopCoupling) {
		doc.TopCoupling = buildTopCoupling(g, req.topN())
	}
	if req.wants(SectionTopComplexity) {
		doc.TopComplexityComponents = buildTopComplexity(g, req.topN())
	}
	if req.wants(SectionLayers) {
		doc.Layers = buildSummary(g).Layers
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Output{}, err
	}

	text := Clamp(string(raw), req.maxChars())
	return Output{Text: text, ETag: ETag(text)}, nil
}
