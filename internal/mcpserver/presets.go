package mcpserver

// preset is one named, canned prompt exposed over prompts/list and
// prompts/get, matching the focus values ai.recommend accepts.
type preset struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newPreset(name, description, message string) preset {
	p := preset{Name: name, Description: description}
	p.Messages = []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}{{Role: "user", Content: message}}
	return p
}

var presets = []preset{
	newPreset("cycles_focus", "Investigate dependency cycles",
		"Run graph.build, list every detected cycle, and propose which edge to break first."),
	newPreset("refactor_plan", "Produce a refactor plan from findings",
		"Run export.ai_compact with the problems_validated and top_complexity_components sections, then draft a prioritized refactor plan."),
	newPreset("health_check", "General architecture health check",
		"Run analyze.project, summarize the overall health, and call ai.recommend for next steps."),
}

func presetPrompts() []preset { return presets }

func presetByName(name string) (preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return preset{}, false
}

// PresetNames returns every preset name, for the HTTP transport's
// /presets/list endpoint.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for _, p := range presets {
		names = append(names, p.Name)
	}
	return names
}

// Presets returns every preset in full (name, description, and messages),
// for file emission to out/presets/<name>.json.
func Presets() []preset { return presets }
