package parsefacade

import "os"

// Facade dispatches Parse calls to the parser registered for a language,
// falling back to the heuristic parser when no grammar-backed parser is
// registered or available (e.g. non-cgo builds).
type Facade struct {
	byLanguage map[string]Parser
	fallback   Parser
}

// NewFacade builds a Facade with the best available reference parser for
// Go wired in (tree-sitter under cgo, heuristic otherwise) and the
// heuristic parser as fallback for every other language.
func NewFacade() *Facade {
	f := &Facade{
		byLanguage: make(map[string]Parser),
		fallback:   newHeuristicParser(),
	}
	if ts := newTreeSitterParser(); ts != nil {
		f.byLanguage["go"] = ts
	}
	return f
}

// Register installs parser as the handler for language, overriding any
// default (including the built-in tree-sitter reference parser).
func (f *Facade) Register(language string, parser Parser) {
	f.byLanguage[language] = parser
}

// Parse dispatches to the registered parser for language, or the heuristic
// fallback. A read failure on path surfaces as a ParseFailure.
func (f *Facade) Parse(path, language string) ([]AstNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newParseFailure(path, "read failed: "+err.Error())
	}
	parser, ok := f.byLanguage[language]
	if !ok || parser == nil {
		parser = f.fallback
	}
	nodes, err := parser.Parse(path, data, language)
	if err != nil {
		return nil, newParseFailure(path, err.Error())
	}
	return nodes, nil
}
