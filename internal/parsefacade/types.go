// Package parsefacade implements the Parser Facade: a language dispatch over
// per-language parsers that yields a flat, language-agnostic list of
// syntactic nodes per file. The core pipeline carries no per-language
// knowledge beyond this shape — any parser matching it can be plugged in.
package parsefacade

import "archlens/internal/archerrors"

// AstNode is the language-agnostic syntactic unit the facade yields.
type AstNode struct {
	Kind          string
	Name          string
	LineStart     int
	LineEnd       int
	ParentIndex   int
	HasParent     bool
	Attributes    map[string]string
}

// Parser is the capability boundary: anything implementing Parse can serve
// a language in the facade's dispatch table.
type Parser interface {
	Parse(path string, data []byte, language string) ([]AstNode, error)
}

// ParseFailure is returned by Parse when a file could not be parsed; it is
// non-fatal at the pipeline level — the pipeline skips the file and
// records a finding instead of aborting the run.
type ParseFailure struct {
	Path   string
	Reason string
}

func (f *ParseFailure) Error() string {
	return f.Path + ": " + f.Reason
}

func newParseFailure(path, reason string) error {
	return archerrors.Wrap(archerrors.KindParseFailure, reason, &ParseFailure{Path: path, Reason: reason})
}
