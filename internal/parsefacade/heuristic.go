package parsefacade

import (
	"bufio"
	"bytes"
	"strings"
)

// heuristicParser extracts top-level declarations with line-oriented prefix
// matching rather than a real grammar. It is the always-built fallback used
// for any language without a grammar-backed parser wired in, and the only
// parser available in non-cgo builds.
type heuristicParser struct{}

func newHeuristicParser() *heuristicParser { return &heuristicParser{} }

func (p *heuristicParser) Parse(path string, data []byte, language string) ([]AstNode, error) {
	switch language {
	case "go":
		return parseGoHeuristic(data), nil
	case "javascript", "typescript", "tsx":
		return parseJSHeuristic(data), nil
	case "python":
		return parsePyHeuristic(data), nil
	default:
		return parseGenericHeuristic(data), nil
	}
}

func eachLine(data []byte, fn func(lineNo int, line string)) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fn(lineNo, scanner.Text())
	}
}

func parseGoHeuristic(data []byte) []AstNode {
	var nodes []AstNode
	eachLine(data, func(lineNo int, line string) {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "func "):
			name := extractGoFuncName(trimmed)
			if name == "" {
				return
			}
			kind := "Function"
			attrs := map[string]string{}
			if recv := extractGoReceiver(trimmed); recv != "" {
				kind = "Method"
				attrs["receiver"] = recv
			}
			nodes = append(nodes, AstNode{Kind: kind, Name: name, LineStart: lineNo, LineEnd: lineNo, Attributes: attrs})
		case strings.HasPrefix(trimmed, "type "):
			name, kind := extractGoTypeNameKind(trimmed)
			if name == "" {
				return
			}
			nodes = append(nodes, AstNode{Kind: kind, Name: name, LineStart: lineNo, LineEnd: lineNo, Attributes: map[string]string{}})
		case strings.HasPrefix(trimmed, "import "), trimmed == "import (":
			nodes = append(nodes, AstNode{Kind: "Import", LineStart: lineNo, LineEnd: lineNo, Attributes: map[string]string{}})
		case isQuotedImportLine(trimmed):
			nodes = append(nodes, AstNode{Kind: "Import", Name: strings.Trim(trimmed, `"`), LineStart: lineNo, LineEnd: lineNo, Attributes: map[string]string{"raw": trimmed}})
		}
	})
	return nodes
}

func isQuotedImportLine(s string) bool {
	return strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) && !strings.Contains(s, " ")
}

func extractGoFuncName(line string) string {
	rest := strings.TrimPrefix(line, "func ")
	if strings.HasPrefix(rest, "(") {
		idx := strings.Index(rest, ")")
		if idx < 0 {
			return ""
		}
		rest = strings.TrimSpace(rest[idx+1:])
	}
	idx := strings.IndexByte(rest, '(')
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:idx])
}

func extractGoReceiver(line string) string {
	rest := strings.TrimPrefix(line, "func ")
	if !strings.HasPrefix(rest, "(") {
		return ""
	}
	idx := strings.Index(rest, ")")
	if idx < 0 {
		return ""
	}
	recv := strings.TrimSpace(rest[1:idx])
	fields := strings.Fields(recv)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimPrefix(fields[len(fields)-1], "*")
}

func extractGoTypeNameKind(line string) (string, string) {
	rest := strings.TrimPrefix(line, "type ")
	fields := strings.Fields(rest)
	if len(fields) < 2 {
		return "", ""
	}
	name := fields[0]
	switch {
	case strings.Contains(rest, "interface"):
		return name, "Interface"
	case strings.Contains(rest, "struct"):
		return name, "Struct"
	default:
		return name, "Other"
	}
}

func parseJSHeuristic(data []byte) []AstNode {
	var nodes []AstNode
	eachLine(data, func(lineNo int, line string) {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "export function "), strings.HasPrefix(trimmed, "function "):
			name := betweenKeywordAndParen(trimmed, "function ")
			if name != "" {
				nodes = append(nodes, AstNode{Kind: "Function", Name: name, LineStart: lineNo, LineEnd: lineNo, Attributes: map[string]string{}})
			}
		case strings.HasPrefix(trimmed, "export class "), strings.HasPrefix(trimmed, "class "):
			name := betweenKeywordAndSpaceOrBrace(trimmed, "class ")
			if name != "" {
				nodes = append(nodes, AstNode{Kind: "Class", Name: name, LineStart: lineNo, LineEnd: lineNo, Attributes: map[string]string{}})
			}
		case strings.HasPrefix(trimmed, "export interface "), strings.HasPrefix(trimmed, "interface "):
			name := betweenKeywordAndSpaceOrBrace(trimmed, "interface ")
			if name != "" {
				nodes = append(nodes, AstNode{Kind: "Interface", Name: name, LineStart: lineNo, LineEnd: lineNo, Attributes: map[string]string{}})
			}
		case strings.HasPrefix(trimmed, "import "):
			nodes = append(nodes, AstNode{Kind: "Import", LineStart: lineNo, LineEnd: lineNo, Attributes: map[string]string{"raw": trimmed}})
		}
	})
	return nodes
}

func betweenKeywordAndParen(line, keyword string) string {
	idx := strings.Index(line, keyword)
	if idx < 0 {
		return ""
	}
	rest := line[idx+len(keyword):]
	parenIdx := strings.IndexByte(rest, '(')
	if parenIdx < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:parenIdx])
}

func betweenKeywordAndSpaceOrBrace(line, keyword string) string {
	idx := strings.Index(line, keyword)
	if idx < 0 {
		return ""
	}
	rest := strings.TrimSpace(line[idx+len(keyword):])
	for i, r := range rest {
		if r == ' ' || r == '{' || r == '<' {
			return rest[:i]
		}
	}
	return rest
}

func parsePyHeuristic(data []byte) []AstNode {
	var nodes []AstNode
	eachLine(data, func(lineNo int, line string) {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "def "):
			name := betweenKeywordAndParen(trimmed, "def ")
			if name != "" {
				nodes = append(nodes, AstNode{Kind: "Function", Name: name, LineStart: lineNo, LineEnd: lineNo, Attributes: map[string]string{}})
			}
		case strings.HasPrefix(trimmed, "class "):
			name := betweenKeywordAndSpaceOrBrace(trimmed, "class ")
			name = strings.TrimSuffix(strings.Split(name, "(")[0], ":")
			if name != "" {
				nodes = append(nodes, AstNode{Kind: "Class", Name: name, LineStart: lineNo, LineEnd: lineNo, Attributes: map[string]string{}})
			}
		case strings.HasPrefix(trimmed, "import "), strings.HasPrefix(trimmed, "from "):
			nodes = append(nodes, AstNode{Kind: "Import", LineStart: lineNo, LineEnd: lineNo, Attributes: map[string]string{"raw": trimmed}})
		}
	})
	return nodes
}

// parseGenericHeuristic is the capability floor for languages without a
// dedicated heuristic: no declarations are extracted, but the file still
// participates in the scan (size, language) rather than being dropped.
func parseGenericHeuristic(data []byte) []AstNode {
	return nil
}
