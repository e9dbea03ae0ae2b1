//go:build cgo

package parsefacade

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// treeSitterParser is the grammar-backed reference implementation of the
// parser capability, built only when cgo is available.
type treeSitterParser struct {
	parser *sitter.Parser
}

func newTreeSitterParser() Parser {
	p := sitter.NewParser()
	p.SetLanguage(golang.GetLanguage())
	return &treeSitterParser{parser: p}
}

func (t *treeSitterParser) Parse(path string, data []byte, language string) ([]AstNode, error) {
	tree, err := t.parser.ParseCtx(context.Background(), nil, data)
	if err != nil {
		return nil, err
	}
	root := tree.RootNode()
	var nodes []AstNode
	walkTreeSitter(root, data, -1, &nodes)
	return nodes, nil
}

var treeSitterKinds = map[string]string{
	"function_declaration": "Function",
	"method_declaration":    "Method",
	"type_declaration":      "Struct",
	"interface_type":        "Interface",
	"import_declaration":    "Import",
}

func walkTreeSitter(n *sitter.Node, data []byte, parentIdx int, nodes *[]AstNode) {
	if n == nil {
		return
	}
	kind, ok := treeSitterKinds[n.Type()]
	myIdx := parentIdx
	if ok {
		name := ""
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			name = nameNode.Content(data)
		}
		node := AstNode{
			Kind:       kind,
			Name:       name,
			LineStart:  int(n.StartPoint().Row) + 1,
			LineEnd:    int(n.EndPoint().Row) + 1,
			Attributes: map[string]string{},
		}
		if parentIdx >= 0 {
			node.ParentIndex = parentIdx
			node.HasParent = true
		}
		*nodes = append(*nodes, node)
		myIdx = len(*nodes) - 1
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		walkTreeSitter(n.Child(i), data, myIdx, nodes)
	}
}
