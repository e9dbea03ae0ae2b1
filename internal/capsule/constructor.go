package capsule

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"archlens/internal/parsefacade"
)

var layerHints = []string{
	"domain", "application", "infrastructure", "presentation",
	"api", "service", "repository", "entity", "ui", "core", "infra",
}

var controlFlowPattern = regexp.MustCompile(`\b(if|else if|elif|for|while|switch|match|case|catch|except|foreach)\b`)

var kindFromNode = map[string]Kind{
	"Function":  KindFunction,
	"Method":    KindMethod,
	"Struct":    KindStruct,
	"Class":     KindClass,
	"Interface": KindInterface,
	"Enum":      KindEnum,
	"Import":    KindImport,
	"Export":    KindExport,
	"Variable":  KindVariable,
	"Constant":  KindConstant,
}

// Construct folds a file's flat AstNode list into capsules. path is the
// capsule's source file (absolute) and its path segments seed the
// preliminary layer heuristic (inferPathLayer); fileLines is the file's
// content split by line for complexity scanning.
func Construct(path string, nodes []parsefacade.AstNode, fileLines []string) ([]*Capsule, []Finding) {
	var capsules []*Capsule
	var findings []Finding

	preliminaryLayer := inferPathLayer(path)
	idByNodeIndex := make(map[int]uuid.UUID)

	for i, n := range nodes {
		kind, ok := kindFromNode[n.Kind]
		if !ok {
			continue
		}
		if n.LineEnd < n.LineStart {
			n.LineEnd = n.LineStart
		}
		size := n.LineEnd - n.LineStart + 1
		complexity := computeComplexity(fileLines, n.LineStart, n.LineEnd)

		id := CapsuleID(path, kind, n.Name, n.LineStart)
		idByNodeIndex[i] = id

		metadata := map[string]string{}
		for k, v := range n.Attributes {
			metadata[k] = v
		}
		if n.HasParent {
			if parentID, ok := idByNodeIndex[n.ParentIndex]; ok {
				metadata["enclosing"] = parentID.String()
			}
		}

		c := &Capsule{
			ID:       id,
			Name:     n.Name,
			Kind:     kind,
			Location: SourceLocation{Path: path, LineStart: n.LineStart, LineEnd: n.LineEnd},
			Size:     size,
			Complexity: complexity,
			Layer:    preliminaryLayer,
			Status:   StatusActive,
			Priority: PriorityMedium,
			Metadata: metadata,
			CreatedAt: time.Now().UTC(),
		}

		if n.Name == "" {
			findings = append(findings, Finding{Category: CategoryNaming, Severity: SeverityLow, Message: "capsule has an empty name at " + path, TargetCapsuleID: id, HasTarget: true})
		}
		if size > 500 {
			findings = append(findings, Finding{Category: CategoryComplexity, Severity: SeverityMedium, Message: "capsule " + n.Name + " exceeds 500 lines", TargetCapsuleID: id, HasTarget: true})
		}
		if complexity > 20 {
			findings = append(findings, Finding{Category: CategoryComplexity, Severity: SeverityMedium, Message: "capsule " + n.Name + " has complexity " + itoa(complexity), TargetCapsuleID: id, HasTarget: true})
		}

		capsules = append(capsules, c)
	}

	return capsules, findings
}

func computeComplexity(fileLines []string, start, end int) int {
	if start < 1 {
		start = 1
	}
	if end > len(fileLines) {
		end = len(fileLines)
	}
	count := 0
	for i := start; i <= end && i >= 1 && i <= len(fileLines); i++ {
		line := fileLines[i-1]
		count += len(controlFlowPattern.FindAllString(line, -1))
	}
	return count + 1
}

func inferPathLayer(path string) string {
	lower := strings.ToLower(path)
	segments := strings.Split(strings.ReplaceAll(lower, "\\", "/"), "/")
	for _, seg := range segments {
		for _, hint := range layerHints {
			if seg == hint {
				return capitalize(hint)
			}
		}
	}
	return ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
