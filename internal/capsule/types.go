// Package capsule defines the architecture graph's vertex and edge types:
// Capsule, Relation, CapsuleGraph, Finding, and the metrics attached to a graph.
package capsule

import (
	"time"

	"github.com/google/uuid"
)

// Kind enumerates the declaration kinds a capsule can represent.
type Kind string

const (
	KindModule    Kind = "Module"
	KindStruct    Kind = "Struct"
	KindEnum      Kind = "Enum"
	KindFunction  Kind = "Function"
	KindMethod    Kind = "Method"
	KindInterface Kind = "Interface"
	KindClass     Kind = "Class"
	KindVariable  Kind = "Variable"
	KindConstant  Kind = "Constant"
	KindImport    Kind = "Import"
	KindExport    Kind = "Export"
	KindOther     Kind = "Other"
)

// Status reflects a capsule's lifecycle state. The constructor sets every
// capsule to StatusActive; the other values are not inferred from source.
type Status string

const (
	StatusActive       Status = "Active"
	StatusDeprecated   Status = "Deprecated"
	StatusExperimental Status = "Experimental"
	StatusInternal     Status = "Internal"
	StatusPublic       Status = "Public"
	StatusUnstable     Status = "Unstable"
)

// Priority is an importance rank; the constructor sets every capsule to
// PriorityMedium.
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

// Severity is a finding's severity level.
type Severity string

const (
	SeverityHigh   Severity = "H"
	SeverityMedium Severity = "M"
	SeverityLow    Severity = "L"
)

// Category is the kind of problem a validator emits.
type Category string

const (
	CategoryComplexity Category = "complexity"
	CategoryCoupling   Category = "coupling"
	CategoryCohesion   Category = "cohesion"
	CategoryCycle      Category = "cycle"
	CategoryLayer      Category = "layer"
	CategoryNaming     Category = "naming"
	CategoryPattern    Category = "pattern"
	CategorySolid      Category = "solid"
)

// RelationKind is the type of a directed edge between two capsules.
type RelationKind string

const (
	RelDepends    RelationKind = "Depends"
	RelUses       RelationKind = "Uses"
	RelImplements RelationKind = "Implements"
	RelExtends    RelationKind = "Extends"
	RelAggregates RelationKind = "Aggregates"
	RelComposes   RelationKind = "Composes"
	RelCalls      RelationKind = "Calls"
	RelReferences RelationKind = "References"
)

// SourceLocation is where a capsule was declared.
type SourceLocation struct {
	Path      string `json:"path"`
	LineStart int    `json:"lineStart"`
	LineEnd   int    `json:"lineEnd"`
}

// Capsule is the atomic unit of the architecture graph.
type Capsule struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Kind         Kind              `json:"kind"`
	Location     SourceLocation    `json:"location"`
	Size         int               `json:"size"`
	Complexity   int               `json:"complexity"`
	Dependencies []uuid.UUID       `json:"dependencies"`
	Layer        string            `json:"layer,omitempty"`
	Summary      string            `json:"summary,omitempty"`
	Warnings     []Finding         `json:"warnings,omitempty"`
	Status       Status            `json:"status"`
	Priority     Priority          `json:"priority"`
	Tags         []string          `json:"tags,omitempty"`
	Quality      float64           `json:"quality"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// Relation is a directed edge between two capsules.
type Relation struct {
	FromID      uuid.UUID    `json:"fromId"`
	ToID        uuid.UUID    `json:"toId"`
	Kind        RelationKind `json:"kind"`
	Strength    float64      `json:"strength"`
	Description string       `json:"description,omitempty"`
}

// Finding is a validator-emitted problem record.
type Finding struct {
	Category        Category  `json:"category"`
	Severity        Severity  `json:"severity"`
	Message         string    `json:"message"`
	Suggestion      string    `json:"suggestion,omitempty"`
	TargetCapsuleID uuid.UUID `json:"targetCapsuleId,omitempty"`
	HasTarget       bool      `json:"-"`
}

// GraphMetrics summarizes a capsule graph.
type GraphMetrics struct {
	TotalCapsules        int     `json:"totalCapsules"`
	TotalRelations       int     `json:"totalRelations"`
	MeanComplexity       float64 `json:"meanComplexity"`
	CouplingIndex        float64 `json:"couplingIndex"`
	CohesionIndex        float64 `json:"cohesionIndex"`
	CyclomaticAggregate  int     `json:"cyclomaticAggregate"`
	DepthLevels          int     `json:"depthLevels"`
}

// CapsuleGraph is the annotated architecture graph produced by a single
// analysis run. Capsules are held in an arena keyed by id; cyclic references
// between capsules therefore never require cyclic ownership in Go.
type CapsuleGraph struct {
	Capsules  map[uuid.UUID]*Capsule `json:"capsules"`
	Relations []Relation             `json:"relations"`
	Layers    map[string][]uuid.UUID `json:"layers"`
	Findings  []Finding              `json:"findings"`
	Metrics   GraphMetrics           `json:"metrics"`
	CreatedAt time.Time              `json:"createdAt"`
	Prior     *CapsuleGraph          `json:"-"`
}

// NewGraph returns an empty graph ready for capsules to be added.
func NewGraph() *CapsuleGraph {
	return &CapsuleGraph{
		Capsules: make(map[uuid.UUID]*Capsule),
		Layers:   make(map[string][]uuid.UUID),
	}
}

// AddCapsule inserts a capsule into the graph's arena.
func (g *CapsuleGraph) AddCapsule(c *Capsule) {
	g.Capsules[c.ID] = c
	if c.Layer != "" {
		g.Layers[c.Layer] = append(g.Layers[c.Layer], c.ID)
	}
}

// Get returns a capsule by id, or nil if absent.
func (g *CapsuleGraph) Get(id uuid.UUID) *Capsule {
	return g.Capsules[id]
}

// CapsuleID derives a stable, deterministic id for a declaration from its
// identifying attributes, so re-running analysis on an unchanged tree
// reproduces identical ids (uuid v5, SHA-1 over a namespace + key string).
func CapsuleID(path string, kind Kind, name string, lineStart int) uuid.UUID {
	key := path + "|" + string(kind) + "|" + name + "|" + itoa(lineStart)
	return uuid.NewSHA1(capsuleNamespace, []byte(key))
}

var capsuleNamespace = uuid.MustParse("6f6d8c1a-3b1f-4e7a-9b7a-4b7e7f6b3a10")

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
