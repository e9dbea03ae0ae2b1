// Package validate implements the validator suite (C5): independent pure
// functions Graph -> []Finding run in a fixed declared order, plus the
// graph-preserving optimizer pass that precedes them.
package validate

import (
	"archlens/internal/capsule"
	"archlens/internal/graphbuild"
)

// Optimize deduplicates relations sharing (from,to,kind) keeping the
// maximum strength, removes self-loops (recording them as size-1 cycle
// findings), and recomputes the graph's metrics to reflect the pruned
// relation set. It returns the findings produced by self-loop removal.
func Optimize(g *capsule.CapsuleGraph) []capsule.Finding {
	var findings []capsule.Finding

	type key struct {
		from, to string
		kind     capsule.RelationKind
	}
	best := make(map[key]capsule.Relation)
	var order []key

	for _, r := range g.Relations {
		if r.FromID == r.ToID {
			if c := g.Get(r.FromID); c != nil {
				findings = append(findings, capsule.Finding{
					Category:        capsule.CategoryCycle,
					Severity:        capsule.SeverityMedium,
					Message:         "capsule " + c.Name + " has a self-referential dependency",
					TargetCapsuleID: c.ID,
					HasTarget:       true,
				})
			}
			continue
		}
		k := key{from: r.FromID.String(), to: r.ToID.String(), kind: r.Kind}
		if existing, ok := best[k]; !ok || r.Strength > existing.Strength {
			if !ok {
				order = append(order, k)
			}
			best[k] = r
		}
	}

	deduped := make([]capsule.Relation, 0, len(order))
	for _, k := range order {
		deduped = append(deduped, best[k])
	}
	g.Relations = deduped

	g.Metrics = graphbuild.RecomputeMetrics(g)
	return findings
}
