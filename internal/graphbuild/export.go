package graphbuild

import (
	"github.com/google/uuid"

	"archlens/internal/capsule"
)

// DependencyAdjacency returns the capsule-id adjacency list implied by a
// graph's current relations, for callers (the cycle validator, in
// particular) that need to run their own graph algorithms over it.
func DependencyAdjacency(g *capsule.CapsuleGraph) (ids []uuid.UUID, adjacency map[uuid.UUID][]uuid.UUID) {
	adjacency = make(map[uuid.UUID][]uuid.UUID)
	for id := range g.Capsules {
		ids = append(ids, id)
	}
	for _, r := range g.Relations {
		adjacency[r.FromID] = append(adjacency[r.FromID], r.ToID)
	}
	return ids, adjacency
}
