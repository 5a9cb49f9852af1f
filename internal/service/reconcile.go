package service

// ReconcileSets computes the minimal delta that turns the current set into
// the desired set: elements in desired but not current are returned as
// additions, elements in current but not desired as removals, and elements
// in both are untouched. Input order is preserved in the outputs, so
// applying the delta is deterministic. The element type only needs to be
// comparable, which keeps the algorithm reusable for any many-to-many
// association, not just university emphases.
func ReconcileSets[K comparable](current, desired []K) (toAdd, toRemove []K) {
	currentSet := make(map[K]struct{}, len(current))
	for _, k := range current {
		currentSet[k] = struct{}{}
	}
	desiredSet := make(map[K]struct{}, len(desired))
	for _, k := range desired {
		desiredSet[k] = struct{}{}
	}

	for _, k := range desired {
		if _, ok := currentSet[k]; !ok {
			toAdd = append(toAdd, k)
		}
	}
	for _, k := range current {
		if _, ok := desiredSet[k]; !ok {
			toRemove = append(toRemove, k)
		}
	}
	return toAdd, toRemove
}
