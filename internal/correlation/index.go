// Package correlation maintains the multi-key index from correlation
// keys to event IDs.
package correlation

// Index maps a prefixed correlation key (e.g. "agent:planner") to the
// set of event IDs that reference it. The index holds IDs only; callers
// resolve them against the authoritative event store on read. Entries
// are not removed when events are evicted from the hot buffer; an
// archived event's ID stays indexed even though it can no longer be
// resolved (see Engine.GetCorrelatedEvents).
type Index struct {
	keys map[string]map[string]struct{}
	// order preserves first-seen key order so iteration is stable.
	order []string
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{keys: make(map[string]map[string]struct{})}
}

// EventKeyer is the subset of the event model the index needs.
type EventKeyer interface {
	CorrelationKeys() []string
}

// Add indexes the event ID under every correlation key the event derives.
func (ix *Index) Add(id string, ev EventKeyer) {
	for _, key := range ev.CorrelationKeys() {
		set, ok := ix.keys[key]
		if !ok {
			set = make(map[string]struct{})
			ix.keys[key] = set
			ix.order = append(ix.order, key)
		}
		set[id] = struct{}{}
	}
}

// Has reports whether the key has ever been indexed.
func (ix *Index) Has(key string) bool {
	_, ok := ix.keys[key]
	return ok
}

// IDs returns the set of event IDs indexed under key.
func (ix *Index) IDs(key string) map[string]struct{} {
	return ix.keys[key]
}

// Union returns the combined ID set for the given keys.
func (ix *Index) Union(keys []string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, key := range keys {
		for id := range ix.keys[key] {
			out[id] = struct{}{}
		}
	}
	return out
}

// Keys returns all indexed keys in first-seen order.
func (ix *Index) Keys() []string {
	out := make([]string, len(ix.order))
	copy(out, ix.order)
	return out
}

// Len returns the number of distinct keys.
func (ix *Index) Len() int {
	return len(ix.keys)
}

// Reset drops every entry.
func (ix *Index) Reset() {
	ix.keys = make(map[string]map[string]struct{})
	ix.order = nil
}
