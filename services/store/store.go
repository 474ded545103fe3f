package store

import (
	"encoding/json"
	"sort"
	"strconv"
)

// SeenSet holds the ids of listings already processed by earlier runs
type SeenSet map[string]struct{}

// NewSeenSet builds a set from the given ids
func NewSeenSet(ids ...string) SeenSet {
	s := make(SeenSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id was already seen
func (s SeenSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Add marks id as seen
func (s SeenSet) Add(id string) {
	s[id] = struct{}{}
}

// Len returns the number of seen ids
func (s SeenSet) Len() int {
	return len(s)
}

// Sorted returns the ids in lexicographic order
func (s SeenSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Store loads and persists the seen-set between runs
type Store interface {
	// Load reads the persisted set. Malformed or missing content yields an
	// empty set, not an error.
	Load() (SeenSet, error)

	// Save writes the full set back
	Save(set SeenSet) error
}

// decodeSeenIDs accepts the canonical array shape, the legacy object shape
// wrapping the array under "seen_ids", and arbitrary garbage, which decodes
// to an empty set. Numeric ids from very old files are stringified.
func decodeSeenIDs(data []byte) SeenSet {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return NewSeenSet()
	}
	switch v := raw.(type) {
	case []interface{}:
		return seenFromList(v)
	case map[string]interface{}:
		if list, ok := v["seen_ids"].([]interface{}); ok {
			return seenFromList(list)
		}
	}
	return NewSeenSet()
}

func seenFromList(list []interface{}) SeenSet {
	set := make(SeenSet, len(list))
	for _, item := range list {
		switch id := item.(type) {
		case string:
			set[id] = struct{}{}
		case float64:
			set[strconv.FormatFloat(id, 'f', -1, 64)] = struct{}{}
		}
	}
	return set
}

// encodeSeenIDs renders the set as a sorted, indented JSON array
func encodeSeenIDs(set SeenSet) ([]byte, error) {
	return json.MarshalIndent(set.Sorted(), "", "  ")
}
