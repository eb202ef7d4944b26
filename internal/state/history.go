package state

import (
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
)

// History is a bounded, duplicate-free list of location names ordered most
// recently used first. Touching a name that is already present moves it to
// the front; adding past capacity drops the oldest name.
type History struct {
	cache *lru.Cache[string, struct{}]
}

func NewHistory(capacity int) *History {
	cache, err := lru.New[string, struct{}](capacity)
	if err != nil {
		// Only returned for a non-positive size.
		panic(err)
	}
	return &History{cache: cache}
}

// Touch records name as the most recently used entry.
func (h *History) Touch(name string) {
	// Add on an existing key refreshes its recency.
	h.cache.Add(name, struct{}{})
}

// Replace discards the current contents and loads names, which are ordered
// most recent first. Duplicates keep their most recent position and anything
// past capacity is dropped.
func (h *History) Replace(names []string) {
	h.cache.Purge()
	for i := len(names) - 1; i >= 0; i-- {
		if names[i] == "" {
			continue
		}
		h.cache.Add(names[i], struct{}{})
	}
}

func (h *History) Contains(name string) bool {
	return h.cache.Contains(name)
}

func (h *History) Len() int {
	return h.cache.Len()
}

// Front returns the most recently used name.
func (h *History) Front() (string, bool) {
	keys := h.cache.Keys()
	if len(keys) == 0 {
		return "", false
	}
	return keys[len(keys)-1], true
}

// Items returns the names most recent first.
func (h *History) Items() []string {
	keys := h.cache.Keys()
	slices.Reverse(keys)
	return keys
}
