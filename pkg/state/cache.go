package state

import (
	"slices"
	"sync"

	"github.com/haptic-protocol/haptic-go/pkg/command"
	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

// Cache holds the last known value of each feature in one category.
// Features never written hold the zero value of T.
type Cache[T comparable] struct {
	mu     sync.Mutex
	values []T
}

// NewCache creates a cache for featureCount features.
func NewCache[T comparable](featureCount uint32) *Cache[T] {
	return &Cache[T]{values: make([]T, featureCount)}
}

// Values returns a copy of the cached values.
func (c *Cache[T]) Values() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.values)
}

// Update merges subs into the cache. If partial is false, features not
// named in subs are reset to the zero value.
//
// When the merged vector differs from the cache, the cache is replaced and
// a copy of the full vector is returned with changed set. Otherwise
// Update returns (nil, false, nil).
func (c *Cache[T]) Update(subs []command.Subcommand[T], partial bool) ([]T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var merged []T
	if partial {
		merged = slices.Clone(c.values)
	} else {
		merged = make([]T, len(c.values))
	}

	for _, s := range subs {
		if s.Index >= uint32(len(merged)) {
			return nil, false, &wire.FeatureIndexError{Count: uint32(len(merged)), Index: s.Index}
		}
		merged[s.Index] = s.Value
	}

	if slices.Equal(merged, c.values) {
		return nil, false, nil
	}
	c.values = merged
	return slices.Clone(merged), true, nil
}
