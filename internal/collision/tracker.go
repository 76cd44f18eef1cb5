// Package collision detects duplicate field names within one aggregate component.
package collision

import (
	"fmt"

	"github.com/arloliu/swecodec/errs"
	"github.com/arloliu/swecodec/internal/hash"
)

// Tracker tracks the field names of one record or vector, indexed by their 64-bit ID.
// Two distinct names that share an ID are both accepted and reported as a collision;
// the same name tracked twice is a duplicate and is rejected.
type Tracker struct {
	id         func(string) uint64
	names      map[uint64][]string // ID → names with that ID
	count      int
	collisions []string
}

// NewTracker creates a tracker keyed by hash.ID.
func NewTracker() *Tracker {
	return NewTrackerFunc(hash.ID)
}

// NewTrackerFunc creates a tracker keyed by id.
func NewTrackerFunc(id func(string) uint64) *Tracker {
	return &Tracker{
		id:    id,
		names: make(map[uint64][]string),
	}
}

// Track records name and returns its 1-based position.
//
// Returns:
//   - errs.ErrInvalidSchema when name is empty or was already tracked
func (t *Tracker) Track(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: field %d has no name", errs.ErrInvalidSchema, t.count+1)
	}

	id := t.id(name)
	existing := t.names[id]
	for _, n := range existing {
		if n == name {
			return 0, fmt.Errorf("%w: duplicate field name %q", errs.ErrInvalidSchema, name)
		}
	}
	if len(existing) == 1 {
		t.collisions = append(t.collisions, existing[0])
	}
	if len(existing) > 0 {
		t.collisions = append(t.collisions, name)
	}

	t.names[id] = append(existing, name)
	t.count++

	return t.count, nil
}

// HasCollision returns true if two distinct names produced the same ID.
func (t *Tracker) HasCollision() bool {
	return len(t.collisions) > 0
}

// Collisions returns the names sharing an ID with another tracked name, in tracking order
// of their first collision.
func (t *Tracker) Collisions() []string {
	return t.collisions
}
