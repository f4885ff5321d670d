package domain

import (
	"fmt"
	"sync"
)

// Rotation is a clockwise page rotation in degrees.
// Valid values are 0, 90, 180 and 270.
type Rotation int

// Rotation step and period.
const (
	// QuarterTurn is the only rotation step a user can request.
	QuarterTurn Rotation = 90

	// FullTurn is the period of the rotation group.
	FullTurn Rotation = 360
)

// NormalizeRotation maps any multiple of 90 degrees (negative values
// included) into [0, 360). Other angles are rejected.
func NormalizeRotation(degrees int) (Rotation, error) {
	if degrees%int(QuarterTurn) != 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRotation, degrees)
	}
	r := degrees % int(FullTurn)
	if r < 0 {
		r += int(FullTurn)
	}
	return Rotation(r), nil
}

// Add returns r turned clockwise by delta, normalised.
func (r Rotation) Add(delta Rotation) Rotation {
	sum := (int(r) + int(delta)) % int(FullTurn)
	if sum < 0 {
		sum += int(FullTurn)
	}
	return Rotation(sum)
}

// Turns returns the number of quarter turns r represents.
func (r Rotation) Turns() int {
	return int(r) / int(QuarterTurn)
}

// IsLandscapeSwap reports whether r swaps a page's width and height.
func (r Rotation) IsLandscapeSwap() bool {
	return r == 90 || r == 270
}

// Degrees returns r as a plain int.
func (r Rotation) Degrees() int {
	return int(r)
}

// String returns the rotation formatted as degrees.
func (r Rotation) String() string {
	return fmt.Sprintf("%d°", int(r))
}

// RotationStore maps 1-based page indexes to the rotation the user has
// requested on top of the loaded document. A missing entry means 0.
//
// The store does not know the page count; callers keep page indexes in
// range (see Session).
type RotationStore struct {
	mu     sync.RWMutex
	deltas map[int]Rotation
}

// NewRotationStore creates an empty rotation store.
func NewRotationStore() *RotationStore {
	return &RotationStore{
		deltas: make(map[int]Rotation),
	}
}

// Get returns the rotation stored for page, or 0 when none is stored.
func (s *RotationStore) Get(page int) Rotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deltas[page]
}

// RotateOne turns page a further 90 degrees clockwise.
func (s *RotationStore) RotateOne(page int) Rotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turn(page)
}

// RotateAll turns every page in [1, numPages] a further 90 degrees.
// Pages keep their offsets relative to each other.
func (s *RotationStore) RotateAll(numPages int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for page := 1; page <= numPages; page++ {
		s.turn(page)
	}
}

// turn applies one quarter turn to page (caller must hold lock).
// Zero results are deleted so absence and 0 stay the same thing.
func (s *RotationStore) turn(page int) Rotation {
	next := s.deltas[page].Add(QuarterTurn)
	if next == 0 {
		delete(s.deltas, page)
	} else {
		s.deltas[page] = next
	}
	return next
}

// Clear removes every stored rotation.
func (s *RotationStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deltas = make(map[int]Rotation)
}

// Len returns the number of pages with a non-zero rotation.
func (s *RotationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.deltas)
}

// Snapshot returns the rotations of pages 1..numPages; index 0 holds page 1.
func (s *RotationStore) Snapshot(numPages int) []Rotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Rotation, numPages)
	for i := range out {
		out[i] = s.deltas[i+1]
	}
	return out
}

// ProjectRotation returns the rotation a page is shown with and exported
// with. Both the render path and the export pipeline call this function so
// that what is displayed is what gets written.
func ProjectRotation(store *RotationStore, page int) Rotation {
	if store == nil {
		return 0
	}
	return store.Get(page)
}

// ProjectRotations applies ProjectRotation to pages 1..numPages under a
// single read lock.
func ProjectRotations(store *RotationStore, numPages int) []Rotation {
	if store == nil {
		return make([]Rotation, numPages)
	}
	return store.Snapshot(numPages)
}
