// Package extent tracks the running bounding box of observed head positions
// and derives the room center from it without a calibration phase.
package extent

import (
	"sync"

	"github.com/golang/geo/r3"
)

// Default seed values. The Z minimum starts far forward so the first Z center
// estimates are biased until a real sample narrows the extent.
var (
	DefaultSeedMin = r3.Vector{X: 0, Y: 0, Z: 1000}
	DefaultSeedMax = r3.Vector{X: 0, Y: 0, Z: 0}
)

// Extent is the per-axis minimum and maximum of all observed positions.
type Extent struct {
	Min r3.Vector `json:"min"`
	Max r3.Vector `json:"max"`
}

// Center returns the midpoint of the extent on each axis.
func (e Extent) Center() r3.Vector {
	return r3.Vector{
		X: (e.Min.X + e.Max.X) / 2,
		Y: (e.Min.Y + e.Max.Y) / 2,
		Z: (e.Min.Z + e.Max.Z) / 2,
	}
}

// Size returns the per-axis span of the extent.
func (e Extent) Size() r3.Vector {
	return e.Max.Sub(e.Min)
}

// widen grows the extent to include p. It never shrinks an axis.
func (e *Extent) widen(p r3.Vector) {
	e.Min.X = min(e.Min.X, p.X)
	e.Min.Y = min(e.Min.Y, p.Y)
	e.Min.Z = min(e.Min.Z, p.Z)
	e.Max.X = max(e.Max.X, p.X)
	e.Max.Y = max(e.Max.Y, p.Y)
	e.Max.Z = max(e.Max.Z, p.Z)
}

// Tracker owns one Extent for the lifetime of a pipeline. It is safe for
// concurrent use, but one tracker should serve exactly one tracked joint.
type Tracker struct {
	mu       sync.Mutex
	extent   Extent
	observed uint64
}

// New returns a tracker seeded with DefaultSeedMin and DefaultSeedMax.
func New() *Tracker {
	return NewWithSeed(DefaultSeedMin, DefaultSeedMax)
}

// NewWithSeed returns a tracker whose extent starts at the given bounds.
func NewWithSeed(seedMin, seedMax r3.Vector) *Tracker {
	return &Tracker{extent: Extent{Min: seedMin, Max: seedMax}}
}

// Observe widens the extent to include p.
//
// Non-finite coordinates are not filtered here; callers must reject them
// before they reach the tracker.
func (t *Tracker) Observe(p r3.Vector) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.extent.widen(p)
	t.observed++
}

// Center returns the midpoint of the current extent.
func (t *Tracker) Center() r3.Vector {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.extent.Center()
}

// ObserveAndCenter observes p and returns the resulting center under a single
// lock, so concurrent observers cannot interleave between the two steps.
func (t *Tracker) ObserveAndCenter(p r3.Vector) r3.Vector {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.extent.widen(p)
	t.observed++
	return t.extent.Center()
}

// Extent returns a copy of the current bounds.
func (t *Tracker) Extent() Extent {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.extent
}

// Observed returns how many positions have been observed.
func (t *Tracker) Observed() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.observed
}
