// Package push manages push regions: geographic rectangles whose
// terrain is displaced as a whole. A region carries an inner rectangle
// receiving full displacement and an outer rectangle bounding the
// blend zone around it; the package slices terrain tile meshes along
// both boundaries so displacement can stop exactly at them.
package push

import (
	"sync"

	"github.com/mapfault/terrapush/pkg/geodetic"
)

// BlendFraction scales the shorter side of the rectangle being set to
// derive the margin between the inner and outer boundary.
const BlendFraction = 0.001

// Region tracks the rectangle pair of one push region. Setting either
// rectangle derives the other from it. Safe for concurrent use; tile
// transformations work on a Boundaries snapshot and never see a
// half-updated pair.
type Region struct {
	mu    sync.RWMutex
	inner geodetic.Rectangle
	outer geodetic.Rectangle
}

// Boundaries is an immutable snapshot of a region's rectangle pair.
type Boundaries struct {
	Inner geodetic.Rectangle
	Outer geodetic.Rectangle
}

// NewRegion builds a region with the given inner rectangle; the outer
// rectangle is derived from it.
func NewRegion(inner geodetic.Rectangle) *Region {
	r := &Region{}
	r.SetInnerRectangle(inner)
	return r
}

// NewRegionFromOuter builds a region with the given outer rectangle;
// the inner rectangle is derived from it.
func NewRegionFromOuter(outer geodetic.Rectangle) *Region {
	r := &Region{}
	r.SetOuterRectangle(outer)
	return r
}

// SetInnerRectangle sets the inner rectangle and derives the outer one
// by expanding it with the blend margin.
func (r *Region) SetInnerRectangle(inner geodetic.Rectangle) {
	margin := blendMargin(inner)
	r.mu.Lock()
	r.inner = inner
	r.outer = inner.ExpandedBy(margin)
	r.mu.Unlock()
}

// SetOuterRectangle sets the outer rectangle and derives the inner one
// by shrinking it with the blend margin.
func (r *Region) SetOuterRectangle(outer geodetic.Rectangle) {
	margin := blendMargin(outer)
	r.mu.Lock()
	r.outer = outer
	r.inner = outer.ExpandedBy(-margin)
	r.mu.Unlock()
}

// InnerRectangle returns the rectangle receiving full displacement.
func (r *Region) InnerRectangle() geodetic.Rectangle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.inner
}

// OuterRectangle returns the rectangle bounding the blend zone.
func (r *Region) OuterRectangle() geodetic.Rectangle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.outer
}

// Boundaries returns a consistent snapshot of both rectangles.
func (r *Region) Boundaries() Boundaries {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Boundaries{Inner: r.inner, Outer: r.outer}
}

// blendMargin returns the blend zone width in radians for a rectangle:
// BlendFraction of its shorter side.
func blendMargin(rect geodetic.Rectangle) float64 {
	m := rect.Width()
	if h := rect.Height(); h < m {
		m = h
	}
	return BlendFraction * m
}
