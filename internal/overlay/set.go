package overlay

import "sort"

// Point is an integer pixel coordinate.
type Point struct {
	X int
	Y int
}

// PixelSet is a set of unique pixel coordinates. It is the candidate-set
// type built by detection and consumed by reconstruction.
//
// Iteration over the live map is never used by the pipeline; passes and
// stages iterate a frozen, coordinate-ordered snapshot so results do not
// depend on map ordering.
type PixelSet struct {
	points map[Point]struct{}
}

// NewPixelSet returns an empty set.
func NewPixelSet() *PixelSet {
	return &PixelSet{points: make(map[Point]struct{})}
}

// Add inserts p into the set.
func (s *PixelSet) Add(p Point) {
	s.points[p] = struct{}{}
}

// Has reports whether p is in the set.
func (s *PixelSet) Has(p Point) bool {
	_, ok := s.points[p]
	return ok
}

// Len returns the number of pixels in the set.
func (s *PixelSet) Len() int {
	return len(s.points)
}

// Union inserts every pixel of other into s.
func (s *PixelSet) Union(other *PixelSet) {
	for p := range other.points {
		s.points[p] = struct{}{}
	}
}

// Snapshot returns the set's pixels as a new slice ordered by (y, x).
// Mutating the set afterwards does not affect the snapshot.
func (s *PixelSet) Snapshot() []Point {
	out := make([]Point, 0, len(s.points))
	for p := range s.points {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// SubsetOf reports whether every pixel of s is also in other.
func (s *PixelSet) SubsetOf(other *PixelSet) bool {
	for p := range s.points {
		if !other.Has(p) {
			return false
		}
	}
	return true
}

// Mask is a dense boolean grid, used for the exclusion mask. It is
// cheaper to probe than a map when reconstruction tests millions of
// sample positions.
type Mask struct {
	width  int
	height int
	bits   []bool
}

// NewMask returns an all-false mask of the given dimensions.
func NewMask(width, height int) *Mask {
	return &Mask{width: width, height: height, bits: make([]bool, width*height)}
}

// Set marks (x, y). Out-of-bounds coordinates are ignored.
func (m *Mask) Set(x, y int) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	m.bits[y*m.width+x] = true
}

// Has reports whether (x, y) is marked. Out-of-bounds coordinates
// report false.
func (m *Mask) Has(x, y int) bool {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return false
	}
	return m.bits[y*m.width+x]
}

// Count returns the number of marked pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}
