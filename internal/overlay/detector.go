package overlay

import (
	"math"

	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/raster"
)

// detector runs the seven candidate-detection passes over one raster.
// It is built fresh for every Detect call; nothing is retained.
type detector struct {
	img    *raster.Raster
	cfg    Config
	region Region
}

// run executes the passes in order, unioning each pass's add-set into the
// running candidate set only after the pass completes. It returns the
// final set together with the per-pass added counts (pass 2 reports the
// size of the edge set it hands to pass 3, which performs the union).
func (d *detector) run() (*PixelSet, [7]int) {
	var passAdds [7]int
	set := NewPixelSet()

	seeds := d.passBrightness()
	passAdds[0] = seeds.Len()
	set.Union(seeds)

	// Pass 2 finds contrast edges but does not grow the set itself: pass 3
	// admits only the edges that sit near a pass-1 seed, so unrelated
	// high-contrast texture is never absorbed.
	edges := d.passContrastEdges()
	passAdds[1] = edges.Len()

	merged := d.passProximityMerge(edges, seeds)
	passAdds[2] = grow(set, merged)

	expand := d.passLocalExpansion(set.Snapshot())
	passAdds[3] = grow(set, expand)

	lines := d.passLineExpansion(set.Snapshot(), set)
	passAdds[4] = grow(set, lines)

	upward := d.passUpwardCompletion(set.Snapshot())
	passAdds[5] = grow(set, upward)

	corners := d.passCornerFill(set.Snapshot(), set)
	passAdds[6] = grow(set, corners)

	return set, passAdds
}

// grow unions add into set and returns how many pixels were actually new.
func grow(set, add *PixelSet) int {
	before := set.Len()
	set.Union(add)
	return set.Len() - before
}

// passBrightness adds every search-region pixel whose three channels all
// exceed the brightness threshold.
func (d *detector) passBrightness() *PixelSet {
	out := NewPixelSet()
	thr := d.cfg.BrightThreshold
	for y := d.region.MinY; y < d.region.MaxY; y++ {
		for x := 0; x < d.region.MaxX; x++ {
			r, g, b := d.img.At(x, y)
			if r > thr && g > thr && b > thr {
				out.Add(Point{x, y})
			}
		}
	}
	return out
}

// passContrastEdges finds pixels in the region interior whose maximum
// absolute luminance difference to any of the 8 neighbors exceeds the
// contrast threshold and whose own luminance is high enough.
func (d *detector) passContrastEdges() *PixelSet {
	out := NewPixelSet()
	for y := d.region.MinY + 1; y < d.region.MaxY-1; y++ {
		for x := 1; x < d.region.MaxX-1; x++ {
			own := d.img.Luminance(x, y)
			if own <= d.cfg.EdgeLuminanceMin {
				continue
			}
			maxDiff := 0.0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					diff := math.Abs(own - d.img.Luminance(x+dx, y+dy))
					if diff > maxDiff {
						maxDiff = diff
					}
				}
			}
			if maxDiff > d.cfg.EdgeContrastMin {
				out.Add(Point{x, y})
			}
		}
	}
	return out
}

// passProximityMerge keeps only the edge pixels with at least one
// brightness seed inside their merge neighborhood.
func (d *detector) passProximityMerge(edges, seeds *PixelSet) *PixelSet {
	out := NewPixelSet()
	rad := d.cfg.MergeRadius
	for _, p := range edges.Snapshot() {
		if hasNeighborIn(seeds, p, rad) {
			out.Add(p)
		}
	}
	return out
}

func hasNeighborIn(set *PixelSet, p Point, rad int) bool {
	for dy := -rad; dy <= rad; dy++ {
		for dx := -rad; dx <= rad; dx++ {
			if set.Has(Point{p.X + dx, p.Y + dy}) {
				return true
			}
		}
	}
	return false
}

// passLocalExpansion adds bright neighbors of current candidates. The
// neighborhood is clipped to the search region: this pass never leaks
// outside it.
func (d *detector) passLocalExpansion(frozen []Point) *PixelSet {
	out := NewPixelSet()
	rad := d.cfg.ExpandRadius
	thr := d.cfg.ExpandChannelMin
	for _, p := range frozen {
		for dy := -rad; dy <= rad; dy++ {
			for dx := -rad; dx <= rad; dx++ {
				nx, ny := p.X+dx, p.Y+dy
				if !d.region.contains(nx, ny) {
					continue
				}
				r, g, b := d.img.At(nx, ny)
				if r > thr || g > thr || b > thr {
					out.Add(Point{nx, ny})
				}
			}
		}
	}
	return out
}

// passLineExpansion extends line members along the perpendicular axis.
// A candidate with a set-neighbor directly left or right is part of a
// horizontal line, so its column is filled for y±LineVerticalSpan
// (clipped to the raster, not the region: the glyph's top edge may sit
// above the nominal region). A candidate with a set-neighbor directly
// above or below is part of a vertical line, so its row is filled for
// x±LineHorizontalSpan with a bounded overflow past the region's right
// edge.
func (d *detector) passLineExpansion(frozen []Point, set *PixelSet) *PixelSet {
	out := NewPixelSet()
	maxX := d.region.MaxX + d.cfg.LineRightOverflow
	if maxX > d.img.Width {
		maxX = d.img.Width
	}
	for _, p := range frozen {
		horizontal := set.Has(Point{p.X - 1, p.Y}) || set.Has(Point{p.X + 1, p.Y})
		vertical := set.Has(Point{p.X, p.Y - 1}) || set.Has(Point{p.X, p.Y + 1})

		if horizontal {
			for dy := -d.cfg.LineVerticalSpan; dy <= d.cfg.LineVerticalSpan; dy++ {
				ny := p.Y + dy
				if ny >= 0 && ny < d.img.Height {
					out.Add(Point{p.X, ny})
				}
			}
		}
		if vertical {
			for dx := -d.cfg.LineHorizontalSpan; dx <= d.cfg.LineHorizontalSpan; dx++ {
				nx := p.X + dx
				if nx >= 0 && nx < maxX {
					out.Add(Point{nx, p.Y})
				}
			}
		}
	}
	return out
}

// passUpwardCompletion scans above each candidate for a bright pixel and
// fills the vertical gap up to the first one found, closing holes at the
// glyph's top border.
func (d *detector) passUpwardCompletion(frozen []Point) *PixelSet {
	out := NewPixelSet()
	thr := d.cfg.ExpandChannelMin
	for _, p := range frozen {
		for dy := 1; dy <= d.cfg.UpwardScan; dy++ {
			ny := p.Y - dy
			if ny < 0 {
				break
			}
			r, g, b := d.img.At(p.X, ny)
			if r > thr || g > thr || b > thr {
				for fy := ny; fy < p.Y; fy++ {
					out.Add(Point{p.X, fy})
				}
				break
			}
		}
	}
	return out
}

// passCornerFill flood-adds bright pixels around L-junctions: candidates
// that have both a horizontal and a vertical set-neighbor.
func (d *detector) passCornerFill(frozen []Point, set *PixelSet) *PixelSet {
	out := NewPixelSet()
	rad := d.cfg.CornerRadius
	thr := d.cfg.CornerChannelMin
	for _, p := range frozen {
		horizontal := set.Has(Point{p.X - 1, p.Y}) || set.Has(Point{p.X + 1, p.Y})
		vertical := set.Has(Point{p.X, p.Y - 1}) || set.Has(Point{p.X, p.Y + 1})
		if !horizontal || !vertical {
			continue
		}
		for dy := -rad; dy <= rad; dy++ {
			for dx := -rad; dx <= rad; dx++ {
				nx, ny := p.X+dx, p.Y+dy
				if !d.img.In(nx, ny) {
					continue
				}
				r, g, b := d.img.At(nx, ny)
				if r > thr || g > thr || b > thr {
					out.Add(Point{nx, ny})
				}
			}
		}
	}
	return out
}

// buildExclusion dilates the candidate set by the mask radii, clipped to
// the raster bounds. Pure set dilation; pixel values are never inspected.
func buildExclusion(candidates *PixelSet, width, height int, cfg Config) *Mask {
	mask := NewMask(width, height)
	for _, p := range candidates.Snapshot() {
		x0 := raster.Clamp(p.X-cfg.MaskRadiusX, 0, width-1)
		x1 := raster.Clamp(p.X+cfg.MaskRadiusX, 0, width-1)
		y0 := raster.Clamp(p.Y-cfg.MaskRadiusY, 0, height-1)
		y1 := raster.Clamp(p.Y+cfg.MaskRadiusY, 0, height-1)
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				mask.Set(x, y)
			}
		}
	}
	return mask
}
