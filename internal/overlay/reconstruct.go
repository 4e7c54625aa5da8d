package overlay

import (
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/raster"
)

// rayDirections are the 8 compass directions stage A casts rays along.
var rayDirections = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// rgb is a replacement color candidate.
type rgb struct {
	r, g, b uint8
}

func (c rgb) luminance() float64 {
	return 0.299*float64(c.r) + 0.587*float64(c.g) + 0.114*float64(c.b)
}

// reconstructor runs the three replacement stages for one candidate set.
// Every stage reads only the previous stage's completed output, so
// per-pixel results are independent of processing order.
type reconstructor struct {
	cfg        Config
	candidates *PixelSet
	mask       *Mask
}

// run produces the output raster: the original with every candidate pixel
// replaced by its stage C value (falling back to stage B, stage A, or the
// original value when a stage had nothing to act on). It also reports how
// many candidates each stage resolved.
func (rc *reconstructor) run(src *raster.Raster) (*raster.Raster, [3]int) {
	var resolved [3]int
	frozen := rc.candidates.Snapshot()

	stageA := src.Clone()
	resolved[0] = rc.raySample(src, stageA, frozen)

	stageB := stageA.Clone()
	resolved[1] = rc.smooth(stageA, stageB, frozen)

	stageC := stageB.Clone()
	resolved[2] = rc.cleanup(stageB, stageC, frozen)

	return stageC, resolved
}

// raySample implements stage A: for each candidate, cast rays along the 8
// compass directions and take the first sample per direction that lies
// inside the raster, outside the exclusion mask, and below the brightness
// ceiling on every channel. Four or more samples yield a per-channel
// median, at least one a per-channel mean; with none the pixel is copied
// through for this stage.
func (rc *reconstructor) raySample(src, dst *raster.Raster, frozen []Point) int {
	resolved := 0
	for _, p := range frozen {
		samples := make([]rgb, 0, len(rayDirections))
		for _, dir := range rayDirections {
			for dist := rc.cfg.RayMinDist; dist <= rc.cfg.RayMaxDist; dist++ {
				sx := p.X + dir[0]*dist
				sy := p.Y + dir[1]*dist
				if !src.In(sx, sy) {
					// A straight ray that left the raster cannot re-enter.
					break
				}
				if rc.mask.Has(sx, sy) {
					continue
				}
				r, g, b := src.At(sx, sy)
				if r < rc.cfg.RayBrightMax && g < rc.cfg.RayBrightMax && b < rc.cfg.RayBrightMax {
					samples = append(samples, rgb{r, g, b})
					break
				}
			}
		}
		switch {
		case len(samples) >= 4:
			m := medianRGB(samples)
			dst.Set(p.X, p.Y, m.r, m.g, m.b)
			resolved++
		case len(samples) >= 1:
			m := meanRGB(samples)
			dst.Set(p.X, p.Y, m.r, m.g, m.b)
			resolved++
		}
	}
	return resolved
}

// smooth implements stage B: a bilateral-like weighted average over a
// window around each candidate, excluding the inner sub-window, original
// candidates, and bright pixels. The weight combines spatial proximity
// with color similarity to the stage A value at the candidate.
func (rc *reconstructor) smooth(src, dst *raster.Raster, frozen []Point) int {
	resolved := 0
	rad := rc.cfg.SmoothRadius
	inner := rc.cfg.SmoothInnerRadius
	for _, p := range frozen {
		cr, cg, cb := src.At(p.X, p.Y)
		center := colorful.Color{R: float64(cr) / 255, G: float64(cg) / 255, B: float64(cb) / 255}

		var sumR, sumG, sumB, total float64
		for dy := -rad; dy <= rad; dy++ {
			for dx := -rad; dx <= rad; dx++ {
				if abs(dx) <= inner && abs(dy) <= inner {
					continue
				}
				sx, sy := p.X+dx, p.Y+dy
				if !src.In(sx, sy) {
					continue
				}
				if rc.candidates.Has(Point{sx, sy}) {
					continue
				}
				r, g, b := src.At(sx, sy)
				if r > rc.cfg.SmoothBrightMax || g > rc.cfg.SmoothBrightMax || b > rc.cfg.SmoothBrightMax {
					continue
				}

				spatial := math.Exp(-math.Sqrt(float64(dx*dx+dy*dy)) / rc.cfg.SpatialDecay)
				sample := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
				// DistanceRgb works on the [0,1] cube; the decay constant
				// was tuned for 8-bit euclidean distance.
				colorDist := center.DistanceRgb(sample) * 255
				weight := spatial * math.Exp(-colorDist/rc.cfg.ColorDecay)

				sumR += weight * float64(r)
				sumG += weight * float64(g)
				sumB += weight * float64(b)
				total += weight
			}
		}
		if total > 0 {
			dst.Set(p.X, p.Y,
				uint8(math.Round(sumR/total)),
				uint8(math.Round(sumG/total)),
				uint8(math.Round(sumB/total)))
			resolved++
		}
	}
	return resolved
}

// cleanup implements stage C: candidates still bright after smoothing are
// resampled from a wide window of dark pixels. A large enough pool yields
// the configured luminance percentile (a conservative, darker pick);
// a small pool the per-channel median; an empty one leaves stage B's
// value in place.
func (rc *reconstructor) cleanup(src, dst *raster.Raster, frozen []Point) int {
	resolved := 0
	rad := rc.cfg.CleanupRadius
	inner := rc.cfg.CleanupInnerRadius
	for _, p := range frozen {
		r, g, b := src.At(p.X, p.Y)
		if r <= rc.cfg.CleanupTrigger && g <= rc.cfg.CleanupTrigger && b <= rc.cfg.CleanupTrigger {
			continue
		}

		samples := make([]rgb, 0, 64)
		for dy := -rad; dy <= rad; dy++ {
			for dx := -rad; dx <= rad; dx++ {
				if abs(dx) <= inner && abs(dy) <= inner {
					continue
				}
				sx, sy := p.X+dx, p.Y+dy
				if !src.In(sx, sy) {
					continue
				}
				sr, sg, sb := src.At(sx, sy)
				if sr < rc.cfg.CleanupDarkMax && sg < rc.cfg.CleanupDarkMax && sb < rc.cfg.CleanupDarkMax {
					samples = append(samples, rgb{sr, sg, sb})
				}
			}
		}

		switch {
		case len(samples) >= rc.cfg.CleanupMinSamples:
			sort.Slice(samples, func(i, j int) bool {
				return samples[i].luminance() < samples[j].luminance()
			})
			pick := samples[len(samples)*rc.cfg.CleanupPercentile/100]
			dst.Set(p.X, p.Y, pick.r, pick.g, pick.b)
			resolved++
		case len(samples) >= 1:
			m := medianRGB(samples)
			dst.Set(p.X, p.Y, m.r, m.g, m.b)
			resolved++
		}
	}
	return resolved
}

// medianRGB returns the per-channel median. For even counts the upper
// median is taken.
func medianRGB(samples []rgb) rgb {
	n := len(samples)
	rs := make([]uint8, n)
	gs := make([]uint8, n)
	bs := make([]uint8, n)
	for i, s := range samples {
		rs[i], gs[i], bs[i] = s.r, s.g, s.b
	}
	sortChannel(rs)
	sortChannel(gs)
	sortChannel(bs)
	return rgb{rs[n/2], gs[n/2], bs[n/2]}
}

// meanRGB returns the per-channel arithmetic mean, rounded to nearest.
func meanRGB(samples []rgb) rgb {
	var sumR, sumG, sumB int
	for _, s := range samples {
		sumR += int(s.r)
		sumG += int(s.g)
		sumB += int(s.b)
	}
	n := len(samples)
	return rgb{
		uint8((sumR + n/2) / n),
		uint8((sumG + n/2) / n),
		uint8((sumB + n/2) / n),
	}
}

func sortChannel(vals []uint8) {
	sort.Slice(vals, func(i, j int) bool { return vals[i] < vals[j] })
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
