package overlay

import "github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/raster"

// Config holds every tunable threshold of the detection and
// reconstruction pipeline. Pass it by value; the engine never mutates it.
//
// The defaults returned by DefaultConfig were tuned against a Canon EOS
// Rebel T7 over a v4l2 loopback in booth lighting. None of them are
// derived from first principles; treat them as a starting point for other
// cameras.
type Config struct {
	// RegionWidthFrac and RegionHeightFrac define the search region: the
	// AF glyph appears in the bottom RegionHeightFrac of the frame and
	// the left RegionWidthFrac of its width.
	RegionWidthFrac  float64
	RegionHeightFrac float64

	// BrightThreshold is the per-channel floor for pass 1: a pixel is a
	// seed candidate when all three channels exceed it.
	BrightThreshold uint8

	// EdgeContrastMin is the minimum max-absolute luminance difference to
	// the 8 neighbors for pass 2, and EdgeLuminanceMin the pixel's own
	// minimum luminance.
	EdgeContrastMin  float64
	EdgeLuminanceMin float64

	// MergeRadius is the half-width of the square neighborhood used by
	// pass 3 to keep only edge pixels near a pass-1 seed (2 means 5x5).
	MergeRadius int

	// ExpandRadius and ExpandChannelMin control pass 4: neighbors within
	// the radius (clipped to the search region) join the set when any
	// single channel exceeds the threshold.
	ExpandRadius     int
	ExpandChannelMin uint8

	// LineVerticalSpan is how far pass 5 extends a horizontal-line member
	// up and down its column. LineHorizontalSpan is how far it extends a
	// vertical-line member along its row, and LineRightOverflow how many
	// pixels that extension may spill past the search region's right edge.
	LineVerticalSpan   int
	LineHorizontalSpan int
	LineRightOverflow  int

	// UpwardScan is how many pixels pass 6 looks above a candidate for a
	// bright pixel (any channel above ExpandChannelMin) to close gaps at
	// the glyph's top border.
	UpwardScan int

	// CornerRadius is the half-width of pass 7's flood window around
	// L-junctions (6 means 13x13); CornerChannelMin is the per-channel
	// brightness a pixel in the window needs on any channel to be added.
	CornerRadius     int
	CornerChannelMin uint8

	// MaskRadiusY and MaskRadiusX dilate the candidate set into the
	// exclusion mask that sampling must avoid.
	MaskRadiusY int
	MaskRadiusX int

	// RayMinDist and RayMaxDist bound the scan along each of the 8
	// compass rays in stage A; RayBrightMax rejects samples with any
	// channel at or above it.
	RayMinDist   int
	RayMaxDist   int
	RayBrightMax uint8

	// SmoothRadius and SmoothInnerRadius define stage B's sampling window
	// (15/4 means a 31x31 window minus the inner 9x9). SmoothBrightMax
	// rejects samples with any channel above it. SpatialDecay and
	// ColorDecay are the exponential weight constants.
	SmoothRadius      int
	SmoothInnerRadius int
	SmoothBrightMax   uint8
	SpatialDecay      float64
	ColorDecay        float64

	// CleanupTrigger selects stage C's targets: candidates still having
	// any channel above it after stage B. CleanupRadius/CleanupInnerRadius
	// define the resampling window (20/8 means 41x41 minus 17x17),
	// CleanupDarkMax the all-channels ceiling for usable samples,
	// CleanupMinSamples the pool size needed for the percentile path, and
	// CleanupPercentile the luminance percentile taken from that pool.
	CleanupTrigger     uint8
	CleanupRadius      int
	CleanupInnerRadius int
	CleanupDarkMax     uint8
	CleanupMinSamples  int
	CleanupPercentile  int
}

// DefaultConfig returns the empirically tuned defaults.
func DefaultConfig() Config {
	return Config{
		RegionWidthFrac:  0.30,
		RegionHeightFrac: 0.40,

		BrightThreshold: 235,

		EdgeContrastMin:  50,
		EdgeLuminanceMin: 180,

		MergeRadius: 2,

		ExpandRadius:     2,
		ExpandChannelMin: 200,

		LineVerticalSpan:   8,
		LineHorizontalSpan: 4,
		LineRightOverflow:  5,

		UpwardScan: 20,

		CornerRadius:     6,
		CornerChannelMin: 180,

		MaskRadiusY: 10,
		MaskRadiusX: 7,

		RayMinDist:   12,
		RayMaxDist:   25,
		RayBrightMax: 200,

		SmoothRadius:      15,
		SmoothInnerRadius: 4,
		SmoothBrightMax:   210,
		SpatialDecay:      10,
		ColorDecay:        50,

		CleanupTrigger:     220,
		CleanupRadius:      20,
		CleanupInnerRadius: 8,
		CleanupDarkMax:     180,
		CleanupMinSamples:  10,
		CleanupPercentile:  25,
	}
}

// Region is the sub-rectangle of a raster that detection scans:
// 0 <= x < MaxX, MinY <= y < MaxY.
type Region struct {
	MaxX int
	MinY int
	MaxY int
}

// searchRegion computes the region for a raster of the given dimensions.
// For a 100x100 frame with the defaults this is x < 30, y >= 60.
func (c Config) searchRegion(r *raster.Raster) Region {
	return Region{
		MaxX: int(float64(r.Width) * c.RegionWidthFrac),
		MinY: r.Height - int(float64(r.Height)*c.RegionHeightFrac),
		MaxY: r.Height,
	}
}

// contains reports whether (x, y) lies inside the region.
func (reg Region) contains(x, y int) bool {
	return x >= 0 && x < reg.MaxX && y >= reg.MinY && y < reg.MaxY
}
