package overlay

import (
	"errors"
	"io"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/raster"
)

// ErrInvalidDimensions is returned when a raster has a zero width or
// height. It is the only error the engine produces; every other input,
// including frames with no overlay at all, is handled by degrading to a
// best-effort (or unchanged) result.
var ErrInvalidDimensions = errors.New("overlay: raster has zero width or height")

// Stats describes one removal run. All counts refer to the candidate set
// before dilation unless noted.
type Stats struct {
	// PassAdded holds how many pixels each of the seven detection passes
	// contributed to the candidate set.
	PassAdded [7]int
	// Candidates is the final candidate count, Excluded the size of the
	// dilated exclusion mask.
	Candidates int
	Excluded   int
	// StageResolved holds how many candidates each reconstruction stage
	// replaced. Stage C only counts pixels still bright after stage B.
	StageResolved [3]int
	// LuminanceMean and LuminanceStdDev summarize the detected pixels in
	// the input frame; useful for spotting misdetections in the field
	// (a genuine AF glyph sits well above 200).
	LuminanceMean   float64
	LuminanceStdDev float64
}

// Engine detects and removes the autofocus overlay glyph from captured
// frames. The zero value is not usable; construct with New. An Engine is
// stateless between calls and safe for concurrent use.
type Engine struct {
	cfg Config
	log *slog.Logger
}

// New returns an Engine with the given configuration. A nil logger
// disables event reporting.
func New(cfg Config, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{cfg: cfg, log: log}
}

// Detect runs the seven detection passes and returns the candidate set
// with per-pass growth counts. The input is not modified.
func (e *Engine) Detect(img *raster.Raster) (*PixelSet, [7]int, error) {
	if img.Width == 0 || img.Height == 0 {
		return nil, [7]int{}, ErrInvalidDimensions
	}
	d := &detector{img: img, cfg: e.cfg, region: e.cfg.searchRegion(img)}
	set, added := d.run()
	return set, added, nil
}

// BuildExclusion dilates a candidate set into the mask that
// reconstruction sampling must avoid.
func (e *Engine) BuildExclusion(candidates *PixelSet, width, height int) *Mask {
	return buildExclusion(candidates, width, height, e.cfg)
}

// Reconstruct replaces every candidate pixel in a copy of img using the
// three-stage pipeline and returns the copy. The input is not modified.
func (e *Engine) Reconstruct(img *raster.Raster, candidates *PixelSet, mask *Mask) (*raster.Raster, [3]int, error) {
	if img.Width == 0 || img.Height == 0 {
		return nil, [3]int{}, ErrInvalidDimensions
	}
	rc := &reconstructor{cfg: e.cfg, candidates: candidates, mask: mask}
	out, resolved := rc.run(img)
	return out, resolved, nil
}

// Remove runs the full pipeline: detect, dilate, reconstruct. When no
// candidates are found the input raster is returned as-is (same pointer),
// so clean frames cost a detection scan and nothing else. The returned
// Stats are valid even on that path.
func (e *Engine) Remove(img *raster.Raster) (*raster.Raster, Stats, error) {
	var stats Stats

	candidates, added, err := e.Detect(img)
	if err != nil {
		return nil, stats, err
	}
	stats.PassAdded = added
	stats.Candidates = candidates.Len()

	if candidates.Len() == 0 {
		e.log.Debug("overlay not found", "width", img.Width, "height", img.Height)
		return img, stats, nil
	}

	stats.LuminanceMean, stats.LuminanceStdDev = luminanceSummary(img, candidates)

	mask := e.BuildExclusion(candidates, img.Width, img.Height)
	stats.Excluded = mask.Count()

	out, resolved, err := e.Reconstruct(img, candidates, mask)
	if err != nil {
		return nil, stats, err
	}
	stats.StageResolved = resolved

	e.log.Info("overlay removed",
		"candidates", stats.Candidates,
		"excluded", stats.Excluded,
		"ray_resolved", resolved[0],
		"smooth_resolved", resolved[1],
		"cleanup_resolved", resolved[2],
		"luminance_mean", stats.LuminanceMean)
	return out, stats, nil
}

// luminanceSummary computes mean and standard deviation of the candidate
// pixels' luminance in the source frame.
func luminanceSummary(img *raster.Raster, candidates *PixelSet) (mean, stddev float64) {
	pts := candidates.Snapshot()
	lums := make([]float64, len(pts))
	for i, p := range pts {
		lums[i] = img.Luminance(p.X, p.Y)
	}
	mean = stat.Mean(lums, nil)
	if len(lums) > 1 {
		stddev = stat.StdDev(lums, nil)
	}
	return mean, stddev
}
