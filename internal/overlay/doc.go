// Package overlay detects and removes the camera's autofocus indicator
// overlay from captured frames.
//
// Some capture paths burn a bright rectangular AF-box glyph into the
// raster. This package locates the pixels belonging to that glyph and
// replaces them with plausible surrounding content so the final print
// looks like an unmarked photograph.
//
// # Pipeline
//
// Removal is a single-shot, stateless transform:
//
//  1. Detection: seven cumulative passes over the search region (bottom-left
//     of the frame, where the glyph appears) build a candidate pixel set:
//     brightness threshold, contrast edges, proximity merge, local
//     expansion, directional line expansion, upward edge completion and
//     corner fill.
//  2. Exclusion mask: the candidate set is dilated so reconstruction never
//     samples from the glyph or its anti-aliasing halo.
//  3. Reconstruction: three stages compute replacement colors. Directional
//     ray sampling runs first, then bilateral-like weighted smoothing, then
//     an aggressive percentile cleanup for pixels still bright after
//     smoothing.
//
// Each detection pass reads a frozen snapshot of the set built so far and
// contributes an add-set; unions are applied only between passes. Each
// reconstruction stage reads only the previous stage's completed output.
// Both rules keep per-pixel results independent of iteration order.
//
// # Degradation
//
// An empty candidate set is the common case (no overlay in frame) and is
// signaled by returning the input unchanged. A stage that finds no usable
// samples for a pixel falls through to the previous stage's value, and
// ultimately to the original pixel. The only error the package surfaces
// is ErrInvalidDimensions for a zero-width or zero-height raster.
//
// # Tuning
//
// Every threshold lives in Config. The defaults were tuned empirically
// against one camera and lighting setup; re-validate them before trusting
// them on different hardware.
package overlay
