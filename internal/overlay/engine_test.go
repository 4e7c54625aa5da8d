package overlay

import (
	"testing"

	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/raster"
)

func TestRemoveCleanFrameReturnsInput(t *testing.T) {
	eng := New(DefaultConfig(), nil)
	img := solidRaster(100, 100, 30, 60, 90)

	out, stats, err := eng.Remove(img)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if out != img {
		t.Error("clean frame was copied; want the input raster back unchanged")
	}
	if stats.Candidates != 0 {
		t.Errorf("stats.Candidates = %d, want 0", stats.Candidates)
	}
}

func TestRemoveZeroDimensions(t *testing.T) {
	eng := New(DefaultConfig(), nil)
	for _, dims := range [][2]int{{0, 100}, {100, 0}} {
		img := &raster.Raster{Width: dims[0], Height: dims[1]}
		if _, _, err := eng.Remove(img); err != ErrInvalidDimensions {
			t.Errorf("Remove(%dx%d) err = %v, want ErrInvalidDimensions", dims[0], dims[1], err)
		}
	}
}

func TestRemoveTinyFrames(t *testing.T) {
	// 1x1 and 2x2 frames have an empty search region (30% of the width
	// truncates to zero columns) and must pass through without panicking.
	eng := New(DefaultConfig(), nil)
	for _, n := range []int{1, 2} {
		img := solidRaster(n, n, 255, 255, 255)
		out, _, err := eng.Remove(img)
		if err != nil {
			t.Fatalf("Remove(%dx%d): %v", n, n, err)
		}
		if out != img {
			t.Errorf("%dx%d frame was copied; want pass-through", n, n)
		}
	}
}

func TestRemoveErasesOverlayBar(t *testing.T) {
	eng := New(DefaultConfig(), nil)
	img := overlayScenario()

	out, stats, err := eng.Remove(img)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if stats.Candidates < 80 {
		t.Fatalf("stats.Candidates = %d, want at least the 80 bar pixels", stats.Candidates)
	}

	// Every ray that escapes the exclusion mask lands on black, so the
	// whole bar collapses back to the background color.
	want := solidRaster(100, 100, 0, 0, 0)
	if !out.Equal(want) {
		for y := 0; y < 100; y++ {
			for x := 0; x < 100; x++ {
				if r, g, b := out.At(x, y); r != 0 || g != 0 || b != 0 {
					t.Fatalf("pixel (%d, %d) = (%d, %d, %d) after removal, want black", x, y, r, g, b)
				}
			}
		}
	}
	if stats.LuminanceMean <= 0 || stats.LuminanceStdDev <= 0 {
		t.Errorf("luminance summary = (%.1f, %.1f), want positive mean and spread for a mixed set",
			stats.LuminanceMean, stats.LuminanceStdDev)
	}
}

func TestRemoveConverges(t *testing.T) {
	// Running detection on a cleaned frame finds nothing: a second
	// Remove is a no-op.
	eng := New(DefaultConfig(), nil)
	out, _, err := eng.Remove(overlayScenario())
	if err != nil {
		t.Fatalf("first Remove: %v", err)
	}
	again, stats, err := eng.Remove(out)
	if err != nil {
		t.Fatalf("second Remove: %v", err)
	}
	if stats.Candidates != 0 {
		t.Errorf("second pass found %d candidates, want 0", stats.Candidates)
	}
	if again != out {
		t.Error("second pass copied the frame; want pass-through")
	}
}

func TestRemoveDeterministic(t *testing.T) {
	eng := New(DefaultConfig(), nil)
	a, statsA, err := eng.Remove(overlayScenario())
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	b, statsB, err := eng.Remove(overlayScenario())
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !a.Equal(b) {
		t.Error("two runs over the same frame produced different pixels")
	}
	if statsA != statsB {
		t.Errorf("stats differ between runs: %+v vs %+v", statsA, statsB)
	}
}

func TestRemoveDoesNotModifyInput(t *testing.T) {
	eng := New(DefaultConfig(), nil)
	img := overlayScenario()
	snapshot := img.Clone()

	if _, _, err := eng.Remove(img); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !img.Equal(snapshot) {
		t.Error("Remove mutated its input raster")
	}
}

func TestRemoveAllBrightFrameDegrades(t *testing.T) {
	// A fully saturated frame gives the reconstruction nothing to sample
	// from: every stage falls through and the pixels keep their values.
	// The important part is that nothing panics or errors.
	eng := New(DefaultConfig(), nil)
	img := solidRaster(100, 100, 255, 255, 255)
	snapshot := img.Clone()

	out, stats, err := eng.Remove(img)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if stats.Candidates == 0 {
		t.Fatal("all-bright frame produced no candidates; detection should fire")
	}
	if !out.Equal(snapshot) {
		t.Error("with no usable samples the frame should come back unchanged")
	}
}
