package overlay

import (
	"testing"

	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/raster"
)

// solidRaster builds a uniformly colored test frame.
func solidRaster(width, height int, r, g, b uint8) *raster.Raster {
	img := raster.New(width, height)
	img.Fill(r, g, b)
	return img
}

// overlayScenario builds the canonical test frame: a 100x100 black image
// with a white 20x4 bar at (10, 80), sitting inside the default search
// region like a real AF glyph fragment.
func overlayScenario() *raster.Raster {
	img := solidRaster(100, 100, 0, 0, 0)
	for y := 80; y < 84; y++ {
		for x := 10; x < 30; x++ {
			img.Set(x, y, 255, 255, 255)
		}
	}
	return img
}

func TestSearchRegionDefaults(t *testing.T) {
	cfg := DefaultConfig()
	img := raster.New(100, 100)
	reg := cfg.searchRegion(img)
	if reg.MaxX != 30 {
		t.Errorf("MaxX = %d, want 30", reg.MaxX)
	}
	if reg.MinY != 60 {
		t.Errorf("MinY = %d, want 60", reg.MinY)
	}
	if reg.MaxY != 100 {
		t.Errorf("MaxY = %d, want 100", reg.MaxY)
	}
	if reg.contains(30, 80) {
		t.Error("contains(30, 80) = true, want false (x bound is exclusive)")
	}
	if !reg.contains(29, 60) {
		t.Error("contains(29, 60) = false, want true")
	}
	if reg.contains(10, 59) {
		t.Error("contains(10, 59) = true, want false (above region)")
	}
}

func TestDetectFindsOverlayBar(t *testing.T) {
	eng := New(DefaultConfig(), nil)
	img := overlayScenario()

	set, added, err := eng.Detect(img)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if added[0] != 80 {
		t.Errorf("brightness pass added %d, want 80 (the 20x4 bar)", added[0])
	}
	for y := 80; y < 84; y++ {
		for x := 10; x < 30; x++ {
			if !set.Has(Point{x, y}) {
				t.Fatalf("bar pixel (%d, %d) missing from candidate set", x, y)
			}
		}
	}
	if set.Len() < 80 {
		t.Errorf("candidate set has %d pixels, want at least the 80 bar pixels", set.Len())
	}
}

func TestDetectCleanFrameEmpty(t *testing.T) {
	eng := New(DefaultConfig(), nil)
	set, added, err := eng.Detect(solidRaster(100, 100, 0, 0, 0))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if set.Len() != 0 {
		t.Errorf("black frame produced %d candidates, want 0", set.Len())
	}
	for i, n := range added {
		if n != 0 {
			t.Errorf("pass %d added %d on a black frame, want 0", i+1, n)
		}
	}
}

func TestDetectGrayFrameEmpty(t *testing.T) {
	// Mid-gray is below both the brightness and the edge-luminance
	// thresholds, so no pass fires.
	eng := New(DefaultConfig(), nil)
	set, _, err := eng.Detect(solidRaster(50, 50, 128, 128, 128))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if set.Len() != 0 {
		t.Errorf("gray frame produced %d candidates, want 0", set.Len())
	}
}

func TestDetectIgnoresPixelsOutsideRegion(t *testing.T) {
	// Same bar as the scenario, moved to the top-right quadrant where
	// the glyph never appears.
	img := solidRaster(100, 100, 0, 0, 0)
	for y := 10; y < 14; y++ {
		for x := 60; x < 80; x++ {
			img.Set(x, y, 255, 255, 255)
		}
	}
	eng := New(DefaultConfig(), nil)
	set, _, err := eng.Detect(img)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if set.Len() != 0 {
		t.Errorf("out-of-region bar produced %d candidates, want 0", set.Len())
	}
}

func TestDetectZeroDimensions(t *testing.T) {
	eng := New(DefaultConfig(), nil)
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {0, 0}} {
		img := &raster.Raster{Width: dims[0], Height: dims[1]}
		if _, _, err := eng.Detect(img); err != ErrInvalidDimensions {
			t.Errorf("Detect(%dx%d) err = %v, want ErrInvalidDimensions", dims[0], dims[1], err)
		}
	}
}

func TestBuildExclusionDilation(t *testing.T) {
	cfg := DefaultConfig()
	set := NewPixelSet()
	set.Add(Point{20, 80})

	mask := buildExclusion(set, 100, 100, cfg)

	want := (2*cfg.MaskRadiusY + 1) * (2*cfg.MaskRadiusX + 1)
	if got := mask.Count(); got != want {
		t.Errorf("mask count = %d, want %d", got, want)
	}
	if !mask.Has(20, 80) {
		t.Error("mask misses the candidate itself")
	}
	if !mask.Has(20-cfg.MaskRadiusX, 80-cfg.MaskRadiusY) {
		t.Error("mask misses the dilation corner")
	}
	if mask.Has(20-cfg.MaskRadiusX-1, 80) {
		t.Error("mask extends past the column radius")
	}
	if mask.Has(20, 80+cfg.MaskRadiusY+1) {
		t.Error("mask extends past the row radius")
	}
}

func TestBuildExclusionClipsToBounds(t *testing.T) {
	cfg := DefaultConfig()
	set := NewPixelSet()
	set.Add(Point{0, 0})

	mask := buildExclusion(set, 5, 5, cfg)
	if got := mask.Count(); got != 25 {
		t.Errorf("mask count = %d, want the whole 5x5 raster", got)
	}
	if mask.Has(-1, 0) || mask.Has(0, -1) || mask.Has(5, 0) {
		t.Error("Has reports true outside the raster")
	}
}
