package overlay

import "testing"

func TestMedianRGBOddCount(t *testing.T) {
	samples := []rgb{{10, 200, 30}, {30, 100, 10}, {20, 150, 20}}
	got := medianRGB(samples)
	want := rgb{20, 150, 20}
	if got != want {
		t.Errorf("medianRGB = %+v, want %+v", got, want)
	}
}

func TestMedianRGBEvenCountTakesUpper(t *testing.T) {
	samples := []rgb{{10, 10, 10}, {20, 20, 20}, {30, 30, 30}, {40, 40, 40}}
	got := medianRGB(samples)
	want := rgb{30, 30, 30}
	if got != want {
		t.Errorf("medianRGB = %+v, want the upper median %+v", got, want)
	}
}

func TestMedianRGBChannelsIndependent(t *testing.T) {
	// Channels are sorted independently; the result need not be any
	// single input sample.
	samples := []rgb{{100, 0, 50}, {0, 100, 0}, {50, 50, 100}}
	got := medianRGB(samples)
	want := rgb{50, 50, 50}
	if got != want {
		t.Errorf("medianRGB = %+v, want %+v", got, want)
	}
}

func TestMeanRGBRoundsToNearest(t *testing.T) {
	samples := []rgb{{0, 0, 10}, {1, 2, 11}}
	got := meanRGB(samples)
	want := rgb{1, 1, 11} // 0.5 rounds up, 1.0 exact, 10.5 rounds up
	if got != want {
		t.Errorf("meanRGB = %+v, want %+v", got, want)
	}
}

func TestRaySampleCopiesThroughWhenAllRaysBlocked(t *testing.T) {
	// A small raster whose entire area is inside the exclusion mask: no
	// ray can find a sample, so stage A copies the candidate through.
	cfg := DefaultConfig()
	img := solidRaster(20, 20, 0, 0, 0)
	img.Set(10, 10, 255, 255, 255)

	set := NewPixelSet()
	set.Add(Point{10, 10})
	mask := NewMask(20, 20)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			mask.Set(x, y)
		}
	}

	rc := &reconstructor{cfg: cfg, candidates: set, mask: mask}
	dst := img.Clone()
	if resolved := rc.raySample(img, dst, set.Snapshot()); resolved != 0 {
		t.Errorf("stage A resolved %d, want 0 with every sample masked", resolved)
	}
	r, g, b := dst.At(10, 10)
	if g != 255 {
		t.Errorf("blocked candidate became (%d, %d, %d), want copied through", r, g, b)
	}
}

func TestSmoothingSamplesInsideExclusionMask(t *testing.T) {
	// The exclusion mask gates stage A only. With every ray blocked the
	// candidate survives stage A unchanged, but the smoothing stage
	// still draws on the dark non-candidate neighbors and resolves it.
	cfg := DefaultConfig()
	img := solidRaster(20, 20, 0, 0, 0)
	img.Set(10, 10, 255, 255, 255)

	set := NewPixelSet()
	set.Add(Point{10, 10})
	mask := NewMask(20, 20)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			mask.Set(x, y)
		}
	}

	rc := &reconstructor{cfg: cfg, candidates: set, mask: mask}
	out, resolved := rc.run(img)
	if resolved[0] != 0 {
		t.Fatalf("stage A resolved %d, want 0 with every sample masked", resolved[0])
	}
	if resolved[1] != 1 {
		t.Fatalf("stage B resolved %d, want 1", resolved[1])
	}
	r, g, b := out.At(10, 10)
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("smoothed candidate = (%d, %d, %d), want (0, 0, 0)", r, g, b)
	}
}

func TestRaySamplePrefersNearestAcceptable(t *testing.T) {
	// One unmasked dark pixel per usable ray direction. The east ray
	// meets a gray pixel at the minimum distance and a brighter (but
	// still acceptable) one further out; only the near one may be used.
	cfg := DefaultConfig()
	cfg.RayMinDist = 3
	cfg.RayMaxDist = 6

	img := solidRaster(30, 30, 255, 255, 255)
	img.Set(15+3, 15, 40, 40, 40)
	img.Set(15+5, 15, 120, 120, 120)

	set := NewPixelSet()
	set.Add(Point{15, 15})
	mask := NewMask(30, 30)

	rc := &reconstructor{cfg: cfg, candidates: set, mask: mask}
	dst := img.Clone()
	if resolved := rc.raySample(img, dst, set.Snapshot()); resolved != 1 {
		t.Fatalf("stage A resolved %d, want 1", resolved)
	}
	// Exactly one ray found a sample, so the mean path applies and the
	// stage A value is the near sample itself.
	if r, _, _ := dst.At(15, 15); r != 40 {
		t.Errorf("stage A value = %d, want 40 (nearest acceptable sample)", r)
	}
}

func TestReconstructLeavesNonCandidatesUntouched(t *testing.T) {
	eng := New(DefaultConfig(), nil)
	img := overlayScenario()

	set, _, err := eng.Detect(img)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	mask := eng.BuildExclusion(set, img.Width, img.Height)
	out, _, err := eng.Reconstruct(img, set, mask)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			if set.Has(Point{x, y}) {
				continue
			}
			or, og, ob := out.At(x, y)
			ir, ig, ib := img.At(x, y)
			if or != ir || og != ig || ob != ib {
				t.Fatalf("non-candidate (%d, %d) changed from (%d,%d,%d) to (%d,%d,%d)",
					x, y, ir, ig, ib, or, og, ob)
			}
		}
	}
}

func TestCleanupSkipsDarkCandidates(t *testing.T) {
	// Candidates already dark after smoothing are not touched by stage C.
	cfg := DefaultConfig()
	img := solidRaster(10, 10, 50, 50, 50)
	set := NewPixelSet()
	set.Add(Point{5, 5})

	rc := &reconstructor{cfg: cfg, candidates: set, mask: NewMask(10, 10)}
	_, resolved := rc.run(img)
	if resolved[2] != 0 {
		t.Errorf("stage C resolved %d, want 0 for a dark candidate", resolved[2])
	}
}
