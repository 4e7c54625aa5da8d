package raster

import (
	"image"
	"image/color"
	"testing"
)

func TestFromImageRoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.SetRGBA(0, 0, color.RGBA{10, 20, 30, 255})
	img.SetRGBA(3, 2, color.RGBA{200, 100, 50, 255})

	r := FromImage(img)
	if r.Width != 4 || r.Height != 3 {
		t.Fatalf("dimensions = %dx%d, want 4x3", r.Width, r.Height)
	}

	cr, cg, cb := r.At(0, 0)
	if cr != 10 || cg != 20 || cb != 30 {
		t.Errorf("At(0,0) = (%d,%d,%d), want (10,20,30)", cr, cg, cb)
	}

	back := r.ToRGBA()
	if got := back.RGBAAt(3, 2); got.R != 200 || got.G != 100 || got.B != 50 {
		t.Errorf("round trip pixel (3,2) = %v", got)
	}
}

func TestFromImageNonZeroOrigin(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 8, 7))
	img.SetRGBA(5, 5, color.RGBA{255, 0, 0, 255})

	r := FromImage(img)
	if r.Width != 3 || r.Height != 2 {
		t.Fatalf("dimensions = %dx%d, want 3x2", r.Width, r.Height)
	}
	cr, _, _ := r.At(0, 0)
	if cr != 255 {
		t.Errorf("origin not normalized: At(0,0) red = %d, want 255", cr)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	r := New(2, 2)
	r.Set(1, 1, 9, 9, 9)

	c := r.Clone()
	c.Set(1, 1, 7, 7, 7)

	if cr, _, _ := r.At(1, 1); cr != 9 {
		t.Errorf("clone mutation leaked into original: red = %d", cr)
	}
	if !r.Equal(r.Clone()) {
		t.Error("Equal reported difference between raster and its clone")
	}
	if r.Equal(c) {
		t.Error("Equal missed a pixel difference")
	}
}

func TestLuminance(t *testing.T) {
	r := New(1, 1)

	r.Set(0, 0, 255, 255, 255)
	if l := r.Luminance(0, 0); l < 254.9 || l > 255.1 {
		t.Errorf("white luminance = %f, want 255", l)
	}

	r.Set(0, 0, 0, 0, 0)
	if l := r.Luminance(0, 0); l != 0 {
		t.Errorf("black luminance = %f, want 0", l)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-1, 0, 9) != 0 || Clamp(10, 0, 9) != 9 || Clamp(5, 0, 9) != 5 {
		t.Error("Clamp boundaries wrong")
	}
}

func TestIn(t *testing.T) {
	r := New(3, 2)
	cases := []struct {
		x, y int
		want bool
	}{
		{0, 0, true},
		{2, 1, true},
		{3, 1, false},
		{2, 2, false},
		{-1, 0, false},
	}
	for _, c := range cases {
		if got := r.In(c.x, c.y); got != c.want {
			t.Errorf("In(%d,%d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}
