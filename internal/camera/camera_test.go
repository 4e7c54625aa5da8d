package camera

import (
	"bytes"
	"context"
	"image/jpeg"
	"path/filepath"
	"testing"

	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/config"
)

func TestNewSelectsImplementation(t *testing.T) {
	cases := []struct {
		kind    string
		wantErr bool
	}{
		{"gphoto", false},
		{"webcam", false},
		{"mock", false},
		{"polaroid", true},
	}
	for _, tc := range cases {
		cam, err := New(config.CameraConfig{Kind: tc.kind, Width: 640, Height: 480})
		if tc.wantErr {
			if err == nil {
				t.Errorf("New(%q) accepted an unknown kind", tc.kind)
			}
			continue
		}
		if err != nil {
			t.Errorf("New(%q): %v", tc.kind, err)
		}
		if cam == nil {
			t.Errorf("New(%q) returned nil camera", tc.kind)
		}
	}
}

func TestMockCapture(t *testing.T) {
	cam := NewMock(config.CameraConfig{Kind: "mock", Width: 640, Height: 480})
	path := filepath.Join(t.TempDir(), "frame.jpg")

	data, err := cam.Capture(context.Background(), path)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("captured frame is not a valid JPEG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 640 || b.Dy() != 480 {
		t.Errorf("frame is %dx%d, want 640x480", b.Dx(), b.Dy())
	}
}

func TestMockFrameHasBracket(t *testing.T) {
	cam := NewMock(config.CameraConfig{Kind: "mock", Width: 640, Height: 480})
	frame := cam.Frame()

	// The bracket's top-left corner sits at (w/10, 3h/4) and is near
	// white, unlike the teal gradient around it.
	r, g, b, _ := frame.At(64, 360).RGBA()
	if r>>8 < 200 || g>>8 < 200 || b>>8 < 200 {
		t.Errorf("bracket corner = (%d, %d, %d), want a bright pixel", r>>8, g>>8, b>>8)
	}
}
