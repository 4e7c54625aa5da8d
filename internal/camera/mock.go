package camera

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"log/slog"
	"os"

	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/config"
)

// Mock synthesizes frames for development without hardware. Captured
// frames carry a bright rectangle in the lower-left area, imitating the
// autofocus glyph a real tethered camera burns into its live view, so
// the removal pipeline has something to chew on.
type Mock struct {
	cfg config.CameraConfig
	log *slog.Logger
}

// NewMock returns a Mock camera for the configured frame size.
func NewMock(cfg config.CameraConfig) *Mock {
	return &Mock{cfg: cfg, log: slog.Default().With("component", "mock-camera")}
}

func (m *Mock) Initialize(ctx context.Context) error {
	m.log.Info("mock camera ready", "width", m.cfg.Width, "height", m.cfg.Height)
	return nil
}

func (m *Mock) StartPreview(ctx context.Context) error { return nil }

func (m *Mock) StopPreview(ctx context.Context) error { return nil }

// Capture renders a synthetic frame, writes it to path and returns the
// JPEG bytes.
func (m *Mock) Capture(ctx context.Context, path string) ([]byte, error) {
	frame := m.Frame()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: 92}); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, err
	}
	m.log.Info("synthetic frame captured", "path", path, "bytes", buf.Len())
	return buf.Bytes(), nil
}

// Frame renders the synthetic scene: a vertical gradient with a white
// autofocus-style bracket in the lower-left quadrant.
func (m *Mock) Frame() *image.RGBA {
	w, h := m.cfg.Width, m.cfg.Height
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		shade := uint8(40 + 120*y/h)
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: shade / 2, G: shade, B: shade, A: 255})
		}
	}

	// Bracket outline roughly where a tethered camera draws its AF box.
	x0, y0 := w/10, h*3/4
	x1, y1 := w/10+w/8, h*3/4+h/12
	white := color.RGBA{R: 250, G: 250, B: 250, A: 255}
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, white)
		img.SetRGBA(x, y1, white)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, white)
		img.SetRGBA(x1, y, white)
	}
	return img
}

func (m *Mock) Close() error { return nil }
