package camera

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"

	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/config"
)

// Webcam captures from a plain v4l2 device via ffmpeg. The device
// already produces MJPG or YUYV frames, so the preview needs no helper
// pipeline; readers open the device directly.
type Webcam struct {
	cfg config.CameraConfig
	log *slog.Logger
}

// NewWebcam returns a Webcam for the configured device.
func NewWebcam(cfg config.CameraConfig) *Webcam {
	return &Webcam{cfg: cfg, log: slog.Default().With("component", "webcam")}
}

// Initialize checks that the device node exists.
func (w *Webcam) Initialize(ctx context.Context) error {
	if _, err := os.Stat(w.cfg.Device); err != nil {
		return fmt.Errorf("video device %s: %w", w.cfg.Device, err)
	}
	w.log.Info("webcam ready", "device", w.cfg.Device,
		"format", w.cfg.Format, "size", fmt.Sprintf("%dx%d", w.cfg.Width, w.cfg.Height))
	return nil
}

// StartPreview is a no-op: the v4l2 device streams on demand.
func (w *Webcam) StartPreview(ctx context.Context) error { return nil }

// StopPreview is a no-op for the same reason.
func (w *Webcam) StopPreview(ctx context.Context) error { return nil }

// Capture grabs a single frame with ffmpeg and writes it to path.
func (w *Webcam) Capture(ctx context.Context, path string) ([]byte, error) {
	size := strconv.Itoa(w.cfg.Width) + "x" + strconv.Itoa(w.cfg.Height)
	out, err := exec.CommandContext(ctx, "ffmpeg",
		"-f", "v4l2",
		"-video_size", size,
		"-i", w.cfg.Device,
		"-frames:v", "1",
		"-y", path,
	).CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg capture: %w: %s", err, out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read captured frame: %w", err)
	}
	w.log.Info("frame captured", "path", path, "bytes", len(data))
	return data, nil
}

// Close releases nothing; the device was never held open.
func (w *Webcam) Close() error { return nil }
