// Package camera abstracts the booth's capture hardware.
//
// Three implementations exist: GPhoto drives a tethered Canon DSLR
// through the gphoto2 CLI with a v4l2 loopback preview, Webcam grabs
// frames from a plain v4l2 device through ffmpeg, and Mock synthesizes
// frames so the rest of the booth can be developed without hardware.
package camera

import (
	"context"
	"fmt"

	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/config"
)

// Camera is the capture device the booth talks to.
type Camera interface {
	// Initialize verifies the device is present and ready.
	Initialize(ctx context.Context) error
	// StartPreview begins streaming preview frames to the configured
	// video device. Calling it while a preview runs is a no-op.
	StartPreview(ctx context.Context) error
	// StopPreview tears the preview stream down. Safe to call when no
	// preview is running.
	StopPreview(ctx context.Context) error
	// Capture takes a full-resolution photo, writes it to path and
	// returns the encoded bytes. The preview is stopped first if needed.
	Capture(ctx context.Context, path string) ([]byte, error)
	// Close releases the device and any helper processes.
	Close() error
}

// New builds the Camera selected by the configuration.
func New(cfg config.CameraConfig) (Camera, error) {
	switch cfg.Kind {
	case "gphoto":
		return NewGPhoto(cfg), nil
	case "webcam":
		return NewWebcam(cfg), nil
	case "mock":
		return NewMock(cfg), nil
	default:
		return nil, fmt.Errorf("camera: unknown kind %q", cfg.Kind)
	}
}
