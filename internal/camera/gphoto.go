package camera

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/config"
)

// GPhoto drives a tethered DSLR through the gphoto2 CLI. The preview is
// a `gphoto2 --stdout --capture-movie | ffmpeg ... -f v4l2 <device>`
// pipeline feeding a v4l2 loopback device; capture shells out to
// `gphoto2 --capture-image-and-download`.
//
// gphoto2 holds an exclusive USB claim on the camera, so the preview
// pipeline must be fully dead before a capture can start. The pipeline
// runs in its own process group so both sides of the pipe can be killed
// together, and stray processes from a previous crash are swept with
// pkill before every device interaction.
type GPhoto struct {
	cfg config.CameraConfig
	log *slog.Logger

	mu        sync.Mutex
	preview   *exec.Cmd
	streaming bool
}

// NewGPhoto returns an uninitialized GPhoto camera.
func NewGPhoto(cfg config.CameraConfig) *GPhoto {
	return &GPhoto{cfg: cfg, log: slog.Default().With("component", "gphoto")}
}

// killStrays terminates any gphoto2 or v4l2-bound ffmpeg processes left
// over from earlier runs. SIGTERM first, then SIGKILL after a grace
// period.
func killStrays() {
	_ = exec.Command("pkill", "-f", "gphoto2").Run()
	_ = exec.Command("pkill", "-f", "ffmpeg.*v4l2").Run()
	time.Sleep(200 * time.Millisecond)
	_ = exec.Command("pkill", "-9", "-f", "gphoto2").Run()
	_ = exec.Command("pkill", "-9", "-f", "ffmpeg.*v4l2").Run()
}

// Initialize sweeps stray processes and verifies a camera answers on USB.
func (g *GPhoto) Initialize(ctx context.Context) error {
	g.log.Info("initializing tethered camera")
	killStrays()
	time.Sleep(500 * time.Millisecond)

	out, err := exec.CommandContext(ctx, "gphoto2", "--auto-detect").Output()
	if err != nil {
		return fmt.Errorf("gphoto2 --auto-detect: %w", err)
	}
	if !strings.Contains(string(out), "usb:") {
		return fmt.Errorf("no camera detected; check the USB cable and power")
	}
	g.log.Info("camera detected", "output", strings.TrimSpace(string(out)))
	return nil
}

// StartPreview launches the capture-movie pipeline into the loopback
// device.
func (g *GPhoto) StartPreview(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.streaming {
		g.log.Warn("preview already running")
		return nil
	}

	g.stopPreviewLocked()
	killStrays()
	time.Sleep(500 * time.Millisecond)

	pipeline := fmt.Sprintf(
		"gphoto2 --stdout --capture-movie | ffmpeg -i - -vcodec rawvideo -pix_fmt yuv420p -threads 0 -f v4l2 %s",
		g.cfg.Device,
	)
	g.log.Info("starting preview pipeline", "device", g.cfg.Device)

	cmd := exec.Command("bash", "-c", pipeline)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	// Own process group, so killing -pid takes the ffmpeg side with it.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start preview pipeline: %w", err)
	}
	g.preview = cmd
	g.streaming = true

	// Let the loopback device come up before anyone reads it.
	select {
	case <-time.After(time.Second):
	case <-ctx.Done():
		g.stopPreviewLocked()
		g.streaming = false
		return ctx.Err()
	}
	g.log.Info("preview pipeline running", "pid", cmd.Process.Pid)
	return nil
}

// StopPreview tears down the preview pipeline and sweeps strays.
func (g *GPhoto) StopPreview(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.streaming = false
	g.stopPreviewLocked()
	return nil
}

// stopPreviewLocked kills the pipeline's process group. Callers hold mu.
func (g *GPhoto) stopPreviewLocked() {
	if g.preview == nil {
		killStrays()
		return
	}
	pid := g.preview.Process.Pid
	g.log.Info("stopping preview pipeline", "pid", pid)

	_ = syscall.Kill(-pid, syscall.SIGTERM)
	time.Sleep(100 * time.Millisecond)
	_ = syscall.Kill(-pid, syscall.SIGKILL)
	_ = g.preview.Process.Kill()
	_ = g.preview.Wait()
	g.preview = nil

	killStrays()
}

// Capture stops any running preview, then shells out for a
// full-resolution frame and returns its bytes.
func (g *GPhoto) Capture(ctx context.Context, path string) ([]byte, error) {
	start := time.Now()

	g.mu.Lock()
	wasStreaming := g.streaming
	g.streaming = false
	g.stopPreviewLocked()
	g.mu.Unlock()

	if wasStreaming {
		// The camera needs a beat to leave movie mode.
		time.Sleep(500 * time.Millisecond)
	}
	killStrays()
	time.Sleep(200 * time.Millisecond)

	g.log.Info("capturing photo", "path", path)
	out, err := exec.CommandContext(ctx, "gphoto2",
		"--capture-image-and-download",
		"--filename", path,
		"--force-overwrite",
	).CombinedOutput()
	if err != nil {
		msg := string(out)
		if strings.Contains(msg, "Device Busy") || strings.Contains(msg, "PTP Device Busy") {
			g.log.Error("camera busy; preview may not have released the device")
		}
		return nil, fmt.Errorf("gphoto2 capture: %w: %s", err, strings.TrimSpace(msg))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read captured photo: %w", err)
	}
	g.log.Info("photo captured", "path", path, "bytes", len(data), "elapsed", time.Since(start))
	return data, nil
}

// Close stops the preview and sweeps any helper processes.
func (g *GPhoto) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.streaming = false
	g.stopPreviewLocked()
	return nil
}
