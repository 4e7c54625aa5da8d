package server

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"os/exec"
	"time"

	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/camera"
)

const previewBoundary = "frame"

// frameSource is implemented by cameras that can synthesize preview
// frames directly, without a video device.
type frameSource interface {
	Frame() *image.RGBA
}

// handlePreview streams the live camera as multipart/x-mixed-replace
// MJPEG, the format every browser renders natively in an <img> tag.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+previewBoundary)
	w.Header().Set("Cache-Control", "no-cache")

	if src, ok := s.camera.(frameSource); ok {
		s.streamSynthetic(w, r, flusher, src)
		return
	}
	s.streamDevice(w, r, flusher)
}

// streamSynthetic renders mock frames at roughly ten per second.
func (s *Server) streamSynthetic(w http.ResponseWriter, r *http.Request, flusher http.Flusher, src frameSource) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, src.Frame(), &jpeg.Options{Quality: 80}); err != nil {
			s.log.Error("encode preview frame", "err", err)
			return
		}
		if err := writePart(w, buf.Bytes()); err != nil {
			return
		}
		flusher.Flush()
	}
}

// streamDevice starts the camera preview and proxies the v4l2 device's
// MJPEG stream through ffmpeg.
func (s *Server) streamDevice(w http.ResponseWriter, r *http.Request, flusher http.Flusher) {
	ctx := r.Context()
	if err := s.camera.StartPreview(ctx); err != nil {
		s.log.Error("start preview", "err", err)
		return
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-f", "v4l2",
		"-input_format", "mjpeg",
		"-video_size", fmt.Sprintf("%dx%d", s.cfg.Camera.Width, s.cfg.Camera.Height),
		"-i", s.cfg.Camera.Device,
		"-c:v", "copy",
		"-f", "mjpeg", "-",
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		s.log.Error("preview pipe", "err", err)
		return
	}
	if err := cmd.Start(); err != nil {
		s.log.Error("start preview proxy", "err", err)
		return
	}
	defer func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()

	splitter := camera.NewMJPEGSplitter(stdout)
	frames := 0
	start := time.Now()
	for {
		frame, err := splitter.Next()
		if err != nil {
			if err != io.EOF {
				s.log.Error("preview stream", "err", err)
			}
			return
		}
		if err := writePart(w, frame); err != nil {
			return
		}
		flusher.Flush()

		frames++
		if frames%300 == 0 {
			s.log.Debug("preview streaming",
				"frames", frames,
				"fps", float64(frames)/time.Since(start).Seconds())
		}
	}
}

// writePart emits one multipart frame.
func writePart(w io.Writer, frame []byte) error {
	if _, err := fmt.Fprintf(w, "--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", previewBoundary, len(frame)); err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}
