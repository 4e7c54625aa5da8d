package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"net/http"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/printer"
	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/raster"
	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/session"
	"github.com/georgehyde-dot/BantamWestEssenSpielPhotoBooth/internal/template"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, errorResponse{Error: fmt.Sprintf(format, args...)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := session.New()
	if err := s.store.Save(r.Context(), sess); err != nil {
		s.log.Error("create session", "err", err)
		writeError(w, http.StatusInternalServerError, "could not create session")
		return
	}
	s.log.Info("session created", "id", sess.ID)
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// sessionPatch carries the fields a PUT may change. Absent fields keep
// their stored values.
type sessionPatch struct {
	GroupName   *string `json:"group_name"`
	Class       *int    `json:"class"`
	Choice      *int    `json:"choice"`
	Email       *string `json:"email"`
	MailingList *bool   `json:"mailing_list"`
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	var patch sessionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: %v", err)
		return
	}
	if patch.GroupName != nil {
		sess.GroupName = patch.GroupName
	}
	if patch.Class != nil {
		sess.Class = patch.Class
	}
	if patch.Choice != nil {
		sess.Choice = patch.Choice
	}
	if patch.Email != nil {
		sess.Email = patch.Email
	}
	if patch.MailingList != nil {
		sess.MailingList = *patch.MailingList
	}

	if err := s.store.Update(r.Context(), sess); err != nil {
		s.log.Error("update session", "id", sess.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "could not update session")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleGenerateStory(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	if sess.Class == nil || sess.Choice == nil {
		writeError(w, http.StatusBadRequest, "session needs class and choice before a story")
		return
	}
	sess.GenerateStory()
	if err := s.store.Update(r.Context(), sess); err != nil {
		s.log.Error("save story", "id", sess.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "could not save story")
		return
	}
	s.log.Info("story generated", "id", sess.ID, "headline", *sess.Headline)
	writeJSON(w, http.StatusOK, sess)
}

type captureRequest struct {
	SessionID string `json:"session_id"`
}

type captureResponse struct {
	PhotoPath  string `json:"photo_path"`
	PhotoURL   string `json:"photo_url"`
	Candidates int    `json:"overlay_candidates"`
	// Placeholder marks a frame synthesized because the camera failed;
	// the session keeps moving and the shot can be retaken.
	Placeholder bool `json:"placeholder"`
}

// handleCapture takes a photo, scrubs the autofocus overlay from it and
// stores the cleaned frame.
func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body: %v", err)
			return
		}
	}

	id := uuid.NewString()
	rawDir := filepath.Join(s.cfg.Storage.BasePath, "captures")
	if err := os.MkdirAll(rawDir, 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, "storage unavailable: %v", err)
		return
	}
	rawPath := filepath.Join(rawDir, id+"_raw.jpg")

	var img image.Image
	placeholder := false
	data, err := s.camera.Capture(r.Context(), rawPath)
	if err != nil {
		s.log.Error("capture failed, using placeholder", "err", err)
		img = placeholderFrame(s.cfg.Camera.Width, s.cfg.Camera.Height)
		placeholder = true
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "captured frame not decodable: %v", err)
			return
		}
	}

	frame := raster.FromImage(img)
	cleaned, stats, err := s.engine.Remove(frame)
	if err != nil {
		s.log.Error("overlay removal", "err", err)
		writeError(w, http.StatusInternalServerError, "overlay removal failed")
		return
	}

	name := id + ".png"
	cleanPath := filepath.Join(s.cfg.Storage.BasePath, name)
	if err := imaging.Save(cleaned.ToRGBA(), cleanPath); err != nil {
		writeError(w, http.StatusInternalServerError, "could not store photo: %v", err)
		return
	}
	s.log.Info("photo stored", "path", cleanPath, "overlay_candidates", stats.Candidates)

	if req.SessionID != "" {
		sess, err := s.store.Get(r.Context(), req.SessionID)
		if err != nil {
			writeError(w, http.StatusNotFound, "session %s not found", req.SessionID)
			return
		}
		sess.PhotoPath = &cleanPath
		if err := s.store.Update(r.Context(), sess); err != nil {
			s.log.Error("attach photo", "id", sess.ID, "err", err)
			writeError(w, http.StatusInternalServerError, "could not attach photo to session")
			return
		}
	}

	writeJSON(w, http.StatusOK, captureResponse{
		PhotoPath:   cleanPath,
		PhotoURL:    "/images/" + name,
		Candidates:  stats.Candidates,
		Placeholder: placeholder,
	})
}

// placeholderFrame is the neutral gray card stored when the camera
// cannot deliver a shot.
func placeholderFrame(w, h int) image.Image {
	if w <= 0 || h <= 0 {
		w, h = 1920, 1080
	}
	return imaging.New(w, h, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
}

// posterPath is where a session's finished print lives.
func (s *Server) posterPath(sessionID string) string {
	return filepath.Join(s.cfg.Storage.BasePath, sessionID+"_poster.png")
}

type finalizeResponse struct {
	PosterPath string `json:"poster_path"`
	PosterURL  string `json:"poster_url"`
}

// handleFinalize composes the wanted poster for a completed session.
func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	if sess.PhotoPath == nil {
		writeError(w, http.StatusBadRequest, "session has no photo yet")
		return
	}
	if sess.StoryText == nil {
		sess.GenerateStory()
		if sess.StoryText == nil {
			writeError(w, http.StatusBadRequest, "session needs class and choice before finalizing")
			return
		}
		if err := s.store.Update(r.Context(), sess); err != nil {
			s.log.Error("save story", "id", sess.ID, "err", err)
			writeError(w, http.StatusInternalServerError, "could not save story")
			return
		}
	}

	poster := template.NewPoster(s.cache)
	poster.Header = s.cfg.Template.HeaderText
	poster.Name = orDefault(sess.GroupName, s.cfg.Template.NamePlaceholder)
	poster.Headline = orDefault(sess.Headline, s.cfg.Template.HeadlinePlaceholder)
	poster.Story = orDefault(sess.StoryText, s.cfg.Template.StoryPlaceholder)
	poster.BackgroundPath = s.cfg.BackgroundPath()
	poster.InkColor = s.cfg.Template.InkColor

	out := s.posterPath(sess.ID)
	if err := poster.Render(*sess.PhotoPath, out); err != nil {
		s.log.Error("compose poster", "id", sess.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "could not compose poster")
		return
	}
	s.log.Info("poster composed", "id", sess.ID, "path", out)

	writeJSON(w, http.StatusOK, finalizeResponse{
		PosterPath: out,
		PosterURL:  "/images/" + filepath.Base(out),
	})
}

type printRequest struct {
	SessionID string `json:"session_id"`
	Copies    int    `json:"copies"`
}

type printResponse struct {
	JobID  string `json:"job_id"`
	Copies int    `json:"copies_printed"`
}

func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	var req printRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: %v", err)
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if req.Copies < 1 {
		req.Copies = 1
	}

	sess, err := s.store.Get(r.Context(), req.SessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session %s not found", req.SessionID)
		return
	}

	poster := s.posterPath(sess.ID)
	if _, err := os.Stat(poster); err != nil {
		writeError(w, http.StatusConflict, "session %s has no poster; finalize first", sess.ID)
		return
	}

	jobID, err := s.printer.Print(r.Context(), printer.Job{
		FilePath: poster,
		Copies:   req.Copies,
		Paper:    printer.Paper4x6,
		Quality:  printer.QualityPhoto,
	})
	if err != nil {
		s.log.Error("print", "id", sess.ID, "err", err)
		writeError(w, http.StatusBadGateway, "print failed: %v", err)
		return
	}

	sess.CopiesPrinted += req.Copies
	if err := s.store.Update(r.Context(), sess); err != nil {
		s.log.Error("record print", "id", sess.ID, "err", err)
	}
	s.log.Info("print submitted", "id", sess.ID, "job_id", jobID, "copies", req.Copies)

	writeJSON(w, http.StatusOK, printResponse{JobID: jobID, Copies: sess.CopiesPrinted})
}

func (s *Server) handlePrinterStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.printer.Status(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "printer status: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"printer": s.printer.Name(),
		"status":  status,
	})
}

// loadSession resolves the {id} path value, writing the error response
// itself when the session cannot be served.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := r.PathValue("id")
	sess, err := s.store.Get(r.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session %s not found", id)
		return nil, false
	}
	if err != nil {
		s.log.Error("load session", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "could not load session")
		return nil, false
	}
	return sess, true
}

func orDefault(v *string, def string) string {
	if v != nil && *v != "" {
		return *v
	}
	return def
}
