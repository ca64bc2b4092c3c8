package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/sublyze/backend/internal/media"
	"github.com/sublyze/backend/internal/pipeline"
	"github.com/sublyze/backend/internal/render"
	"github.com/sublyze/backend/internal/session"
	"github.com/sublyze/backend/internal/transcribe"
)

const sessionCookie = "sublyze_session"

// uploadFormLimit leaves headroom over the media size cap for the
// multipart framing.
const uploadFormLimit = media.MaxUploadSize + 1024*1024

type SessionHandler struct {
	sessions *session.Store
	runner   *pipeline.Runner
}

func NewSessionHandler(sessions *session.Store, runner *pipeline.Runner) *SessionHandler {
	return &SessionHandler{sessions: sessions, runner: runner}
}

// current resolves the request's session from its cookie.
func (h *SessionHandler) current(r *http.Request) (session.State, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return session.State{}, false
	}
	return h.sessions.Get(cookie.Value)
}

// ensure returns the request's session, creating one (and setting the
// cookie) if none exists yet.
func (h *SessionHandler) ensure(w http.ResponseWriter, r *http.Request) session.State {
	if st, ok := h.current(r); ok {
		return st
	}
	st := h.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    st.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	log.Printf("[session] created %s", st.ID)
	return st
}

// Upload accepts a multipart video and runs the full pipeline.
func (h *SessionHandler) Upload(w http.ResponseWriter, r *http.Request) {
	st := h.ensure(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, uploadFormLimit)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "File too large. Maximum allowed size is 200MB.", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		jsonError(w, "missing 'video' form field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	st, err = h.runner.ProcessUpload(r.Context(), st.ID, file, header.Filename, header.Size)
	if errors.Is(err, transcribe.ErrNoSpeech) {
		jsonResponse(w, map[string]interface{}{
			"state": st,
			"error": "No voice detected in video. Please upload a file with spoken content.",
		}, http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		log.Printf("[session] %s: upload pipeline failed: %v", st.ID, err)
		pipelineError(w, err)
		return
	}

	jsonResponse(w, st, http.StatusOK)
}

// Get returns the current state snapshot.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, ok := h.current(r)
	if !ok {
		jsonError(w, "No active session. Upload a video first.", http.StatusNotFound)
		return
	}
	jsonResponse(w, st, http.StatusOK)
}

// UpdateSegments commits a wholesale segment replacement (edit) and
// re-renders the video.
func (h *SessionHandler) UpdateSegments(w http.ResponseWriter, r *http.Request) {
	st, ok := h.current(r)
	if !ok {
		jsonError(w, "No active session. Upload a video first.", http.StatusNotFound)
		return
	}

	var req struct {
		Segments []transcribe.Segment `json:"segments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if len(req.Segments) == 0 {
		jsonError(w, "segments must not be empty", http.StatusBadRequest)
		return
	}
	for i, seg := range req.Segments {
		if seg.Start < 0 || seg.End <= seg.Start {
			jsonError(w, fmt.Sprintf("segment %d: end must be after start", i+1), http.StatusBadRequest)
			return
		}
	}

	st, err := h.runner.Reburn(r.Context(), st.ID, req.Segments)
	if err != nil {
		log.Printf("[session] %s: reburn failed: %v", st.ID, err)
		pipelineError(w, err)
		return
	}
	jsonResponse(w, st, http.StatusOK)
}

// UpdateStyle applies new style parameters and re-renders the video.
func (h *SessionHandler) UpdateStyle(w http.ResponseWriter, r *http.Request) {
	st, ok := h.current(r)
	if !ok {
		jsonError(w, "No active session. Upload a video first.", http.StatusNotFound)
		return
	}

	var style render.Style
	if err := json.NewDecoder(r.Body).Decode(&style); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	st, err := h.runner.Restyle(r.Context(), st.ID, style)
	if err != nil {
		log.Printf("[session] %s: restyle failed: %v", st.ID, err)
		pipelineError(w, err)
		return
	}
	jsonResponse(w, st, http.StatusOK)
}

// Translate translates the current segments and re-renders the video.
func (h *SessionHandler) Translate(w http.ResponseWriter, r *http.Request) {
	st, ok := h.current(r)
	if !ok {
		jsonError(w, "No active session. Upload a video first.", http.StatusNotFound)
		return
	}

	var req struct {
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Language == "" {
		jsonError(w, "language is required", http.StatusBadRequest)
		return
	}

	st, err := h.runner.Translate(r.Context(), st.ID, req.Language)
	if err != nil {
		log.Printf("[session] %s: translate failed: %v", st.ID, err)
		pipelineError(w, err)
		return
	}
	jsonResponse(w, st, http.StatusOK)
}
