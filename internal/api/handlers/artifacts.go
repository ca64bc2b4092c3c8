package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/sublyze/backend/internal/media"
	"github.com/sublyze/backend/internal/session"
	"github.com/sublyze/backend/internal/translate"
)

// ArtifactsHandler serves the downloadable deliverables: the SRT file,
// the burned video (with range support for inline preview), and the
// poster frame.
type ArtifactsHandler struct {
	sessions   *session.Store
	renderPath string
}

func NewArtifactsHandler(sessions *session.Store, renderPath string) *ArtifactsHandler {
	return &ArtifactsHandler{sessions: sessions, renderPath: renderPath}
}

func (h *ArtifactsHandler) session(r *http.Request) (session.State, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return session.State{}, false
	}
	return h.sessions.Get(cookie.Value)
}

// Subtitles serves the SRT artifact as a download. It stays available
// even when the most recent render failed.
func (h *ArtifactsHandler) Subtitles(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(r)
	if !ok || st.SubtitlePath == "" {
		jsonError(w, "no subtitles generated yet", http.StatusNotFound)
		return
	}
	if _, err := os.Stat(st.SubtitlePath); err != nil {
		jsonError(w, "subtitle file missing", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/x-subrip; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sublyze_output.srt"`)
	http.ServeFile(w, r, st.SubtitlePath)
}

// Video serves the most recently burned video. http.ServeFile handles
// range requests, so the same route backs download and inline preview.
func (h *ArtifactsHandler) Video(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(r)
	if !ok || st.BurnedPath == "" {
		jsonError(w, "no rendered video yet", http.StatusNotFound)
		return
	}
	if _, err := os.Stat(st.BurnedPath); err != nil {
		jsonError(w, "rendered video missing", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "video/mp4")
	http.ServeFile(w, r, st.BurnedPath)
}

// Preview serves a poster frame of the uploaded source video.
func (h *ArtifactsHandler) Preview(w http.ResponseWriter, r *http.Request) {
	st, ok := h.session(r)
	if !ok || st.VideoPath == "" {
		jsonError(w, "no video uploaded yet", http.StatusNotFound)
		return
	}

	framePath, err := media.PreviewFrame(st.VideoPath, filepath.Join(h.renderPath, "previews"))
	if err != nil {
		jsonError(w, "failed to generate preview", http.StatusInternalServerError)
		return
	}
	http.ServeFile(w, r, framePath)
}

// Languages returns the fixed set of target languages.
func Languages(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, translate.Languages, http.StatusOK)
}

// Health is the liveness endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}
