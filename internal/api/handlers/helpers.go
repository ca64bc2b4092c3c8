package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sublyze/backend/internal/media"
	"github.com/sublyze/backend/internal/pipeline"
	"github.com/sublyze/backend/internal/render"
	"github.com/sublyze/backend/internal/transcribe"
	"github.com/sublyze/backend/internal/translate"
)

func jsonResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// pipelineError maps the stage error taxonomy to an HTTP status and a
// user-visible message. None of these are fatal to the process; every
// failure leaves the last committed state available for a manual retry.
func pipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, media.ErrUnsupportedFormat):
		jsonError(w, "Unsupported file format. Please upload a .mp4 or .mov file.", http.StatusBadRequest)
	case errors.Is(err, media.ErrFileTooLarge):
		jsonError(w, "File too large. Maximum allowed size is 200MB.", http.StatusBadRequest)
	case errors.Is(err, media.ErrMediaProcessing):
		jsonError(w, "Could not process the video's audio track.", http.StatusBadGateway)
	case errors.Is(err, render.ErrRender):
		jsonError(w, "Something went wrong while generating the video. You can still download the subtitles as a .srt file.", http.StatusBadGateway)
	case errors.Is(err, translate.ErrTranslation):
		jsonError(w, "Translation failed. Please try again.", http.StatusBadGateway)
	case errors.Is(err, pipeline.ErrTranslateUnavailable):
		jsonError(w, "Translation is not available on this server.", http.StatusServiceUnavailable)
	case errors.Is(err, pipeline.ErrNoSession):
		jsonError(w, "No active session. Upload a video first.", http.StatusNotFound)
	case errors.Is(err, transcribe.ErrNoSpeech):
		jsonError(w, "No voice detected in video. Please upload a file with spoken content.", http.StatusUnprocessableEntity)
	default:
		jsonError(w, "Internal error. Please try again.", http.StatusInternalServerError)
	}
}
