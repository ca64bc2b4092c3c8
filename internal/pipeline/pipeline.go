package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/sublyze/backend/internal/media"
	"github.com/sublyze/backend/internal/render"
	"github.com/sublyze/backend/internal/session"
	"github.com/sublyze/backend/internal/subtitle"
	"github.com/sublyze/backend/internal/transcribe"
)

var ErrNoSession = errors.New("no active session")

// ErrTranslateUnavailable is returned when no translation engine is
// configured.
var ErrTranslateUnavailable = errors.New("no translation engine configured")

// Transcriber is the transcription stage seen by the runner.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*transcribe.Result, error)
}

// Burner is the compositing stage seen by the runner.
type Burner interface {
	Burn(ctx context.Context, videoPath string, segments []transcribe.Segment, style render.Style) (string, error)
}

// Translator is the translation stage seen by the runner. May be nil.
type Translator interface {
	Translate(ctx context.Context, segments []transcribe.Segment, language string) ([]transcribe.Segment, error)
}

// ExtractFunc produces the transcription-ready audio track for an
// uploaded video. media.ExtractAudio is the production implementation.
type ExtractFunc func(ctx context.Context, videoPath string) (string, error)

// Runner drives the linear pipeline per user action and commits session
// snapshots only after each stage succeeds. A stage failure leaves the
// last committed snapshot (and its artifacts) untouched.
type Runner struct {
	sessions     *session.Store
	uploads      *media.Store
	extract      ExtractFunc
	transcriber  Transcriber
	burner       Burner
	translator   Translator
	subtitlePath string
}

func NewRunner(sessions *session.Store, uploads *media.Store, extract ExtractFunc, transcriber Transcriber, burner Burner, translator Translator, subtitlePath string) *Runner {
	if extract == nil {
		extract = media.ExtractAudio
	}
	return &Runner{
		sessions:     sessions,
		uploads:      uploads,
		extract:      extract,
		transcriber:  transcriber,
		burner:       burner,
		translator:   translator,
		subtitlePath: subtitlePath,
	}
}

// ProcessUpload runs upload -> extract -> transcribe -> subtitle -> burn
// for a fresh video. A burn failure still leaves the subtitle artifact
// committed, so the caller can offer the SRT as a fallback deliverable.
func (r *Runner) ProcessUpload(ctx context.Context, sessionID string, file io.Reader, filename string, size int64) (session.State, error) {
	st, ok := r.sessions.Get(sessionID)
	if !ok {
		return session.State{}, ErrNoSession
	}

	videoPath, err := r.uploads.Save(file, filename, size)
	if err != nil {
		return st, err
	}
	st = st.BeginUpload(videoPath)
	r.sessions.Commit(st)
	log.Printf("[session] %s: uploaded %s", st.ID, filepath.Base(videoPath))

	audioPath, err := r.extract(ctx, videoPath)
	if err != nil {
		return st, err
	}
	st = st.AudioExtracted(audioPath)
	r.sessions.Commit(st)

	result, err := r.transcriber.Transcribe(ctx, audioPath)
	if errors.Is(err, transcribe.ErrNoSpeech) {
		st = st.HaltNoSpeech()
		r.sessions.Commit(st)
		return st, err
	}
	if err != nil {
		return st, err
	}
	st = st.Transcribed(result.Text, result.Segments)
	r.sessions.Commit(st)

	st, err = r.writeSubtitles(st)
	if err != nil {
		return st, err
	}

	burnedPath, err := r.burner.Burn(ctx, st.VideoPath, st.Segments, st.Style)
	if err != nil {
		return st, err
	}
	st = st.Burned(burnedPath, st.Segments)
	r.sessions.Commit(st)

	return st, nil
}

// Reburn replaces the segments wholesale (edit-commit) and re-renders.
// On render failure nothing is committed: the prior segments and artifact
// stay current.
func (r *Runner) Reburn(ctx context.Context, sessionID string, segments []transcribe.Segment) (session.State, error) {
	st, ok := r.sessions.Get(sessionID)
	if !ok {
		return session.State{}, ErrNoSession
	}
	if !st.CanRender() {
		return st, fmt.Errorf("nothing to render yet")
	}

	burnedPath, err := r.burner.Burn(ctx, st.VideoPath, segments, st.Style)
	if err != nil {
		return st, err
	}

	st = st.Burned(burnedPath, segments)
	st, err = r.writeSubtitles(st)
	if err != nil {
		return st, err
	}
	r.sessions.Commit(st)
	return st, nil
}

// Restyle applies new style parameters and re-renders. The style is only
// committed together with the successful render.
func (r *Runner) Restyle(ctx context.Context, sessionID string, style render.Style) (session.State, error) {
	st, ok := r.sessions.Get(sessionID)
	if !ok {
		return session.State{}, ErrNoSession
	}
	if !st.CanRender() {
		return st, fmt.Errorf("nothing to render yet")
	}

	styled := st.WithStyle(style)
	burnedPath, err := r.burner.Burn(ctx, styled.VideoPath, styled.Segments, styled.Style)
	if err != nil {
		return st, err
	}

	styled = styled.Burned(burnedPath, styled.Segments)
	r.sessions.Commit(styled)
	return styled, nil
}

// Translate translates the current segments to the named language and
// re-renders. All-or-nothing: a failed translation or render commits
// nothing.
func (r *Runner) Translate(ctx context.Context, sessionID string, language string) (session.State, error) {
	st, ok := r.sessions.Get(sessionID)
	if !ok {
		return session.State{}, ErrNoSession
	}
	if r.translator == nil {
		return st, ErrTranslateUnavailable
	}
	if !st.CanRender() {
		return st, fmt.Errorf("nothing to translate yet")
	}

	translated, err := r.translator.Translate(ctx, st.Segments, language)
	if err != nil {
		return st, err
	}

	burnedPath, err := r.burner.Burn(ctx, st.VideoPath, translated, st.Style)
	if err != nil {
		return st, err
	}

	st = st.Burned(burnedPath, translated)
	st, err = r.writeSubtitles(st)
	if err != nil {
		return st, err
	}
	r.sessions.Commit(st)
	return st, nil
}

// writeSubtitles regenerates the session's SRT artifact from the current
// segments and commits the snapshot.
func (r *Runner) writeSubtitles(st session.State) (session.State, error) {
	if err := os.MkdirAll(r.subtitlePath, 0755); err != nil {
		return st, fmt.Errorf("create subtitle dir: %w", err)
	}
	path := filepath.Join(r.subtitlePath, st.ID+".srt")
	if _, err := subtitle.Save(subtitle.Compose(st.Segments), path); err != nil {
		return st, err
	}
	st = st.SubtitleWritten(path)
	r.sessions.Commit(st)
	return st, nil
}
