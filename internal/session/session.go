package session

import (
	"github.com/sublyze/backend/internal/render"
	"github.com/sublyze/backend/internal/transcribe"
)

// Steps are the pipeline progress flags. Within one run each flag only
// moves false -> true; a new upload resets all of them.
type Steps struct {
	Upload     bool `json:"upload"`
	Extract    bool `json:"extract"`
	Transcribe bool `json:"transcribe"`
	Subtitle   bool `json:"subtitle"`
	Burn       bool `json:"burn"`
}

// State is one session's snapshot. Transitions return modified copies;
// callers commit a snapshot only after the underlying stage succeeded, so
// a failed action leaves the prior snapshot untouched.
type State struct {
	ID           string               `json:"id"`
	VideoPath    string               `json:"-"`
	AudioPath    string               `json:"-"`
	Transcript   string               `json:"transcript,omitempty"`
	Segments     []transcribe.Segment `json:"segments,omitempty"`
	SubtitlePath string               `json:"-"`
	BurnedPath   string               `json:"-"`
	Style        render.Style         `json:"style"`
	Steps        Steps                `json:"steps"`

	// NoSpeech marks the terminal "no speech detected" sub-state: the run
	// halted after extraction and awaits a fresh upload.
	NoSpeech bool `json:"no_speech"`
}

// NewState is the initial state: all flags false, no video, no segments.
func NewState(id string) State {
	return State{
		ID:    id,
		Style: render.DefaultStyle(),
	}
}

// BeginUpload starts a fresh run. Style survives across uploads; every
// other field resets.
func (s State) BeginUpload(videoPath string) State {
	next := NewState(s.ID)
	next.Style = s.Style
	next.VideoPath = videoPath
	next.Steps.Upload = true
	return next
}

func (s State) AudioExtracted(audioPath string) State {
	s.AudioPath = audioPath
	s.Steps.Extract = true
	return s
}

// Transcribed replaces the segment list wholesale.
func (s State) Transcribed(transcript string, segments []transcribe.Segment) State {
	s.Transcript = transcript
	s.Segments = append([]transcribe.Segment(nil), segments...)
	s.Steps.Transcribe = true
	return s
}

// HaltNoSpeech ends the run without touching the earlier flags.
func (s State) HaltNoSpeech() State {
	s.NoSpeech = true
	return s
}

func (s State) SubtitleWritten(path string) State {
	s.SubtitlePath = path
	s.Steps.Subtitle = true
	return s
}

// Burned commits a rendered artifact. Re-renders replace the path and the
// segments without resetting any flag.
func (s State) Burned(path string, segments []transcribe.Segment) State {
	s.BurnedPath = path
	s.Segments = append([]transcribe.Segment(nil), segments...)
	s.Steps.Burn = true
	return s
}

func (s State) WithStyle(style render.Style) State {
	s.Style = style.Normalize()
	return s
}

// CanRender reports whether a re-render action is currently valid.
func (s State) CanRender() bool {
	return s.Steps.Transcribe && len(s.Segments) > 0 && !s.NoSpeech
}
