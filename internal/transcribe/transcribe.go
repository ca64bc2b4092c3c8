package transcribe

import (
	"context"
	"errors"
)

// ErrNoSpeech marks an empty post-trim transcript. It is a valid terminal
// outcome for a run, not a crash: the caller halts the pipeline and asks
// the user for different input.
var ErrNoSpeech = errors.New("no speech detected")

// Segment is one timed caption produced by a transcription run.
// Invariant: End > Start. Segments arrive in non-decreasing start order
// but may overlap or leave gaps.
type Segment struct {
	Start float64 `json:"start"` // seconds
	End   float64 `json:"end"`   // seconds
	Text  string  `json:"text"`
}

// Result is the output of a transcription
type Result struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
}

// Transcriber is the common interface for all whisper engines
type Transcriber interface {
	// Transcribe converts a 16kHz mono WAV file into a full transcript
	// plus segment-level timestamps.
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
	// Name returns the engine name
	Name() string
}
