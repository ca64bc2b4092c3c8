package session

import (
	"testing"

	"github.com/sublyze/backend/internal/render"
	"github.com/sublyze/backend/internal/transcribe"
)

func TestNewStateIsEmpty(t *testing.T) {
	st := NewState("abc")
	if st.Steps != (Steps{}) {
		t.Errorf("initial steps should all be false: %+v", st.Steps)
	}
	if st.VideoPath != "" || len(st.Segments) != 0 {
		t.Errorf("initial state should have no video or segments")
	}
	if st.Style != render.DefaultStyle() {
		t.Errorf("initial style = %+v", st.Style)
	}
}

func TestStepsAdvanceMonotonically(t *testing.T) {
	st := NewState("abc")

	st = st.BeginUpload("/tmp/v.mp4")
	if !st.Steps.Upload || st.Steps.Extract {
		t.Fatalf("after upload: %+v", st.Steps)
	}

	st = st.AudioExtracted("/tmp/v.wav")
	if !st.Steps.Extract || st.Steps.Transcribe {
		t.Fatalf("after extract: %+v", st.Steps)
	}

	st = st.Transcribed("hi", []transcribe.Segment{{Start: 0, End: 1, Text: "hi"}})
	if !st.Steps.Transcribe || st.Steps.Subtitle {
		t.Fatalf("after transcribe: %+v", st.Steps)
	}

	st = st.SubtitleWritten("/tmp/v.srt")
	if !st.Steps.Subtitle || st.Steps.Burn {
		t.Fatalf("after subtitle: %+v", st.Steps)
	}

	st = st.Burned("/tmp/burned.mp4", st.Segments)
	if !st.Steps.Burn {
		t.Fatalf("after burn: %+v", st.Steps)
	}
}

func TestBeginUploadResetsRunButKeepsStyle(t *testing.T) {
	st := NewState("abc")
	st = st.WithStyle(render.Style{FontSize: 32, TextColor: "#FF0000", BackgroundOpacity: 0.8})
	st = st.BeginUpload("/tmp/one.mp4")
	st = st.AudioExtracted("/tmp/one.wav")
	st = st.Transcribed("hi", []transcribe.Segment{{Start: 0, End: 1, Text: "hi"}})
	st = st.Burned("/tmp/one_burned.mp4", st.Segments)

	st = st.BeginUpload("/tmp/two.mp4")

	if st.Steps != (Steps{Upload: true}) {
		t.Errorf("new upload should reset flags: %+v", st.Steps)
	}
	if st.BurnedPath != "" || len(st.Segments) != 0 || st.Transcript != "" {
		t.Errorf("new upload should clear run artifacts: %+v", st)
	}
	if st.Style.FontSize != 32 {
		t.Errorf("style should survive a new upload: %+v", st.Style)
	}
	if st.ID != "abc" {
		t.Errorf("session ID should be stable: %q", st.ID)
	}
}

func TestBurnedReplacesSegmentsWholesale(t *testing.T) {
	st := NewState("abc")
	st = st.BeginUpload("/tmp/v.mp4")
	st = st.AudioExtracted("/tmp/v.wav")
	original := []transcribe.Segment{
		{Start: 0, End: 1.5, Text: "Hi"},
		{Start: 1.5, End: 3, Text: "there"},
	}
	st = st.Transcribed("Hi there", original)
	st = st.Burned("/tmp/first.mp4", original)

	edited := []transcribe.Segment{
		{Start: 0, End: 1.5, Text: "Hello"},
		{Start: 1.5, End: 3, Text: "world"},
	}
	st = st.Burned("/tmp/second.mp4", edited)

	if st.BurnedPath != "/tmp/second.mp4" {
		t.Errorf("artifact path = %q", st.BurnedPath)
	}
	if !st.Steps.Burn {
		t.Error("burn flag must remain true across re-renders")
	}
	if st.Segments[0].Text != "Hello" || st.Segments[1].Text != "world" {
		t.Errorf("segments not replaced wholesale: %+v", st.Segments)
	}
	if len(st.Segments) != 2 {
		t.Errorf("segment count = %d", len(st.Segments))
	}
}

func TestBurnedCopiesSegments(t *testing.T) {
	st := NewState("abc")
	segs := []transcribe.Segment{{Start: 0, End: 1, Text: "hi"}}
	st = st.Burned("/tmp/b.mp4", segs)

	segs[0].Text = "mutated"
	if st.Segments[0].Text != "hi" {
		t.Error("state must hold its own segment copy")
	}
}

func TestHaltNoSpeechIsTerminal(t *testing.T) {
	st := NewState("abc")
	st = st.BeginUpload("/tmp/v.mp4")
	st = st.AudioExtracted("/tmp/v.wav")
	st = st.HaltNoSpeech()

	if !st.NoSpeech {
		t.Error("NoSpeech flag not set")
	}
	if st.Steps.Transcribe || st.Steps.Subtitle || st.Steps.Burn {
		t.Errorf("halted run should not advance: %+v", st.Steps)
	}
	if st.CanRender() {
		t.Error("halted run must not allow rendering")
	}

	// A fresh upload clears the halt
	st = st.BeginUpload("/tmp/w.mp4")
	if st.NoSpeech {
		t.Error("new upload should clear the no-speech halt")
	}
}

func TestWithStyleNormalizes(t *testing.T) {
	st := NewState("abc")
	st = st.WithStyle(render.Style{FontSize: 500, TextColor: "#00FF00", BackgroundOpacity: 2})
	if st.Style.FontSize != render.MaxFontSize {
		t.Errorf("font size = %d, want clamped to %d", st.Style.FontSize, render.MaxFontSize)
	}
	if st.Style.BackgroundOpacity != 1 {
		t.Errorf("opacity = %v, want 1", st.Style.BackgroundOpacity)
	}
}

func TestStoreIsolatesSessions(t *testing.T) {
	store := NewStore()
	a := store.Create()
	b := store.Create()
	if a.ID == b.ID {
		t.Fatal("sessions must get unique IDs")
	}

	a = a.BeginUpload("/tmp/a.mp4")
	store.Commit(a)

	gotB, ok := store.Get(b.ID)
	if !ok {
		t.Fatal("session b disappeared")
	}
	if gotB.Steps.Upload {
		t.Error("committing session a must not touch session b")
	}

	gotA, _ := store.Get(a.ID)
	if !gotA.Steps.Upload {
		t.Error("commit not visible on read back")
	}
}
