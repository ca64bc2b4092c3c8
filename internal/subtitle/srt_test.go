package subtitle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sublyze/backend/internal/transcribe"
)

func TestComposeTwoBlocks(t *testing.T) {
	segs := []transcribe.Segment{
		{Start: 0.0, End: 1.5, Text: "Hi"},
		{Start: 1.5, End: 3.0, Text: "there"},
	}

	got := Compose(segs)
	want := "1\n00:00:00,000 --> 00:00:01,500\nHi\n\n" +
		"2\n00:00:01,500 --> 00:00:03,000\nthere\n\n"
	if got != want {
		t.Errorf("Compose() = %q, want %q", got, want)
	}
}

func TestComposeSkipsEmptySegmentsAndCompactsIndices(t *testing.T) {
	segs := []transcribe.Segment{
		{Start: 0, End: 1, Text: "first"},
		{Start: 1, End: 2, Text: "   "},
		{Start: 2, End: 3, Text: ""},
		{Start: 3, End: 4, Text: "second"},
	}

	got := Compose(segs)
	if !strings.Contains(got, "1\n00:00:00,000") {
		t.Errorf("missing block 1: %q", got)
	}
	if !strings.Contains(got, "2\n00:00:03,000") {
		t.Errorf("second non-empty segment should be index 2: %q", got)
	}
	if strings.Contains(got, "3\n") {
		t.Errorf("unexpected third block: %q", got)
	}
}

func TestComposeParseRoundTrip(t *testing.T) {
	segs := []transcribe.Segment{
		{Start: 0.123, End: 4.567, Text: "one"},
		{Start: 4.567, End: 9.999, Text: "two words"},
		{Start: 10, End: 12.001, Text: "three"},
	}

	parsed := Parse(Compose(segs))
	if len(parsed) != len(segs) {
		t.Fatalf("round trip lost segments: got %d, want %d", len(parsed), len(segs))
	}
	for i := range segs {
		if parsed[i].Text != segs[i].Text {
			t.Errorf("segment %d text = %q, want %q", i, parsed[i].Text, segs[i].Text)
		}
		if diff := parsed[i].Start - segs[i].Start; diff > 0.001 || diff < -0.001 {
			t.Errorf("segment %d start = %v, want %v", i, parsed[i].Start, segs[i].Start)
		}
		if parsed[i].End <= parsed[i].Start {
			t.Errorf("segment %d: end %v <= start %v", i, parsed[i].End, parsed[i].Start)
		}
	}
}

func TestParseSkipsIndexLines(t *testing.T) {
	content := "1\n00:00:00,000 --> 00:00:01,000\nhello\n\n2\n00:00:01,000 --> 00:00:02,000\nworld\n"
	segs := Parse(content)
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if segs[0].Text != "hello" || segs[1].Text != "world" {
		t.Errorf("unexpected texts: %q, %q", segs[0].Text, segs[1].Text)
	}
}

func TestParseMultilineText(t *testing.T) {
	content := "1\n00:00:00,000 --> 00:00:01,000\nline one\nline two\n"
	segs := Parse(content)
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if segs[0].Text != "line one\nline two" {
		t.Errorf("text = %q", segs[0].Text)
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{3.0, "00:00:03,000"},
		{61.042, "00:01:01,042"},
		{3661.999, "01:01:01,999"},
		{2.0005, "00:00:02,001"},
		{-5, "00:00:00,000"},
	}

	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		ts   string
		want float64
	}{
		{"00:00:00,000", 0},
		{"00:00:01,500", 1.5},
		{"00:01:01,042", 61.042},
		{"01:01:01.999", 3661.999},
	}

	for _, tt := range tests {
		got := ParseTimestamp(tt.ts)
		if diff := got - tt.want; diff > 0.0005 || diff < -0.0005 {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.ts, got, tt.want)
		}
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.srt")
	got, err := Save("1\n00:00:00,000 --> 00:00:01,000\nhi\n\n", path)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if got != path {
		t.Errorf("Save() returned %q, want %q", got, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "hi") {
		t.Errorf("file content = %q", string(data))
	}
}
