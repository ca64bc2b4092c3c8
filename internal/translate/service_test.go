package translate

import (
	"context"
	"errors"
	"testing"

	"github.com/sublyze/backend/internal/transcribe"
)

type fakeEngine struct {
	translate func(segs []transcribe.Segment, tag string) ([]transcribe.Segment, error)
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Translate(ctx context.Context, segs []transcribe.Segment, tag string) ([]transcribe.Segment, error) {
	return f.translate(segs, tag)
}

func TestTagForLanguage(t *testing.T) {
	tests := []struct {
		name string
		tag  string
	}{
		{"English", "eng_Latn"},
		{"French", "fra_Latn"},
		{"Spanish", "spa_Latn"},
		{"German", "deu_Latn"},
		{"Italian", "ita_Latn"},
		{"Portuguese", "por_Latn"},
		{"Chinese", "zho_Hans"},
	}

	for _, tt := range tests {
		tag, ok := TagForLanguage(tt.name)
		if !ok || tag != tt.tag {
			t.Errorf("TagForLanguage(%q) = %q, %v, want %q", tt.name, tag, ok, tt.tag)
		}
	}

	if _, ok := TagForLanguage("Klingon"); ok {
		t.Error("unknown language should not resolve")
	}
}

func TestServiceRejectsUnknownLanguage(t *testing.T) {
	svc := NewServiceWithEngine(&fakeEngine{})
	_, err := svc.Translate(context.Background(), nil, "Klingon")
	if !errors.Is(err, ErrTranslation) {
		t.Errorf("error = %v, want ErrTranslation", err)
	}
}

func TestServiceWrapsEngineFailure(t *testing.T) {
	svc := NewServiceWithEngine(&fakeEngine{
		translate: func([]transcribe.Segment, string) ([]transcribe.Segment, error) {
			return nil, errors.New("boom")
		},
	})
	_, err := svc.Translate(context.Background(), []transcribe.Segment{{Start: 0, End: 1, Text: "a"}}, "French")
	if !errors.Is(err, ErrTranslation) {
		t.Errorf("error = %v, want ErrTranslation", err)
	}
}

func TestServiceRejectsAlteredTimestamps(t *testing.T) {
	svc := NewServiceWithEngine(&fakeEngine{
		translate: func(segs []transcribe.Segment, _ string) ([]transcribe.Segment, error) {
			out := append([]transcribe.Segment(nil), segs...)
			out[0].Start += 0.5
			return out, nil
		},
	})
	_, err := svc.Translate(context.Background(), []transcribe.Segment{{Start: 0, End: 1, Text: "a"}}, "French")
	if !errors.Is(err, ErrTranslation) {
		t.Errorf("error = %v, want ErrTranslation", err)
	}
}

func TestServiceRejectsChangedCount(t *testing.T) {
	svc := NewServiceWithEngine(&fakeEngine{
		translate: func(segs []transcribe.Segment, _ string) ([]transcribe.Segment, error) {
			return segs[:0], nil
		},
	})
	_, err := svc.Translate(context.Background(), []transcribe.Segment{{Start: 0, End: 1, Text: "a"}}, "French")
	if !errors.Is(err, ErrTranslation) {
		t.Errorf("error = %v, want ErrTranslation", err)
	}
}

func TestServicePassesThroughTranslation(t *testing.T) {
	svc := NewServiceWithEngine(&fakeEngine{
		translate: func(segs []transcribe.Segment, tag string) ([]transcribe.Segment, error) {
			if tag != "deu_Latn" {
				t.Errorf("tag = %q, want deu_Latn", tag)
			}
			out := append([]transcribe.Segment(nil), segs...)
			for i := range out {
				out[i].Text = "übersetzt"
			}
			return out, nil
		},
	})

	segs := []transcribe.Segment{
		{Start: 0, End: 1.5, Text: "one"},
		{Start: 1.5, End: 3, Text: "two"},
	}
	got, err := svc.Translate(context.Background(), segs, "German")
	if err != nil {
		t.Fatalf("Translate() error: %v", err)
	}
	for i := range got {
		if got[i].Text != "übersetzt" {
			t.Errorf("segment %d = %q", i, got[i].Text)
		}
		if got[i].Start != segs[i].Start || got[i].End != segs[i].End {
			t.Errorf("segment %d timestamps changed", i)
		}
	}
}
