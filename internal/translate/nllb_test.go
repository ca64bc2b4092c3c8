package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sublyze/backend/internal/transcribe"
)

func TestNLLBTranslatePreservesTimestamps(t *testing.T) {
	var gotReq nllbRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		translations := make([]string, len(gotReq.Source))
		for i := range translations {
			translations[i] = "traduit " + gotReq.Source[i]
		}
		json.NewEncoder(w).Encode(nllbResponse{Translation: translations})
	}))
	defer server.Close()

	client := NewNLLBClient(server.URL)
	segs := []transcribe.Segment{
		{Start: 0.0, End: 1.5, Text: "Hi"},
		{Start: 1.5, End: 3.0, Text: "there"},
	}

	got, err := client.Translate(context.Background(), segs, "fra_Latn")
	if err != nil {
		t.Fatalf("Translate() error: %v", err)
	}

	if gotReq.SourceLang != SourceLangTag {
		t.Errorf("source lang = %q, want %q", gotReq.SourceLang, SourceLangTag)
	}
	if gotReq.TargetLang != "fra_Latn" {
		t.Errorf("target lang = %q, want fra_Latn", gotReq.TargetLang)
	}

	if len(got) != len(segs) {
		t.Fatalf("segment count changed: %d -> %d", len(segs), len(got))
	}
	for i := range segs {
		if got[i].Start != segs[i].Start || got[i].End != segs[i].End {
			t.Errorf("segment %d timestamps changed: %+v", i, got[i])
		}
		if got[i].Text == segs[i].Text || got[i].Text == "" {
			t.Errorf("segment %d not translated: %q", i, got[i].Text)
		}
	}
}

func TestNLLBTranslateEmptySegmentsPassThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req nllbRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Source) != 1 {
			t.Errorf("empty segments should not be sent, got %d texts", len(req.Source))
		}
		json.NewEncoder(w).Encode(nllbResponse{Translation: []string{"bonjour"}})
	}))
	defer server.Close()

	client := NewNLLBClient(server.URL)
	segs := []transcribe.Segment{
		{Start: 0, End: 1, Text: ""},
		{Start: 1, End: 2, Text: "hello"},
	}

	got, err := client.Translate(context.Background(), segs, "fra_Latn")
	if err != nil {
		t.Fatalf("Translate() error: %v", err)
	}
	if got[0].Text != "" {
		t.Errorf("empty segment gained text: %q", got[0].Text)
	}
	if got[1].Text != "bonjour" {
		t.Errorf("segment 1 = %q, want bonjour", got[1].Text)
	}
}

func TestNLLBTranslateCountMismatchFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(nllbResponse{Translation: []string{"only one"}})
	}))
	defer server.Close()

	client := NewNLLBClient(server.URL)
	segs := []transcribe.Segment{
		{Start: 0, End: 1, Text: "a"},
		{Start: 1, End: 2, Text: "b"},
	}

	if _, err := client.Translate(context.Background(), segs, "fra_Latn"); err == nil {
		t.Error("expected error for translation count mismatch")
	}
}

func TestNLLBTranslateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model busy", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewNLLBClient(server.URL)
	segs := []transcribe.Segment{{Start: 0, End: 1, Text: "a"}}

	if _, err := client.Translate(context.Background(), segs, "fra_Latn"); err == nil {
		t.Error("expected error for server failure")
	}
}
