package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sublyze/backend/internal/transcribe"
)

// NLLBClient talks to an nllb-serve style endpoint wrapping the
// NLLB-200 multilingual seq2seq model. The server owns the model and
// tokenizer; generation is forced to begin with the target language's
// control token by passing its tag.
type NLLBClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewNLLBClient(baseURL string) *NLLBClient {
	return &NLLBClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
}

func (c *NLLBClient) Name() string {
	return "nllb"
}

type nllbRequest struct {
	Source     []string `json:"source"`
	SourceLang string   `json:"src_lang"`
	TargetLang string   `json:"tgt_lang"`
}

type nllbResponse struct {
	Translation []string `json:"translation"`
}

// Translate sends every non-empty segment text in one batch. Timestamps
// never change; empty segments pass through untranslated.
func (c *NLLBClient) Translate(ctx context.Context, segments []transcribe.Segment, targetTag string) ([]transcribe.Segment, error) {
	texts := make([]string, 0, len(segments))
	positions := make([]int, 0, len(segments))
	for i, seg := range segments {
		if strings.TrimSpace(seg.Text) == "" {
			continue
		}
		texts = append(texts, seg.Text)
		positions = append(positions, i)
	}

	result := make([]transcribe.Segment, len(segments))
	copy(result, segments)

	if len(texts) == 0 {
		return result, nil
	}

	payload, err := json.Marshal(nllbRequest{
		Source:     texts,
		SourceLang: SourceLangTag,
		TargetLang: targetTag,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/translate"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	log.Printf("[translate] nllb: %d segments -> %s", len(texts), targetTag)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("nllb request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nllb error (status %d): %s", resp.StatusCode, string(body))
	}

	var nr nllbResponse
	if err := json.Unmarshal(body, &nr); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if len(nr.Translation) != len(texts) {
		return nil, fmt.Errorf("nllb returned %d translations for %d inputs", len(nr.Translation), len(texts))
	}

	for n, pos := range positions {
		result[pos].Text = strings.TrimSpace(nr.Translation[n])
	}

	return result, nil
}
