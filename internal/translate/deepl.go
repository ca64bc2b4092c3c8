package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sublyze/backend/internal/transcribe"
)

const deeplAPIURL = "https://api-free.deepl.com/v2/translate"

const deeplBatchSize = 50

// DeepLTranslator is the secondary engine, used when no NLLB server is
// configured but a DeepL API key is.
type DeepLTranslator struct {
	apiKey     string
	httpClient *http.Client
}

func NewDeepLTranslator(apiKey string) *DeepLTranslator {
	return &DeepLTranslator{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 1 * time.Minute,
		},
	}
}

func (d *DeepLTranslator) Name() string {
	return "deepl"
}

func (d *DeepLTranslator) Translate(ctx context.Context, segments []transcribe.Segment, targetTag string) ([]transcribe.Segment, error) {
	if d.apiKey == "" {
		return nil, fmt.Errorf("DeepL API key not configured")
	}

	result := make([]transcribe.Segment, len(segments))
	copy(result, segments)

	totalBatches := (len(segments) + deeplBatchSize - 1) / deeplBatchSize
	for i := 0; i < len(segments); i += deeplBatchSize {
		end := i + deeplBatchSize
		if end > len(segments) {
			end = len(segments)
		}

		log.Printf("[translate] deepl batch %d/%d (%d segments)", i/deeplBatchSize+1, totalBatches, end-i)

		texts, err := d.translateBatch(ctx, result[i:end], targetTag)
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", i/deeplBatchSize+1, err)
		}
		for n := range texts {
			result[i+n].Text = texts[n]
		}
	}

	return result, nil
}

func (d *DeepLTranslator) translateBatch(ctx context.Context, segments []transcribe.Segment, targetTag string) ([]string, error) {
	form := url.Values{}
	for _, seg := range segments {
		form.Add("text", seg.Text)
	}
	form.Set("target_lang", deeplLangCode(targetTag))
	form.Set("source_lang", deeplLangCode(SourceLangTag))

	httpReq, err := http.NewRequestWithContext(ctx, "POST", deeplAPIURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+d.apiKey)

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("DeepL API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("DeepL API error (status %d): %s", resp.StatusCode, string(body))
	}

	var deeplResp struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.Unmarshal(body, &deeplResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if len(deeplResp.Translations) != len(segments) {
		return nil, fmt.Errorf("DeepL returned %d translations for %d inputs", len(deeplResp.Translations), len(segments))
	}

	texts := make([]string, len(segments))
	for i := range deeplResp.Translations {
		texts[i] = deeplResp.Translations[i].Text
	}
	return texts, nil
}

// deeplLangCode converts NLLB tags to DeepL language codes.
func deeplLangCode(tag string) string {
	mapping := map[string]string{
		"eng_Latn": "EN",
		"fra_Latn": "FR",
		"spa_Latn": "ES",
		"deu_Latn": "DE",
		"ita_Latn": "IT",
		"por_Latn": "PT-BR",
		"zho_Hans": "ZH",
	}
	if mapped, ok := mapping[tag]; ok {
		return mapped
	}
	return strings.ToUpper(strings.SplitN(tag, "_", 2)[0][:2])
}
