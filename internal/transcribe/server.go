package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ServerClient talks to the whisper.cpp HTTP server (whisper-server)
type ServerClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewServerClient creates a client for the whisper.cpp server
func NewServerClient(baseURL string) *ServerClient {
	return &ServerClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Minute, // transcription can be very long
		},
	}
}

func (c *ServerClient) Name() string {
	return "whisper-server"
}

// verboseResponse mirrors the OpenAI-compatible verbose_json shape.
// Timestamps decode as decimals and are rounded to millisecond
// precision in exact arithmetic before the float conversion.
type verboseResponse struct {
	Text     string `json:"text"`
	Segments []struct {
		Start decimal.Decimal `json:"start"`
		End   decimal.Decimal `json:"end"`
		Text  string          `json:"text"`
	} `json:"segments"`
}

// Transcribe sends the extracted audio to whisper-server and returns the
// transcript with segment-level timestamps.
func (c *ServerClient) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	audioFile, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer audioFile.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, audioFile); err != nil {
		return nil, fmt.Errorf("copy audio data: %w", err)
	}

	writer.WriteField("response_format", "verbose_json")
	writer.WriteField("temperature", "0.0")
	writer.Close()

	url := c.baseURL + "/inference"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	log.Printf("[whisper] sending request to %s (audio: %s)", url, audioPath)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("whisper server request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whisper server error (status %d): %s", resp.StatusCode, string(body))
	}

	var vr verboseResponse
	if err := json.Unmarshal(body, &vr); err != nil {
		return nil, fmt.Errorf("parse whisper response: %w", err)
	}

	result := &Result{
		Text:     strings.TrimSpace(vr.Text),
		Segments: make([]Segment, 0, len(vr.Segments)),
	}
	for _, s := range vr.Segments {
		start, _ := s.Start.Round(3).Float64()
		end, _ := s.End.Round(3).Float64()
		result.Segments = append(result.Segments, Segment{
			Start: start,
			End:   end,
			Text:  strings.TrimSpace(s.Text),
		})
	}

	return result, nil
}
