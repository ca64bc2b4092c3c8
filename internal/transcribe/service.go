package transcribe

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"lukechampine.com/blake3"
)

// Service wraps the configured engine and caches finished transcripts by
// audio content hash, so re-uploading the same clip skips inference.
type Service struct {
	engine         Transcriber
	transcriptPath string
}

func NewService(engine Transcriber, transcriptPath string) *Service {
	return &Service{engine: engine, transcriptPath: transcriptPath}
}

func (s *Service) EngineName() string {
	return s.engine.Name()
}

// Transcribe returns the transcript for the given audio file. An empty
// post-trim transcript yields ErrNoSpeech.
func (s *Service) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	hash, err := hashFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("hash audio: %w", err)
	}

	if cached, ok := s.readCache(hash); ok {
		log.Printf("[whisper] transcript cache hit: %s", hash[:12])
		return s.checked(cached)
	}

	log.Printf("[whisper] transcribing with %s: %s", s.engine.Name(), audioPath)
	result, err := s.engine.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}

	s.writeCache(hash, result)
	return s.checked(result)
}

func (s *Service) checked(result *Result) (*Result, error) {
	if strings.TrimSpace(result.Text) == "" {
		return nil, ErrNoSpeech
	}
	return result, nil
}

func (s *Service) readCache(hash string) (*Result, bool) {
	data, err := os.ReadFile(s.cachePath(hash))
	if err != nil {
		return nil, false
	}
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (s *Service) writeCache(hash string, result *Result) {
	if err := os.MkdirAll(s.transcriptPath, 0755); err != nil {
		log.Printf("[whisper] cannot create transcript dir: %v", err)
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := os.WriteFile(s.cachePath(hash), data, 0644); err != nil {
		log.Printf("[whisper] cannot cache transcript: %v", err)
	}
}

func (s *Service) cachePath(hash string) string {
	return filepath.Join(s.transcriptPath, hash+".json")
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
