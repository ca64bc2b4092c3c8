package translate

import (
	"context"
	"fmt"
	"log"

	"github.com/sublyze/backend/internal/transcribe"
)

// Service resolves target language names and guards the 1:1 contract:
// translation preserves segment count and timestamps exactly, and commits
// nothing on failure.
type Service struct {
	engine Translator
}

// NewService picks the configured engine: NLLB when a server URL is set,
// DeepL as fallback when only an API key is. Returns nil when neither is
// configured; the translate action is then unavailable.
func NewService(nllbURL, deeplKey string) *Service {
	if nllbURL != "" {
		log.Printf("[translate] registered NLLB engine at %s", nllbURL)
		return &Service{engine: NewNLLBClient(nllbURL)}
	}
	if deeplKey != "" {
		log.Printf("[translate] registered DeepL engine")
		return &Service{engine: NewDeepLTranslator(deeplKey)}
	}
	return nil
}

func NewServiceWithEngine(engine Translator) *Service {
	return &Service{engine: engine}
}

func (s *Service) EngineName() string {
	return s.engine.Name()
}

// Translate translates all segments to the named language. All-or-nothing:
// any engine failure surfaces as ErrTranslation with no partial result.
func (s *Service) Translate(ctx context.Context, segments []transcribe.Segment, language string) ([]transcribe.Segment, error) {
	tag, ok := TagForLanguage(language)
	if !ok {
		return nil, fmt.Errorf("%w: unknown target language %q", ErrTranslation, language)
	}

	translated, err := s.engine.Translate(ctx, segments, tag)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranslation, err)
	}

	if len(translated) != len(segments) {
		return nil, fmt.Errorf("%w: engine changed segment count (%d -> %d)", ErrTranslation, len(segments), len(translated))
	}
	for i := range translated {
		if translated[i].Start != segments[i].Start || translated[i].End != segments[i].End {
			return nil, fmt.Errorf("%w: engine altered timestamps at segment %d", ErrTranslation, i+1)
		}
	}

	log.Printf("[translate] translated %d segments to %s via %s", len(segments), language, s.engine.Name())
	return translated, nil
}
