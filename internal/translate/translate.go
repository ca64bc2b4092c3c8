package translate

import (
	"context"
	"errors"

	"github.com/sublyze/backend/internal/transcribe"
)

// ErrTranslation marks any translation failure. Partial results are
// discarded: no segment-level partial translation reaches session state.
var ErrTranslation = errors.New("translation failed")

// SourceLangTag is the fixed source-language tag. Transcripts come out of
// the ASR stage in English.
const SourceLangTag = "eng_Latn"

// Language pairs a human-readable name with its NLLB control-token tag.
type Language struct {
	Name string `json:"name"`
	Tag  string `json:"tag"`
}

// Languages is the fixed set offered for target selection.
var Languages = []Language{
	{Name: "English", Tag: "eng_Latn"},
	{Name: "French", Tag: "fra_Latn"},
	{Name: "Spanish", Tag: "spa_Latn"},
	{Name: "German", Tag: "deu_Latn"},
	{Name: "Italian", Tag: "ita_Latn"},
	{Name: "Portuguese", Tag: "por_Latn"},
	{Name: "Chinese", Tag: "zho_Hans"},
}

// TagForLanguage resolves a human-readable name to its model tag.
func TagForLanguage(name string) (string, bool) {
	for _, l := range Languages {
		if l.Name == name {
			return l.Tag, true
		}
	}
	return "", false
}

// Translator is the common interface for all translation engines.
// Implementations return new segments with translated text and the
// original timestamps copied verbatim, 1:1 in order and count.
type Translator interface {
	Translate(ctx context.Context, segments []transcribe.Segment, targetTag string) ([]transcribe.Segment, error)
	Name() string
}
