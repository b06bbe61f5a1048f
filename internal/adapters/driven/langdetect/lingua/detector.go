// Package lingua detects languages with the lingua-go library.
//
// The detector is restricted to the translator's supported language
// set; restricting the candidate pool keeps detection accurate on the
// short texts translation output tends to be.
package lingua

import (
	"github.com/pemistahl/lingua-go"

	"github.com/ampdesk/ampdesk/internal/core/domain"
	"github.com/ampdesk/ampdesk/internal/core/ports/driven"
)

// Ensure Detector implements the interface.
var _ driven.LanguageDetector = (*Detector)(nil)

// supported maps canonical display names to lingua languages.
var supported = map[string]lingua.Language{
	"English":    lingua.English,
	"Thai":       lingua.Thai,
	"French":     lingua.French,
	"Spanish":    lingua.Spanish,
	"German":     lingua.German,
	"Italian":    lingua.Italian,
	"Portuguese": lingua.Portuguese,
	"Dutch":      lingua.Dutch,
	"Russian":    lingua.Russian,
	"Chinese":    lingua.Chinese,
	"Japanese":   lingua.Japanese,
	"Korean":     lingua.Korean,
	"Arabic":     lingua.Arabic,
	"Hindi":      lingua.Hindi,
	"Indonesian": lingua.Indonesian,
	"Vietnamese": lingua.Vietnamese,
	"Malay":      lingua.Malay,
}

// Detector identifies text language within the supported set.
type Detector struct {
	detector lingua.LanguageDetector
	names    map[lingua.Language]string
}

// New builds a detector over the translator's allowed languages.
func New() *Detector {
	names := make(map[lingua.Language]string, len(supported))
	languages := make([]lingua.Language, 0, len(supported))
	for _, canon := range domain.AllowedTargetLanguages() {
		lang, ok := supported[canon]
		if !ok {
			continue
		}
		names[lang] = canon
		languages = append(languages, lang)
	}

	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			Build(),
		names: names,
	}
}

// Detect returns the canonical display name of the detected language.
// ok is false when detection is inconclusive.
func (d *Detector) Detect(text string) (string, bool) {
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	name, ok := d.names[lang]
	return name, ok
}
