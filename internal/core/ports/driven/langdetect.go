package driven

// LanguageDetector identifies the language of a piece of text.
type LanguageDetector interface {
	// Detect returns the canonical display name of the detected
	// language (e.g. "English"). ok is false when detection is
	// inconclusive or the language is outside the supported set.
	Detect(text string) (name string, ok bool)
}
