package domain

import (
	"sort"
	"strings"
)

// languageCanon maps accepted language codes and names (lowercased)
// to their canonical display name. The translator only accepts
// targets that resolve through this table.
var languageCanon = map[string]string{
	"en": "English", "english": "English",
	"th": "Thai", "thai": "Thai",
	"fr": "French", "french": "French",
	"es": "Spanish", "spanish": "Spanish",
	"de": "German", "german": "German",
	"it": "Italian", "italian": "Italian",
	"pt": "Portuguese", "portuguese": "Portuguese",
	"nl": "Dutch", "dutch": "Dutch",
	"ru": "Russian", "russian": "Russian",
	"zh": "Chinese", "chinese": "Chinese", "zh-cn": "Chinese", "zh-tw": "Chinese",
	"ja": "Japanese", "japanese": "Japanese",
	"ko": "Korean", "korean": "Korean",
	"ar": "Arabic", "arabic": "Arabic",
	"hi": "Hindi", "hindi": "Hindi",
	"id": "Indonesian", "indonesian": "Indonesian",
	"vi": "Vietnamese", "vietnamese": "Vietnamese",
	"ms": "Malay", "malay": "Malay",
}

// CanonicalLanguage resolves a language code or name to its canonical
// display name. The second return is false for unmapped inputs.
func CanonicalLanguage(nameOrCode string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(nameOrCode))
	if key == "" {
		return "", false
	}
	canon, ok := languageCanon[key]
	return canon, ok
}

// AllowedTargetLanguages returns the sorted set of canonical display
// names the translator accepts.
func AllowedTargetLanguages() []string {
	seen := make(map[string]struct{}, len(languageCanon))
	for _, v := range languageCanon {
		seen[v] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
