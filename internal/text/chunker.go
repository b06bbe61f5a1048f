package text

import (
	"regexp"
	"strings"

	"github.com/ampdesk/ampdesk/internal/core/domain"
)

// headingPattern matches ATX headings: one to six '#' characters
// followed by a space, at the start of a line.
var headingPattern = regexp.MustCompile(`(?m)^(#{1,6}) +(.*)$`)

// Fallback section titles.
const (
	// DefaultSectionTitle tags chunks of documents without headings.
	DefaultSectionTitle = "document"

	// EmptyHeadingTitle tags sections whose heading text is blank.
	EmptyHeadingTitle = "section"
)

// section is a heading plus the body text that follows it.
type section struct {
	title string
	body  string
}

// SplitHeadingAware splits normalized text into chunks bounded by
// heading markers and maxChars. Sections longer than maxChars are cut
// into windows of up to maxChars runes, each successive window
// starting overlap runes before the previous one ended. overlap must
// be smaller than maxChars; the window start is clamped so the split
// always advances.
func SplitHeadingAware(s string, maxChars, overlap int) []domain.Chunk {
	if maxChars <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChars {
		overlap = maxChars - 1
	}

	var chunks []domain.Chunk
	for _, sec := range splitSections(s) {
		chunks = appendSectionChunks(chunks, sec, maxChars, overlap)
	}
	return chunks
}

// splitSections cuts the text at heading markers. Text without any
// heading becomes a single section titled "document". Sections whose
// body is empty after trimming are dropped.
func splitSections(s string) []section {
	matches := headingPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		body := strings.TrimSpace(s)
		if body == "" {
			return nil
		}
		return []section{{title: DefaultSectionTitle, body: body}}
	}

	sections := make([]section, 0, len(matches))
	for i, m := range matches {
		start := m[1]
		end := len(s)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		title := strings.TrimSpace(s[m[4]:m[5]])
		if title == "" {
			title = EmptyHeadingTitle
		}
		body := strings.TrimSpace(s[start:end])
		if body == "" {
			continue
		}
		sections = append(sections, section{title: title, body: body})
	}
	return sections
}

// appendSectionChunks emits one chunk for a short section or a
// sliding window of chunks for a long one. Operates on runes so
// multi-byte text never splits mid character.
func appendSectionChunks(chunks []domain.Chunk, sec section, maxChars, overlap int) []domain.Chunk {
	body := []rune(sec.body)
	if len(body) <= maxChars {
		return append(chunks, domain.Chunk{
			Title: sec.title,
			Text:  sec.body,
			Index: len(chunks),
		})
	}

	start := 0
	for start < len(body) {
		end := start + maxChars
		if end > len(body) {
			end = len(body)
		}
		window := strings.TrimSpace(string(body[start:end]))
		if window != "" {
			chunks = append(chunks, domain.Chunk{
				Title: sec.title,
				Text:  window,
				Index: len(chunks),
			})
		}
		if end >= len(body) {
			break
		}
		start = end - overlap
		if start < 0 {
			start = 0
		}
	}
	return chunks
}
