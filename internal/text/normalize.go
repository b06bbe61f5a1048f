package text

import (
	"regexp"
	"strings"
)

var excessBlankLines = regexp.MustCompile(`\n{3,}`)

// Normalize prepares extracted document text for chunking:
// line endings become LF, a leading byte-order mark is stripped,
// runs of three or more newlines collapse to exactly two, and the
// whole document is trimmed. Total on any input.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimPrefix(s, "\uFEFF")
	s = excessBlankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
