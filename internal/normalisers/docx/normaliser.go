// Package docx provides text extraction for DOCX documents.
// DOCX files are ZIP archives; the text lives in word/document.xml.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ampdesk/ampdesk/internal/core/domain"
	"github.com/ampdesk/ampdesk/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the file extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".docx"}
}

// Normalise extracts paragraph text from a DOCX document. Empty
// paragraphs are dropped; the rest join with single newlines.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (string, error) {
	if raw == nil {
		return "", domain.ErrInvalidInput
	}

	content := raw.Content
	if len(content) == 0 && raw.Path != "" {
		var err error
		content, err = os.ReadFile(raw.Path)
		if err != nil {
			return "", fmt.Errorf("read docx: %w", err)
		}
	}

	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: not a docx archive", domain.ErrInvalidInput)
	}

	return extractDocumentText(reader)
}

// extractDocumentText pulls paragraph text out of word/document.xml.
// It walks the XML token stream: <w:t> runs accumulate into the
// current paragraph, </w:p> flushes it.
func extractDocumentText(reader *zip.Reader) (string, error) {
	var docXML io.ReadCloser
	for _, file := range reader.File {
		if file.Name == "word/document.xml" {
			rc, err := file.Open()
			if err != nil {
				return "", fmt.Errorf("open document.xml: %w", err)
			}
			docXML = rc
			break
		}
	}
	if docXML == nil {
		return "", fmt.Errorf("%w: docx has no word/document.xml", domain.ErrInvalidInput)
	}
	defer docXML.Close()

	decoder := xml.NewDecoder(docXML)

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
	)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if p := strings.TrimSpace(current.String()); p != "" {
					paragraphs = append(paragraphs, p)
				}
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return strings.Join(paragraphs, "\n"), nil
}
