// Package extract turns uploaded resume documents into plain text.
// Unsupported or unreadable documents come back with a skip reason rather
// than an error: the pipeline records those per resume and moves on.
package extract

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"resume-screener/internal/domain/model"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Extractor converts one raw document into text. A non-empty skip reason
// means the document cannot be analyzed; err carries the underlying cause
// for logging only.
type Extractor interface {
	Extract(filename string, data []byte) (text string, skipReason string, err error)
}

type DocumentExtractor struct{}

func NewDocumentExtractor() *DocumentExtractor { return &DocumentExtractor{} }

func (e *DocumentExtractor) Extract(filename string, data []byte) (string, string, error) {
	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDOCX(data)
	case ".txt", ".md":
		if !utf8.Valid(data) {
			return "", model.SkipReasonUnreadable, nil
		}
		text = string(data)
	default:
		return "", model.SkipReasonUnsupportedFormat, nil
	}
	if err != nil {
		return "", model.SkipReasonUnreadable, err
	}
	if strings.TrimSpace(text) == "" {
		return "", model.SkipReasonEmptyDocument, nil
	}
	return text, "", nil
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	body, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var docxTagRe = regexp.MustCompile(`<[^>]+>`)

func extractDOCX(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer r.Close()

	// GetContent returns document.xml; paragraph ends become newlines,
	// remaining markup is stripped.
	content := r.Editable().GetContent()
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	return docxTagRe.ReplaceAllString(content, ""), nil
}
