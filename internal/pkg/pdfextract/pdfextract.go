package pdfextract

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

var ErrNotPDF = errors.New("not a parseable pdf")

const previewRunes = 200

// Info describes a parsed PDF without keeping its contents. TextPreview holds
// the opening of the extracted plain text, empty when the document carries no
// extractable text.
type Info struct {
	PageCount   int
	TextPreview string
}

// Inspect parses the PDF in b and returns its metadata. Used by the upload
// handler to reject broken files before they reach the processing webhook.
// Text extraction is best-effort: a PDF that parses but yields no text still
// inspects cleanly.
func Inspect(b []byte) (Info, error) {
	if len(b) == 0 {
		return Info{}, ErrNotPDF
	}
	reader, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return Info{}, ErrNotPDF
	}
	return Info{
		PageCount:   reader.NumPage(),
		TextPreview: preview(reader),
	}, nil
}

func preview(reader *pdf.Reader) string {
	plainReader, err := reader.GetPlainText()
	if err != nil {
		return ""
	}
	text, err := io.ReadAll(plainReader)
	if err != nil {
		return ""
	}
	return truncateRunes(strings.TrimSpace(string(text)), previewRunes)
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
