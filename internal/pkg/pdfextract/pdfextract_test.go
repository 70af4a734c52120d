package pdfextract

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestInspectRejectsNonPDF(t *testing.T) {
	_, err := Inspect(nil)
	assert.ErrorIs(t, err, ErrNotPDF)

	_, err = Inspect([]byte("plain text, not a pdf"))
	assert.ErrorIs(t, err, ErrNotPDF)
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short stays", "hello", 10, "hello"},
		{"exact stays", "hello", 5, "hello"},
		{"ascii cut", "hello world", 5, "hello"},
		{"multibyte cut", strings.Repeat("日", 10), 4, strings.Repeat("日", 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateRunes(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
