package extract

import (
	"testing"

	"resume-screener/internal/domain/model"
)

func TestDocumentExtractor_PlainText(t *testing.T) {
	e := NewDocumentExtractor()

	text, reason, err := e.Extract("resume.txt", []byte("Jane Doe\nGo engineer since 2018"))
	if err != nil || reason != "" {
		t.Fatalf("unexpected failure: reason=%q err=%v", reason, err)
	}
	if text != "Jane Doe\nGo engineer since 2018" {
		t.Errorf("text mangled: %q", text)
	}

	// Markdown rides the same path.
	if _, reason, _ := e.Extract("resume.MD", []byte("# Jane")); reason != "" {
		t.Errorf("markdown should be accepted, got reason %q", reason)
	}
}

func TestDocumentExtractor_SkipReasons(t *testing.T) {
	e := NewDocumentExtractor()

	cases := []struct {
		name     string
		filename string
		data     []byte
		want     string
	}{
		{"unsupported extension", "resume.xlsx", []byte("whatever"), model.SkipReasonUnsupportedFormat},
		{"no extension", "resume", []byte("whatever"), model.SkipReasonUnsupportedFormat},
		{"invalid utf8 text", "resume.txt", []byte{0xff, 0xfe, 0x01}, model.SkipReasonUnreadable},
		{"empty document", "resume.txt", []byte("   \n\t  "), model.SkipReasonEmptyDocument},
		{"corrupt pdf", "resume.pdf", []byte("not a pdf at all"), model.SkipReasonUnreadable},
		{"corrupt docx", "resume.docx", []byte("not a zip archive"), model.SkipReasonUnreadable},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			text, reason, _ := e.Extract(c.filename, c.data)
			if reason != c.want {
				t.Errorf("got reason %q, want %q", reason, c.want)
			}
			if text != "" {
				t.Errorf("skipped document must yield no text, got %q", text)
			}
		})
	}
}
