package services

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
)

// buildIdentityCardPDF assembles a minimal one-page PDF showing the given
// lines in Helvetica, with a correct cross-reference table so the parser
// accepts it. Offsets are computed while writing, not hard-coded.
func buildIdentityCardPDF(t *testing.T, lines []string) []byte {
	t.Helper()

	var stream strings.Builder
	y := 720
	for _, line := range lines {
		fmt.Fprintf(&stream, "BT /F1 12 Tf 72 %d Td (%s) Tj ET\n", y, line)
		y -= 20
	}

	// Uniform glyph widths are enough for word-gap reconstruction.
	widths := strings.TrimSpace(strings.Repeat("500 ", 95))
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [" + widths + "] >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", stream.Len(), stream.String()),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects)+1)
	for i, obj := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefPos)
	return buf.Bytes()
}

func identityCardLines() []string {
	return []string{
		"NATIONAL IDENTITY CARD",
		"NAME: PUBLIC, JANE Q",
		"ID NUMBER: AB-123456",
		"DATE OF ISSUE: 01/02/2020",
		"DATE OF EXPIRY: 01/02/2030",
	}
}

// The whole reading path: a rendered card comes back out as the lines that
// were printed on it, and the field matcher recognizes them.
func TestExtractDocumentTextRecognizesCard(t *testing.T) {
	blob := buildIdentityCardPDF(t, identityCardLines())

	var progressPages []int
	content, err := ExtractDocumentText(blob, func(page, total int) {
		progressPages = append(progressPages, page)
		if total != 1 {
			t.Errorf("expected total 1, got %d", total)
		}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content.PageCount != 1 {
		t.Fatalf("expected 1 page, got %d", content.PageCount)
	}
	if !reflect.DeepEqual(progressPages, []int{1}) {
		t.Fatalf("expected progress for page 1, got %v", progressPages)
	}

	fullText := content.FullText()
	for _, line := range identityCardLines() {
		if !strings.Contains(fullText, line) {
			t.Fatalf("expected extracted text to contain %q, got %q", line, fullText)
		}
	}

	fields := MatchFields(fullText)
	if fields.WrongDocumentType {
		t.Fatalf("marker not recognized in extracted text %q", fullText)
	}
	if fields.Identifier != "AB-123456" {
		t.Errorf("expected identifier AB-123456, got %q", fields.Identifier)
	}
	if fields.IssueDate != "01/02/2020" {
		t.Errorf("expected issue date 01/02/2020, got %q", fields.IssueDate)
	}
	if fields.ExpiryDate != "01/02/2030" {
		t.Errorf("expected expiry date 01/02/2030, got %q", fields.ExpiryDate)
	}
	if fields.HolderName != "PUBLIC, JANE Q" {
		t.Errorf("expected holder name PUBLIC, JANE Q, got %q", fields.HolderName)
	}

	verdict := ValidateDocument(fields, "Jane Q. Public")
	if !verdict.Valid || !verdict.NameMatch {
		t.Fatalf("expected a clean pass, got %+v", verdict)
	}
}

func TestExtractDocumentTextRejectsGarbage(t *testing.T) {
	_, err := ExtractDocumentText([]byte("this is not a pdf"), nil)
	if err == nil {
		t.Fatal("expected an error for a non-PDF blob")
	}
	if !strings.Contains(err.Error(), "parsing document") {
		t.Fatalf("expected a parsing error, got %v", err)
	}
}

func TestExtractDocumentTextRejectsEmptyBlob(t *testing.T) {
	if _, err := ExtractDocumentText(nil, nil); err == nil {
		t.Fatal("expected an error for an empty blob")
	}
}

func TestExtractDocumentTextRejectsTruncatedHeader(t *testing.T) {
	// A valid header with nothing behind it; the parser must fail cleanly
	// rather than panic.
	if _, err := ExtractDocumentText([]byte("%PDF-1.4\n"), nil); err == nil {
		t.Fatal("expected an error for a truncated document")
	}
}

// glyphRow lays out s as one glyph per rune, 6pt wide at 12pt font, with an
// extra 6pt advance wherever the string has a space.
func glyphRow(s string, x, y float64) []pdf.Text {
	var glyphs []pdf.Text
	for _, r := range s {
		if r == ' ' {
			x += 6
			continue
		}
		glyphs = append(glyphs, pdf.Text{S: string(r), X: x, Y: y, W: 6, FontSize: 12})
		x += 6
	}
	return glyphs
}

func TestAssemblePageTextRebuildsWordsAndRows(t *testing.T) {
	glyphs := append(glyphRow("NATIONAL IDENTITY CARD", 72, 720),
		glyphRow("NAME: PUBLIC, JANE Q", 72, 700)...)

	got := assemblePageText(glyphs)
	want := "NATIONAL IDENTITY CARD\nNAME: PUBLIC, JANE Q"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestAssemblePageTextOrdersRowsTopToBottom(t *testing.T) {
	// Glyphs arrive bottom row first; output must still read top-down.
	glyphs := append(glyphRow("SECOND", 72, 700), glyphRow("FIRST", 72, 720)...)

	got := assemblePageText(glyphs)
	if got != "FIRST\nSECOND" {
		t.Fatalf("expected rows top to bottom, got %q", got)
	}
}

func TestAssemblePageTextIgnoresWhitespaceGlyphs(t *testing.T) {
	glyphs := []pdf.Text{
		{S: "A", X: 72, Y: 720, W: 6, FontSize: 12},
		{S: " ", X: 78, Y: 720, W: 6, FontSize: 12},
		{S: "B", X: 84, Y: 720, W: 6, FontSize: 12},
	}
	if got := assemblePageText(glyphs); got != "A B" {
		t.Fatalf("expected %q, got %q", "A B", got)
	}
}

func TestJoinFragments(t *testing.T) {
	tests := []struct {
		name      string
		fragments []string
		want      string
	}{
		{"plain", []string{"NATIONAL", "IDENTITY", "CARD"}, "NATIONAL IDENTITY CARD"},
		{"empty fragments dropped", []string{"", "NAME:", "", "JANE", ""}, "NAME: JANE"},
		{"single", []string{"ID"}, "ID"},
		{"all empty", []string{"", ""}, ""},
		{"none", nil, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := joinFragments(tc.fragments)
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestFullTextJoinsPagesWithNewlines(t *testing.T) {
	content := &ExtractedContent{Pages: []string{"page one", "", "page three"}, PageCount: 3}
	want := "page one\n\npage three"
	if got := content.FullText(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
