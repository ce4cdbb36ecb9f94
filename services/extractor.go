package services

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractedContent holds the text of a parsed document, page by page.
type ExtractedContent struct {
	Pages     []string
	PageCount int
}

// FullText joins the per-page text with newlines.
func (c *ExtractedContent) FullText() string {
	return strings.Join(c.Pages, "\n")
}

// The pdf package reports one Text element per glyph with page coordinates;
// words and lines have to be rebuilt from those positions.
const (
	rowTolerance    = 3.0 // glyphs within this Y distance belong to the same row
	wordGapFraction = 0.3 // horizontal gap beyond this fraction of the font size splits words
)

// ExtractDocumentText parses a PDF blob into per-page text. Pages are
// processed strictly in order 1..N. Within a page, glyphs are grouped into
// rows top to bottom and merged into words by horizontal gap; words are
// joined with single spaces, rows with newlines.
//
// progress may be nil; when set it is called once per finished page so the
// client can show "page 2 of 5" style feedback during long extractions.
func ExtractDocumentText(blob []byte, progress func(page, total int)) (content *ExtractedContent, err error) {
	// The pdf package panics on some malformed cross-reference tables
	// instead of returning an error; treat that as an unreadable document.
	defer func() {
		if r := recover(); r != nil {
			content = nil
			err = fmt.Errorf("parsing document: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	total := reader.NumPage()
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
		} else {
			pages = append(pages, assemblePageText(page.Content().Text))
		}
		if progress != nil {
			progress(i, total)
		}
	}

	return &ExtractedContent{Pages: pages, PageCount: total}, nil
}

// assemblePageText rebuilds readable lines from a page's glyphs. Whitespace
// glyphs carry no content of their own; word boundaries come from geometry.
func assemblePageText(glyphs []pdf.Text) string {
	kept := make([]pdf.Text, 0, len(glyphs))
	for _, g := range glyphs {
		if strings.TrimSpace(g.S) != "" {
			kept = append(kept, g)
		}
	}

	rows := groupIntoRows(kept)
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if line := assembleRowText(row); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// groupIntoRows buckets glyphs by Y coordinate within rowTolerance and
// returns the rows top to bottom (page coordinates grow upward).
func groupIntoRows(glyphs []pdf.Text) [][]pdf.Text {
	type rowBucket struct {
		yMin, yMax float64
		glyphs     []pdf.Text
	}

	var buckets []rowBucket
	for _, g := range glyphs {
		placed := false
		for i := range buckets {
			if g.Y >= buckets[i].yMin-rowTolerance && g.Y <= buckets[i].yMax+rowTolerance {
				buckets[i].glyphs = append(buckets[i].glyphs, g)
				if g.Y < buckets[i].yMin {
					buckets[i].yMin = g.Y
				}
				if g.Y > buckets[i].yMax {
					buckets[i].yMax = g.Y
				}
				placed = true
				break
			}
		}
		if !placed {
			buckets = append(buckets, rowBucket{yMin: g.Y, yMax: g.Y, glyphs: []pdf.Text{g}})
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].yMax > buckets[j].yMax
	})

	rows := make([][]pdf.Text, len(buckets))
	for i, b := range buckets {
		rows[i] = b.glyphs
	}
	return rows
}

// assembleRowText orders a row's glyphs left to right and merges them into
// words: a horizontal gap wider than wordGapFraction of the font size starts
// a new word.
func assembleRowText(row []pdf.Text) string {
	sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })

	var words []string
	var word strings.Builder
	endX := 0.0
	for i, g := range row {
		if i > 0 {
			threshold := wordGapFraction * g.FontSize
			if threshold <= 0 {
				threshold = 3.0
			}
			if g.X-endX > threshold {
				words = append(words, word.String())
				word.Reset()
			}
		}
		word.WriteString(g.S)
		if g.X+g.W > endX {
			endX = g.X + g.W
		}
	}
	if word.Len() > 0 {
		words = append(words, word.String())
	}
	return joinFragments(words)
}

// joinFragments concatenates word fragments with single-space separators.
// Empty fragments are kept out so lines don't accumulate runs of separator
// whitespace.
func joinFragments(fragments []string) string {
	var b strings.Builder
	for _, f := range fragments {
		if f == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(f)
	}
	return b.String()
}
