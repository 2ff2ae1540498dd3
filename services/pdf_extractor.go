package services

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxExtractPages caps extraction. Past papers run 4-12 pages; anything
// longer is a bundled collection and the tail adds noise, not questions.
const maxExtractPages = 25

// minExtractedChars is the floor below which a "successful" parse is treated
// as a scanned/image-only PDF.
const minExtractedChars = 50

// PDFExtractor pulls text out of past-paper PDF bytes using ledongthuc/pdf.
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDF extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// sanitizePDF truncates trailing garbage after the last %%EOF marker. PDFs
// served through WordPress download plugins or render proxies often arrive
// with HTML appended, which breaks the xref lookup.
func sanitizePDF(content []byte) []byte {
	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		return content
	}

	lastEOF := bytes.LastIndex(content, []byte("%%EOF"))
	if lastEOF == -1 {
		// Truncated PDF; let the parser produce the real error.
		return content
	}

	end := lastEOF + len("%%EOF")
	for end < len(content) && (content[end] == '\n' || content[end] == '\r') {
		end++
	}

	if extra := len(content) - end; extra > 10 {
		log.Printf("PDF Extractor: dropping %d trailing bytes after %%EOF", extra)
		return content[:end]
	}
	return content
}

// ExtractText extracts the text of a PDF, page by page, capped at
// maxExtractPages. Row-based extraction preserves line structure, which the
// question segmenter depends on; pages where it fails fall back to plain
// text, and pages that fail entirely are skipped.
func (p *PDFExtractor) ExtractText(content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("empty PDF content")
	}

	content = sanitizePDF(content)

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}
	pages := numPages
	if pages > maxExtractPages {
		log.Printf("PDF Extractor: capping extraction at %d of %d pages", maxExtractPages, numPages)
		pages = maxExtractPages
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		extractPage(&b, page, i)
	}

	extracted := strings.TrimSpace(b.String())
	if len(extracted) < minExtractedChars {
		return "", fmt.Errorf("insufficient text extracted (%d characters), PDF is likely scanned and needs OCR", len(extracted))
	}
	return extracted, nil
}

func extractPage(b *strings.Builder, page pdf.Page, pageNum int) {
	rows, err := page.GetTextByRow()
	if err != nil {
		text, plainErr := page.GetPlainText(nil)
		if plainErr != nil {
			log.Printf("PDF Extractor: page %d unreadable: %v", pageNum, plainErr)
			return
		}
		b.WriteString(text)
		b.WriteString("\n")
		return
	}

	for _, row := range rows {
		var line strings.Builder
		for _, word := range row.Content {
			line.WriteString(word.S)
		}
		if s := strings.TrimSpace(line.String()); s != "" {
			b.WriteString(s)
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
}

// GetPageCount returns the page count without extracting text.
func (p *PDFExtractor) GetPageCount(content []byte) (int, error) {
	if len(content) == 0 {
		return 0, fmt.Errorf("empty PDF content")
	}

	content = sanitizePDF(content)
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, fmt.Errorf("failed to parse PDF: %w", err)
	}
	return reader.NumPage(), nil
}
