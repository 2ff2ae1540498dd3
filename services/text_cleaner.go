package services

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TextCleaner normalizes raw text pulled out of past-paper PDFs. Extraction
// output is full of ligature code points, replacement characters and broken
// line wrapping; both passes here are pure string transforms, total over any
// input including the empty string.
type TextCleaner struct{}

// NewTextCleaner creates a new text cleaner.
func NewTextCleaner() *TextCleaner {
	return &TextCleaner{}
}

var ligatureReplacer = strings.NewReplacer(
	"ﬀ", "ff",
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
)

var (
	zeroWidthRe     = regexp.MustCompile("[\u200B-\u200D\uFEFF]")
	controlRe       = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f]`)
	tripleNewlineRe = regexp.MustCompile(`\n{3,}`)
	spaceRunRe      = regexp.MustCompile(`[ \t]{2,}`)
)

// Clean folds visually-equivalent glyphs to their compatibility form,
// expands ligatures, strips failed-glyph markers and control characters
// (newline and tab survive), and collapses whitespace runs. Idempotent.
func (c *TextCleaner) Clean(raw string) string {
	t := norm.NFKC.String(raw)

	t = ligatureReplacer.Replace(t)

	// U+FFFD means the extractor could not map a glyph; it is never content.
	t = strings.ReplaceAll(t, "�", "")
	t = zeroWidthRe.ReplaceAllString(t, "")

	t = strings.ReplaceAll(t, "\r\n", "\n")
	t = strings.ReplaceAll(t, "\r", "\n")
	t = controlRe.ReplaceAllString(t, "")

	t = tripleNewlineRe.ReplaceAllString(t, "\n\n")
	t = spaceRunRe.ReplaceAllString(t, " ")
	return t
}

var hyphenBreakRe = regexp.MustCompile(`([A-Za-z])-\n([A-Za-z])`)

var softWrapRe = regexp.MustCompile(`([^\n.!?:;])\n([^\n])`)

// PreprocessForParsing repairs line-wrap artifacts ahead of question
// segmentation: a word hyphen-broken across a line break is rejoined, and a
// line that does not end in sentence punctuation is joined to the next line
// with a single space. Blank lines keep their paragraph-break meaning.
func (c *TextCleaner) PreprocessForParsing(text string) string {
	t := hyphenBreakRe.ReplaceAllString(text, "$1$2")

	// Joining can expose new soft wraps ("a\nb\nc"), so run to fixpoint.
	for {
		joined := softWrapRe.ReplaceAllString(t, "$1 $2")
		if joined == t {
			break
		}
		t = joined
	}

	t = tripleNewlineRe.ReplaceAllString(t, "\n\n")
	t = spaceRunRe.ReplaceAllString(t, " ")
	return t
}
