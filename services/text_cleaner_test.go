package services

import (
	"strings"
	"testing"
)

func TestCleanIdempotent(t *testing.T) {
	cleaner := NewTextCleaner()

	inputs := []string{
		"",
		"plain text with nothing special",
		"ligatures: ﬁnd the diﬀerence in the ﬂow",
		"broken\r\nline \r endings\r\n\r\n\r\n\r\neverywhere",
		"bad glyphs \uFFFD and \x01control\x1f chars",
		"spaced   out\t\ttext   here",
		"1. First question\n\n\n\n2. Second question",
	}

	for _, input := range inputs {
		once := cleaner.Clean(input)
		twice := cleaner.Clean(once)
		if once != twice {
			t.Errorf("Clean is not idempotent for %q:\nfirst:  %q\nsecond: %q", input, once, twice)
		}
	}
}

func TestCleanNormalizesArtifacts(t *testing.T) {
	cleaner := NewTextCleaner()

	out := cleaner.Clean("ﬁnd the diﬀerence")
	if out != "find the difference" {
		t.Errorf("ligatures not expanded: %q", out)
	}

	out = cleaner.Clean("some\uFFFDtext")
	if strings.Contains(out, "\uFFFD") {
		t.Errorf("replacement character survived: %q", out)
	}

	out = cleaner.Clean("a\r\nb\rc")
	if out != "a\nb\nc" {
		t.Errorf("line endings not normalized: %q", out)
	}

	out = cleaner.Clean("a\n\n\n\n\nb")
	if out != "a\n\nb" {
		t.Errorf("newline runs not collapsed: %q", out)
	}

	out = cleaner.Clean("too    many\t\tspaces")
	if out != "too many spaces" {
		t.Errorf("space runs not collapsed: %q", out)
	}
}

func TestPreprocessForParsingRejoinsHyphenBreaks(t *testing.T) {
	cleaner := NewTextCleaner()

	out := cleaner.PreprocessForParsing("calcu-\nlate the area")
	if !strings.Contains(out, "calculate") {
		t.Errorf("hyphen break not rejoined: %q", out)
	}
}

func TestPreprocessForParsingJoinsSoftWraps(t *testing.T) {
	cleaner := NewTextCleaner()

	// A line without terminal punctuation is a wrap artifact; one ending in
	// a sentence terminator is a real boundary.
	out := cleaner.PreprocessForParsing("the area of the\ntriangle shown")
	if out != "the area of the triangle shown" {
		t.Errorf("soft wrap not joined: %q", out)
	}

	out = cleaner.PreprocessForParsing("What is 2+2?\nName the capital.")
	if !strings.Contains(out, "?\n") {
		t.Errorf("sentence boundary should survive preprocessing: %q", out)
	}
}
