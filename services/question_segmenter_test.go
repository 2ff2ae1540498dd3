package services

import (
	"fmt"
	"strings"
	"testing"
)

func TestSegmentDropsShortQuestions(t *testing.T) {
	segmenter := NewQuestionSegmenter()

	// "What is 2+2?" is 13 trimmed chars and must be discarded as a false
	// positive; the France question (27 chars) survives.
	questions := segmenter.Segment("1. What is 2+2?\n2. Name the capital of France.\n")

	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d: %+v", len(questions), questions)
	}
	if questions[0].Number != 2 {
		t.Errorf("expected question number 2, got %d", questions[0].Number)
	}
	if questions[0].Text != "Name the capital of France." {
		t.Errorf("unexpected question text: %q", questions[0].Text)
	}
}

func TestSegmentMinimumLength(t *testing.T) {
	segmenter := NewQuestionSegmenter()

	for _, q := range segmenter.Segment("1) short\n2) also tiny\n3) This one is long enough to keep.\n") {
		if len(strings.TrimSpace(q.Text)) < 15 {
			t.Errorf("question below minimum length returned: %q", q.Text)
		}
	}
}

func TestSegmentNoNumberedLines(t *testing.T) {
	segmenter := NewQuestionSegmenter()

	questions := segmenter.Segment("This page has a heading\nand some body text\nbut no numbered questions at all.")
	if len(questions) != 0 {
		t.Errorf("expected no questions, got %d", len(questions))
	}
}

func TestSegmentContinuationLines(t *testing.T) {
	segmenter := NewQuestionSegmenter()

	text := "1. A shop sells apples at Rs. 20 each.\nIf Nimal buys 5 apples,\nhow much does he pay?\n2. Name the capital of France.\n"
	questions := segmenter.Segment(text)

	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if !strings.Contains(questions[0].Text, "how much does he pay?") {
		t.Errorf("continuation lines not appended: %q", questions[0].Text)
	}
}

func TestSegmentDeduplicatesByPrefix(t *testing.T) {
	segmenter := NewQuestionSegmenter()

	text := "1. Name the capital of France.\n2. NAME THE CAPITAL OF FRANCE.\n3. Name the capital of Spain instead.\n"
	questions := segmenter.Segment(text)

	if len(questions) != 2 {
		t.Fatalf("expected 2 questions after dedup, got %d: %+v", len(questions), questions)
	}
	if questions[0].Number != 1 {
		t.Errorf("dedup should keep the first occurrence, got number %d", questions[0].Number)
	}
}

func TestSegmentPreservesDocumentOrder(t *testing.T) {
	segmenter := NewQuestionSegmenter()

	var b strings.Builder
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&b, "%d. This is question number %d in the paper.\n", i, i)
	}
	questions := segmenter.Segment(b.String())

	if len(questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(questions))
	}
	for i, q := range questions {
		if q.Number != i+1 {
			t.Errorf("question order broken at index %d: got number %d", i, q.Number)
		}
	}
}

func TestSegmentCapsQuestionSize(t *testing.T) {
	segmenter := NewQuestionSegmenter()

	long := strings.Repeat("very long continuation line with plenty of words in it\n", 40)
	questions := segmenter.Segment("1. Start of an enormous question follows here.\n" + long)

	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	if len(questions[0].Text) > maxQuestionChars+100 {
		t.Errorf("question grew past the cap: %d chars", len(questions[0].Text))
	}
}
