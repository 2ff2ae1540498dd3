package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/model"
)

// Segmentation bounds. A question that runs past these limits is almost
// certainly the segmenter sweeping unstructured text, not a real question.
const (
	maxQuestionChars = 900
	maxQuestionLines = 14
	minQuestionChars = 15
	dedupPrefixLen   = 200
)

// questionStartRe matches a numbered-question start line: optional leading
// whitespace, 1-3 digits, one of ". ) -", then content.
var questionStartRe = regexp.MustCompile(`^\s*(\d{1,3})\s*[).\-]\s*(.+?)\s*$`)

// QuestionSegmenter splits cleaned paper text into discrete numbered
// questions. The heuristic has no semantic check that a match is actually
// interrogative; numbered answer keys and fact sheets will mis-segment, and
// that is a known limitation of the source material.
type QuestionSegmenter struct{}

// NewQuestionSegmenter creates a new segmenter.
func NewQuestionSegmenter() *QuestionSegmenter {
	return &QuestionSegmenter{}
}

// Segment scans line by line. A numbered-start line opens a new candidate;
// following non-empty lines are appended until the next start line or until
// the char/line caps. Candidates shorter than minQuestionChars are dropped
// as false positives. Output keeps document order and dedups by the
// lowercase 200-char prefix, first occurrence winning.
func (s *QuestionSegmenter) Segment(text string) []model.QuestionCandidate {
	t := strings.ReplaceAll(text, "\r", "")
	lines := strings.Split(t, "\n")

	var questions []model.QuestionCandidate
	var current *model.QuestionCandidate

	flush := func() {
		if current != nil && len(strings.TrimSpace(current.Text)) >= minQuestionChars {
			questions = append(questions, *current)
		}
		current = nil
	}

	for _, line := range lines {
		if m := questionStartRe.FindStringSubmatch(line); m != nil {
			flush()
			number, _ := strconv.Atoi(m[1])
			current = &model.QuestionCandidate{Number: number, Text: m[2]}
			continue
		}
		if current == nil {
			continue
		}
		part := strings.TrimSpace(line)
		if part == "" {
			continue
		}
		if len(current.Text)+len(part) <= maxQuestionChars &&
			strings.Count(current.Text, "\n")+1 <= maxQuestionLines {
			current.Text += "\n" + part
		}
	}
	flush()

	seen := make(map[string]struct{}, len(questions))
	out := questions[:0]
	for _, q := range questions {
		q.Text = strings.TrimSpace(q.Text)
		key := strings.ToLower(q.Text)
		if len(key) > dedupPrefixLen {
			key = key[:dedupPrefixLen]
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
	}
	return out
}
