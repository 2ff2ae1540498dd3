package model

// ExamQuestion is a question served to the student. SourceURL is empty for
// questions extracted from an uploaded PDF and for synthetic guidance
// questions.
type ExamQuestion struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	SourceURL string `json:"source_url,omitempty"`
}

// QuestionCandidate is a numbered block produced by segmentation before it
// is bound to a source PDF. Numbers may repeat or be non-monotonic in real
// papers and are never used for ordering or dedup.
type QuestionCandidate struct {
	Number int
	Text   string
}

// PDFCandidate is a discovered PDF URL with its relevance score. The score
// ranks candidates during discovery only; it is not persisted.
type PDFCandidate struct {
	URL   string
	Score int
}
