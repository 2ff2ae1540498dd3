package model

import (
	"strings"
	"time"
)

// Exam mode constants
const (
	ModePractice = "practice"
	ModeReal     = "real"

	DefaultSubject = "General"
	DefaultTerm    = "Third"
)

// ExamSession is the server-side record of one Exam-Mode practice run,
// keyed by an opaque id supplied by or generated for the client.
//
// Sessions are best-effort state: they live as long as the store backend
// does (process memory by default) and are never explicitly destroyed.
type ExamSession struct {
	ID           string         `json:"id"`
	Subject      string         `json:"subject"`
	Term         string         `json:"term"`
	Mode         string         `json:"mode"`
	PapersLoaded bool           `json:"papers_loaded"`
	PDFLinks     []string       `json:"pdf_links"`
	Questions    []ExamQuestion `json:"questions"`
	LastPDFURL   string         `json:"last_pdf_url,omitempty"`

	// Gamification state for the evaluate/progress endpoints.
	Points           int       `json:"points"`
	Streak           int       `json:"streak"`
	Badges           []string  `json:"badges"`
	ReadinessPercent int       `json:"readiness_percent"`
	LastQuestionID   string    `json:"last_question_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	LastUpdated      time.Time `json:"last_updated"`
}

// SessionSeed carries the optional fields a request may supply when a
// session is created lazily by fetch-papers / ask-question / upload-pdf.
type SessionSeed struct {
	Subject  string
	Term     string
	Mode     string
	PDFLinks []string
}

// NewExamSession builds a session with seed defaults applied.
func NewExamSession(id string, seed SessionSeed) *ExamSession {
	now := time.Now().UTC()
	s := &ExamSession{
		ID:          id,
		Subject:     DefaultSubject,
		Term:        DefaultTerm,
		Mode:        ModePractice,
		PDFLinks:    []string{},
		Questions:   []ExamQuestion{},
		Badges:      []string{},
		CreatedAt:   now,
		LastUpdated: now,
	}
	if seed.Subject != "" {
		s.Subject = seed.Subject
	}
	if seed.Term != "" {
		s.Term = seed.Term
	}
	if seed.Mode != "" {
		s.Mode = seed.Mode
	}
	if len(seed.PDFLinks) > 0 {
		s.PDFLinks = seed.PDFLinks
	}
	return s
}

// Touch updates the last-modified timestamp.
func (s *ExamSession) Touch() {
	s.LastUpdated = time.Now().UTC()
}

// HasBadge reports whether the session already earned the named badge.
func (s *ExamSession) HasBadge(name string) bool {
	for _, b := range s.Badges {
		if b == name {
			return true
		}
	}
	return false
}

// NormalizeTerm folds free-text term inputs ("2nd", "Second term", "term 2")
// into the canonical lowercase key: first, second or third.
func NormalizeTerm(term string) string {
	t := strings.ToLower(strings.TrimSpace(term))
	switch {
	case strings.Contains(t, "first") || t == "1" || strings.Contains(t, "1st"):
		return "first"
	case strings.Contains(t, "second") || t == "2" || strings.Contains(t, "2nd"):
		return "second"
	case strings.Contains(t, "third") || t == "3" || strings.Contains(t, "3rd"):
		return "third"
	}
	if t == "" {
		return "third"
	}
	return t
}

// NormalizeSubject lowercases and trims a subject name for alias matching.
func NormalizeSubject(subject string) string {
	return strings.ToLower(strings.TrimSpace(subject))
}
