package services

import (
	"fmt"

	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/model"
)

// Canned exam-mode copy. Every degraded path resolves to a question the
// student can act on instead of an error.

// SetupQuestions is the ordered onboarding sequence the frontend walks
// through when exam mode starts.
var SetupQuestions = []string{
	"Are you preparing for a real exam or just practicing for one?",
	"Which term test are you getting ready for? (First term, Second term, Third term)",
	"Which subject are you planning to study? (Maths, Science, English, etc.)",
}

// noPapersQuestion is served when a session has no PDF links to draw from.
func noPapersQuestion(subject, term string) model.ExamQuestion {
	return model.ExamQuestion{
		ID: "no_papers_found",
		Text: fmt.Sprintf("I couldn't fetch past-paper PDFs right now for (Subject: %s, Term: %s).\n\n"+
			"This usually happens because the past-paper website blocks automated server requests (HTTP 403/anti-bot), which can prevent the server from downloading the PDFs.\n\n"+
			"✅ Fix: Upload a past-paper PDF using the Upload button (📄) and I will scan it and ask you a real question from it.\n\n"+
			"For now, here is a practice exam-style question:\n\n"+
			"Write 3 key points you remember from the %s textbook chapter you studied most recently, and I will turn them into an exam question.",
			subject, term, subject),
	}
}

// fallbackQuestion is served when a PDF was fetched but no numbered
// question could be pulled out of it.
func fallbackQuestion(subject string) model.ExamQuestion {
	return model.ExamQuestion{
		ID: "fallback",
		Text: fmt.Sprintf("I couldn't extract a numbered question from the PDFs.\n\n"+
			"Tell me the subject topic you want (from %s) and I will create an exam-style question for you.", subject),
	}
}
