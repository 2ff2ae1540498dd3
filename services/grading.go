package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/model"
)

// Answer grading. Scraped paper questions carry no answer key, so the
// frontend sends the expected answer (from MCQ choices or the tutor) along
// with the student's attempt; grading is a pure comparison plus the
// gamification bookkeeping applied to the session.

const (
	basePointsPerCorrect = 10
	maxStreakBonus       = 10
	readinessStepPercent = 2
	badgeStreakThreshold = 3
)

var (
	answerJunkRe   = regexp.MustCompile(`[^a-z0-9 .\-+/]`)
	answerSpacesRe = regexp.MustCompile(`\s+`)
	numericOnlyRe  = regexp.MustCompile(`[^0-9.\-]`)
)

// NormalizeAnswer lowercases, collapses whitespace and strips everything
// outside [a-z0-9 .-+/], so "Rs. 1,500" and "rs 1500" compare equal enough.
func NormalizeAnswer(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	t = answerSpacesRe.ReplaceAllString(t, " ")
	return answerJunkRe.ReplaceAllString(t, "")
}

// IsCorrect compares a student answer against the expected one. Exact
// normalized match wins; otherwise a containment check (either direction,
// 4+ chars, so "paris" matches "the capital is paris") and finally numeric
// equivalence ("7.0" matches "7").
func IsCorrect(userAnswer, correctAnswer string) bool {
	correct := NormalizeAnswer(correctAnswer)
	user := NormalizeAnswer(userAnswer)

	if correct == "" || user == "" {
		return false
	}
	if user == correct {
		return true
	}
	if len(correct) >= 4 && strings.Contains(user, correct) {
		return true
	}
	if len(user) >= 4 && strings.Contains(correct, user) {
		return true
	}

	un, uErr := strconv.ParseFloat(numericOnlyRe.ReplaceAllString(user, ""), 64)
	cn, cErr := strconv.ParseFloat(numericOnlyRe.ReplaceAllString(correct, ""), 64)
	return uErr == nil && cErr == nil && un == cn
}

// MasteryTeachingSteps returns the remedial walkthrough shown after a wrong
// answer, specialized per question type.
func MasteryTeachingSteps(questionType string) []model.TeachingStep {
	switch questionType {
	case "algebra":
		return []model.TeachingStep{
			{Title: "Identify variables", Content: "Recognize knowns and unknowns in the expression."},
			{Title: "Isolate target", Content: "Use inverse operations to isolate the variable."},
			{Title: "Check solution", Content: "Substitute back to verify the equality holds."},
		}
	case "geometry":
		return []model.TeachingStep{
			{Title: "Draw a diagram", Content: "Sketch and label given information."},
			{Title: "Apply theorems", Content: "Use angle/triangle properties appropriately."},
			{Title: "Compute", Content: "Plug values and solve for the unknown."},
		}
	default:
		return []model.TeachingStep{
			{Title: "Understand the problem", Content: "Restate what is being asked in your own words."},
			{Title: "Plan", Content: "Choose a strategy: formula, pattern, or logical steps."},
			{Title: "Execute", Content: "Carry out the steps carefully and show working."},
			{Title: "Review", Content: "Verify result makes sense and units/format are correct."},
		}
	}
}

// BadgeForType formats the badge name for a question type, e.g.
// "number_theory" earns "Number Theory Master".
func BadgeForType(questionType string) string {
	if questionType == "" {
		questionType = "general"
	}
	words := strings.Split(strings.ReplaceAll(questionType, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ") + " Master"
}

// ApplyEvaluation mutates the session's gamification state for one graded
// answer and returns the per-answer outcome. Points scale with the running
// streak; a wrong answer resets the streak and attaches teaching steps.
func ApplyEvaluation(session *model.ExamSession, correct bool, questionType string) (pointsAwarded int, badgeEarned string, masterySteps []model.TeachingStep) {
	if correct {
		session.Streak++
		pointsAwarded = basePointsPerCorrect + min(session.Streak*2, maxStreakBonus)
		session.Points += pointsAwarded
		session.ReadinessPercent = min(session.ReadinessPercent+readinessStepPercent, 100)

		if session.Streak >= badgeStreakThreshold {
			badge := BadgeForType(questionType)
			if !session.HasBadge(badge) {
				session.Badges = append(session.Badges, badge)
				badgeEarned = badge
			}
		}
	} else {
		session.Streak = 0
		masterySteps = MasteryTeachingSteps(questionType)
	}
	session.Touch()
	return pointsAwarded, badgeEarned, masterySteps
}
