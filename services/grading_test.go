package services

import (
	"testing"

	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/model"
)

func TestNormalizeAnswer(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  Paris  ", "paris"},
		{"Rs. 1,500", "rs. 1500"},
		{"A)  x = 3", "a x  3"},
		{"7.0", "7.0"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeAnswer(c.in); got != c.want {
			t.Errorf("NormalizeAnswer(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsCorrect(t *testing.T) {
	cases := []struct {
		name    string
		user    string
		correct string
		want    bool
	}{
		{"exact", "Paris", "paris", true},
		{"answer contains expected", "the capital is Paris", "Paris", true},
		{"expected contains answer", "Paris", "Paris, France", true},
		{"short fragments do not match by containment", "cat", "catalog", false},
		{"numeric equivalence", "7.0", "7", true},
		{"numeric with units", "Rs. 1500", "1500", true},
		{"plain wrong", "London", "Paris", false},
		{"empty user", "", "Paris", false},
		{"empty expected", "Paris", "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsCorrect(c.user, c.correct); got != c.want {
				t.Errorf("IsCorrect(%q, %q) = %v, want %v", c.user, c.correct, got, c.want)
			}
		})
	}
}

func TestBadgeForType(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"algebra", "Algebra Master"},
		{"number_theory", "Number Theory Master"},
		{"", "General Master"},
	}
	for _, c := range cases {
		if got := BadgeForType(c.in); got != c.want {
			t.Errorf("BadgeForType(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestApplyEvaluationStreakScaling(t *testing.T) {
	session := model.NewExamSession("s1", model.SessionSeed{})

	// Points are 10 plus twice the streak, with the bonus capped at 10.
	wantPoints := []int{12, 14, 16, 18, 20, 20, 20}
	for i, want := range wantPoints {
		got, _, _ := ApplyEvaluation(session, true, "algebra")
		if got != want {
			t.Errorf("answer %d: points = %d, want %d", i+1, got, want)
		}
	}
	if session.Streak != len(wantPoints) {
		t.Errorf("expected streak %d, got %d", len(wantPoints), session.Streak)
	}
}

func TestApplyEvaluationBadgeAwardedOnce(t *testing.T) {
	session := model.NewExamSession("s1", model.SessionSeed{})

	var earned string
	for i := 0; i < 5; i++ {
		_, badge, _ := ApplyEvaluation(session, true, "geometry")
		if badge != "" {
			if earned != "" {
				t.Fatalf("badge awarded twice: %q then %q", earned, badge)
			}
			earned = badge
			if i != 2 {
				t.Errorf("badge should arrive on the third consecutive correct answer, got answer %d", i+1)
			}
		}
	}
	if earned != "Geometry Master" {
		t.Errorf("expected the Geometry Master badge, got %q", earned)
	}
	if len(session.Badges) != 1 {
		t.Errorf("expected 1 stored badge, got %d", len(session.Badges))
	}
}

func TestApplyEvaluationWrongAnswerResets(t *testing.T) {
	session := model.NewExamSession("s1", model.SessionSeed{})

	ApplyEvaluation(session, true, "algebra")
	ApplyEvaluation(session, true, "algebra")
	pointsBefore := session.Points

	points, badge, steps := ApplyEvaluation(session, false, "algebra")
	if points != 0 || badge != "" {
		t.Errorf("wrong answer must not award anything: points=%d badge=%q", points, badge)
	}
	if session.Streak != 0 {
		t.Errorf("streak not reset: %d", session.Streak)
	}
	if session.Points != pointsBefore {
		t.Errorf("accumulated points must survive a wrong answer: %d != %d", session.Points, pointsBefore)
	}
	if len(steps) != 3 {
		t.Errorf("expected 3 algebra teaching steps, got %d", len(steps))
	}
}

func TestApplyEvaluationReadinessCap(t *testing.T) {
	session := model.NewExamSession("s1", model.SessionSeed{})
	session.ReadinessPercent = 99

	ApplyEvaluation(session, true, "")
	if session.ReadinessPercent != 100 {
		t.Errorf("readiness must cap at 100, got %d", session.ReadinessPercent)
	}
}

func TestMasteryTeachingStepsDefault(t *testing.T) {
	steps := MasteryTeachingSteps("history")
	if len(steps) != 4 {
		t.Fatalf("expected the 4 generic steps, got %d", len(steps))
	}
	if steps[0].Title != "Understand the problem" {
		t.Errorf("unexpected first step: %q", steps[0].Title)
	}
}
