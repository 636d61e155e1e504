package session

import (
	"testing"
	"time"

	"github.com/kweku404/intervue/pkg/models"
)

func twoQuestions() []models.QA {
	return []models.QA{
		{ID: "Q1", Question: "What is the difference between state and props in React?", Difficulty: models.DifficultyEasy, TimeLimitSec: 20},
		{ID: "Q2", Question: "Design a rate limiter.", Difficulty: models.DifficultyHard, TimeLimitSec: 120},
	}
}

func TestBeginResetsPriorAnswers(t *testing.T) {
	qas := twoQuestions()
	old := "stale answer"
	oldScore := 9
	qas[0].Answer = &old
	qas[0].Score = &oldScore
	qas[0].Feedback = "stale feedback"

	sess := NewSession()
	now := time.Now()
	sess.Begin(qas, now)

	if sess.Status != StatusRunning {
		t.Fatalf("expected running, got %s", sess.Status)
	}
	if sess.CurrentIndex != 0 {
		t.Errorf("expected index 0, got %d", sess.CurrentIndex)
	}
	for i, qa := range sess.QAs {
		if qa.Answer != nil || qa.Score != nil || qa.Feedback != "" {
			t.Errorf("question %d carried over answer/score/feedback", i)
		}
	}
	want := now.Add(20 * time.Second)
	if sess.Deadline == nil || !sess.Deadline.Equal(want) {
		t.Errorf("expected deadline %v, got %v", want, sess.Deadline)
	}
}

func TestBeginEmptyQuestions(t *testing.T) {
	sess := NewSession()
	sess.Begin(nil, time.Now())

	if sess.Status != StatusRunning {
		t.Fatalf("expected running, got %s", sess.Status)
	}
	if sess.Deadline != nil {
		t.Error("expected nil deadline for empty question set")
	}
	if _, ok := sess.Current(); ok {
		t.Error("expected no current question")
	}
}

func TestSubmitAnswerIdempotent(t *testing.T) {
	sess := NewSession()
	sess.Begin(twoQuestions(), time.Now())

	if !sess.SubmitAnswer(0, "first") {
		t.Fatal("first submit should record")
	}
	if sess.SubmitAnswer(0, "second") {
		t.Error("second submit should be a no-op")
	}
	if *sess.QAs[0].Answer != "first" {
		t.Errorf("stored answer changed to %q", *sess.QAs[0].Answer)
	}
}

func TestSubmitAnswerClearsDeadline(t *testing.T) {
	sess := NewSession()
	sess.Begin(twoQuestions(), time.Now())

	sess.SubmitAnswer(0, "answer1")
	if sess.Deadline != nil {
		t.Error("deadline should be cleared once the current answer is recorded")
	}
}

func TestSubmitAnswerGuards(t *testing.T) {
	sess := NewSession()
	if sess.SubmitAnswer(0, "x") {
		t.Error("submit should be a no-op with no active session")
	}

	sess.Begin(twoQuestions(), time.Now())
	if sess.SubmitAnswer(-1, "x") || sess.SubmitAnswer(2, "x") {
		t.Error("submit should be a no-op for out-of-range indexes")
	}
}

func TestAdvanceRecomputesDeadline(t *testing.T) {
	sess := NewSession()
	sess.Begin(twoQuestions(), time.Now())
	sess.SubmitAnswer(0, "answer1")

	later := time.Now().Add(5 * time.Second)
	if !sess.Advance(later) {
		t.Fatal("advance from first question should succeed")
	}
	if sess.CurrentIndex != 1 {
		t.Errorf("expected index 1, got %d", sess.CurrentIndex)
	}
	want := later.Add(120 * time.Second)
	if sess.Deadline == nil || !sess.Deadline.Equal(want) {
		t.Errorf("expected deadline %v, got %v", want, sess.Deadline)
	}

	// Last position: advancing past the end is refused
	if sess.Advance(later) {
		t.Error("advance at last question should be refused")
	}
}

func TestFinishIsTerminal(t *testing.T) {
	sess := NewSession()
	sess.Begin(twoQuestions(), time.Now())
	sess.Finish(7, "Solid candidate.", "cand-1")

	if sess.Status != StatusFinished {
		t.Fatalf("expected finished, got %s", sess.Status)
	}
	if sess.Deadline != nil {
		t.Error("deadline should be nil once finished")
	}
	if sess.FinalScore == nil || *sess.FinalScore != 7 {
		t.Error("final score not stored")
	}
	if sess.SubmitAnswer(1, "late") {
		t.Error("finished session accepted an answer")
	}
	if sess.Advance(time.Now()) {
		t.Error("finished session advanced")
	}
}

func TestZeroTimeLimitYieldsExpiredDeadline(t *testing.T) {
	sess := NewSession()
	now := time.Now()
	sess.Begin([]models.QA{{ID: "Q1", Question: "q", Difficulty: models.DifficultyEasy, TimeLimitSec: 0}}, now)

	if sess.Deadline == nil {
		t.Fatal("expected a deadline even with a zero time limit")
	}
	if !sess.Deadline.Equal(now) {
		t.Errorf("expected already-expired deadline %v, got %v", now, sess.Deadline)
	}
	if remaining, ok := sess.Remaining(now.Add(time.Millisecond)); !ok || remaining != 0 {
		t.Errorf("expected 0 remaining, got %d (ok=%v)", remaining, ok)
	}
}

func TestRemainingRoundsUp(t *testing.T) {
	sess := NewSession()
	now := time.Now()
	sess.Begin(twoQuestions(), now)

	remaining, ok := sess.Remaining(now.Add(18500 * time.Millisecond))
	if !ok || remaining != 2 {
		t.Errorf("expected 2 seconds remaining, got %d (ok=%v)", remaining, ok)
	}

	remaining, ok = sess.Remaining(now.Add(time.Hour))
	if !ok || remaining != 0 {
		t.Errorf("remaining should clamp at 0, got %d", remaining)
	}
}
