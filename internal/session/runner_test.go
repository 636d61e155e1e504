package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kweku404/intervue/internal/ai"
	"github.com/kweku404/intervue/internal/intake"
	"github.com/kweku404/intervue/pkg/models"
)

type stubEvaluator struct {
	mu     sync.Mutex
	result *models.EvalResult
	err    error
	calls  int
}

func (s *stubEvaluator) Evaluate(candidateName string, qas []models.QA) (*models.EvalResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return ai.HeuristicEvaluate(qas), nil
}

type memorySink struct {
	mu         sync.Mutex
	snapshots  int
	lastSess   Session
	candidates []*models.Candidate
}

func (m *memorySink) SaveSnapshot(resume intake.State, sess Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots++
	m.lastSess = sess
	return nil
}

func (m *memorySink) AppendCandidate(c *models.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candidates = append(m.candidates, c)
	return nil
}

func (m *memorySink) candidateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.candidates)
}

func testResume() *intake.State {
	st := intake.NewState()
	st.SetField(intake.FieldName, "Ada Lovelace")
	st.SetField(intake.FieldEmail, "ada@example.com")
	st.SetField(intake.FieldPhone, "+1 555 0100")
	return &st
}

func waitDone(t *testing.T, r *Runner) {
	t.Helper()
	select {
	case <-r.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("session did not finish in time")
	}
}

func TestRunnerManualSubmitAdvances(t *testing.T) {
	sess := NewSession()
	sink := &memorySink{}
	r := NewRunner(&sess, testResume(), &stubEvaluator{}, sink)
	defer r.Detach()

	r.Start(twoQuestions())
	before := time.Now()
	r.Submit("answer1", false)

	if sess.CurrentIndex != 1 {
		t.Fatalf("expected index 1 after submit, got %d", sess.CurrentIndex)
	}
	if !sess.QAs[0].Answered() || *sess.QAs[0].Answer != "answer1" {
		t.Error("first answer not recorded")
	}
	if sess.Deadline == nil {
		t.Fatal("expected a fresh deadline for the next question")
	}
	got := sess.Deadline.Sub(before)
	if got < 119*time.Second || got > 121*time.Second {
		t.Errorf("next deadline not recomputed from advance time: %v", got)
	}
}

func TestRunnerTimeoutAutoSubmitsAndFinishes(t *testing.T) {
	qas := []models.QA{
		{ID: "Q1", Question: "first", Difficulty: models.DifficultyEasy, TimeLimitSec: 20},
		{ID: "Q2", Question: "second", Difficulty: models.DifficultyHard, TimeLimitSec: 0},
	}
	sess := NewSession()
	sink := &memorySink{}
	r := NewRunner(&sess, testResume(), &stubEvaluator{err: errors.New("model offline")}, sink)

	r.Start(qas)
	// Q2's zero limit expires immediately once the runner advances to it.
	r.Submit("answer1", false)
	waitDone(t, r)

	if sess.Status != StatusFinished {
		t.Fatalf("expected finished, got %s", sess.Status)
	}
	if sink.candidateCount() != 1 {
		t.Fatalf("expected 1 candidate record, got %d", sink.candidateCount())
	}
	cand := sink.candidates[0]
	if cand.Name != "Ada Lovelace" {
		t.Errorf("candidate name = %q", cand.Name)
	}
	if len(cand.QAs) != 2 {
		t.Fatalf("expected 2 recorded questions, got %d", len(cand.QAs))
	}
	if cand.QAs[1].Answer == nil || *cand.QAs[1].Answer != "" {
		t.Error("timed-out question should carry an empty recorded answer")
	}
	for i, qa := range cand.QAs {
		if qa.Score == nil {
			t.Errorf("question %d has no score after evaluation", i)
		}
	}
}

func TestRunnerEvaluatorFailureFallsBack(t *testing.T) {
	eval := &stubEvaluator{err: errors.New("upstream 500")}
	sess := NewSession()
	sink := &memorySink{}
	r := NewRunner(&sess, testResume(), eval, sink)

	r.Start([]models.QA{{ID: "Q1", Question: "only", Difficulty: models.DifficultyEasy, TimeLimitSec: 20}})
	r.Submit("a fairly long answer with some substance to it", false)
	waitDone(t, r)

	if eval.calls != 1 {
		t.Errorf("evaluator called %d times", eval.calls)
	}
	if sess.FinalScore == nil || *sess.FinalScore < 0 || *sess.FinalScore > 10 {
		t.Fatal("fallback did not produce a bounded final score")
	}
	if sess.Summary == "" {
		t.Error("fallback left the summary empty")
	}
}

func TestRunnerDuplicateSubmitRecordsOnce(t *testing.T) {
	sess := NewSession()
	sink := &memorySink{}
	r := NewRunner(&sess, testResume(), &stubEvaluator{}, sink)
	defer r.Detach()

	r.Start(twoQuestions())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			r.Submit("racer", false)
		}(i)
	}
	wg.Wait()

	// four racing submits for two questions: at most one wins per question
	if sess.CurrentIndex > 1 {
		t.Errorf("index advanced past the last question: %d", sess.CurrentIndex)
	}
	if *sess.QAs[0].Answer != "racer" {
		t.Error("first answer overwritten by a duplicate")
	}
}

func TestRunnerSingleQuestionFinishesWithoutAdvance(t *testing.T) {
	sess := NewSession()
	sink := &memorySink{}
	r := NewRunner(&sess, testResume(), &stubEvaluator{}, sink)

	r.Start([]models.QA{{ID: "Q1", Question: "only", Difficulty: models.DifficultyEasy, TimeLimitSec: 20}})
	r.Submit("done", false)
	waitDone(t, r)

	if sess.CurrentIndex != 0 {
		t.Errorf("single-question session should never advance, index = %d", sess.CurrentIndex)
	}
	if sink.candidateCount() != 1 {
		t.Errorf("expected 1 candidate, got %d", sink.candidateCount())
	}
}

func TestRunnerEmptyQuestionSetCompletes(t *testing.T) {
	sess := NewSession()
	sink := &memorySink{}
	r := NewRunner(&sess, testResume(), &stubEvaluator{err: errors.New("nothing to send")}, sink)

	r.Start(nil)
	waitDone(t, r)

	if sess.Status != StatusFinished {
		t.Fatalf("expected finished, got %s", sess.Status)
	}
	if sess.FinalScore == nil || *sess.FinalScore != 0 {
		t.Error("empty interview should finish with score 0")
	}
	if sink.candidateCount() != 1 {
		t.Error("empty interview should still append a candidate record")
	}
}

func TestRunnerResumeReplaysInterruptedAdvance(t *testing.T) {
	// Simulate a crash after recording Q1's answer but before advancing.
	sess := NewSession()
	sess.Begin(twoQuestions(), time.Now())
	sess.SubmitAnswer(0, "answered before crash")

	sink := &memorySink{}
	r := NewRunner(&sess, testResume(), &stubEvaluator{}, sink)
	defer r.Detach()

	if !r.Resume() {
		t.Fatal("running session should be resumable")
	}
	if sess.CurrentIndex != 1 {
		t.Fatalf("resume should replay the pending advance, index = %d", sess.CurrentIndex)
	}
	if sess.Deadline == nil {
		t.Error("resumed next question needs a deadline")
	}
}

func TestRunnerResumeReplaysInterruptedFinish(t *testing.T) {
	sess := NewSession()
	sess.Begin(twoQuestions(), time.Now())
	sess.SubmitAnswer(0, "a1")
	sess.Advance(time.Now())
	sess.SubmitAnswer(1, "a2")

	sink := &memorySink{}
	r := NewRunner(&sess, testResume(), &stubEvaluator{}, sink)

	if !r.Resume() {
		t.Fatal("running session should be resumable")
	}
	waitDone(t, r)

	if sess.Status != StatusFinished {
		t.Fatalf("expected finished after replayed finish, got %s", sess.Status)
	}
	if sink.candidateCount() != 1 {
		t.Error("replayed finish should append the candidate")
	}
}

func TestRunnerResumeExpiredDeadlineTimesOut(t *testing.T) {
	sess := NewSession()
	past := time.Now().Add(-30 * time.Second)
	sess.Begin(twoQuestions(), past.Add(-20*time.Second))
	d := past
	sess.Deadline = &d

	sink := &memorySink{}
	r := NewRunner(&sess, testResume(), &stubEvaluator{}, sink)
	defer r.Detach()

	if !r.Resume() {
		t.Fatal("running session should be resumable")
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		r.mu.Lock()
		idx := sess.CurrentIndex
		answered := sess.QAs[0].Answered()
		r.mu.Unlock()
		if idx == 1 && answered {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expired deadline did not auto-submit on resume")
}

func TestRunnerFinishedSessionNotResumable(t *testing.T) {
	sess := NewSession()
	sess.Begin(twoQuestions(), time.Now())
	sess.Finish(5, "done", "cand-1")

	r := NewRunner(&sess, testResume(), &stubEvaluator{}, &memorySink{})
	if r.Resume() {
		t.Error("finished session must not resume")
	}
}
