// Package session implements the timed interview core: the session state
// machine, the countdown engine that drives per-question deadlines, and
// the answer submission protocol that ties them together.
package session

import (
	"math"
	"time"

	"github.com/kweku404/intervue/pkg/models"
)

// Status is the interview session lifecycle state
type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
)

// Session is the interview sub-tree of the persisted application state.
// While running, exactly one question — the one at CurrentIndex — has no
// recorded answer, and Deadline is set iff that answer is still pending.
// A finished session is terminal; a new interview gets a fresh Session.
type Session struct {
	Status       Status      `json:"status"`
	QAs          []models.QA `json:"qas"`
	CurrentIndex int         `json:"current_index"`
	Deadline     *time.Time  `json:"deadline,omitempty"`
	FinalScore   *int        `json:"final_score,omitempty"`
	Summary      string      `json:"summary,omitempty"`
	CandidateID  string      `json:"candidate_id,omitempty"`
}

// NewSession returns the documented initial session state
func NewSession() Session {
	return Session{Status: StatusIdle}
}

// Begin starts the question loop. Any answers, scores or feedback carried
// on the incoming questions are cleared: a fresh start never inherits a
// previous session's answers. An empty question list is tolerated and
// leaves the deadline nil.
func (s *Session) Begin(qas []models.QA, now time.Time) {
	fresh := make([]models.QA, len(qas))
	for i, qa := range qas {
		qa.Answer = nil
		qa.Score = nil
		qa.Feedback = ""
		fresh[i] = qa
	}

	s.Status = StatusRunning
	s.QAs = fresh
	s.CurrentIndex = 0
	s.FinalScore = nil
	s.Summary = ""
	s.CandidateID = ""

	if len(fresh) > 0 {
		d := deadlineFor(&fresh[0], now)
		s.Deadline = &d
	} else {
		s.Deadline = nil
	}
}

// SubmitAnswer records answer onto the question at index if and only if
// that question has no answer yet. Redundant submissions are no-ops and
// never overwrite. Recording the current question's answer clears the
// deadline; advancing is the caller's responsibility, so duplicate timer
// fires and manual/timeout races stay safe.
func (s *Session) SubmitAnswer(index int, answer string) bool {
	if s.Status != StatusRunning {
		return false
	}
	if index < 0 || index >= len(s.QAs) {
		return false
	}
	if s.QAs[index].Answered() {
		return false
	}
	a := answer
	s.QAs[index].Answer = &a
	if index == s.CurrentIndex {
		s.Deadline = nil
	}
	return true
}

// Advance moves to the next question and computes its deadline from the
// invocation instant. It must not be called at the last position:
// completion is signaled by Finish, never by advancing past the end.
func (s *Session) Advance(now time.Time) bool {
	if s.Status != StatusRunning {
		return false
	}
	if s.CurrentIndex >= len(s.QAs)-1 {
		return false
	}
	s.CurrentIndex++
	d := deadlineFor(&s.QAs[s.CurrentIndex], now)
	s.Deadline = &d
	return true
}

// Finish terminates the session with its evaluation result. No further
// mutation of this session instance is accepted afterwards.
func (s *Session) Finish(finalScore int, summary, candidateID string) {
	s.Status = StatusFinished
	score := finalScore
	s.FinalScore = &score
	s.Summary = summary
	s.CandidateID = candidateID
	s.Deadline = nil
}

// Current returns the question at CurrentIndex while running
func (s *Session) Current() (*models.QA, bool) {
	if s.Status != StatusRunning || s.CurrentIndex < 0 || s.CurrentIndex >= len(s.QAs) {
		return nil, false
	}
	return &s.QAs[s.CurrentIndex], true
}

// LastIndex reports whether index is the final question position
func (s *Session) LastIndex(index int) bool {
	return index == len(s.QAs)-1
}

// Remaining returns the whole seconds left until the deadline, never
// negative. With no deadline it reports zero and false.
func (s *Session) Remaining(now time.Time) (int, bool) {
	if s.Deadline == nil {
		return 0, false
	}
	return remainingSeconds(*s.Deadline, now), true
}

// deadlineFor computes the absolute deadline for a question. A zero or
// negative time limit still yields a valid, already-expired instant so
// the countdown can fire immediately.
func deadlineFor(qa *models.QA, now time.Time) time.Time {
	return now.Add(time.Duration(qa.TimeLimitSec) * time.Second)
}

func remainingSeconds(deadline, now time.Time) int {
	secs := int(math.Ceil(deadline.Sub(now).Seconds()))
	if secs < 0 {
		return 0
	}
	return secs
}
