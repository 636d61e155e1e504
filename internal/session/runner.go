package session

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kweku404/intervue/internal/ai"
	"github.com/kweku404/intervue/internal/intake"
	"github.com/kweku404/intervue/pkg/models"
)

// Evaluator scores a finished interview. Implementations may fail; the
// runner substitutes the heuristic fallback on any error, so finishing
// the session is always guaranteed.
type Evaluator interface {
	Evaluate(candidateName string, qas []models.QA) (*models.EvalResult, error)
}

// Sink persists state snapshots and finalized candidates. Snapshot writes
// happen after every accepted mutation; that is what makes an in-progress
// session resumable across process restarts.
type Sink interface {
	SaveSnapshot(resume intake.State, sess Session) error
	AppendCandidate(c *models.Candidate) error
}

// Runner is the single entry point for answer submission, invoked both by
// explicit user input and by the countdown's expiry callback. All session
// mutations are serialized behind one mutex; the no-op guards in the state
// machine make duplicate or stale events harmless.
type Runner struct {
	mu         sync.Mutex
	sess       *Session
	resume     *intake.State
	countdown  *Countdown
	eval       Evaluator
	sink       Sink
	transcript []models.ChatMsg
	observer   func(models.ChatMsg)
	onTick     TickFunc
	finished   chan struct{}
	now        func() time.Time
}

// NewRunner wires the state machine, countdown and collaborators together
func NewRunner(sess *Session, resume *intake.State, eval Evaluator, sink Sink) *Runner {
	r := &Runner{
		sess:     sess,
		resume:   resume,
		eval:     eval,
		sink:     sink,
		finished: make(chan struct{}),
		now:      time.Now,
	}
	r.countdown = NewCountdown(time.Second, r.publishTick, r.expire)
	return r
}

// OnMessage registers an observer for transcript messages
func (r *Runner) OnMessage(fn func(models.ChatMsg)) {
	r.observer = fn
}

// OnTick registers an observer for the per-second remaining time
func (r *Runner) OnTick(fn TickFunc) {
	r.onTick = fn
}

// Done is closed once the session has reached the finished state
func (r *Runner) Done() <-chan struct{} {
	return r.finished
}

// Transcript returns a copy of the messages recorded so far
func (r *Runner) Transcript() []models.ChatMsg {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ChatMsg(nil), r.transcript...)
}

// Post adds a message to the interview transcript
func (r *Runner) Post(role models.ChatRole, text string) {
	r.mu.Lock()
	r.postLocked(role, text)
	r.mu.Unlock()
}

// Start begins a fresh interview over the given questions. An empty
// question list completes immediately through the normal finish path.
func (r *Runner) Start(qas []models.QA) {
	r.mu.Lock()
	r.sess.Begin(qas, r.now())
	r.persistLocked()

	if len(r.sess.QAs) == 0 {
		name := r.resume.Fields.Name
		r.mu.Unlock()
		r.finalize(name, nil)
		return
	}

	first := r.sess.QAs[0]
	r.postLocked(models.RoleAssistant, questionPrompt(first))
	deadline := r.sess.Deadline
	r.mu.Unlock()

	r.countdown.SetDeadline(deadline)
}

// Resume re-attaches to a rehydrated running session. The stored absolute
// deadline is reinterpreted against the current clock: the timer resumes
// with reduced remaining time, or fires immediately if the deadline
// passed while the process was unloaded. Returns false if there is no
// running session to resume.
func (r *Runner) Resume() bool {
	r.mu.Lock()
	if r.sess.Status != StatusRunning {
		r.mu.Unlock()
		return false
	}

	cur, ok := r.sess.Current()
	if ok && cur.Answered() {
		// The process died between recording an answer and the follow-up
		// transition. Replay it so no question is ever skipped.
		idx := r.sess.CurrentIndex
		if r.sess.LastIndex(idx) {
			r.persistLocked()
			name := r.resume.Fields.Name
			qas := append([]models.QA(nil), r.sess.QAs...)
			r.mu.Unlock()
			r.finalize(name, qas)
			return true
		}
		r.sess.Advance(r.now())
		r.persistLocked()
		cur, ok = r.sess.Current()
	}

	if ok {
		r.postLocked(models.RoleAssistant, "Resuming interview in progress...")
		r.postLocked(models.RoleAssistant, questionPrompt(*cur))
	}
	deadline := r.sess.Deadline
	r.mu.Unlock()

	r.countdown.SetDeadline(deadline)
	return true
}

// Submit handles one answer, manual (auto=false) or timed out (auto=true).
// It is a no-op unless the session is running and the current question is
// still unanswered, which serializes the realistic race between a manual
// submit and a just-fired timeout for the same question.
func (r *Runner) Submit(answer string, auto bool) {
	r.mu.Lock()
	if r.sess.Status != StatusRunning {
		r.mu.Unlock()
		return
	}
	idx := r.sess.CurrentIndex
	if !r.sess.SubmitAnswer(idx, answer) {
		r.mu.Unlock()
		return
	}
	if answer != "" {
		r.postLocked(models.RoleUser, answer)
	}

	if !r.sess.LastIndex(idx) {
		r.sess.Advance(r.now())
		next := r.sess.QAs[r.sess.CurrentIndex]
		if auto {
			r.postLocked(models.RoleAssistant, "(Time up) Answer saved. Moving to next question...")
		} else {
			r.postLocked(models.RoleAssistant, "Answer noted. Moving to next question...")
		}
		r.postLocked(models.RoleAssistant, questionPrompt(next))
		r.persistLocked()
		deadline := r.sess.Deadline
		r.mu.Unlock()

		r.countdown.SetDeadline(deadline)
		return
	}

	// Last question answered: wrap up.
	if auto {
		r.postLocked(models.RoleAssistant, "(Time up) Final answer saved. Wrapping up...")
	} else {
		r.postLocked(models.RoleAssistant, "Final answer noted. Wrapping up...")
	}
	r.persistLocked()
	name := r.resume.Fields.Name
	qas := append([]models.QA(nil), r.sess.QAs...)
	r.mu.Unlock()

	r.countdown.Stop()
	r.finalize(name, qas)
}

// Detach cancels the countdown without touching session state, e.g. when
// the user leaves an active session. The persisted deadline keeps ticking
// in absolute terms and is re-armed on Resume.
func (r *Runner) Detach() {
	r.countdown.Stop()
}

// finalize evaluates the finished answers and terminates the session.
// The evaluator may fail; the heuristic fallback cannot, so the session
// always reaches finished once the last answer is recorded.
func (r *Runner) finalize(name string, qas []models.QA) {
	if name == "" {
		name = "Candidate"
	}
	result, err := r.eval.Evaluate(name, qas)
	if err != nil || result == nil {
		result = ai.HeuristicEvaluate(qas)
	}

	candidateID := uuid.NewString()

	r.mu.Lock()
	if r.sess.Status != StatusRunning {
		// a concurrent finish already won
		r.mu.Unlock()
		return
	}

	scored := mergeScores(r.sess.QAs, result.QAs)
	r.sess.Finish(result.FinalScore, result.Summary, candidateID)
	r.postLocked(models.RoleAssistant,
		fmt.Sprintf("Interview complete. Final Score: %d. Summary: %s", result.FinalScore, result.Summary))

	cand := &models.Candidate{
		ID:         candidateID,
		Name:       displayValue(r.resume.Fields.Name, "Unknown Candidate"),
		Email:      displayValue(r.resume.Fields.Email, "-"),
		Phone:      displayValue(r.resume.Fields.Phone, "-"),
		FinalScore: result.FinalScore,
		Summary:    result.Summary,
		Chat:       append([]models.ChatMsg(nil), r.transcript...),
		QAs:        scored,
		CreatedAt:  r.now(),
	}
	if err := r.sink.AppendCandidate(cand); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save candidate record: %v\n", err)
	}
	r.persistLocked()
	r.mu.Unlock()

	close(r.finished)
}

// expire is the countdown's timeout callback. The deadline it fired for
// must still be the session's governing deadline; anything else is a
// stale fire and is dropped.
func (r *Runner) expire(deadline time.Time) {
	r.mu.Lock()
	stale := r.sess.Deadline == nil || !r.sess.Deadline.Equal(deadline)
	r.mu.Unlock()
	if stale {
		return
	}
	r.Submit("", true)
}

func (r *Runner) publishTick(remaining int) {
	if r.onTick != nil {
		r.onTick(remaining)
	}
}

func (r *Runner) postLocked(role models.ChatRole, text string) {
	msg := models.ChatMsg{Role: role, Text: text, TS: r.now()}
	r.transcript = append(r.transcript, msg)
	if r.observer != nil {
		r.observer(msg)
	}
}

// persistLocked snapshots the state tree after a mutation. The write is
// fire-and-forget: a failed snapshot is reported but never blocks the
// interview.
func (r *Runner) persistLocked() {
	if r.sink == nil {
		return
	}
	if err := r.sink.SaveSnapshot(*r.resume, *r.sess); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not persist state: %v\n", err)
	}
}

// mergeScores copies per-question scores and feedback from the evaluation
// result onto the session's answered questions, matched by position.
func mergeScores(qas []models.QA, scored []models.QA) []models.QA {
	out := append([]models.QA(nil), qas...)
	for i := range out {
		if i < len(scored) {
			out[i].Score = scored[i].Score
			out[i].Feedback = scored[i].Feedback
		}
	}
	return out
}

func questionPrompt(qa models.QA) string {
	return fmt.Sprintf("[%s] %s (%ds)", strings.ToUpper(string(qa.Difficulty)), qa.Question, qa.TimeLimitSec)
}

func displayValue(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
