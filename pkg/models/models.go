package models

import "time"

// Difficulty classifies how hard an interview question is
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulty levels
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// QA is a single interview question with its (eventual) answer and score.
// Answer is nil until the candidate responds; an empty string is a valid
// answer recorded by a timeout. Once set, Answer is never overwritten.
type QA struct {
	ID           string     `json:"id"`
	Question     string     `json:"question"`
	Difficulty   Difficulty `json:"difficulty"`
	TimeLimitSec int        `json:"time_limit_sec"`
	Answer       *string    `json:"answer,omitempty"`
	Score        *int       `json:"score,omitempty"`
	Feedback     string     `json:"feedback,omitempty"`
}

// Answered reports whether an answer has been recorded for this question
func (q *QA) Answered() bool {
	return q.Answer != nil
}

// ChatRole identifies who produced a transcript message
type ChatRole string

const (
	RoleSystem    ChatRole = "system"
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMsg is one timestamped entry in the interview transcript
type ChatMsg struct {
	Role ChatRole  `json:"role"`
	Text string    `json:"text"`
	TS   time.Time `json:"ts"`
}

// EvalResult is the outcome of scoring a finished interview: one score per
// question, a final score on a 0-10 scale, and a short summary.
type EvalResult struct {
	QAs        []QA   `json:"qas"`
	FinalScore int    `json:"finalScore"`
	Summary    string `json:"summary"`
}

// Candidate is a finalized interview record in the roster. Records are
// append-only: created once when an interview finishes, never edited.
type Candidate struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	FinalScore int       `json:"final_score"`
	Summary    string    `json:"summary"`
	Chat       []ChatMsg `json:"chat"`
	QAs        []QA      `json:"qas"`
	CreatedAt  time.Time `json:"created_at"`
}
