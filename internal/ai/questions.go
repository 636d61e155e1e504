package ai

import (
	"encoding/json"
	"fmt"

	"github.com/kweku404/intervue/pkg/models"
)

// questionCount is the size of a generated set: 2 easy, 2 medium, 2 hard
const questionCount = 6

// timeLimits maps difficulty to the fixed per-question time limit
var timeLimits = map[models.Difficulty]int{
	models.DifficultyEasy:   20,
	models.DifficultyMedium: 60,
	models.DifficultyHard:   120,
}

// TimeLimitFor returns the answer time limit in seconds for a difficulty
func TimeLimitFor(d models.Difficulty) int {
	return timeLimits[d]
}

// FetchQuestions asks the configured provider for an ordered interview
// question set tailored to the resume text. The response must be exactly
// 6 questions with a 2/2/2 difficulty mix; anything else is an error and
// the caller falls back to FallbackQuestions.
func (c *Client) FetchQuestions(resumeText string) ([]models.QA, error) {
	prompt := fmt.Sprintf(`You are an interviewer for a Full Stack React/Node developer.
Candidate's resume:
---
%s
---
Generate 6 interview questions as a valid JSON array ONLY.
- 2 easy, 2 medium, 2 hard
- Format: [{"question":"...", "difficulty":"easy|medium|hard"}, ...]
- No extra text, no explanation, just raw JSON.`, resumeText)

	text, err := c.chatComplete(prompt, 1000)
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	var parsed []struct {
		Question   string            `json:"question"`
		Difficulty models.Difficulty `json:"difficulty"`
	}
	if err := json.Unmarshal([]byte(stripFences(text)), &parsed); err != nil {
		return nil, fmt.Errorf("provider did not return valid JSON: %w", err)
	}

	if len(parsed) != questionCount {
		return nil, fmt.Errorf("expected %d questions, got %d", questionCount, len(parsed))
	}

	counts := map[models.Difficulty]int{}
	qas := make([]models.QA, 0, len(parsed))
	for i, q := range parsed {
		if q.Question == "" {
			return nil, fmt.Errorf("question %d is empty", i+1)
		}
		if !q.Difficulty.Valid() {
			return nil, fmt.Errorf("question %d has unknown difficulty %q", i+1, q.Difficulty)
		}
		counts[q.Difficulty]++
		qas = append(qas, models.QA{
			ID:           fmt.Sprintf("Q%d", i+1),
			Question:     q.Question,
			Difficulty:   q.Difficulty,
			TimeLimitSec: timeLimits[q.Difficulty],
		})
	}

	for _, d := range []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard} {
		if counts[d] != 2 {
			return nil, fmt.Errorf("expected 2 %s questions, got %d", d, counts[d])
		}
	}

	return qas, nil
}

// FallbackQuestions is the fixed demo set used when generation fails, so
// a session can always begin
func FallbackQuestions() []models.QA {
	return []models.QA{
		{
			ID:           "Q1",
			Question:     "What is the difference between state and props in React?",
			Difficulty:   models.DifficultyEasy,
			TimeLimitSec: timeLimits[models.DifficultyEasy],
		},
		{
			ID:           "Q2",
			Question:     "What is npm and why is it used in Node.js projects?",
			Difficulty:   models.DifficultyEasy,
			TimeLimitSec: timeLimits[models.DifficultyEasy],
		},
	}
}
