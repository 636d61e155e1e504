package ai

import (
	"encoding/json"
	"fmt"

	"github.com/kweku404/intervue/pkg/models"
)

// Evaluate scores a finished interview with the configured provider. The
// response must be well-formed JSON with one score per question and all
// scores within 0-10; anything malformed is an error so the caller can
// substitute HeuristicEvaluate.
func (c *Client) Evaluate(candidateName string, qas []models.QA) (*models.EvalResult, error) {
	qaJSON, err := json.MarshalIndent(qas, "", "  ")
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Candidate: %s
Interview Q&A:
%s

Evaluate each answer:
- Add a "score" (0-10) and "feedback" for every Q&A.
- Provide a final numeric score (0-10 average).
- Provide a 2-3 sentence summary.

Respond in JSON ONLY:
{
  "qas": [ { "question": "...", "answer": "...", "score": 7, "feedback": "..." } ],
  "finalScore": 6,
  "summary": "..."
}`, candidateName, string(qaJSON))

	text, err := c.chatComplete(prompt, 2000)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}

	var parsed struct {
		QAs []struct {
			Question string `json:"question"`
			Answer   string `json:"answer"`
			Score    *int   `json:"score"`
			Feedback string `json:"feedback"`
		} `json:"qas"`
		FinalScore *int   `json:"finalScore"`
		Summary    string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(stripFences(text)), &parsed); err != nil {
		return nil, fmt.Errorf("provider did not return valid JSON: %w", err)
	}

	if len(parsed.QAs) != len(qas) {
		return nil, fmt.Errorf("expected %d scored answers, got %d", len(qas), len(parsed.QAs))
	}
	if parsed.FinalScore == nil || *parsed.FinalScore < 0 || *parsed.FinalScore > 10 {
		return nil, fmt.Errorf("final score missing or out of range")
	}
	if parsed.Summary == "" {
		return nil, fmt.Errorf("summary missing from evaluation")
	}

	result := &models.EvalResult{
		QAs:        append([]models.QA(nil), qas...),
		FinalScore: *parsed.FinalScore,
		Summary:    parsed.Summary,
	}
	for i, scored := range parsed.QAs {
		if scored.Score == nil || *scored.Score < 0 || *scored.Score > 10 {
			return nil, fmt.Errorf("score for question %d missing or out of range", i+1)
		}
		result.QAs[i].Score = scored.Score
		result.QAs[i].Feedback = scored.Feedback
	}

	return result, nil
}

// HeuristicEvaluate is the deterministic scoring fallback. It is pure and
// total: any question list, including an empty one or one with all-empty
// answers, yields a complete result with one score per question and a
// final score within 0-10. Longer answers score higher in three tiers.
func HeuristicEvaluate(qas []models.QA) *models.EvalResult {
	scored := make([]models.QA, len(qas))
	sum := 0
	for i, qa := range qas {
		length := 0
		if qa.Answer != nil {
			length = len(*qa.Answer)
		}
		score := 2
		switch {
		case length > 30:
			score = 6
		case length > 10:
			score = 4
		}
		qa.Score = &score
		qa.Feedback = "Heuristic evaluation applied."
		scored[i] = qa
		sum += score
	}

	avg := 0
	if len(scored) > 0 {
		avg = (sum + len(scored)/2) / len(scored) // rounded average
	}

	return &models.EvalResult{
		QAs:        scored,
		FinalScore: avg,
		Summary:    fmt.Sprintf("Candidate answered %d questions. Avg score: %d.", len(scored), avg),
	}
}
