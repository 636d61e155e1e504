package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kweku404/intervue/pkg/models"
)

// RosterQuery filters and orders the candidate roster. SortBy accepts
// score, name or created_at; Dir accepts asc or desc.
type RosterQuery struct {
	Search string
	SortBy string
	Dir    string
}

var sortColumns = map[string]string{
	"score":      "final_score",
	"name":       "name",
	"created_at": "created_at",
}

// AppendCandidate inserts a finalized candidate record. The roster is
// append-only; records are never updated or deleted.
func (s *Store) AppendCandidate(c *models.Candidate) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	chatJSON, err := json.Marshal(c.Chat)
	if err != nil {
		return fmt.Errorf("failed to serialize chat transcript: %w", err)
	}
	qasJSON, err := json.Marshal(c.QAs)
	if err != nil {
		return fmt.Errorf("failed to serialize question list: %w", err)
	}

	query := `INSERT INTO candidates (id, name, email, phone, final_score, summary, chat, qas, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.DB.Exec(query, c.ID, c.Name, c.Email, c.Phone, c.FinalScore,
		c.Summary, string(chatJSON), string(qasJSON), c.CreatedAt)
	return err
}

// ListCandidates returns the roster filtered by a substring match over
// name, email, phone and summary, sorted by the requested column.
// Defaults to score descending.
func (s *Store) ListCandidates(q RosterQuery) ([]*models.Candidate, error) {
	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = "final_score"
	}
	dir := "DESC"
	if q.Dir == "asc" {
		dir = "ASC"
	}

	query := fmt.Sprintf(`SELECT id, name, email, phone, final_score, summary, chat, qas, created_at
			  FROM candidates
			  WHERE name LIKE ? OR email LIKE ? OR phone LIKE ? OR summary LIKE ?
			  ORDER BY %s %s`, column, dir)
	pattern := "%" + q.Search + "%"

	rows, err := s.DB.Query(query, pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []*models.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// GetCandidate returns one candidate by ID, or nil if none exists
func (s *Store) GetCandidate(id string) (*models.Candidate, error) {
	query := `SELECT id, name, email, phone, final_score, summary, chat, qas, created_at
			  FROM candidates WHERE id = ?`
	row := s.DB.QueryRow(query, id)
	c, err := scanCandidate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCandidate(row rowScanner) (*models.Candidate, error) {
	c := &models.Candidate{}
	var chatJSON, qasJSON string
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.FinalScore,
		&c.Summary, &chatJSON, &qasJSON, &c.CreatedAt)
	if err != nil {
		return nil, err
	}

	if chatJSON != "" {
		if err := json.Unmarshal([]byte(chatJSON), &c.Chat); err != nil {
			return nil, fmt.Errorf("failed to deserialize chat transcript: %w", err)
		}
	}
	if qasJSON != "" {
		if err := json.Unmarshal([]byte(qasJSON), &c.QAs); err != nil {
			return nil, fmt.Errorf("failed to deserialize question list: %w", err)
		}
	}

	return c, nil
}
