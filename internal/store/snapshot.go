package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kweku404/intervue/internal/intake"
	"github.com/kweku404/intervue/internal/session"
)

// SnapshotVersion tags the persisted document format. A bump is the
// defined migration point: on mismatch the stored state is not loaded.
const SnapshotVersion = 1

const snapshotKey = "root"

// ErrSnapshotVersion is returned when a stored snapshot carries an
// unknown version tag
var ErrSnapshotVersion = errors.New("snapshot version mismatch")

// Snapshot is the full persisted state tree: resume intake and the
// interview session. The candidate roster lives in its own table.
type Snapshot struct {
	Version   int             `json:"version"`
	Resume    intake.State    `json:"resume"`
	Interview session.Session `json:"interview"`
}

// SaveSnapshot serializes the state tree and writes it back under the
// versioned root key, replacing the previous snapshot.
func (s *Store) SaveSnapshot(resume intake.State, sess session.Session) error {
	snap := Snapshot{
		Version:   SnapshotVersion,
		Resume:    resume,
		Interview: sess,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	query := `INSERT INTO snapshots (key, version, data, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			  ON CONFLICT(key) DO UPDATE SET version=excluded.version, data=excluded.data, updated_at=CURRENT_TIMESTAMP`
	_, err = s.DB.Exec(query, snapshotKey, SnapshotVersion, string(data))
	return err
}

// LoadSnapshot rehydrates the last written state tree. With no snapshot
// on disk it returns the documented initial states. A version mismatch
// returns ErrSnapshotVersion along with fresh initial state so callers
// can start over.
func (s *Store) LoadSnapshot() (*Snapshot, error) {
	initial := &Snapshot{
		Version:   SnapshotVersion,
		Resume:    intake.NewState(),
		Interview: session.NewSession(),
	}

	var version int
	var data string
	query := `SELECT version, data FROM snapshots WHERE key = ?`
	err := s.DB.QueryRow(query, snapshotKey).Scan(&version, &data)
	if err == sql.ErrNoRows {
		return initial, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	if version != SnapshotVersion {
		return initial, fmt.Errorf("%w: stored version %d, expected %d", ErrSnapshotVersion, version, SnapshotVersion)
	}

	snap := &Snapshot{}
	if err := json.Unmarshal([]byte(data), snap); err != nil {
		return nil, fmt.Errorf("failed to deserialize snapshot: %w", err)
	}

	return snap, nil
}
