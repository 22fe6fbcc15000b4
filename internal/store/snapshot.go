package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned when a run id names no stored snapshot.
var ErrRunNotFound = errors.New("run not found")

// SnapshotRule is one stored rule, rendered through the alphabet.
type SnapshotRule struct {
	LHS string
	RHS string
}

// Snapshot captures a completion run at a point in time: the scalar
// state plus the active rule list in creation order.
type Snapshot struct {
	ID             string
	Alphabet       string
	State          string
	StopReason     string
	Confluent      bool
	ConfluentKnown bool
	ActiveRules    int
	InactiveRules  int
	TotalRules     int
	Overlaps       uint64
	CreatedAt      time.Time
	Rules          []SnapshotRule
}

// SaveSnapshot writes a snapshot in a single transaction and returns
// its id. An empty snap.ID gets a fresh time-sortable UUIDv7, so
// listed runs come back in creation order.
func (s *Store) SaveSnapshot(ctx context.Context, snap *Snapshot) (string, error) {
	if snap.ID == "" {
		snap.ID = uuid.Must(uuid.NewV7()).String()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, alphabet, state, stop_reason, confluent, confluent_known,
		 active_rules, inactive_rules, total_rules, overlaps, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		snap.ID,
		snap.Alphabet,
		snap.State,
		snap.StopReason,
		boolToInt(snap.Confluent),
		boolToInt(snap.ConfluentKnown),
		snap.ActiveRules,
		snap.InactiveRules,
		snap.TotalRules,
		int64(snap.Overlaps),
		snap.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("write run %s: %w", snap.ID, err)
	}

	for i, rule := range snap.Rules {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_rules (run_id, position, lhs, rhs)
			VALUES (?, ?, ?, ?)
		`, snap.ID, i, rule.LHS, rule.RHS)
		if err != nil {
			return "", fmt.Errorf("write rule %d of run %s: %w", i, snap.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit snapshot %s: %w", snap.ID, err)
	}
	return snap.ID, nil
}

// LoadSnapshot reads a snapshot and its rules by run id.
func (s *Store) LoadSnapshot(ctx context.Context, id string) (*Snapshot, error) {
	snap := &Snapshot{ID: id}
	var confluent, known int
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT alphabet, state, stop_reason, confluent, confluent_known,
		       active_rules, inactive_rules, total_rules, overlaps, created_at
		FROM runs WHERE id = ?
	`, id).Scan(
		&snap.Alphabet, &snap.State, &snap.StopReason, &confluent, &known,
		&snap.ActiveRules, &snap.InactiveRules, &snap.TotalRules,
		&snap.Overlaps, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}
	snap.Confluent = confluent != 0
	snap.ConfluentKnown = known != 0
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		snap.CreatedAt = t
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT lhs, rhs FROM run_rules WHERE run_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("load rules of run %s: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var r SnapshotRule
		if err := rows.Scan(&r.LHS, &r.RHS); err != nil {
			return nil, fmt.Errorf("scan rule of run %s: %w", id, err)
		}
		snap.Rules = append(snap.Rules, r)
	}
	return snap, rows.Err()
}

// ListRuns returns the ids of all stored runs, oldest first.
func (s *Store) ListRuns(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM runs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
