package adapters

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	ports "github.com/inkwell-dev/inkchat/inkchat/session/ports"
)

// LibSQLTranscriptStore implements TranscriptStore on an embedded libsql
// database. Each SaveExchange groups its turns under a fresh exchange id so
// the archive keeps exchange boundaries.
type LibSQLTranscriptStore struct {
	db *sql.DB
}

// NewLibSQLTranscriptStore creates a store over an opened, migrated database.
func NewLibSQLTranscriptStore(db *sql.DB) *LibSQLTranscriptStore {
	return &LibSQLTranscriptStore{db: db}
}

// SaveExchange persists the turns of one completed exchange in order.
func (s *LibSQLTranscriptStore) SaveExchange(ctx context.Context, documentID string, turns []ports.ArchivedTurn) error {
	if len(turns) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	exchangeID := uuid.NewString()
	const insert = `
		INSERT INTO transcript_turns (exchange_id, document_id, seq, role, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for i, turn := range turns {
		if _, err := tx.ExecContext(ctx, insert, exchangeID, documentID, i, turn.Role, turn.Content, turn.CreatedAt); err != nil {
			return fmt.Errorf("failed to save turn %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// RecentTurns loads the last k archived turns for a document in
// chronological order.
func (s *LibSQLTranscriptStore) RecentTurns(ctx context.Context, documentID string, k int) ([]ports.ArchivedTurn, error) {
	const query = `
		SELECT role, content, created_at FROM transcript_turns
		WHERE document_id = ?
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, documentID, k)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []ports.ArchivedTurn
	for rows.Next() {
		var t ports.ArchivedTurn
		if err := rows.Scan(&t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating turns: %w", err)
	}

	// Reverse to chronological order, oldest first.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// Ensure LibSQLTranscriptStore implements the TranscriptStore port.
var _ ports.TranscriptStore = (*LibSQLTranscriptStore)(nil)
