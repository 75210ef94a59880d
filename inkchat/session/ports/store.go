package sessionports

import (
	"context"
	"time"
)

// ArchivedTurn is one message unit persisted to the transcript archive.
type ArchivedTurn struct {
	Role      string
	Content   string
	CreatedAt time.Time
}

// TranscriptStore persists completed exchanges outside the document. The
// document remains authoritative; archiving is best-effort and never fails
// a command.
type TranscriptStore interface {
	SaveExchange(ctx context.Context, documentID string, turns []ArchivedTurn) error
	RecentTurns(ctx context.Context, documentID string, k int) ([]ArchivedTurn, error)
}
