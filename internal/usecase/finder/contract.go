package finder

import (
	"context"

	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/record"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/selection"
)

// TableSource supplies the read-only base table.
type TableSource interface {
	Table(ctx context.Context) (record.Table, error)
}

// SessionStore keeps one selection per session id.
// Load returns domain.ErrSessionNotFound for missing or expired sessions.
type SessionStore interface {
	Save(ctx context.Context, id string, sel selection.Selection) error
	Load(ctx context.Context, id string) (selection.Selection, error)
	Delete(ctx context.Context, id string) error
}
