package ports

import (
	"context"
	"io"
	"time"

	"github.com/votegrid/voter-platform/internal/core/domain"
)

// ImportSessionRepository persists the audit metadata of import sessions.
type ImportSessionRepository interface {
	Create(ctx context.Context, s *domain.ImportSession) (*domain.ImportSession, error)
	FindByID(ctx context.Context, id string) (*domain.ImportSession, error)
	// Complete marks the session completed with counts, the retained errors,
	// and the target admin.
	Complete(ctx context.Context, id, adminID string, imported, failed int, errs []domain.RowError, at time.Time) error
	// ListRecent returns the newest sessions, capped at limit.
	ListRecent(ctx context.Context, limit int) ([]*domain.ImportSession, error)
}

// ImportRowStore holds the full parsed row set of a pending session. Rows are
// write-once, read-once: saved at upload, consumed and deleted at commit, and
// expired by TTL if the commit never arrives.
type ImportRowStore interface {
	SaveRows(ctx context.Context, sessionID string, rows []domain.ImportRow, ttl time.Duration) error
	LoadRows(ctx context.Context, sessionID string) ([]domain.ImportRow, error)
	DeleteRows(ctx context.Context, sessionID string) error
}

// UploadResult is returned after a successful upload/parse.
type UploadResult struct {
	SessionID string
	Columns   []string
	Preview   []domain.ImportRow
	TotalRows int
}

// CommitInput carries the map-columns request.
type CommitInput struct {
	SessionID     string
	ColumnMapping domain.ColumnMapping
	AdminID       string
}

// CommitResult reports an import commit. Errors holds at most the first 10
// row errors; the session record retains up to 100.
type CommitResult struct {
	ImportedCount int
	ErrorCount    int
	Errors        []domain.RowError
}

// ImportService drives the two-phase upload → map-columns workflow.
type ImportService interface {
	Upload(ctx context.Context, uploaderID, filename string, file io.Reader) (*UploadResult, error)
	Commit(ctx context.Context, in CommitInput) (*CommitResult, error)
	Sessions(ctx context.Context) ([]*domain.ImportSession, error)
}
