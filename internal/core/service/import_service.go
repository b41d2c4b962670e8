package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/votegrid/voter-platform/internal/api/metrics"
	"github.com/votegrid/voter-platform/internal/core/domain"
	"github.com/votegrid/voter-platform/internal/core/ports"
	"github.com/votegrid/voter-platform/internal/infrastructure/tabular"
)

const (
	previewRows       = 5
	sessionListCap    = 50
	storedErrorsCap   = 100
	returnedErrorsCap = 10
	defaultRowTTL     = 24 * time.Hour
	defaultAge        = 18
	defaultBooth      = "1"
	defaultArea       = "Unknown"
)

// femaleTokens and maleTokens classify free-form gender values by
// case-insensitive substring match. Devanagari tokens cover Marathi voter
// rolls. Female is checked first: "female" contains "male".
var femaleTokens = []string{"female", "स्त्री", "महिला"}
var maleTokens = []string{"male", "पु"}

// ImportService drives the two-phase upload → map-columns workflow. Session
// metadata is persisted for audit; the full parsed row set lives in the
// ephemeral row store until commit consumes it.
type ImportService struct {
	sessions ports.ImportSessionRepository
	rows     ports.ImportRowStore
	voters   ports.VoterRepository
	users    ports.UserRepository
	rowTTL   time.Duration
	logger   zerolog.Logger
}

func NewImportService(
	sessions ports.ImportSessionRepository,
	rows ports.ImportRowStore,
	voters ports.VoterRepository,
	users ports.UserRepository,
	rowTTL time.Duration,
	logger zerolog.Logger,
) *ImportService {
	if rowTTL <= 0 {
		rowTTL = defaultRowTTL
	}
	return &ImportService{
		sessions: sessions,
		rows:     rows,
		voters:   voters,
		users:    users,
		rowTTL:   rowTTL,
		logger:   logger,
	}
}

// Upload parses a tabular file and opens a pending_mapping session. The
// column headers, a five-row preview, and the total row count are returned so
// the caller can build a field mapping.
func (s *ImportService) Upload(ctx context.Context, uploaderID, filename string, file io.Reader) (*ports.UploadResult, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	table, err := tabular.Parse(data)
	if err != nil {
		metrics.ImportSessionsTotal.WithLabelValues("parse_error").Inc()
		return nil, err
	}

	session := &domain.ImportSession{
		UploadedBy: uploaderID,
		Filename:   filename,
		TotalRows:  len(table.Rows),
		Columns:    table.Headers,
		Preview:    table.Preview(previewRows),
		Status:     domain.ImportPendingMapping,
		CreatedAt:  time.Now().UTC(),
	}
	created, err := s.sessions.Create(ctx, session)
	if err != nil {
		return nil, err
	}

	if err := s.rows.SaveRows(ctx, created.ID, table.Rows, s.rowTTL); err != nil {
		return nil, fmt.Errorf("stash rows for session %s: %w", created.ID, err)
	}

	metrics.ImportSessionsTotal.WithLabelValues("uploaded").Inc()
	s.logger.Info().
		Str("session_id", created.ID).
		Str("filename", filename).
		Int("total_rows", created.TotalRows).
		Msg("import file uploaded")

	return &ports.UploadResult{
		SessionID: created.ID,
		Columns:   created.Columns,
		Preview:   created.Preview,
		TotalRows: created.TotalRows,
	}, nil
}

// Commit resolves the column mapping against the stored rows and imports each
// row independently: a failed row is recorded and skipped, never aborting the
// remainder. The session is always marked completed, the transient rows are
// deleted, and the first 10 errors are returned (100 are retained for audit).
func (s *ImportService) Commit(ctx context.Context, in ports.CommitInput) (*ports.CommitResult, error) {
	started := time.Now()

	admin, err := s.users.FindByID(ctx, in.AdminID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, fmt.Errorf("%w: target admin does not exist", domain.ErrValidation)
		}
		return nil, err
	}
	if admin.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: target user %s is not an admin", domain.ErrValidation, admin.Username)
	}

	session, err := s.sessions.FindByID(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.ImportPendingMapping {
		return nil, domain.ErrSessionNotFound
	}

	rows, err := s.rows.LoadRows(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	imported := 0
	var rowErrors []domain.RowError

	for idx, row := range rows {
		if err := s.importRow(ctx, row, in.ColumnMapping, in.AdminID, now); err != nil {
			metrics.ImportRowsTotal.WithLabelValues("error").Inc()
			rowErrors = append(rowErrors, domain.RowError{
				RowNumber:    idx + 1,
				ErrorMessage: err.Error(),
				RowData:      row,
			})
			continue
		}
		metrics.ImportRowsTotal.WithLabelValues("imported").Inc()
		imported++
	}

	stored := rowErrors
	if len(stored) > storedErrorsCap {
		stored = stored[:storedErrorsCap]
	}
	if err := s.sessions.Complete(ctx, in.SessionID, in.AdminID, imported, len(rowErrors), stored, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.rows.DeleteRows(ctx, in.SessionID); err != nil {
		s.logger.Warn().Err(err).Str("session_id", in.SessionID).Msg("failed to delete transient rows")
	}

	metrics.ImportSessionsTotal.WithLabelValues("completed").Inc()
	metrics.ImportCommitDuration.Observe(time.Since(started).Seconds())
	s.logger.Info().
		Str("session_id", in.SessionID).
		Str("admin", admin.Username).
		Int("imported", imported).
		Int("errors", len(rowErrors)).
		Msg("import committed")

	returned := rowErrors
	if len(returned) > returnedErrorsCap {
		returned = returned[:returnedErrorsCap]
	}
	return &ports.CommitResult{
		ImportedCount: imported,
		ErrorCount:    len(rowErrors),
		Errors:        returned,
	}, nil
}

// Sessions returns the newest import sessions for audit visibility.
func (s *ImportService) Sessions(ctx context.Context) ([]*domain.ImportSession, error) {
	return s.sessions.ListRecent(ctx, sessionListCap)
}

// importRow normalizes and inserts a single row. Errors abort only this row.
// Normalization never rejects a row: missing names stay empty and ages keep
// whatever value parsed, so only the insert itself can fail.
func (s *ImportService) importRow(ctx context.Context, row domain.ImportRow, mapping domain.ColumnMapping, adminID string, now time.Time) error {
	voter := normalizeRow(row, mapping)
	voter.AdminID = adminID
	voter.AssignedTo = "" // unassigned until explicit assignment
	voter.ApplyDefaults(now)
	voter.ImportedAt = &now

	if _, err := s.voters.Insert(ctx, voter); err != nil {
		return err
	}
	return nil
}

// normalizeRow applies the column mapping and normalization rules: English
// columns win over Marathi fallbacks, unparseable ages default to 18, gender
// is token-classified, and unmapped optional fields get their defaults.
func normalizeRow(row domain.ImportRow, mapping domain.ColumnMapping) *domain.Voter {
	v := &domain.Voter{}

	v.Name = firstNonEmpty(
		mappedValue(row, mapping, "name_english"),
		mappedValue(row, mapping, "name_marathi"),
	)
	v.Age = parseAge(mappedValue(row, mapping, "age"))
	v.Gender = classifyGender(mappedValue(row, mapping, "gender"))
	v.Area = firstNonEmpty(
		mappedValue(row, mapping, "area_english"),
		mappedValue(row, mapping, "area_marathi"),
		defaultArea,
	)
	v.BoothNumber = firstNonEmpty(mappedValue(row, mapping, "booth_number"), defaultBooth)
	v.Ward = mappedValue(row, mapping, "ward")
	v.Phone = mappedValue(row, mapping, "phone")
	v.Caste = mappedValue(row, mapping, "caste")
	v.Address = mappedValue(row, mapping, "address")

	return v
}

func mappedValue(row domain.ImportRow, mapping domain.ColumnMapping, field string) string {
	column, ok := mapping[field]
	if !ok || column == "" {
		return ""
	}
	return strings.TrimSpace(row[column])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseAge never fails a row: unparseable values fall back to 18.
func parseAge(raw string) int {
	age, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || age <= 0 {
		return defaultAge
	}
	return age
}

func classifyGender(raw string) domain.Gender {
	val := strings.ToLower(strings.TrimSpace(raw))
	if val == "" {
		return domain.GenderOther
	}
	for _, token := range femaleTokens {
		if strings.Contains(val, token) {
			return domain.GenderFemale
		}
	}
	for _, token := range maleTokens {
		if strings.Contains(val, token) {
			return domain.GenderMale
		}
	}
	return domain.GenderOther
}
