package domain

import "time"

// ImportStatus is the lifecycle state of an import session.
type ImportStatus string

const (
	ImportPendingMapping ImportStatus = "pending_mapping"
	ImportCompleted      ImportStatus = "completed"
)

// ImportRow is one parsed row of an uploaded file, keyed by column header.
type ImportRow map[string]string

// RowError records a row-local import failure. Row errors are accumulated and
// returned as data, never propagated as request failures.
type RowError struct {
	RowNumber    int       `json:"row_number" bson:"row_number"`
	ErrorMessage string    `json:"error_message" bson:"error_message"`
	RowData      ImportRow `json:"row_data" bson:"row_data"`
}

// ImportSession is the audit record of one upload→commit workflow. The parsed
// row set itself is transient and lives in the ephemeral row store, keyed by
// the session id, until commit consumes it.
type ImportSession struct {
	ID            string       `json:"id"`
	UploadedBy    string       `json:"uploaded_by"`
	Filename      string       `json:"filename"`
	TotalRows     int          `json:"total_rows"`
	Columns       []string     `json:"columns"`
	Preview       []ImportRow  `json:"preview"`
	Status        ImportStatus `json:"status"`
	AdminID       string       `json:"admin_id,omitempty"`
	ImportedCount int          `json:"imported_count"`
	ErrorCount    int          `json:"error_count"`
	Errors        []RowError   `json:"errors,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	CompletedAt   *time.Time   `json:"completed_at,omitempty"`
}

// ColumnMapping maps voter field names to source column headers supplied by
// the caller at commit time. Recognized field keys: name_english, name_marathi,
// age, gender, area_english, area_marathi, booth_number, ward, phone, caste,
// address.
type ColumnMapping map[string]string
