// Package tabular parses uploaded voter files into rows of named columns.
// CSV is tried first; files that fail CSV parsing are retried as XLSX. No
// fixed schema is assumed — column headers are resolved later, at commit
// time, via the caller-supplied mapping.
package tabular

import (
	"fmt"

	"github.com/votegrid/voter-platform/internal/core/domain"
)

// Table is the parsed content of an upload: ordered headers and rows keyed by
// header name.
type Table struct {
	Headers []string
	Rows    []domain.ImportRow
}

// Preview returns the first n rows.
func (t *Table) Preview(n int) []domain.ImportRow {
	if len(t.Rows) < n {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}

// Parse attempts to read data as CSV, then as an XLSX workbook. It returns
// domain.ErrUnreadableFile when neither format parses.
func Parse(data []byte) (*Table, error) {
	if t, err := parseCSV(data); err == nil {
		return t, nil
	}
	t, err := parseXLSX(data)
	if err != nil {
		return nil, fmt.Errorf("%w: not valid CSV or XLSX", domain.ErrUnreadableFile)
	}
	return t, nil
}
