package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/votegrid/voter-platform/internal/core/domain"
)

var errNotUTF8 = errors.New("content is not valid UTF-8 text")
var errNoHeader = errors.New("missing header row")

// parseCSV reads data as comma-separated text. Quirks of real-world voter
// exports are tolerated: UTF-8 BOM, lazy quotes, variable field counts, and
// fully empty rows (skipped). Binary content fails the UTF-8 check so XLSX
// uploads fall through to the workbook parser.
func parseCSV(data []byte) (*Table, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if len(data) == 0 {
		return nil, errNoHeader
	}
	if !utf8.Valid(data) {
		return nil, errNotUTF8
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, errNoHeader
	}
	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.TrimSpace(h)
	}

	t := &Table{Headers: headers}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row := recordToRow(headers, record)
		if rowEmpty(row) {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func recordToRow(headers, record []string) domain.ImportRow {
	row := make(domain.ImportRow, len(headers))
	for i, h := range headers {
		if i < len(record) {
			row[h] = strings.TrimSpace(record[i])
		} else {
			row[h] = ""
		}
	}
	return row
}

func rowEmpty(row domain.ImportRow) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
