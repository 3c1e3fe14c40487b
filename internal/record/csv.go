package record

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
)

const (
	// CSVFileName is the name offered for the downloaded CSV.
	CSVFileName = "dados_extraidos_nephrolist.csv"
	// CSVMediaType is the media type of the downloaded CSV.
	CSVMediaType = "text/csv"
)

// ErrMalformedCSV is returned when CSV input cannot be read back as a table.
var ErrMalformedCSV = errors.New("malformed CSV")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ToCSV encodes t as UTF-8 CSV: a header row of column names followed by the
// data rows, comma separated, newline terminated, no index column. Values
// containing commas, quotes or line breaks are quoted. An empty table encodes
// to no bytes.
func ToCSV(t TabularView) ([]byte, error) {
	if len(t.Columns) == 0 {
		return []byte{}, nil
	}
	if err := t.check(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseCSV reads CSV produced by ToCSV (or any header-first CSV) back into a
// table. A leading UTF-8 byte order mark is ignored.
func ParseCSV(data []byte) (TabularView, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	rows, err := r.ReadAll()
	if err != nil {
		return TabularView{}, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	if len(rows) == 0 {
		return TabularView{}, fmt.Errorf("%w: missing header row", ErrMalformedCSV)
	}

	return TabularView{
		Columns: rows[0],
		Rows:    rows[1:],
	}, nil
}
