package record

import (
	"errors"
	"fmt"
	"slices"
)

// ErrRowWidth is returned when a table row does not have one value per column.
var ErrRowWidth = errors.New("row width does not match column count")

// TabularView is a read-only table derived from records. Columns follow the
// canonical field order.
type TabularView struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ToTable builds the single-row view of r.
func ToTable(r ClinicalRecord) TabularView {
	return TabularView{
		Columns: FieldNames(),
		Rows:    [][]string{r.Values()},
	}
}

// Len returns the number of rows.
func (t TabularView) Len() int {
	return len(t.Rows)
}

// Row returns a copy of row i.
func (t TabularView) Row(i int) ([]string, bool) {
	if i < 0 || i >= len(t.Rows) {
		return nil, false
	}
	return slices.Clone(t.Rows[i]), true
}

// Record converts row i back into a ClinicalRecord.
func (t TabularView) Record(i int) (ClinicalRecord, error) {
	row, ok := t.Row(i)
	if !ok {
		return ClinicalRecord{}, fmt.Errorf("row %d out of range (rows: %d)", i, len(t.Rows))
	}
	if len(row) != len(t.Columns) {
		return ClinicalRecord{}, fmt.Errorf("row %d: %w", i, ErrRowWidth)
	}

	values := make(map[string]string, len(t.Columns))
	for j, name := range t.Columns {
		values[name] = row[j]
	}
	return New(values)
}

func (t TabularView) check() error {
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d values for %d columns: %w", i, len(row), len(t.Columns), ErrRowWidth)
		}
	}
	return nil
}
