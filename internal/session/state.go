// Package session keeps what each browser session is currently shown.
package session

import (
	"context"
	"fmt"
	"slices"

	"github.com/a3tai/nephrolist-reader/internal/intake"
	"github.com/a3tai/nephrolist-reader/internal/record"
)

// Phase is the observable state of a session.
type Phase int

const (
	// PhaseIdle: nothing uploaded yet, no record shown.
	PhaseIdle Phase = iota
	// PhaseShown: record shown with the CSV download available.
	PhaseShown
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseShown:
		return "shown"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// State is the per-session view. The zero value is the idle state.
type State struct {
	Phase   Phase
	Trigger intake.Trigger
	Record  record.ClinicalRecord
	Table   record.TabularView
	CSV     []byte
}

// Shown reports whether the record and download are available.
func (s State) Shown() bool {
	return s.Phase == PhaseShown
}

// clone returns a copy of s that shares no slices with it.
func (s State) clone() State {
	s.CSV = slices.Clone(s.CSV)
	s.Table.Columns = slices.Clone(s.Table.Columns)
	if s.Table.Rows != nil {
		rows := make([][]string, len(s.Table.Rows))
		for i, row := range s.Table.Rows {
			rows[i] = slices.Clone(row)
		}
		s.Table.Rows = rows
	}
	return s
}

// Activate runs the export for an accepted upload and returns the shown
// state. The record comes from src and does not depend on the upload.
func Activate(ctx context.Context, src record.RecordSource, trigger intake.Trigger) (State, error) {
	rec, err := src.BuildRecord(ctx)
	if err != nil {
		return State{}, fmt.Errorf("failed to build record: %w", err)
	}

	table := record.ToTable(rec)
	csv, err := record.ToCSV(table)
	if err != nil {
		return State{}, fmt.Errorf("failed to encode CSV: %w", err)
	}

	return State{
		Phase:   PhaseShown,
		Trigger: trigger,
		Record:  rec,
		Table:   table,
		CSV:     csv,
	}, nil
}
