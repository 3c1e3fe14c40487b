package record

import (
	"context"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// RecordSource produces the record shown after an upload. Implementations
// must return the same record on every call.
type RecordSource interface {
	BuildRecord(ctx context.Context) (ClinicalRecord, error)
}

// FixedSource always returns the built-in Fixture.
type FixedSource struct{}

// NewFixedSource creates a source backed by the built-in fixture.
func NewFixedSource() *FixedSource {
	return &FixedSource{}
}

// BuildRecord returns Fixture.
func (s *FixedSource) BuildRecord(_ context.Context) (ClinicalRecord, error) {
	return Fixture(), nil
}

// FileSource serves a record read once from a YAML fixture file. The file is a
// flat mapping of field name to value:
//
//	Nome: Maria da Silva
//	Setor: CTG 2
//	Idade: 71
//
// Scalars are kept as written, so numbers and dates stay text.
type FileSource struct {
	path   string
	record ClinicalRecord
}

// LoadFileSource reads and checks the fixture at path.
func LoadFileSource(path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}

	var values map[string]string
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse record file %s: %w", path, err)
	}

	rec, err := New(values)
	if err != nil {
		return nil, fmt.Errorf("invalid record file %s: %w", path, err)
	}

	return &FileSource{path: path, record: rec}, nil
}

// BuildRecord returns the record loaded from the fixture file.
func (s *FileSource) BuildRecord(_ context.Context) (ClinicalRecord, error) {
	return s.record, nil
}

// Path returns the fixture file the record was loaded from.
func (s *FileSource) Path() string {
	return s.path
}

// NewSource returns a FileSource when recordFile is set and a FixedSource
// otherwise.
func NewSource(recordFile string) (RecordSource, error) {
	if recordFile == "" {
		return NewFixedSource(), nil
	}

	src, err := LoadFileSource(recordFile)
	if err != nil {
		return nil, err
	}
	return src, nil
}
