// Package record holds the clinical record shown by the NephroList reader and
// its tabular and CSV renderings.
package record

import (
	"errors"
	"fmt"
	"slices"
)

// Field names in canonical column order.
const (
	FieldNome             = "Nome"
	FieldSetor            = "Setor"
	FieldLeito            = "Leito"
	FieldIdade            = "Idade"
	FieldDataAdmissao     = "Data_Admissao"
	FieldMotivoInternacao = "Motivo_Internacao"
	FieldDiagnostico      = "Diagnostico"
	FieldSituacaoAtual    = "Situacao_Atual"
	FieldDialise          = "Dialise"
	FieldPeso             = "Peso"
	FieldPlano            = "Plano"
	FieldPreceptor        = "Preceptor"
	FieldResidente        = "Residente"
	FieldDesfecho         = "Desfecho"
	FieldDataDesfecho     = "Data_Desfecho"
)

// FieldCount is the number of fields every ClinicalRecord carries.
const FieldCount = 15

// ErrUnknownField is returned when a value is supplied for a name that is not
// one of the fifteen record fields.
var ErrUnknownField = errors.New("unknown record field")

var fieldNames = [FieldCount]string{
	FieldNome,
	FieldSetor,
	FieldLeito,
	FieldIdade,
	FieldDataAdmissao,
	FieldMotivoInternacao,
	FieldDiagnostico,
	FieldSituacaoAtual,
	FieldDialise,
	FieldPeso,
	FieldPlano,
	FieldPreceptor,
	FieldResidente,
	FieldDesfecho,
	FieldDataDesfecho,
}

var fieldIndex = func() map[string]int {
	idx := make(map[string]int, FieldCount)
	for i, name := range fieldNames {
		idx[name] = i
	}
	return idx
}()

// FieldNames returns the record field names in canonical order.
func FieldNames() []string {
	return slices.Clone(fieldNames[:])
}

// Field is a single named value of a ClinicalRecord.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ClinicalRecord is one patient encounter summary: fifteen text fields in a
// fixed order. It is a value type; copies never share state, so a record
// cannot be changed once built.
type ClinicalRecord struct {
	values [FieldCount]string
}

// New builds a record from a name to value mapping. Fields absent from values
// are left empty. Values are kept verbatim; nothing is parsed or coerced.
func New(values map[string]string) (ClinicalRecord, error) {
	var r ClinicalRecord
	for name, value := range values {
		i, ok := fieldIndex[name]
		if !ok {
			return ClinicalRecord{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		r.values[i] = value
	}
	return r, nil
}

// Get returns the value of the named field.
func (r ClinicalRecord) Get(name string) (string, bool) {
	i, ok := fieldIndex[name]
	if !ok {
		return "", false
	}
	return r.values[i], true
}

// Values returns the field values in canonical order.
func (r ClinicalRecord) Values() []string {
	return slices.Clone(r.values[:])
}

// Fields returns name/value pairs in canonical order.
func (r ClinicalRecord) Fields() []Field {
	fields := make([]Field, FieldCount)
	for i, name := range fieldNames {
		fields[i] = Field{Name: name, Value: r.values[i]}
	}
	return fields
}

// Map returns the record as a plain map. Order is lost; use Fields when it
// matters.
func (r ClinicalRecord) Map() map[string]string {
	m := make(map[string]string, FieldCount)
	for i, name := range fieldNames {
		m[name] = r.values[i]
	}
	return m
}

// IsZero reports whether every field is empty.
func (r ClinicalRecord) IsZero() bool {
	return r == ClinicalRecord{}
}

// Fixture returns the demonstration record shown for every upload.
func Fixture() ClinicalRecord {
	return ClinicalRecord{values: [FieldCount]string{
		"Vera Ondina Marcos",
		"CTG 4",
		"19",
		"82",
		"2025-06-23",
		"Febre e tremores em paciente dialítica",
		"Infecção de cateter de hemodiálise",
		"Afebril, vertigem postural, PA 90x60",
		"Sim / Crônico",
		"65",
		"Suspender Anlodipino e Furosemida. HD + ATB guiado por vancocinemia.",
		"Gabriel Silqueira",
		"Marcela Oliveira",
		"Alta",
		"2025-06-28",
	}}
}
