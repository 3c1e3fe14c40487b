package record

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureDataLine = "Vera Ondina Marcos,CTG 4,19,82,2025-06-23," +
	"Febre e tremores em paciente dialítica," +
	"Infecção de cateter de hemodiálise," +
	"\"Afebril, vertigem postural, PA 90x60\"," +
	"Sim / Crônico,65," +
	"Suspender Anlodipino e Furosemida. HD + ATB guiado por vancocinemia.," +
	"Gabriel Silqueira,Marcela Oliveira,Alta,2025-06-28"

func TestToTable(t *testing.T) {
	table := ToTable(Fixture())

	assert.Equal(t, expectedFieldNames, table.Columns)
	require.Equal(t, 1, table.Len())

	row, ok := table.Row(0)
	require.True(t, ok)
	assert.Equal(t, Fixture().Values(), row)

	_, ok = table.Row(1)
	assert.False(t, ok)
}

func TestToCSV_Fixture(t *testing.T) {
	data, err := ToCSV(ToTable(Fixture()))
	require.NoError(t, err)
	require.True(t, utf8.Valid(data))

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2, "header plus one data row")

	assert.Equal(t, strings.Join(expectedFieldNames, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[0], "Nome,"), "no index column")
	assert.Equal(t, fixtureDataLine, lines[1])
}

func TestToCSV_Deterministic(t *testing.T) {
	first, err := ToCSV(ToTable(Fixture()))
	require.NoError(t, err)
	second, err := ToCSV(ToTable(Fixture()))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestToCSV_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{
			name:   "fixture",
			values: Fixture().Map(),
		},
		{
			name: "commas",
			values: map[string]string{
				"Nome":        "Silva, João",
				"Diagnostico": "Febre, tremores, dor abdominal",
			},
		},
		{
			name: "quotes",
			values: map[string]string{
				"Nome":  `João "Zé" Silva`,
				"Plano": `Prescrição "urgente" de antibiótico`,
			},
		},
		{
			name: "newlines",
			values: map[string]string{
				"Nome":  "João Silva",
				"Plano": "Linha 1\nLinha 2\nLinha 3",
			},
		},
		{
			name: "utf-8",
			values: map[string]string{
				"Nome":        "José María Gonçalves Peña",
				"Diagnostico": "Infecção de cateter: situação crítica",
			},
		},
		{
			name: "empty values",
			values: map[string]string{
				"Nome":      "João Silva",
				"Peso":      "",
				"Residente": "",
			},
		},
		{
			name: "leading space",
			values: map[string]string{
				"Nome": " João",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := New(tt.values)
			require.NoError(t, err)

			data, err := ToCSV(ToTable(rec))
			require.NoError(t, err)
			require.True(t, utf8.Valid(data))

			table, err := ParseCSV(data)
			require.NoError(t, err)
			assert.Equal(t, expectedFieldNames, table.Columns)
			require.Equal(t, 1, table.Len())

			back, err := table.Record(0)
			require.NoError(t, err)
			assert.Equal(t, rec, back)
		})
	}
}

func TestToCSV_QuotesOnlyWhenNeeded(t *testing.T) {
	rec, err := New(map[string]string{
		"Nome":        "Silva, João",
		"Setor":       "CTG 4",
		"Diagnostico": `Suspeita de "sepse"`,
	})
	require.NoError(t, err)

	data, err := ToCSV(ToTable(rec))
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `"Silva, João"`)
	assert.Contains(t, out, `"Suspeita de ""sepse"""`)
	assert.Contains(t, out, ",CTG 4,")
}

func TestToCSV_EmptyTable(t *testing.T) {
	data, err := ToCSV(TabularView{})
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(string(data)))
}

func TestToCSV_MultipleRows(t *testing.T) {
	table := ToTable(Fixture())
	for i := 0; i < 4; i++ {
		table.Rows = append(table.Rows, Fixture().Values())
	}

	data, err := ToCSV(table)
	require.NoError(t, err)

	parsed, err := ParseCSV(data)
	require.NoError(t, err)
	assert.Equal(t, 5, parsed.Len())
}

func TestToCSV_RowWidthMismatch(t *testing.T) {
	table := TabularView{
		Columns: []string{"Nome", "Setor"},
		Rows:    [][]string{{"Vera Ondina Marcos"}},
	}
	_, err := ToCSV(table)
	assert.ErrorIs(t, err, ErrRowWidth)
}

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  error
		wantRows int
	}{
		{
			name:     "header only",
			input:    "Nome,Setor\n",
			wantRows: 0,
		},
		{
			name:     "byte order mark",
			input:    "\ufeffNome,Setor\nVera,CTG 4\n",
			wantRows: 1,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrMalformedCSV,
		},
		{
			name:    "unterminated quote",
			input:   "Nome,Setor\n\"Vera,CTG 4\n",
			wantErr: ErrMalformedCSV,
		},
		{
			name:    "ragged rows",
			input:   "Nome,Setor\nVera\n",
			wantErr: ErrMalformedCSV,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ParseCSV([]byte(tt.input))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"Nome", "Setor"}, table.Columns)
			assert.Equal(t, tt.wantRows, table.Len())
		})
	}
}

func TestTabularView_RecordErrors(t *testing.T) {
	table := TabularView{
		Columns: []string{"Nome", "Observacoes"},
		Rows:    [][]string{{"Vera", "x"}, {"Vera"}},
	}

	_, err := table.Record(0)
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = table.Record(1)
	assert.ErrorIs(t, err, ErrRowWidth)

	_, err = table.Record(5)
	assert.Error(t, err)
}
