package descriptions

// Tool descriptions shown to MCP clients

const (
	ExtractDescription = `Show the clinical fields for a NephroList PDF and return them as CSV.

**When to use:** A clinician's evolution note (PDF exported from the electronic chart) needs to be turned into the fifteen structured NephroList fields.

**What you get:** A field-by-field listing (Nome, Setor, Leito, Idade, Data_Admissao, Motivo_Internacao, Diagnostico, Situacao_Atual, Dialise, Peso, Plano, Preceptor, Residente, Desfecho, Data_Desfecho) followed by the same data as a CSV document with a header row, suitable for saving as dados_extraidos_nephrolist.csv.

**Examples:**
• "Extract the NephroList fields from evolucao-ctg4.pdf"
• "Give me the CSV for internacao-0623.pdf so I can paste it into the spreadsheet"

**Notes:** The file must have a .pdf name and live inside the configured directory. The document body is not parsed: the server returns its demonstration record for every accepted file. All values are text; numbers and dates are not converted.`

	ServerInfoDescription = `Describe this NephroList server: name, version, configured directory, available tools and the ordered list of exported fields.

**When to use:** First call in a session, or to check which directory PDF paths must live in.`
)
