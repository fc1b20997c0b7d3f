package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Mês", "Valor", "Forma"},
		Rows: []map[string]string{
			{"Mês": "2024-01", "Valor": "150.00", "Forma": "pix"},
			{"Mês": "2024-02", "Valor": "150.00"},
		},
	}
}

func TestCSVExporterUsesSemicolonByDefault(t *testing.T) {
	out, err := NewCSVExporter(0).Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Mês;Valor;Forma\n2024-01;150.00;pix\n2024-02;150.00;\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter(',').Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRendersDocument(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(), "Extrato de pagamentos", "Aluno: João", "Situação: em dia")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
