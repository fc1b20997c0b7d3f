package validation

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/escolinha-api/pkg/errors"
)

type samplePayload struct {
	Nome  string   `json:"nome" validate:"required"`
	CPF   string   `json:"cpf" validate:"omitempty,cpf"`
	Meses []string `json:"meses" validate:"required,min=1,dive,mesref"`
}

func TestNewValidatorReportsJSONFieldNames(t *testing.T) {
	v := New()
	err := v.Struct(samplePayload{CPF: "123", Meses: []string{"2024-13"}})
	require.Error(t, err)

	appErr := Wrap(err, "invalid payload")
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	fields := make(map[string]string, len(appErr.Details))
	for _, d := range appErr.Details {
		fields[d.Field] = d.Message
	}
	assert.Contains(t, fields, "nome")
	assert.Contains(t, fields, "cpf")
	assert.Contains(t, fields, "meses[0]")
	assert.Equal(t, "meses[0] must be a month in YYYY-MM format", fields["meses[0]"])
}

func TestValidatorAcceptsValidPayload(t *testing.T) {
	v := New()
	err := v.Struct(samplePayload{Nome: "Ana", CPF: "123.456.789-09", Meses: []string{"2024-01", "2024-12"}})
	assert.NoError(t, err)
}

func TestIsMesReferencia(t *testing.T) {
	assert.True(t, IsMesReferencia("2024-02"))
	assert.False(t, IsMesReferencia("2024-2"))
	assert.False(t, IsMesReferencia("2024-00"))
	assert.False(t, IsMesReferencia("24-02"))
}

func TestFieldBuildsSingleDetail(t *testing.T) {
	err := Field("invalid payment", "valor", "must be greater than zero")
	require.Len(t, err.Details, 1)
	assert.Equal(t, "valor", err.Details[0].Field)
	assert.Equal(t, "invalid payment", err.Message)
}
