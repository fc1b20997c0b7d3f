package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/escolinha-api/pkg/config"
)

func TestEmbeddedMigrationsHaveGooseSections(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, migrationsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, entry := range entries {
		raw, err := fs.ReadFile(migrationsFS, migrationsDir+"/"+entry.Name())
		require.NoError(t, err)
		body := string(raw)
		assert.True(t, strings.Contains(body, "-- +goose Up"), entry.Name())
		assert.True(t, strings.Contains(body, "-- +goose Down"), entry.Name())
	}
}

func TestInitSchemaEnforcesSingleMatriz(t *testing.T) {
	raw, err := fs.ReadFile(migrationsFS, migrationsDir+"/00001_init_schema.sql")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "uq_filiais_matriz")
	assert.Contains(t, string(raw), "uq_responsaveis_email")
	assert.Contains(t, string(raw), "uq_responsaveis_cpf")
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "escolinha", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=escolinha sslmode=disable", dsn)
}
