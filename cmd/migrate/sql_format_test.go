package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLMigrations_AreReversible(t *testing.T) {
	dir := repoMigrationsDir(t)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".sql" {
			continue
		}
		t.Run(e.Name(), func(t *testing.T) {
			b, err := os.ReadFile(filepath.Join(dir, e.Name()))
			require.NoError(t, err)

			up, down, found := strings.Cut(string(b), "-- +goose Down")
			require.True(t, found, "missing '-- +goose Down'")
			assert.Contains(t, up, "-- +goose Up")
			assert.Contains(t, up, "CREATE TABLE")
			assert.Contains(t, down, "DROP TABLE")
		})
	}
}
