package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jwebster45206/gossip-village/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaFor(t *testing.T) {
	tests := []struct {
		file    string
		want    string
		wantErr bool
	}{
		{"fixtures/village_day1.json", services.SchemaVillage, false},
		{"Simulation_night.json", services.SchemaSimulation, false},
		{"interaction.json", services.SchemaInteraction, false},
		{"weather_report.json", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, err := schemaFor(tt.file)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}
	schemas := services.MustLoadSchemas()

	assert.NoError(t, validateFile(schemas, write("interaction_ok.json", `{"reply":"嗯","moodChange":"平静"}`)))
	assert.ErrorIs(t, validateFile(schemas, write("interaction_bad.json", `{"reply":"嗯"}`)), services.ErrSchemaViolation)
	assert.Error(t, validateFile(schemas, write("layout.yaml", "grid: []\n")))
	assert.Error(t, validateFile(schemas, write("notes.txt", "hi")))
	assert.Error(t, validateFile(schemas, filepath.Join(dir, "missing.json")))
}
