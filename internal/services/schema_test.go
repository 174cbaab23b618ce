package services

import (
	"testing"

	"github.com/jwebster45206/gossip-village/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNPC() *state.NPC {
	return &state.NPC{ID: "npc-1", Name: "阿青", Role: "铁匠", HP: 80, MP: 50, SAN: 10, Status: state.StatusNormal}
}

func TestLoadSchemas(t *testing.T) {
	s, err := LoadSchemas()
	require.NoError(t, err)
	for _, name := range []string{SchemaVillage, SchemaSimulation, SchemaInteraction} {
		assert.Contains(t, s.byName, name)
		raw, err := RawSchema(name)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"title": "`+name+`"`)
	}
}

func TestSchemas_Validate(t *testing.T) {
	s := MustLoadSchemas()
	tests := []struct {
		name    string
		schema  string
		data    string
		wantErr bool
	}{
		{"empty simulation", SchemaSimulation, `{}`, false},
		{"null newspaper", SchemaSimulation, `{"newspaper":null}`, false},
		{"fractional delta", SchemaSimulation, `{"statUpdates":[{"npcName":"a","hpChange":1.5,"mpChange":0,"sanChange":0}]}`, true},
		{"unknown relationship type", SchemaSimulation, `{"relationshipUpdates":[{"sourceName":"a","targetName":"b","affinityChange":1,"trustChange":1,"newType":"Rival"}]}`, true},
		{"position missing y", SchemaSimulation, `{"npcStatusUpdates":[{"npcName":"a","status":"Normal","mood":"m","newPosition":{"x":1}}]}`, true},
		{"interaction ok", SchemaInteraction, `{"reply":"r","moodChange":"m"}`, false},
		{"interaction missing mood", SchemaInteraction, `{"reply":"r"}`, true},
		{"village empty", SchemaVillage, `{"npcs":[]}`, true},
		{"bad zone", SchemaVillage, `{"npcs":[{"name":"a","age":1,"gender":"Male","role":"r","publicPersona":"p","deepSecret":"s","lifeGoal":"g","currentMood":"m","spawnZone":"Moon","hp":1,"mp":1,"san":1}]}`, true},
		{"not json", SchemaInteraction, `{`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate(tt.schema, []byte(tt.data))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrSchemaViolation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSchemas_UnknownName(t *testing.T) {
	err := MustLoadSchemas().Validate("weather", []byte(`{}`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSchemaViolation)
}
