package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Contract(t *testing.T) {
	s := make(State)

	assert.False(t, s.Has("zone_id"))
	_, ok := s.Get("zone_id")
	assert.False(t, ok)

	s.Set("zone_id", "z1")
	s.Set("page", 2)
	assert.True(t, s.Has("zone_id"))
	assert.Equal(t, "z1", s.GetString("zone_id"))
	assert.Equal(t, 2, s.GetInt("page"))
	assert.Equal(t, 0, s.GetInt("zone_id"))
	assert.Equal(t, "", s.GetString("page"))

	s.Delete("page")
	assert.False(t, s.Has("page"))

	s.Clear()
	assert.Empty(t, s)
}

func TestState_SurvivesJSON(t *testing.T) {
	s := State{
		"page":   3,
		"flag":   true,
		KeyDraft: map[string]any{"name": "www", "data": map[string]any{"port": 443}},
	}

	data, err := json.Marshal(s)
	require.NoError(t, err)
	var back State
	require.NoError(t, json.Unmarshal(data, &back))

	assert.Equal(t, 3, back.GetInt("page"))
	assert.True(t, back.GetBool("flag"))
	draft := back.GetMap(KeyDraft)
	assert.Equal(t, "www", draft["name"])
	assert.NotNil(t, back.GetMap("missing"))
}

func TestState_Decode(t *testing.T) {
	type zone struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	s := State{"zones": []zone{{ID: "z1", Name: "example.com"}}}

	var zones []zone
	require.NoError(t, s.Decode("zones", &zones))
	assert.Equal(t, "example.com", zones[0].Name)

	assert.Error(t, s.Decode("records", &zones))
}
