package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNxJSON_RoundTripKeepsUntouchedValues(t *testing.T) {
	input := `{"big":9007199254740993,"ratio":0.1,"nested":{"id":12345678901234567890},"installation":{"version":"16.5.0","plugins":{}}}`

	var doc NxJSON
	require.NoError(t, json.Unmarshal([]byte(input), &doc))
	doc.SetPlugin("@nrwl/nest", "16.5.0")

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"big":9007199254740993`)
	assert.Contains(t, string(out), `"ratio":0.1`)
	assert.Contains(t, string(out), `"id":12345678901234567890`)
	assert.Equal(t, "16.5.0", doc.Installation().Plugins["@nrwl/nest"])
}

func TestNxJSON_CacheableOperations(t *testing.T) {
	doc := NewNxJSON("16.5.0")
	assert.Equal(t, []string{"build", "lint", "test", "e2e"}, doc.CacheableOperations())

	doc.SetCacheableOperations([]string{"echo"})
	assert.Equal(t, []string{"echo"}, doc.CacheableOperations())
	assert.Equal(t, "16.5.0", doc.Installation().Version)
}
