package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyAgainstEmbeddedSchema(t *testing.T) {
	t.Run("defaults pass", func(t *testing.T) {
		cfg, err := Parse(nil)
		require.NoError(t, err)
		assert.NoError(t, VerifyAgainstEmbeddedSchema(cfg))
	})

	t.Run("config with feeds passes", func(t *testing.T) {
		cfg, err := Parse([]byte("feeds:\n  - {name: Reuters, url: https://example.com/rss}\n"))
		require.NoError(t, err)
		assert.NoError(t, VerifyAgainstEmbeddedSchema(cfg))
	})
}

func TestVerifyNode(t *testing.T) {
	var root schemaNode
	require.NoError(t, json.Unmarshal([]byte(embeddedSchema), &root))

	cfg, err := Parse(nil)
	require.NoError(t, err)
	toMap := func() map[string]interface{} {
		data, err := json.Marshal(cfg)
		require.NoError(t, err)
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, verifyNode(&root, root.Defs, toMap(), ""))
	})

	t.Run("undeclared top level key", func(t *testing.T) {
		m := toMap()
		m["cache"] = map[string]interface{}{"size": 10}
		err := verifyNode(&root, root.Defs, m, "")
		require.Error(t, err)
		assert.Equal(t, "cache is not declared in schema", err.Error())
	})

	t.Run("undeclared nested key", func(t *testing.T) {
		m := toMap()
		m["llm"].(map[string]interface{})["retries"] = 3
		err := verifyNode(&root, root.Defs, m, "")
		require.Error(t, err)
		assert.Equal(t, "llm.retries is not declared in schema", err.Error())
	})

	t.Run("missing required key", func(t *testing.T) {
		m := toMap()
		delete(m["server"].(map[string]interface{}), "listen")
		err := verifyNode(&root, root.Defs, m, "")
		require.Error(t, err)
		assert.Equal(t, "server.listen is required", err.Error())
	})

	t.Run("feed item checked through reference", func(t *testing.T) {
		m := toMap()
		m["feeds"] = []interface{}{map[string]interface{}{"name": "Reuters"}}
		err := verifyNode(&root, root.Defs, m, "")
		require.Error(t, err)
		assert.Equal(t, "feeds[0].url is required", err.Error())
	})

	t.Run("unresolved reference", func(t *testing.T) {
		node := &schemaNode{Ref: "#/$defs/Missing"}
		err := verifyNode(node, root.Defs, map[string]interface{}{}, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unresolved schema reference")
	})
}

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema()
	require.NotNil(t, schema)

	data, err := json.Marshal(schema)
	require.NoError(t, err)
	assert.Contains(t, string(data), "direction_priority")
	assert.Contains(t, string(data), "analyze_batch")
}
