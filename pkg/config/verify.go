package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// schemaNode is the subset of JSON schema used for verification
type schemaNode struct {
	Ref        string                 `json:"$ref"`
	Type       string                 `json:"type"`
	Properties map[string]*schemaNode `json:"properties"`
	Required   []string               `json:"required"`
	Items      *schemaNode            `json:"items"`
	Defs       map[string]*schemaNode `json:"$defs"`
}

// VerifyAgainstEmbeddedSchema checks the config against the embedded JSON schema: every
// required key must be present and every config key must be declared by the schema.
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	var root schemaNode
	if err := json.Unmarshal([]byte(embeddedSchema), &root); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	// convert config to generic JSON for validation
	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var configMap map[string]interface{}
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	return verifyNode(&root, root.Defs, configMap, "")
}

func verifyNode(node *schemaNode, defs map[string]*schemaNode, value interface{}, path string) error {
	node, err := resolveRef(node, defs)
	if err != nil {
		return fmt.Errorf("%s: %w", displayPath(path), err)
	}

	switch v := value.(type) {
	case map[string]interface{}:
		if node.Properties == nil {
			return nil
		}
		for _, req := range node.Required {
			if _, ok := v[req]; !ok {
				return fmt.Errorf("%s is required", joinPath(path, req))
			}
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			prop, ok := node.Properties[k]
			if !ok {
				return fmt.Errorf("%s is not declared in schema", joinPath(path, k))
			}
			if err := verifyNode(prop, defs, v[k], joinPath(path, k)); err != nil {
				return err
			}
		}
	case []interface{}:
		if node.Items == nil {
			return nil
		}
		for i, item := range v {
			if err := verifyNode(node.Items, defs, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveRef follows local "#/$defs/Name" references
func resolveRef(node *schemaNode, defs map[string]*schemaNode) (*schemaNode, error) {
	for node.Ref != "" {
		name := strings.TrimPrefix(node.Ref, "#/$defs/")
		def, ok := defs[name]
		if !ok {
			return nil, fmt.Errorf("unresolved schema reference %q", node.Ref)
		}
		node = def
	}
	return node, nil
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func displayPath(path string) string {
	if path == "" {
		return "config"
	}
	return path
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() *jsonschema.Schema {
	return jsonschema.Reflect(&Config{})
}
