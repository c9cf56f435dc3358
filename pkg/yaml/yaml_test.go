package yaml_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/regent/pkg/yaml"
)

func TestDecoder(t *testing.T) {
	t.Parallel()

	var got map[string]any

	dec := yaml.NewDecoder(strings.NewReader("origin: project\nscope:\n  - \"src/**\"\n"))
	require.NoError(t, dec.Decode(&got))

	assert.Equal(t, "project", got["origin"])
	assert.Equal(t, []any{"src/**"}, got["scope"])
}

func TestDecoder_Error(t *testing.T) {
	t.Parallel()

	var got map[string]any

	dec := yaml.NewDecoder(strings.NewReader("origin: [unclosed\n"))
	err := dec.Decode(&got)
	require.Error(t, err)

	yamlErr := &yaml.Error{}
	if assert.ErrorAs(t, err, &yamlErr) {
		assert.NotNil(t, yamlErr.Token)
	}
}

func TestEncoder(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	require.NoError(t, enc.Encode(map[string]any{
		"scope": []string{"src/**", "lib/**"},
	}))
	require.NoError(t, enc.Close())

	assert.Equal(t, "scope:\n  - src/**\n  - lib/**\n", buf.String())
}

const testSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "origin": {
      "type": "string",
      "enum": ["global", "workspace", "project", "reference"]
    },
    "scope": {
      "type": "array",
      "items": {"type": "string"}
    }
  }
}`

func TestValidator(t *testing.T) {
	t.Parallel()

	v, err := yaml.NewValidator("https://example.com/test.json", []byte(testSchema))
	require.NoError(t, err)

	require.NoError(t, v.Validate(map[string]any{
		"origin": "project",
		"scope":  []any{"src/**"},
	}))

	err = v.Validate(map[string]any{"origin": "cosmic"})
	require.Error(t, err)

	yamlErr := &yaml.Error{}
	if assert.ErrorAs(t, err, &yamlErr) {
		require.NotNil(t, yamlErr.Path)
		assert.Equal(t, "$.origin", yamlErr.Path.String())
	}
}

func TestValidator_BadSchema(t *testing.T) {
	t.Parallel()

	_, err := yaml.NewValidator("https://example.com/test.json", []byte("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal schema")
}
