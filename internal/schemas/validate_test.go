package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["topic"],
	"properties": {
		"topic": {"type": "string", "minLength": 1}
	}
}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateString_Valid(t *testing.T) {
	err := ValidateString(testSchema, `{"topic":"rust"}`)
	assert.NoError(t, err)
}

func TestValidateString_Invalid(t *testing.T) {
	err := ValidateString(testSchema, `{"topic":""}`)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Errors, 1)
	assert.Equal(t, "topic", ve.Errors[0].Field)
}

func TestValidateString_MissingRequired(t *testing.T) {
	err := ValidateString(testSchema, `{}`)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "topic")
}

func TestValidateString_BrokenSchema(t *testing.T) {
	err := ValidateString(`{"type": 42}`, `{}`)
	require.Error(t, err)

	var le *SchemaLoadError
	assert.ErrorAs(t, err, &le)
}

func TestValidateFile(t *testing.T) {
	schemaPath := writeTemp(t, "doc.schema.json", testSchema)
	docPath := writeTemp(t, "doc.json", `{"topic":"rust"}`)

	assert.NoError(t, ValidateFile(schemaPath, docPath))

	badPath := writeTemp(t, "bad.json", `{"topic":123}`)
	err := ValidateFile(schemaPath, badPath)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestValidateFile_MissingFiles(t *testing.T) {
	schemaPath := writeTemp(t, "doc.schema.json", testSchema)

	err := ValidateFile(schemaPath, filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorContains(t, err, "JSON file not found")

	err = ValidateFile(filepath.Join(t.TempDir(), "nope.schema.json"), schemaPath)
	assert.ErrorContains(t, err, "schema file not found")
}

func TestSchemaPath(t *testing.T) {
	assert.Equal(t, filepath.Join("schemas", "tier_list.schema.json"), SchemaTierList.Path())
	assert.Equal(t, filepath.Join("schemas", "roadmap.schema.json"), SchemaRoadmap.Path())
}

func TestResolvePath_NotFound(t *testing.T) {
	assert.Empty(t, ResolvePath(filepath.Join("no-such-dir", "nope.schema.json")))
}
