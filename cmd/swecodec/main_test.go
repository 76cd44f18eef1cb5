package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const streamSchema = `{
  "obsFormat": "application/swe+csv",
  "recordSchema": {
    "type": "DataRecord",
    "name": "weather",
    "fields": [
      {"type": "Quantity", "name": "temp", "uom": {"code": "Cel"}},
      {"type": "Count", "name": "n"}
    ]
  },
  "encoding": {"type": "TextEncoding", "tokenSeparator": ",", "blockSeparator": "\n"}
}`

const recordSchemaYAML = `
type: DataRecord
name: weather
fields:
  - type: Quantity
    name: temp
    uom: {code: Cel}
`

const binaryEncodingYAML = `
type: BinaryEncoding
byteOrder: bigEndian
members:
  - {type: Component, ref: /temp, dataType: float}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func runCLI(stdin string, args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

// TestDecodeStreamSchema verifies decoding text with a datastream schema document.
func TestDecodeStreamSchema(t *testing.T) {
	schema := writeFile(t, "stream.json", streamSchema)

	code, out, errOut := runCLI("22.5,3\n23,4\n", "decode", "--schema", schema)
	require.Equal(t, exitOK, code, errOut)
	require.Equal(t, "[\n  {\n    \"n\": 3,\n    \"temp\": 22.5\n  },\n  {\n    \"n\": 4,\n    \"temp\": 23\n  }\n]\n", out)
}

// TestDecodeYAMLOutput verifies the --output and --count flags.
func TestDecodeYAMLOutput(t *testing.T) {
	schema := writeFile(t, "stream.json", streamSchema)
	data := writeFile(t, "data.csv", "22.5,3\n23,4\n")

	code, out, errOut := runCLI("", "decode", "-s", schema, "--output", "yaml", "-n", "1", data)
	require.Equal(t, exitOK, code, errOut)
	require.Equal(t, "- n: 3\n  temp: 22.5\n", out)
}

// TestEncodeBinaryBase64 verifies encoding stdin values with separate schema and encoding files.
func TestEncodeBinaryBase64(t *testing.T) {
	schema := writeFile(t, "schema.yaml", recordSchemaYAML)
	enc := writeFile(t, "enc.yaml", binaryEncodingYAML)

	code, out, errOut := runCLI(`[{"temp": 22.5}]`, "encode", "--schema", schema, "--encoding", enc, "--base64")
	require.Equal(t, exitOK, code, errOut)
	require.Equal(t, "QbQAAA==", out)

	code, out, errOut = runCLI(out, "decode", "--schema", schema, "--encoding", enc, "--base64")
	require.Equal(t, exitOK, code, errOut)
	require.Equal(t, "[\n  {\n    \"temp\": 22.5\n  }\n]\n", out)
}

// TestEncodeToFile verifies the --out flag.
func TestEncodeToFile(t *testing.T) {
	schema := writeFile(t, "stream.json", streamSchema)
	values := writeFile(t, "values.yaml", "- {temp: 1.5, n: 2}\n")
	target := filepath.Join(t.TempDir(), "out.csv")

	code, out, errOut := runCLI("", "encode", "--schema", schema, "--out", target, values)
	require.Equal(t, exitOK, code, errOut)
	require.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "1.5,2", string(data))
}

// TestValidate verifies that structural problems are listed and change the exit code.
func TestValidate(t *testing.T) {
	schema := writeFile(t, "stream.json", streamSchema)

	code, out, _ := runCLI("22.5,3\n23,4\n", "validate", "--schema", schema, "--count", "2", "-")
	require.Equal(t, exitOK, code)
	require.Equal(t, "valid\n", out)

	code, out, _ = runCLI("22.5,3\n23\n", "validate", "--schema", schema, "--count", "3", "-")
	require.Equal(t, exitFailure, code)
	require.Equal(t, "invalid: record 2: expected 2 fields, found 1\ninvalid: expected 3 records, found 2\n", out)
}

// TestValidateDescriptor verifies descriptor checks without input data.
func TestValidateDescriptor(t *testing.T) {
	schema := writeFile(t, "schema.yaml", recordSchemaYAML)
	enc := writeFile(t, "enc.json", `{"type": "TextEncoding", "tokenSeparator": ",", "blockSeparator": ","}`)

	code, out, _ := runCLI("", "validate", "--schema", schema, "--encoding", enc)
	require.Equal(t, exitFailure, code)
	require.Contains(t, out, "invalid: tokenSeparator and blockSeparator must differ")
}

func TestUsageErrors(t *testing.T) {
	code, _, errOut := runCLI("")
	require.Equal(t, exitUsage, code)
	require.Contains(t, errOut, "Usage:")

	code, _, errOut = runCLI("", "transcode")
	require.Equal(t, exitUsage, code)
	require.Contains(t, errOut, `unknown command "transcode"`)

	code, _, errOut = runCLI("", "decode")
	require.Equal(t, exitUsage, code)
	require.Contains(t, errOut, "--schema is required")

	code, _, _ = runCLI("", "decode", "--schema", "x.json", "--output", "xml")
	require.Equal(t, exitUsage, code)

	code, _, _ = runCLI("", "decode", "--schema", "x.json", "--log-level", "loud")
	require.Equal(t, exitUsage, code)

	code, out, _ := runCLI("", "help")
	require.Equal(t, exitOK, code)
	require.Contains(t, out, "swecodec encode")
}

func TestDecodeFailure(t *testing.T) {
	schema := writeFile(t, "stream.json", streamSchema)

	code, _, errOut := runCLI("abc,1\n", "decode", "--schema", schema)
	require.Equal(t, exitFailure, code)
	require.Contains(t, errOut, "invalid token")

	code, out, errOut := runCLI("abc,1\n", "decode", "--schema", schema, "--lenient", "--output", "yaml")
	require.Equal(t, exitOK, code, errOut)
	require.Equal(t, "- n: 1\n  temp: .nan\n", out)

	code, _, _ = runCLI("", "decode", "--schema", filepath.Join(t.TempDir(), "missing.json"))
	require.Equal(t, exitFailure, code)
}
