package iojson

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLine(&buf, map[string]any{"id": "a", "completed": true}))
	require.NoError(t, WriteLine(&buf, map[string]any{"id": "b"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"id":"a","completed":true}`, lines[0])
}

func TestWriteWith_Indents(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, WriteWith(&out, &errOut, []string{"a"}))
	assert.Equal(t, "[\n  \"a\"\n]\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestWriteWith_MarshalFailure(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, WriteWith(&out, &errOut, make(chan int)))
	assert.Empty(t, out.String())

	var e Error
	require.NoError(t, json.Unmarshal(errOut.Bytes(), &e))
	assert.Contains(t, e.Message, "error marshaling")
}

func TestFileReader_StripsComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`[
  // exported yesterday
  {"id": "a", "text": "x",},
]`), 0o644))

	fr := &FileReader{fileFlagValue: path}
	data, err := fr.Read()
	require.NoError(t, err)

	var out []map[string]string
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "a", out[0]["id"])
}

func TestFileReader_Stdin(t *testing.T) {
	fr := &FileReader{Stdin: strings.NewReader(`[]`)}
	data, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(data)))
}

func TestFileReader_MissingFile(t *testing.T) {
	fr := &FileReader{fileFlagValue: filepath.Join(t.TempDir(), "nope.json")}
	_, err := fr.Read()
	assert.ErrorContains(t, err, "open file")
}
