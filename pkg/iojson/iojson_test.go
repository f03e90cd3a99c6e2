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

	require.NoError(t, WriteLine(&buf, map[string]int{"a": 1}))
	require.NoError(t, WriteLine(&buf, map[string]int{"b": 2}))

	assert.Equal(t, "{\"a\":1}\n{\"b\":2}\n", buf.String())
}

func TestWriteLine_MarshalError(t *testing.T) {
	var buf bytes.Buffer
	err := WriteLine(&buf, map[string]any{"ch": make(chan int)})
	require.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestWriteWith(t *testing.T) {
	t.Run("indented", func(t *testing.T) {
		var out, errw bytes.Buffer
		require.NoError(t, WriteWith(&out, &errw, map[string]string{"field": "catalog.base_url"}))
		assert.Equal(t, "{\n  \"field\": \"catalog.base_url\"\n}\n", out.String())
		assert.Empty(t, errw.String())
	})

	t.Run("marshal failure goes to error writer", func(t *testing.T) {
		var out, errw bytes.Buffer
		require.NoError(t, WriteWith(&out, &errw, make(chan int)))
		assert.Empty(t, out.String())

		var decoded struct {
			Message string            `json:"message"`
			Data    map[string]string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(errw.Bytes(), &decoded))
		assert.Contains(t, decoded.Data["json_error"], "chan int")
	})
}

func TestFileReader_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Super Mario"}]`), 0o644))

	fr := &FileReader[[]map[string]string]{fileFlagValue: path}
	got, err := fr.Read()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Super Mario", got[0]["name"])
}

func TestFileReader_MissingFile(t *testing.T) {
	fr := &FileReader[[]string]{fileFlagValue: filepath.Join(t.TempDir(), "missing.json")}
	_, err := fr.Read()
	assert.ErrorContains(t, err, "open file")
}

type game struct {
	Name string `json:"name"`
}

func TestDecodeAll(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []game
	}{
		{"array", `[{"name":"Celeste"},{"name":"Hades"}]`, []game{{"Celeste"}, {"Hades"}}},
		{"json lines", "{\"name\":\"Celeste\"}\n{\"name\":\"Hades\"}\n", []game{{"Celeste"}, {"Hades"}}},
		{"leading whitespace", "\n  [{\"name\":\"Celeste\"}]", []game{{"Celeste"}}},
		{"empty", "  \n", []game{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeAll[game](strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeAll_BadLine(t *testing.T) {
	_, err := DecodeAll[game](strings.NewReader("{\"name\":\"ok\"}\n{oops}\n"))
	assert.ErrorContains(t, err, "value 2")
}

func TestFileReader_ReadAll(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLine(&buf, game{Name: "Outer Wilds"}))
	require.NoError(t, WriteLine(&buf, game{Name: "Tunic"}))

	path := filepath.Join(t.TempDir(), "entries.jsonl")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	fr := &FileReader[game]{fileFlagValue: path}
	got, err := fr.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []game{{"Outer Wilds"}, {"Tunic"}}, got)
}

func TestFileReader_Stdin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stdin.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Inside"}]`), 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	fr := &FileReader[game]{Stdin: f}
	got, err := fr.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []game{{"Inside"}}, got)
}
