package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const fixtures = "../../internal/descriptor/testdata"

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yml", "notes.txt", filepath.Join("nested", "c.yaml")} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("checks: []\n"), 0o644))
	}

	files, err := collectFiles([]string{dir, filepath.Join(dir, "notes.txt")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.yml"),
		filepath.Join(dir, "nested", "c.yaml"),
		filepath.Join(dir, "notes.txt"),
	}, files)

	_, err = collectFiles([]string{filepath.Join(dir, "missing")})
	assert.ErrorContains(t, err, "failed to access path")
}

func TestRunYAMLReport(t *testing.T) {
	var out bytes.Buffer
	cfg := Config{Format: formatYAML, Parallelism: 2}
	err := run(context.Background(), cfg, []string{filepath.Join(fixtures, "failing.yaml")}, &out)
	assert.ErrorIs(t, err, errChecksFailed)

	var reports []fileReport
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &reports))
	require.Len(t, reports, 1)
	r := reports[0]
	assert.False(t, r.OK)
	assert.Equal(t, map[string]int{"TypeMismatch": 2}, r.Kinds)
	require.Len(t, r.Checks, 2)
	assert.Equal(t, "wrong expectation", r.Checks[0].Name)
	assert.Equal(t, "assign", r.Checks[0].Op)
	assert.False(t, r.Checks[0].Passed)
	require.Len(t, r.Checks[1].Diagnostics, 1)
	assert.Equal(t, "TypeMismatch", r.Checks[1].Diagnostics[0].Kind)
	assert.Equal(t, "number", r.Checks[1].Diagnostics[0].Expected)
	assert.Equal(t, "string", r.Checks[1].Diagnostics[0].Actual)
}

func TestRunTextReport(t *testing.T) {
	var out bytes.Buffer
	cfg := Config{Format: formatText, NoColor: true, Parallelism: 1}
	files := []string{filepath.Join(fixtures, "assignability.yaml"), filepath.Join(fixtures, "merging.yaml")}
	require.NoError(t, run(context.Background(), cfg, files, &out))
	assert.Contains(t, out.String(), "assignability.yaml")
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestRunTextKindSummary(t *testing.T) {
	var out bytes.Buffer
	cfg := Config{Format: formatText, NoColor: true, Parallelism: 1}
	err := run(context.Background(), cfg, []string{filepath.Join(fixtures, "failing.yaml")}, &out)
	assert.ErrorIs(t, err, errChecksFailed)
	assert.Contains(t, out.String(), "diagnostics: 2 TypeMismatch")
	assert.Contains(t, out.String(), "1 of 2 check(s) failed")
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	err := run(context.Background(), Config{Format: "json"}, []string{fixtures}, &bytes.Buffer{})
	assert.ErrorContains(t, err, `unknown format "json"`)
}
