package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docoutline/internal/doctree"
)

func TestExtract_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "handbook.md", handbook)

	out, err := execute(t, "extract", "--format", "json", path)
	require.NoError(t, err)

	var res doctree.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, doctree.Result{
		Title: "Operations Handbook",
		Outline: []doctree.OutlineEntry{
			{Level: "H1", Text: "1. Introduction", Page: 1},
			{Level: "H1", Text: "2. Scope of Work", Page: 1},
		},
	}, res)
	assert.Contains(t, out, "\n    \"title\": ")
}

func TestExtract_Markdown(t *testing.T) {
	path := writeFile(t, t.TempDir(), "handbook.md", handbook)

	out, err := execute(t, "extract", "--format", "markdown", path)
	require.NoError(t, err)
	assert.Equal(t, "# Operations Handbook\n\n- 1. Introduction (p. 1)\n- 2. Scope of Work (p. 1)\n", out)
}

func TestExtract_Unreadable(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "handbook.md", handbook)
	bad := writeFile(t, dir, "broken.pdf", "not a pdf")

	out, err := execute(t, "extract", "--format", "json", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 documents")
	assert.Contains(t, out, `"title": "Operations Handbook"`)
	assert.Contains(t, out, `"title": "Error reading broken.pdf"`)
}

func TestExtract_MissingFile(t *testing.T) {
	_, err := execute(t, "extract", "--format", "json", "/nonexistent/report.pdf")
	assert.Error(t, err)
}

func TestExtract_BadFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "handbook.md", handbook)
	_, err := execute(t, "extract", "--format", "yaml", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}
