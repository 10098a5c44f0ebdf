package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/linkshelf/internal/parsers"
)

const scenarioDoc = `{"title": "", "children": [
	{"title": "Work", "children": [{"title": "Site", "uri": "https://x", "dateAdded": 1000}]},
	{"title": "Top", "uri": "https://y", "dateAdded": 2000}
]}`

func writeFile(t *testing.T, dir, name, content string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
	return path
}

func TestImportCommand_ParseFlags(t *testing.T) {
	t.Run("requires file", func(t *testing.T) {
		err := NewImportCommand().ParseFlags([]string{})
		assert.EqualError(t, err, "required flag -file not provided")
	})

	t.Run("defaults", func(t *testing.T) {
		cmd := NewImportCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-file", "export.json"}))
		assert.Equal(t, parsers.DefaultParserName, cmd.ParserName)
		assert.Equal(t, 50, cmd.BatchSize)
	})

	t.Run("rejects non-positive batch size", func(t *testing.T) {
		err := NewImportCommand().ParseFlags([]string{"-file", "x.json", "-batch-size", "0"})
		assert.Error(t, err)
	})
}

func TestImportCommand_Run(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "bookmarks.json", scenarioDoc, 0o644)

	var out bytes.Buffer
	cmd := NewImportCommand()
	require.NoError(t, cmd.ParseFlags([]string{
		"-file", input,
		"-db", filepath.Join(dir, "linkshelf.db"),
		"-parsers", filepath.Join(dir, "parsers.json"),
	}))
	cmd.Out = &out

	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "Imported 2 bookmarks in 1 batches")
}

func TestImportCommand_RunUnknownParser(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "bookmarks.json", scenarioDoc, 0o644)

	var out bytes.Buffer
	cmd := NewImportCommand()
	require.NoError(t, cmd.ParseFlags([]string{
		"-file", input,
		"-parser", "missing",
		"-db", filepath.Join(dir, "linkshelf.db"),
		"-parsers", filepath.Join(dir, "parsers.json"),
	}))
	cmd.Out = &out

	require.Error(t, cmd.Run())
	assert.Contains(t, out.String(), "Import failed")
}

func TestParserCommands(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not available on windows")
	}
	dir := t.TempDir()
	script := writeFile(t, dir, "pocket.sh", "#!/bin/sh\nexit 0\n", 0o755)
	common := []string{"-db", filepath.Join(dir, "linkshelf.db"), "-parsers", filepath.Join(dir, "parsers.json")}

	var out bytes.Buffer
	register := NewRegisterParserCommand()
	require.NoError(t, register.ParseFlags(append([]string{
		"-name", "Pocket CSV", "-path", script, "-formats", "csv, tsv", "-command", "sh",
	}, common...)))
	register.Out = &out
	require.NoError(t, register.Run())
	assert.Contains(t, out.String(), `Registered parser "Pocket CSV"`)

	out.Reset()
	list := NewListParsersCommand()
	require.NoError(t, list.ParseFlags(common))
	list.Out = &out
	require.NoError(t, list.Run())
	assert.Contains(t, out.String(), parsers.DefaultParserName)
	assert.Contains(t, out.String(), "Pocket CSV")
	assert.Contains(t, out.String(), "csv, tsv")

	out.Reset()
	byFormat := NewListParsersCommand()
	require.NoError(t, byFormat.ParseFlags(append([]string{"-format", "tsv"}, common...)))
	byFormat.Out = &out
	require.NoError(t, byFormat.Run())
	assert.Contains(t, out.String(), "Pocket CSV")
	assert.NotContains(t, out.String(), parsers.DefaultParserName)

	out.Reset()
	remove := NewRemoveParserCommand()
	require.NoError(t, remove.ParseFlags(append([]string{"-name", "Pocket CSV"}, common...)))
	remove.Out = &out
	require.NoError(t, remove.Run())
	assert.Contains(t, out.String(), "Removed parser")

	out.Reset()
	require.Error(t, remove.Run())
	assert.Contains(t, out.String(), "Could not remove")
}

func TestRegisterParserCommand_ParseFlags(t *testing.T) {
	assert.Error(t, NewRegisterParserCommand().ParseFlags([]string{"-path", "x.py"}))
	assert.Error(t, NewRegisterParserCommand().ParseFlags([]string{"-name", "x"}))

	cmd := NewRegisterParserCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-name", "x", "-path", "x.py", "-type", "python", "-formats", "csv,,html", "-timeout", "30"}))
	entry := cmd.entry()
	assert.Equal(t, []string{"csv", "html"}, entry.SupportedFormats)
	assert.Equal(t, 30, entry.TimeoutSeconds)
	assert.Empty(t, entry.Command)

	desc, err := entry.Descriptor()
	require.NoError(t, err)
	assert.Equal(t, parsers.KindExternal, desc.Kind)
	assert.Equal(t, []string{"python"}, desc.Command)
}
