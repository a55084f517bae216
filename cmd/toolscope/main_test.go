package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleImport = `
tools:
  - name: Quill
    description: Rewrites and polishes long-form drafts with tone control and grammar fixes.
    category: writing
    pricing: free
    website: https://quill.example.com
    tags: " ai, Grammar ,ai,, "
  - name: Atlas
    description: Generates maps and charts from spreadsheets without any code at all.
    category: Data
    pricing: Paid
    website: https://atlas.example.com
    tags: [charts, ai]
  - name: ""
    description: no name
`

type cli struct {
	t       *testing.T
	dir     string
	catalog string
	saved   string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("TOOLSCOPE_IMPORT_PAUSE", "0")
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	return &cli{
		t:       t,
		dir:     dir,
		catalog: filepath.Join(dir, "catalog.db"),
		saved:   filepath.Join(dir, "saved.db"),
	}
}

// run executes one command against the test databases and returns stdout.
func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--catalog-db", c.catalog,
		"--saved-db", c.saved,
		"--log-level", "error",
	}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "toolscope %s\n%s", strings.Join(args, " "), out)
	return out
}

func (c *cli) importSample() {
	c.t.Helper()
	path := filepath.Join(c.dir, "tools.yaml")
	require.NoError(c.t, os.WriteFile(path, []byte(sampleImport), 0o644))
	c.mustRun("import", path)
}

type browseOutput struct {
	Tools []struct {
		ID    string   `json:"id"`
		Name  string   `json:"name"`
		Tags  []string `json:"tags"`
		Saved bool     `json:"saved"`
	} `json:"tools"`
	Total int `json:"total"`
	Count int `json:"count"`
}

func (c *cli) browse(args ...string) browseOutput {
	c.t.Helper()
	out := c.mustRun(append([]string{"browse", "--json"}, args...)...)
	var result browseOutput
	require.NoError(c.t, json.Unmarshal([]byte(out), &result), out)
	return result
}

func TestVersion(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("version")
	assert.Contains(t, out, "toolscope")
}

func TestImport_ReportsFailures(t *testing.T) {
	c := newCLI(t)
	path := filepath.Join(c.dir, "tools.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleImport), 0o644))

	out := c.mustRun("import", path, "--json")

	var report struct {
		Total     int `json:"total"`
		Succeeded int `json:"succeeded"`
		Failed    int `json:"failed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
}

func TestImport_MissingFile(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("import", filepath.Join(c.dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestBrowse(t *testing.T) {
	c := newCLI(t)
	c.importSample()

	all := c.browse()
	require.Len(t, all.Tools, 2)
	assert.Equal(t, "Atlas", all.Tools[0].Name)
	assert.Equal(t, "Quill", all.Tools[1].Name)
	assert.Equal(t, []string{"ai", "Grammar"}, all.Tools[1].Tags)

	byCategory := c.browse("--category", "WRITING")
	require.Len(t, byCategory.Tools, 1)
	assert.Equal(t, "Quill", byCategory.Tools[0].Name)
	assert.Equal(t, 2, byCategory.Total)
	assert.Equal(t, 1, byCategory.Count)

	byTag := c.browse("--tag", "charts,Grammar")
	assert.Len(t, byTag.Tools, 2)

	byQuery := c.browse("--q", "SPREADSHEET")
	require.Len(t, byQuery.Tools, 1)
	assert.Equal(t, "Atlas", byQuery.Tools[0].Name)
}

func TestBrowse_Table(t *testing.T) {
	c := newCLI(t)
	c.importSample()

	out := c.mustRun("browse", "--pricing", "free")
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Quill")
	assert.NotContains(t, out, "Atlas")
	assert.Contains(t, out, "1 of 2 tool(s)")
}

func TestTags(t *testing.T) {
	c := newCLI(t)
	c.importSample()

	out := c.mustRun("tags")
	assert.Equal(t, "Grammar\nai\ncharts\n", out)
}

func TestSaved_ToggleListExportClear(t *testing.T) {
	c := newCLI(t)
	c.importSample()

	atlas := c.browse("--q", "atlas").Tools[0]

	assert.Contains(t, c.mustRun("saved", "toggle", atlas.ID), "Saved")
	assert.True(t, c.browse("--q", "atlas").Tools[0].Saved)
	assert.Contains(t, c.mustRun("saved", "list"), "Atlas")

	exportPath := filepath.Join(c.dir, "out", "saved.json")
	c.mustRun("saved", "export", "--out", exportPath)
	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	var exported []map[string]any
	require.NoError(t, json.Unmarshal(data, &exported))
	require.Len(t, exported, 1)
	assert.Equal(t, "Atlas", exported[0]["name"])
	assert.NotContains(t, exported[0], "id")

	assert.Contains(t, c.mustRun("saved", "toggle", atlas.ID), "Removed")
	assert.Contains(t, c.mustRun("saved", "list"), "No saved tools.")

	c.mustRun("saved", "toggle", atlas.ID)
	assert.Contains(t, c.mustRun("saved", "clear"), "Cleared 1")
	assert.Contains(t, c.mustRun("saved", "list"), "No saved tools.")
}

func TestSaved_ExportStdoutEmpty(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("saved", "export", "--out", "-")
	assert.Equal(t, "[]\n", out)
}

func TestConfig_ExplicitFileMustExist(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("--config", filepath.Join(c.dir, "missing.yaml"), "tags")
	assert.Error(t, err)
}

func TestConfig_InvalidLogLevel(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("--log-level", "loud", "tags")
	assert.Error(t, err)
}
