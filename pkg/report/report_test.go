package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skaffolder/pkg/changelog"
	"github.com/agentstation/skaffolder/pkg/fields"
	"github.com/agentstation/skaffolder/pkg/report"
)

func sampleLog() *changelog.Log {
	l := changelog.New("BackendService")
	l.Append(changelog.Record{Path: "name", Action: changelog.Kept, Origin: fields.OriginGA})
	l.Append(changelog.Record{Path: "timeoutSec", Action: changelog.Added, Origin: fields.OriginGA, Message: "ga"})
	l.Append(changelog.Record{Path: "securitySettings", Action: changelog.Added, Origin: fields.OriginBeta, Message: "beta"})
	l.Append(changelog.Record{Path: "legacyField", Action: changelog.Removed, Origin: fields.OriginManual})
	l.Append(changelog.Record{Path: "protocol", Action: changelog.Updated, Origin: fields.OriginGA, Message: "filled enum_values"})
	l.Append(changelog.Record{Path: "portName", Action: changelog.NameMismatchWarning, Expected: "portNames", Found: "portName"})
	l.Append(changelog.Record{Path: "port", Action: changelog.TypeMismatchWarning, Existing: "String", Defined: "Integer"})
	l.Append(changelog.Record{Path: "extension", Action: changelog.UnresolvableReferenceWarning, Ref: "Missing"})
	return l
}

func TestTextLines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.New(report.FormatText).Write(&buf, sampleLog()))

	want := []string{
		"INFO: adding timeoutSec as ga field to definition of BackendService",
		"INFO: adding securitySettings as beta field to definition of BackendService",
		"WARNING: removing field legacyField from definition of BackendService",
		"INFO: updating field protocol of BackendService: filled enum_values",
		`WARNING: mismatch in field name portName: expected "portName" defined "portNames"`,
		"WARNING: mismatch of type on field port, existing type String and defined Integer",
		"WARNING: unresolvable reference Missing on field extension, kept as opaque",
	}
	assert.Equal(t, want, strings.Split(strings.TrimSpace(buf.String()), "\n"))
}

func TestTextVerbose(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.New(report.FormatText, report.WithVerbose(true)).Write(&buf, sampleLog()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "DEBUG: keeping field name of BackendService", lines[0])
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.New(report.FormatJSON).Write(&buf, sampleLog()))

	var entries []struct {
		Resource string `json:"resource"`
		Summary  struct {
			Added   int `json:"added"`
			Removed int `json:"removed"`
		} `json:"summary"`
		Records []struct {
			Path   string `json:"path"`
			Action string `json:"action"`
			Origin string `json:"origin"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "BackendService", entries[0].Resource)
	assert.Equal(t, 2, entries[0].Summary.Added)
	assert.Equal(t, 1, entries[0].Summary.Removed)
	require.Len(t, entries[0].Records, 7)
	assert.Equal(t, "added", entries[0].Records[0].Action)
	assert.Equal(t, "ga", entries[0].Records[0].Origin)
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.New(report.FormatYAML).Write(&buf, sampleLog(), changelog.New("Empty")))

	var entries []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Empty", entries[1]["resource"])
	assert.Empty(t, entries[1]["records"])
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.New(report.FormatTable).Write(&buf, sampleLog()))

	out := buf.String()
	assert.Contains(t, out, "BackendService")
	assert.Contains(t, out, "legacyField")
	assert.Contains(t, out, "Missing")
	assert.NotContains(t, out, "kept")
}

func TestMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.New(report.FormatMarkdown).Write(&buf, sampleLog(), changelog.New("Empty")))

	out := buf.String()
	assert.Contains(t, out, "# Definition changes")
	assert.Contains(t, out, "## BackendService")
	assert.Contains(t, out, "`timeoutSec`")
	assert.Contains(t, out, "No changes.")
}

func TestParseFormat(t *testing.T) {
	for _, f := range report.Formats() {
		got, err := report.ParseFormat(strings.ToUpper(string(f)))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	got, err := report.ParseFormat("md")
	require.NoError(t, err)
	assert.Equal(t, report.FormatMarkdown, got)

	_, err = report.ParseFormat("xml")
	assert.Error(t, err)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, report.FormatYAML, report.DetectFormat("YAML", nil))
	assert.Equal(t, report.FormatJSON, report.DetectFormat("", nil))
}
