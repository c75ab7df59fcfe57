// Package report renders change logs for people and for tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"

	"github.com/agentstation/skaffolder/pkg/changelog"
)

// Format is an output format of the reporter.
type Format string

const (
	// FormatText writes one log-style line per record.
	FormatText Format = "text"
	// FormatTable writes a summary table and a record table.
	FormatTable Format = "table"
	// FormatMarkdown writes a markdown document, one section per resource.
	FormatMarkdown Format = "markdown"
	// FormatJSON writes the logs as JSON.
	FormatJSON Format = "json"
	// FormatYAML writes the logs as YAML.
	FormatYAML Format = "yaml"
)

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatText, FormatTable, FormatMarkdown, FormatJSON, FormatYAML}
}

// ParseFormat converts string to Format with validation.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case FormatText, FormatTable, FormatMarkdown, FormatJSON, FormatYAML, "":
		return format, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of: text, table, markdown, json, yaml", s)
	}
}

// DetectFormat returns explicit when given, text when out is a terminal
// and JSON for pipes and redirects.
func DetectFormat(explicit string, out *os.File) Format {
	if explicit != "" {
		return Format(strings.ToLower(explicit))
	}
	if out != nil && (isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())) {
		return FormatText
	}
	return FormatJSON
}

// Reporter writes change logs in one format.
type Reporter struct {
	format  Format
	verbose bool
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithVerbose includes Kept records, which are hidden by default.
func WithVerbose(verbose bool) Option {
	return func(r *Reporter) {
		r.verbose = verbose
	}
}

// New creates a reporter. An empty format means text.
func New(format Format, opts ...Option) *Reporter {
	if format == "" {
		format = FormatText
	}
	r := &Reporter{format: format}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Format returns the output format.
func (r *Reporter) Format() Format {
	return r.format
}

// Entry is the serialized form of one resource's log.
type Entry struct {
	Resource string             `json:"resource" yaml:"resource"`
	Summary  changelog.Summary  `json:"summary" yaml:"summary"`
	Records  []changelog.Record `json:"records" yaml:"records"`
}

// Write renders logs to w.
func (r *Reporter) Write(w io.Writer, logs ...*changelog.Log) error {
	switch r.format {
	case FormatText:
		return r.writeText(w, logs)
	case FormatTable:
		return r.writeTable(w, logs)
	case FormatMarkdown:
		return r.writeMarkdown(w, logs)
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(r.entries(logs))
	case FormatYAML:
		data, err := yaml.MarshalWithOptions(r.entries(logs), yaml.Indent(2), yaml.IndentSequence(false))
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported format %q", r.format)
	}
}

func (r *Reporter) entries(logs []*changelog.Log) []Entry {
	out := make([]Entry, 0, len(logs))
	for _, l := range logs {
		if l == nil {
			continue
		}
		records := r.visible(l)
		if records == nil {
			records = []changelog.Record{}
		}
		out = append(out, Entry{Resource: l.Resource, Summary: l.Summary(), Records: records})
	}
	return out
}

// visible returns the records the reporter shows.
func (r *Reporter) visible(l *changelog.Log) []changelog.Record {
	if r.verbose {
		return l.Records
	}
	var out []changelog.Record
	for _, rec := range l.Records {
		if rec.Action != changelog.Kept {
			out = append(out, rec)
		}
	}
	return out
}
