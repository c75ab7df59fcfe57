package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/agentstation/skaffolder/pkg/changelog"
)

func (r *Reporter) writeTable(w io.Writer, logs []*changelog.Log) error {
	summary := newTable(w, tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignRight, tw.AlignRight)
	summary.Header("Resource", "Added", "Removed", "Updated", "Warnings")
	for _, l := range logs {
		if l == nil {
			continue
		}
		s := l.Summary()
		warnings := s.NameMismatches + s.TypeMismatches + s.Unresolvable
		if err := summary.Append(l.Resource, itoa(s.Added), itoa(s.Removed), itoa(s.Updated), itoa(warnings)); err != nil {
			return err
		}
	}
	if err := summary.Render(); err != nil {
		return err
	}

	records := newTable(w, tw.AlignLeft, tw.AlignLeft, tw.AlignLeft, tw.AlignLeft, tw.AlignLeft)
	records.Header("Resource", "Path", "Action", "Origin", "Details")
	rows := 0
	for _, l := range logs {
		if l == nil {
			continue
		}
		for _, rec := range r.visible(l) {
			if err := records.Append(l.Resource, rec.Path, string(rec.Action), rec.Origin.String(), details(rec)); err != nil {
				return err
			}
			rows++
		}
	}
	if rows == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(w)
	return records.Render()
}

func newTable(w io.Writer, align ...tw.Align) *tablewriter.Table {
	config := tablewriter.Config{}
	config.Header.Alignment = tw.CellAlignment{PerColumn: align}
	config.Row.Alignment = tw.CellAlignment{PerColumn: align}
	return tablewriter.NewTable(w, tablewriter.WithConfig(config))
}

// details returns the action specific part of a record.
func details(rec changelog.Record) string {
	switch rec.Action {
	case changelog.NameMismatchWarning:
		return fmt.Sprintf("expected %q defined %q", rec.Found, rec.Expected)
	case changelog.TypeMismatchWarning:
		return fmt.Sprintf("existing %s, defined %s", rec.Existing, rec.Defined)
	case changelog.UnresolvableReferenceWarning:
		return rec.Ref
	default:
		return rec.Message
	}
}

func itoa(n int) string {
	return fmt.Sprintf("%d", n)
}
