package report

import (
	"fmt"
	"io"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/skaffolder/pkg/changelog"
)

func (r *Reporter) writeMarkdown(w io.Writer, logs []*changelog.Log) error {
	builder := md.NewMarkdown(w)
	builder.H1("Definition changes").LF()

	for _, l := range logs {
		if l == nil {
			continue
		}
		s := l.Summary()
		builder.H2(l.Resource).LF()
		builder.BulletList(
			fmt.Sprintf("Added: %d", s.Added),
			fmt.Sprintf("Removed: %d", s.Removed),
			fmt.Sprintf("Updated: %d", s.Updated),
			fmt.Sprintf("Warnings: %d", s.NameMismatches+s.TypeMismatches+s.Unresolvable),
		).LF()

		records := r.visible(l)
		if len(records) == 0 {
			builder.PlainText("No changes.").LF()
			continue
		}
		rows := make([][]string, 0, len(records))
		for _, rec := range records {
			rows = append(rows, []string{md.Code(rec.Path), string(rec.Action), rec.Origin.String(), details(rec)})
		}
		builder.Table(md.TableSet{
			Header: []string{"Path", "Action", "Origin", "Details"},
			Rows:   rows,
		}).LF()
	}

	return builder.Build()
}
