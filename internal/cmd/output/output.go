// Package output writes command results.
package output

import (
	"io"

	"github.com/agentstation/skaffolder/internal/cmd/application"
	"github.com/agentstation/skaffolder/pkg/changelog"
	"github.com/agentstation/skaffolder/pkg/report"
)

// Report renders logs in the format the application is configured with.
func Report(app application.Application, w io.Writer, logs ...*changelog.Log) error {
	format, err := report.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	return report.New(format, report.WithVerbose(app.Verbose())).Write(w, logs...)
}
