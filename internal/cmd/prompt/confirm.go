// Package prompt asks the user yes/no questions.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/agentstation/skaffolder"
	"github.com/agentstation/skaffolder/internal/cmd/application"
	"github.com/agentstation/skaffolder/pkg/changelog"
)

// Confirm writes question to out and reads the answer from in. Only "y"
// and "yes" confirm; anything else, including a read error, declines.
func Confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s (y/N): ", question)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// Removals returns a skaffolder.ConfirmFunc that lists the fields a merge
// removes and asks before the definition is written. It approves without
// asking when autoApprove is set or the streams are not interactive.
// Prompts of concurrent merges are asked one at a time.
func Removals(streams application.IOStreams, autoApprove bool) skaffolder.ConfirmFunc {
	var mu sync.Mutex
	return func(_ context.Context, outcome *skaffolder.Outcome) (bool, error) {
		if autoApprove || !streams.Interactive {
			return true, nil
		}

		mu.Lock()
		defer mu.Unlock()

		removed := outcome.Result.Log.Filter(changelog.Removed)
		fmt.Fprintf(streams.ErrOut, "\n%s: %d fields are no longer declared by any API version:\n", outcome.Resource, len(removed))
		for _, rec := range removed {
			fmt.Fprintf(streams.ErrOut, "  - %s\n", rec.Path)
		}
		if !Confirm(streams.In, streams.ErrOut, fmt.Sprintf("Write %s without them?", outcome.Path)) {
			fmt.Fprintln(streams.ErrOut, "Write cancelled")
			return false, nil
		}
		return true, nil
	}
}
