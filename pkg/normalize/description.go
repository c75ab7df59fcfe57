package normalize

import (
	"strings"

	"github.com/mitchellh/go-wordwrap"

	"github.com/agentstation/skaffolder/pkg/discovery"
)

// description renders the schema description wrapped at the configured
// width, followed by a block listing the documented enum values.
func (n *Normalizer) description(s *discovery.Schema) string {
	return FormatDescription(s, n.width)
}

// FormatDescription wraps s.Description at width and appends a
// "The possible values are:" block for described enum values.
func FormatDescription(s *discovery.Schema, width int) string {
	var sb strings.Builder
	if s.Description != "" {
		sb.WriteString(wrap(s.Description, width, 0))
	}

	if len(s.EnumDescriptions) == 0 {
		return sb.String()
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString("The possible values are:\n")
	for i, value := range s.Enum {
		if i >= len(s.EnumDescriptions) || s.EnumDescriptions[i] == "" {
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(wrap("* `"+value+"`: "+s.EnumDescriptions[i], width, len(value)+5))
		sb.WriteString("\n")
	}
	return sb.String()
}

// wrap word-wraps every line of text separately. Continuation lines are
// indented by indent spaces and wrapped narrower so they stay within width.
func wrap(text string, width, indent int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	out := make([]string, 0, len(lines))
	pad := strings.Repeat(" ", indent)
	limit := width - indent
	if limit < 20 {
		limit = 20
	}
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		wrapped := strings.Split(wordwrap.WrapString(line, uint(limit)), "\n")
		for i := range wrapped {
			if i > 0 {
				wrapped[i] = pad + wrapped[i]
			}
		}
		out = append(out, wrapped...)
	}
	return strings.Join(out, "\n")
}
