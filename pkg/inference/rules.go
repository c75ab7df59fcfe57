package inference

import (
	"regexp"
	"strings"
)

var (
	outputOnlyPattern = regexp.MustCompile(`(?i)(^\s*\[?output[ -]only\b|\[output[ -]only\]|\b(?:is|are)\s+output[ -]only\b)`)
	requiredPattern   = regexp.MustCompile(`(?i)(^\s*\[?required\]?\s*[.:]|\[required\]|\bthis field is required\b)`)
	deprecatedPattern = regexp.MustCompile(`(?i)\bdeprecated\b`)
	inputOnlyPattern  = regexp.MustCompile(`(?i)(@inputonly\b|^\s*\[?input[ -]only\b|\[input[ -]only\])`)
	sensitivePattern  = regexp.MustCompile(`(?i)(\bpassword\b|\bprivate key\b|\bclient secret\b|\bshared secret\b|\[sensitive\])`)
)

// OutputOnlyRule recognizes "Output only" markers.
type OutputOnlyRule struct{}

// Name implements Rule.
func (OutputOnlyRule) Name() string { return "output_only" }

// Apply implements Rule.
func (OutputOnlyRule) Apply(description string, attrs *Attributes) {
	if outputOnlyPattern.MatchString(description) {
		attrs.OutputOnly = true
	}
}

// RequiredRule recognizes "Required." and "This field is required".
type RequiredRule struct{}

// Name implements Rule.
func (RequiredRule) Name() string { return "required" }

// Apply implements Rule.
func (RequiredRule) Apply(description string, attrs *Attributes) {
	if requiredPattern.MatchString(description) {
		attrs.Required = true
	}
}

// DeprecatedRule recognizes deprecation notices.
type DeprecatedRule struct{}

// Name implements Rule.
func (DeprecatedRule) Name() string { return "deprecated" }

// Apply implements Rule.
func (DeprecatedRule) Apply(description string, attrs *Attributes) {
	if deprecatedPattern.MatchString(description) {
		attrs.Deprecated = true
	}
}

// InputOnlyRule recognizes fields the API never returns.
type InputOnlyRule struct{}

// Name implements Rule.
func (InputOnlyRule) Name() string { return "input_only" }

// Apply implements Rule.
func (InputOnlyRule) Apply(description string, attrs *Attributes) {
	if inputOnlyPattern.MatchString(description) {
		attrs.InputOnly = true
	}
}

// SensitiveRule recognizes secrets.
type SensitiveRule struct{}

// Name implements Rule.
func (SensitiveRule) Name() string { return "sensitive" }

// Apply implements Rule.
func (SensitiveRule) Apply(description string, attrs *Attributes) {
	if sensitivePattern.MatchString(description) {
		attrs.Sensitive = true
	}
}

var (
	enumLeadIn  = regexp.MustCompile(`(?i)(?:the\s+)?(?:possible|valid|allowed|supported|acceptable)\s+values\s+(?:are|include)\s*:?|must\s+be\s+one\s+of\s*:?|can\s+be\s+one\s+of\s*:?|one\s+of\s+the\s+following\s*:?`)
	enumToken   = regexp.MustCompile("\"([A-Za-z0-9_.:/-]+)\"|'([A-Za-z0-9_.:/-]+)'|`([A-Za-z0-9_.:/-]+)`|\\[([A-Za-z0-9_.:/, -]+)\\]")
	bulletStart = regexp.MustCompile(`^\s*[*-]\s+`)
)

// EnumValuesRule extracts a list of quoted, backticked or bracketed tokens
// following a lead-in phrase such as "Possible values are".
type EnumValuesRule struct{}

// Name implements Rule.
func (EnumValuesRule) Name() string { return "enum_values" }

// Apply implements Rule.
func (EnumValuesRule) Apply(description string, attrs *Attributes) {
	loc := enumLeadIn.FindStringIndex(description)
	if loc == nil {
		return
	}
	rest := description[loc[1]:]

	var tokens []string
	if isBulletBlock(rest) {
		tokens = bulletTokens(rest)
	} else {
		tokens = inlineTokens(sentence(rest))
	}

	seen := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		attrs.EnumValues = append(attrs.EnumValues, tok)
	}
}

func isBulletBlock(s string) bool {
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		return bulletStart.MatchString(line)
	}
	return false
}

// bulletTokens takes the first token of each bullet line. Indented lines
// continue the previous bullet; any other line ends the block.
func bulletTokens(s string) []string {
	var out []string
	started := false
	for _, line := range strings.Split(s, "\n") {
		switch {
		case strings.TrimSpace(line) == "":
			continue
		case bulletStart.MatchString(line):
			started = true
			if toks := inlineTokens(bulletStart.ReplaceAllString(line, "")); len(toks) > 0 {
				out = append(out, toks[0])
			}
		case started && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")):
			continue
		default:
			if started {
				return out
			}
		}
	}
	return out
}

// sentence cuts s at the first sentence end outside quotes, or at a blank line.
func sentence(s string) string {
	var quote rune
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '`':
			quote = r
		case r == '.':
			if i+1 >= len(s) || s[i+1] == ' ' || s[i+1] == '\n' {
				return s[:i]
			}
		case r == '\n':
			if i+1 < len(s) && s[i+1] == '\n' {
				return s[:i]
			}
		}
	}
	return s
}

func inlineTokens(s string) []string {
	var out []string
	for _, m := range enumToken.FindAllStringSubmatch(s, -1) {
		for _, g := range m[1:4] {
			if g != "" {
				out = append(out, g)
			}
		}
		if m[4] != "" {
			for _, part := range strings.Split(m[4], ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
		}
	}
	return out
}
