// Package mismatch detects schema field names that look like a differently
// spelled definition field. Detection only reports; it never renames.
package mismatch

import (
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"github.com/jinzhu/inflection"

	"github.com/agentstation/skaffolder/pkg/constants"
)

// Warning reports a near miss between a schema name and a definition name.
type Warning struct {
	// Expected is the name already present in the definition.
	Expected string
	// Found is the name declared by the schema.
	Found      string
	Similarity float64
}

// Detector compares names with a fixed threshold.
type Detector struct {
	threshold   float64
	minContains int
}

// Option configures a Detector.
type Option func(*Detector)

// WithThreshold overrides the similarity threshold.
func WithThreshold(t float64) Option {
	return func(d *Detector) {
		d.threshold = t
	}
}

// New creates a detector using constants.MismatchThreshold.
func New(opts ...Option) *Detector {
	d := &Detector{
		threshold:   constants.MismatchThreshold,
		minContains: 4,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Threshold returns the configured threshold.
func (d *Detector) Threshold() float64 {
	return d.threshold
}

// Detect compares schemaName with the definition names at the same parent.
// An exact match is never a mismatch. The most similar candidate at or above
// the threshold is reported; ties go to the earlier candidate.
func (d *Detector) Detect(schemaName string, definitionNames []string) (Warning, bool) {
	var best Warning
	found := false
	for _, name := range definitionNames {
		if name == schemaName {
			return Warning{}, false
		}
		s := d.Similarity(schemaName, name)
		if s < d.threshold {
			continue
		}
		if !found || s > best.Similarity {
			best = Warning{Expected: name, Found: schemaName, Similarity: s}
			found = true
		}
	}
	return best, found
}

// Similarity scores two names between 0 and 1 after normalization.
func (d *Detector) Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	switch {
	case na == nb:
		return 1
	case len(na) >= d.minContains && len(nb) >= d.minContains &&
		(strings.Contains(na, nb) || strings.Contains(nb, na)):
		return 0.9
	default:
		return levenshtein.Similarity(na, nb, nil)
	}
}

var (
	noisePrefixes = map[string]bool{"is": true, "has": true, "enable": true}
	noiseSuffixes = map[string]bool{
		"config": true, "configs": true, "configuration": true,
		"ref": true, "refs": true,
		"id": true, "ids": true,
		"name": true, "uri": true, "url": true,
	}
)

// Normalize lowercases name, drops noise words at either end and
// singularizes the last remaining word.
func Normalize(name string) string {
	words := splitWords(name)
	for len(words) > 1 && noisePrefixes[words[0]] {
		words = words[1:]
	}
	for len(words) > 1 && noiseSuffixes[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	if n := len(words); n > 0 {
		words[n-1] = inflection.Singular(words[n-1])
	}
	return strings.Join(words, "")
}

// splitWords splits camelCase, PascalCase and snake_case into lowercase words.
func splitWords(s string) []string {
	var words []string
	var cur []rune
	runes := []rune(s)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == '.' || unicode.IsSpace(r):
			flush()
			continue
		case unicode.IsUpper(r) && i > 0:
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}
