package merge

import (
	"fmt"
	"time"

	"github.com/agentstation/skaffolder/pkg/changelog"
	"github.com/agentstation/skaffolder/pkg/fields"
	"github.com/agentstation/skaffolder/pkg/provenance"
)

// Result represents the outcome of a merge.
type Result struct {
	// Core data
	Resource *fields.Resource
	Log      *changelog.Log

	// Provenance tracking, nil unless enabled
	Provenance provenance.Map

	// Metadata
	Metadata ResultMetadata
}

// ResultMetadata contains metadata about the merge.
type ResultMetadata struct {
	// StartTime when the merge started
	StartTime time.Time

	// EndTime when the merge completed
	EndTime time.Time

	// Duration of the merge
	Duration time.Duration

	// Sources that took part, "ga" and/or "beta"
	Sources []string

	// Filled lists resource metadata keys filled from a schema source
	Filled []string

	// Statistics about the merge
	Stats ResultStatistics
}

// ResultStatistics contains statistics about the merge.
type ResultStatistics struct {
	FieldsBefore int
	FieldsAfter  int
	Added        int
	Removed      int
	Updated      int
	Kept         int
	Warnings     int
}

// HasChanges returns true if the merged tree differs from the definition.
func (r *Result) HasChanges() bool {
	return len(r.Metadata.Filled) > 0 || (r.Log != nil && r.Log.HasChanges())
}

// HasWarnings returns true if any warning was recorded.
func (r *Result) HasWarnings() bool {
	return r.Log != nil && r.Log.HasWarnings()
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	s := r.Metadata.Stats
	if !r.HasChanges() && !r.HasWarnings() {
		return fmt.Sprintf("Merge of %s completed. No changes detected.", r.Log.Resource)
	}
	return fmt.Sprintf("Merge of %s completed. %d added, %d removed, %d updated, %d warnings.",
		r.Log.Resource, s.Added, s.Removed, s.Updated, s.Warnings)
}

func newResult(resource string) *Result {
	return &Result{
		Log: changelog.New(resource),
		Metadata: ResultMetadata{
			StartTime: time.Now(),
		},
	}
}

// finalize calculates duration and statistics.
func (r *Result) finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)

	sum := r.Log.Summary()
	r.Metadata.Stats.Added = sum.Added
	r.Metadata.Stats.Removed = sum.Removed
	r.Metadata.Stats.Updated = sum.Updated
	r.Metadata.Stats.Kept = sum.Kept
	r.Metadata.Stats.Warnings = sum.NameMismatches + sum.TypeMismatches + sum.Unresolvable
	r.Metadata.Stats.FieldsAfter = r.Resource.Count()
}
