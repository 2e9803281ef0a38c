package migrate

import (
	"fmt"
	"time"
)

// Reason classifies what happened to one record.
type Reason string

const (
	// ReasonSkipped: the record already carries a non-empty fields list.
	ReasonSkipped Reason = "skipped"
	// ReasonConverted: the legacy field was turned into a one-element fields list.
	ReasonConverted Reason = "converted"
	// ReasonSuggested: fields were derived from title and description.
	ReasonSuggested Reason = "suggested"
	// ReasonUnmatched: no category matched; nothing was written.
	ReasonUnmatched Reason = "unmatched"
	// ReasonFailed: the record could not be decoded, validated or written.
	ReasonFailed Reason = "failed"
)

// Outcome is the result for one record.
type Outcome struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Reason Reason   `json:"reason"`
	Fields []string `json:"fields,omitempty"`
	Err    error    `json:"-"`
}

// Updated reports whether the record was (or, in a dry run, would be) written.
func (o Outcome) Updated() bool {
	return o.Reason == ReasonConverted || o.Reason == ReasonSuggested
}

// Report summarizes a migration run.
// Processed always equals Skipped + Updated + Unmatched + Failed, and
// Updated equals Converted + Suggested. A failed group commit counts every
// record of the group as failed; both stores roll a failed commit back
// completely, so the counts match what is stored.
type Report struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
	Unmatched int `json:"unmatched"`
	Failed    int `json:"failed"`
	Converted int `json:"converted"`
	Suggested int `json:"suggested"`

	DryRun   bool          `json:"dry_run"`
	Duration time.Duration `json:"duration"`
	// Outcomes is in delivery order.
	Outcomes []Outcome `json:"outcomes,omitempty"`
}

func (r *Report) record(o Outcome) {
	switch o.Reason {
	case ReasonSkipped:
		r.Skipped++
	case ReasonConverted:
		r.Updated++
		r.Converted++
	case ReasonSuggested:
		r.Updated++
		r.Suggested++
	case ReasonUnmatched:
		r.Unmatched++
	case ReasonFailed:
		r.Failed++
	}
}

// String returns the one-line summary printed at the end of a run.
func (r *Report) String() string {
	verb := "updated"
	if r.DryRun {
		verb = "would update"
	}
	return fmt.Sprintf("processed %d: %s %d (converted %d, suggested %d), skipped %d, unmatched %d, failed %d",
		r.Processed, verb, r.Updated, r.Converted, r.Suggested, r.Skipped, r.Unmatched, r.Failed)
}
