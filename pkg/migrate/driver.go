// Package migrate moves career records from the legacy single "field"
// attribute to the "fields" list.
//
// Records that already have fields are left alone, so a run can be repeated
// safely after a partial failure.
package migrate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/questvault/pkg/classifier"
	"github.com/aretw0/questvault/pkg/core"
	"github.com/aretw0/questvault/pkg/model"
	"github.com/aretw0/questvault/pkg/typed"
)

// Driver runs the migration against a repository. Records are processed
// strictly in order by a single goroutine.
type Driver struct {
	repo       core.Repository
	classifier *classifier.Classifier
	logger     *slog.Logger
	batchSize  int
	paceEvery  int
	paceDelay  time.Duration
	dryRun     bool
	strict     bool
	now        func() time.Time
	onOutcome  func(Outcome)
}

// New creates a driver over repo.
func New(repo core.Repository, opts ...Option) *Driver {
	d := &Driver{
		repo:       repo,
		classifier: classifier.New(nil),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		batchSize:  DefaultBatchSize,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Classifier returns the classifier used for suggestions.
func (d *Driver) Classifier() *classifier.Classifier {
	return d.classifier
}

// pending is a record waiting in the current commit group.
type pending struct {
	index   int
	doc     core.Document
	outcome Outcome
}

// run holds the state of one Migrate call.
type run struct {
	d        *Driver
	tx       core.Transactional
	report   *Report
	outcomes []Outcome
	group    []pending
}

// Run migrates every record of collection. Failing to read the collection
// is fatal and returned as a *core.DataAccessError.
func (d *Driver) Run(ctx context.Context, collection string) (*Report, error) {
	docs, err := d.repo.List(ctx, collection)
	if err != nil {
		d.logger.Error("failed to read collection snapshot", "collection", collection, "error", err)
		return nil, core.NewDataAccessError("list", collection, err)
	}
	d.logger.Info("migration started", "collection", collection, "records", len(docs), "dry_run", d.dryRun)
	return d.Migrate(ctx, docs)
}

// Migrate processes docs in order. Per-record failures are counted and logged;
// the only error returned is the context's, in which case the report covers
// the records handled before cancellation.
func (d *Driver) Migrate(ctx context.Context, docs []core.Document) (*Report, error) {
	start := time.Now()
	r := &run{
		d:        d,
		report:   &Report{DryRun: d.dryRun},
		outcomes: make([]Outcome, len(docs)),
	}
	if tx, ok := d.repo.(core.Transactional); ok && d.batchSize > 1 && !d.dryRun {
		r.tx = tx
	}

	var runErr error
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			runErr = err
			r.outcomes = r.outcomes[:i]
			break
		}

		r.report.Processed++
		r.process(ctx, i, doc)

		if len(r.group) >= d.batchSize {
			r.flush(ctx)
		}

		if d.paceEvery > 0 && d.paceDelay > 0 && r.report.Processed%d.paceEvery == 0 && i < len(docs)-1 {
			if err := lifecycle.Sleep(ctx, d.paceDelay); err != nil {
				runErr = err
				r.outcomes = r.outcomes[:i+1]
				break
			}
		}
	}
	// Records already staged are written even after cancellation so the
	// report matches the store.
	r.flush(context.WithoutCancel(ctx))

	r.report.Outcomes = r.outcomes
	r.report.Duration = time.Since(start)
	d.logger.Info("migration finished",
		"processed", r.report.Processed,
		"updated", r.report.Updated,
		"skipped", r.report.Skipped,
		"unmatched", r.report.Unmatched,
		"failed", r.report.Failed,
		"converted", r.report.Converted,
		"suggested", r.report.Suggested,
		"dry_run", d.dryRun,
		"duration", r.report.Duration,
	)
	return r.report, runErr
}

// Plan computes the outcome of one record without writing it.
// The returned document is the rewritten record for updated outcomes.
func (d *Driver) Plan(doc core.Document) (Outcome, core.Document) {
	out := Outcome{ID: doc.ID}

	career, err := typed.Decode[model.Career](doc)
	if err != nil {
		out.Reason = ReasonFailed
		out.Err = err
		return out, core.Document{}
	}
	out.Title = career.Data.Title

	if career.Data.HasFields() {
		out.Reason = ReasonSkipped
		out.Fields = career.Data.Fields
		return out, core.Document{}
	}

	if legacy := career.Data.LegacyField(); legacy != "" {
		if d.strict && !d.classifier.Taxonomy().Contains(legacy) {
			out.Reason = ReasonFailed
			out.Err = fmt.Errorf("%w: %q", core.ErrUnknownField, legacy)
			return out, core.Document{}
		}
		out.Reason = ReasonConverted
		out.Fields = []string{legacy}
	} else {
		out.Fields = d.classifier.Classify(career.Data.Title, career.Data.Description)
		if len(out.Fields) == 0 {
			out.Reason = ReasonUnmatched
			out.Fields = nil
			return out, core.Document{}
		}
		out.Reason = ReasonSuggested
	}

	now := d.now().UTC()
	career.Data.Fields = out.Fields
	career.Data.Field = nil
	career.Data.UpdatedAt = &now

	updated, err := typed.Encode(career)
	if err != nil {
		out.Reason = ReasonFailed
		out.Err = err
		return out, core.Document{}
	}
	return out, updated
}

func (r *run) process(ctx context.Context, index int, doc core.Document) {
	out, updated := r.d.Plan(doc)
	if !out.Updated() || r.d.dryRun {
		r.finish(index, out)
		return
	}

	if r.tx != nil {
		r.group = append(r.group, pending{index: index, doc: updated, outcome: out})
		return
	}

	wctx := context.WithValue(ctx, core.ChangeReasonKey, fmt.Sprintf("migrate: %s %s", out.Reason, doc.ID))
	if err := r.d.repo.Save(wctx, updated); err != nil {
		out = failed(out, core.NewDataAccessError("write", doc.ID, err))
	}
	r.finish(index, out)
}

// flush commits the current group. A failure marks every staged record failed.
func (r *run) flush(ctx context.Context) {
	if len(r.group) == 0 {
		return
	}
	group := r.group
	r.group = nil

	tx, err := r.tx.Begin(ctx)
	if err != nil {
		r.failGroup(group, core.NewDataAccessError("commit", "", err))
		return
	}

	staged := group[:0]
	for _, p := range group {
		if err := tx.Save(ctx, p.doc); err != nil {
			r.finish(p.index, failed(p.outcome, core.NewDataAccessError("write", p.doc.ID, err)))
			continue
		}
		staged = append(staged, p)
	}
	if len(staged) == 0 {
		_ = tx.Rollback(ctx)
		return
	}

	msg := fmt.Sprintf("migrate: move field to fields (%d records)", len(staged))
	if err := tx.Commit(ctx, msg); err != nil {
		_ = tx.Rollback(ctx)
		r.failGroup(staged, core.NewDataAccessError("commit", "", err))
		return
	}
	r.d.logger.Debug("commit group written", "records", len(staged))
	for _, p := range staged {
		r.finish(p.index, p.outcome)
	}
}

func (r *run) failGroup(group []pending, err error) {
	for _, p := range group {
		r.finish(p.index, failed(p.outcome, err))
	}
}

// finish records a final outcome, logs it and notifies the handler.
func (r *run) finish(index int, out Outcome) {
	r.outcomes[index] = out
	r.report.record(out)

	log := r.d.logger.With("id", out.ID, "title", out.Title)
	switch out.Reason {
	case ReasonSkipped:
		log.Debug("record skipped", "fields", out.Fields)
	case ReasonConverted, ReasonSuggested:
		log.Info("record updated", "reason", out.Reason, "fields", out.Fields, "dry_run", r.d.dryRun)
	case ReasonUnmatched:
		log.Warn("no field matched")
	case ReasonFailed:
		log.Error("record failed", "error", out.Err)
	}

	if r.d.onOutcome != nil {
		r.d.onOutcome(out)
	}
}

func failed(out Outcome, err error) Outcome {
	out.Reason = ReasonFailed
	out.Err = err
	return out
}
