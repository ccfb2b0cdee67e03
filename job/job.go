// Package job implements the two scheduler entrypoints spec.md §4.5 names —
// TransferData and SyncData — each composing the operator package's stages
// for one pipeline invocation, grounded on
// original_source/.../etl/tasks.py's `transfer_data`/`sync_data` Celery
// tasks. Unlike the original, whose only audit trail is its return string,
// each entrypoint also returns a RunRecord recording which stage it reached
// (spec.md §4.5 names the run states; original_source/ never gives them a
// home of their own).
package job

import (
	"context"
	"fmt"

	"github.com/riverstack/etlcore/catalog"
	"github.com/riverstack/etlcore/errtaxonomy"
	"github.com/riverstack/etlcore/logger"
	"github.com/riverstack/etlcore/operator"
	"github.com/riverstack/etlcore/registry"
)

// RunState is one checkpoint in a pipeline invocation's progress.
type RunState string

const (
	StateLoaded         RunState = "LOADED"
	StateSelectedSource RunState = "SELECTED_SOURCE"
	StateJoined         RunState = "JOINED"
	StateTransformed    RunState = "TRANSFORMED"
	StateLoadedOK       RunState = "LOADED_OK"
	StateDiffed         RunState = "DIFFED"
	StateAppliedOK      RunState = "APPLIED_OK"
	StateFailed         RunState = "FAILED"
)

// RunRecord is the audit trail one TransferData or SyncData call produces:
// which pipeline ran, how far it got, and (on success) the row counters the
// original only ever surfaced as a formatted string.
type RunRecord struct {
	PipelineSlug string
	State        RunState
	Err          error
	InsertedRows int
	UpdatedRows  int
	DeletedRows  int
}

func (r *RunRecord) fail(err error) error {
	r.State = StateFailed
	r.Err = err
	return err
}

// TransferData runs Select → Join → Transform → Load for one pipeline
// (spec.md §4.5), returning the human-readable message
// "pipeline={slug}, loaded={n}" alongside the run's audit record.
func TransferData(ctx context.Context, store catalog.ProcessSource, pipelineID int64) (string, *RunRecord, error) {
	process, err := store.GetPipeline(pipelineID)
	if err != nil {
		return "", nil, err
	}
	rec := &RunRecord{PipelineSlug: process.Slug, State: StateLoaded}
	idxCol := process.IndexColumn()

	df, err := operator.Select(ctx, process.Source, process.FromTable)
	if err != nil {
		return "", rec, rec.fail(err)
	}
	rec.State = StateSelectedSource

	df, err = operator.Join(ctx, df, process.Source, process.FromTable, process.Relationships, idxCol)
	if err != nil {
		return "", rec, rec.fail(err)
	}
	rec.State = StateJoined

	df, err = operator.Transform(df, process.Model, process.Relationships)
	if err != nil {
		return "", rec, rec.fail(err)
	}
	rec.State = StateTransformed

	n, err := operator.Load(ctx, df, process.Target, process.ToTable)
	if err != nil {
		return "", rec, rec.fail(err)
	}
	rec.State = StateLoadedOK
	rec.InsertedRows = n

	msg := fmt.Sprintf("pipeline=%s, loaded=%d", process.Slug, n)
	logger.Info("%s", msg)
	return msg, rec, nil
}

// SyncData reconciles a pipeline's target with a freshly computed source
// snapshot (spec.md §4.5). The target is Selected+Transformed only (it is
// never Joined — a destination isn't relationship-aggregated against
// itself); the source runs the full Select→Join→Transform chain, matching
// tasks.py's asymmetric composition. Returns
// "pipeline={slug}, loaded={n_ins}, updated={n_upd}, deleted={n_del}".
func SyncData(ctx context.Context, store catalog.ProcessSource, pipelineID int64) (string, *RunRecord, error) {
	process, err := store.GetPipeline(pipelineID)
	if err != nil {
		return "", nil, err
	}
	rec := &RunRecord{PipelineSlug: process.Slug, State: StateLoaded}
	idxCol := process.IndexColumn()

	if !registry.SupportsSync(process.Target.Type) {
		err := &errtaxonomy.LoadTableError{
			Detail: fmt.Sprintf("backend type %q does not support sync (update/delete)", process.Target.Type),
		}
		return "", rec, rec.fail(err)
	}

	sourceDF, err := operator.Select(ctx, process.Source, process.FromTable)
	if err != nil {
		return "", rec, rec.fail(err)
	}
	rec.State = StateSelectedSource

	sourceDF, err = operator.Join(ctx, sourceDF, process.Source, process.FromTable, process.Relationships, idxCol)
	if err != nil {
		return "", rec, rec.fail(err)
	}
	rec.State = StateJoined

	sourceDF, err = operator.Transform(sourceDF, process.Model, process.Relationships)
	if err != nil {
		return "", rec, rec.fail(err)
	}
	rec.State = StateTransformed

	targetDF, err := operator.Select(ctx, process.Target, process.ToTable)
	if err != nil {
		return "", rec, rec.fail(err)
	}

	targetDF, err = operator.Transform(targetDF, process.Model, process.Relationships)
	if err != nil {
		return "", rec, rec.fail(err)
	}

	rec.State = StateDiffed
	inserted, updated, deleted, err := operator.Sync(ctx, targetDF, process.Target, process.ToTable, idxCol, process.Model, sourceDF)
	if err != nil {
		return "", rec, rec.fail(err)
	}
	rec.State = StateAppliedOK
	rec.InsertedRows, rec.UpdatedRows, rec.DeletedRows = inserted, updated, deleted

	msg := fmt.Sprintf("pipeline=%s, loaded=%d, updated=%d, deleted=%d", process.Slug, inserted, updated, deleted)
	logger.Info("%s", msg)
	return msg, rec, nil
}
