package aggregator

import (
	"fmt"

	"github.com/riverstack/etlcore/catalog"
	"github.com/riverstack/etlcore/frame"
)

// Diff computes the three-way row-level change set between a source and a
// destination snapshot (spec.md §4.2 "diff"): rows new to src, rows whose
// value tuple changed, and rows present in dest but gone from src. Per the
// Design Notes recommendation (spec.md §9 open question), both frames are
// compared using the model's declared column order, not whatever order
// either frame happens to carry — so a column reorder alone never reads as
// a row change.
func Diff(src, dest *frame.Frame, idxCol string, model catalog.Model) (newRows, modified, deleted *frame.Frame) {
	cols := modelColumnOrder(model)

	destSet := tupleSet(dest, cols)
	srcSet := tupleSet(src, cols)

	changes := src.Filter(func(row map[string]any, idx any) bool {
		return !destSet[tupleKey(row, cols)]
	})

	changedIdx := make(map[string]bool, changes.NRows())
	for _, idx := range changes.Index {
		changedIdx[fmt.Sprint(idx)] = true
	}

	// dest arrives indexed however its own pipeline left it (Sync's target
	// branch is only Select+Transform, so it never got re-indexed by
	// idx_col the way Join's source branch did). Work off a copy reindexed
	// by idx_col so the deleted frame's Index carries the identity value
	// Load/Delete needs, mirroring the original's explicit
	// `dest.set_index(idx_col, inplace=True, drop=False)`.
	destReindexed := dest.Clone()
	if err := destReindexed.SetIndex(idxCol); err == nil {
		dest = destReindexed
	}

	deleted = dest.Filter(func(row map[string]any, idx any) bool {
		if srcSet[tupleKey(row, cols)] {
			return false
		}
		return !changedIdx[fmt.Sprint(idx)]
	})

	if changes.Empty() {
		return changes, changes, deleted
	}

	destIdx := make(map[string]bool, dest.NRows())
	for i := 0; i < dest.NRows(); i++ {
		destIdx[fmt.Sprint(dest.Get(i, idxCol))] = true
	}

	newRows = changes.Filter(func(row map[string]any, idx any) bool {
		return !destIdx[fmt.Sprint(row[idxCol])]
	})
	modified = changes.Filter(func(row map[string]any, idx any) bool {
		return destIdx[fmt.Sprint(row[idxCol])]
	})
	return newRows, modified, deleted
}

func modelColumnOrder(model catalog.Model) []string {
	cols := make([]string, len(model.Columns))
	for i, c := range model.Columns {
		cols[i] = c.OutputName()
	}
	return cols
}

func tupleKey(row map[string]any, cols []string) string {
	return fmt.Sprint(tupleValues(row, cols))
}

func tupleValues(row map[string]any, cols []string) []any {
	vals := make([]any, len(cols))
	for i, c := range cols {
		vals[i] = row[c]
	}
	return vals
}

func tupleSet(f *frame.Frame, cols []string) map[string]bool {
	set := make(map[string]bool, f.NRows())
	for i := 0; i < f.NRows(); i++ {
		set[tupleKey(f.Row(i), cols)] = true
	}
	return set
}
