// Package operator implements the five composable pipeline stages spec.md
// "Operators" names — Select, Join, Transform, Load, Sync — grounded on
// original_source/.../etl/operators.py, where each stage is a pandas
// DataFrame subclass built by __init__ side effect. Go has no DataFrame
// subclassing story, so each stage here is a plain function taking and
// returning a *frame.Frame, composed left-to-right by the job package the
// same way tasks.py chains `.pipe(...)` calls.
package operator

import (
	"context"
	"fmt"

	"github.com/riverstack/etlcore/aggregator"
	"github.com/riverstack/etlcore/catalog"
	"github.com/riverstack/etlcore/frame"
	"github.com/riverstack/etlcore/registry"
	"github.com/riverstack/etlcore/validator"
)

// Select reads every row of table from db, ignoring any incoming frame — it
// only ever seeds a pipeline (spec.md §4.4).
func Select(ctx context.Context, db catalog.Database, table string) (*frame.Frame, error) {
	driver, err := registry.Get(db.Type)
	if err != nil {
		return nil, fmt.Errorf("operator: select: %w", err)
	}
	return driver.Read(ctx, db.URI, table)
}

// Join attaches one nested column per relation onto df, grouped through each
// relation's junction table (spec.md §4.4). A no-op on an empty df. Reads of
// a (table, through_table) pair shared across relations are cached, since
// relations frequently point at the same junction/leaf tables.
func Join(ctx context.Context, df *frame.Frame, db catalog.Database, table string, relations []catalog.Relationship, idxCol string) (*frame.Frame, error) {
	if df.Empty() {
		return df, nil
	}

	driver, err := registry.Get(db.Type)
	if err != nil {
		return nil, fmt.Errorf("operator: join: %w", err)
	}

	cache := make(map[string]*frame.Frame, 2*len(relations))
	read := func(resource string) (*frame.Frame, error) {
		if f, ok := cache[resource]; ok {
			return f, nil
		}
		f, err := driver.Read(ctx, db.URI, resource)
		if err != nil {
			return nil, err
		}
		cache[resource] = f
		return f, nil
	}

	out := df.Clone()
	if err := out.SetIndex(idxCol); err != nil {
		return nil, fmt.Errorf("operator: join: %w", err)
	}

	for _, rel := range relations {
		leaf, err := read(rel.Table)
		if err != nil {
			return nil, err
		}
		through, err := read(rel.ThroughTable)
		if err != nil {
			return nil, err
		}
		nested, err := aggregator.BuildNestedColumn(through, leaf, rel, table, idxCol)
		if err != nil {
			return nil, err
		}
		out = out.AttachColumn(rel.RelatedName, nested)
	}
	return out, nil
}

// Transform validates and coerces every row of df against S(model,
// relations), producing a frame whose columns are the schema's output
// aliases (spec.md §4.4). A no-op on an empty df.
func Transform(df *frame.Frame, model catalog.Model, relations []catalog.Relationship) (*frame.Frame, error) {
	if df.Empty() {
		return df, nil
	}

	schema, err := validator.Build(model, relations)
	if err != nil {
		return nil, fmt.Errorf("operator: transform: %w", err)
	}

	cols := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		cols[i] = f.Alias
	}

	out := frame.New(cols)
	for i := 0; i < df.NRows(); i++ {
		validated, err := schema.ValidateRow(df.Row(i), df.Index[i])
		if err != nil {
			return nil, err
		}
		out.AppendRow(validated, df.Index[i])
	}
	return out, nil
}

// Load appends every row of df to table on db, returning the inserted
// count (spec.md §4.4). A no-op on an empty df.
func Load(ctx context.Context, df *frame.Frame, db catalog.Database, table string) (insertedRows int, err error) {
	if df.Empty() {
		return 0, nil
	}
	driver, err := registry.Get(db.Type)
	if err != nil {
		return 0, fmt.Errorf("operator: load: %w", err)
	}
	return driver.Create(ctx, db.URI, table, df)
}

// Sync reconciles table on db with sourceDF, a freshly computed source
// snapshot (spec.md §4.4). If df — the destination's own current snapshot —
// is empty, the whole of sourceDF is treated as an insert. Otherwise the two
// are diffed on idxCol against model's declared columns, and create/update/
// delete are dispatched for whichever parts of the diff are non-empty.
func Sync(ctx context.Context, df *frame.Frame, db catalog.Database, table, idxCol string, model catalog.Model, sourceDF *frame.Frame) (inserted, updated, deleted int, err error) {
	driver, err := registry.Get(db.Type)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("operator: sync: %w", err)
	}

	if df.Empty() {
		if sourceDF.Empty() {
			return 0, 0, 0, nil
		}
		n, err := driver.Create(ctx, db.URI, table, sourceDF)
		if err != nil {
			return 0, 0, 0, err
		}
		return n, 0, 0, nil
	}

	newRows, modifiedRows, deletedRows := aggregator.Diff(sourceDF, df, idxCol, model)

	if !newRows.Empty() {
		if inserted, err = driver.Create(ctx, db.URI, table, newRows); err != nil {
			return 0, 0, 0, err
		}
	}
	if !modifiedRows.Empty() {
		if updated, err = driver.Update(ctx, db.URI, table, modifiedRows); err != nil {
			return 0, 0, 0, err
		}
	}
	if !deletedRows.Empty() {
		if deleted, err = driver.Delete(ctx, db.URI, table, deletedRows.Index); err != nil {
			return 0, 0, 0, err
		}
	}
	return inserted, updated, deleted, nil
}
