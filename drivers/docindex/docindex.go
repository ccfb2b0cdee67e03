// Package docindex implements registry.Driver for the document-index
// backend tag (spec.md §4.1), using MongoDB as the pack's only
// document-oriented client — standing in for the original's Elasticsearch
// bulk-index/scan/delete-by-terms-query (original_source/.../etl/crud.py),
// grounded on the teacher's MongoDB connect/client lifecycle
// (drivers/mongodb/driver.go's Connect/Close via mongo.Connect/Disconnect).
package docindex

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/riverstack/etlcore/catalog"
	"github.com/riverstack/etlcore/errtaxonomy"
	"github.com/riverstack/etlcore/frame"
	"github.com/riverstack/etlcore/logger"
	"github.com/riverstack/etlcore/registry"
)

func init() {
	registry.Register(catalog.DocumentIndex, func() registry.Driver { return &Driver{} })
}

// Driver is registry.Driver's document-index implementation. Every method
// connects, does its operation, and disconnects, so no per-call mutable
// state is held (spec.md §5 "Shared resources").
type Driver struct{}

func (d *Driver) SupportsSync() bool { return true }

func (d *Driver) connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}

func database(client *mongo.Client, uri string) *mongo.Database {
	return client.Database(databaseName(uri))
}

// Read fetches every document of resource via a full collection scan
// (spec.md §4.1 "read"), using each document's own fields as frame columns
// and its "_id" as the frame's row index.
func (d *Driver) Read(ctx context.Context, uri, resource string) (*frame.Frame, error) {
	client, err := d.connect(ctx, uri)
	if err != nil {
		return nil, &errtaxonomy.ExtractConnectionError{Detail: err.Error()}
	}
	defer client.Disconnect(ctx)

	coll := database(client, uri).Collection(resource)
	cur, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, &errtaxonomy.ExtractTableError{Detail: err.Error()}
	}
	defer cur.Close(ctx)

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, &errtaxonomy.ExtractTableError{Detail: err.Error()}
	}

	columns := collectColumns(docs)
	rows := make([]map[string]any, len(docs))
	for i, doc := range docs {
		row := make(map[string]any, len(columns))
		for _, c := range columns {
			row[c] = doc[c]
		}
		rows[i] = row
	}

	out := frame.FromRows(columns, rows)
	for i, doc := range docs {
		if id, ok := doc["_id"]; ok {
			out.Index[i] = fmt.Sprint(id)
		}
	}
	logger.Debug("docindex: read %d documents from %s", len(docs), resource)
	return out, nil
}

// Create upserts every row of df as one document keyed by the frame's
// row-index value, in a single BulkWrite (spec.md §4.1 "create"). No
// separate refresh step is issued after the write.
func (d *Driver) Create(ctx context.Context, uri, resource string, df *frame.Frame) (int, error) {
	return d.bulkUpsert(ctx, uri, resource, df)
}

// Update is identical to Create: upsert-by-"_id" (spec.md §4.1 "update").
func (d *Driver) Update(ctx context.Context, uri, resource string, df *frame.Frame) (int, error) {
	return d.bulkUpsert(ctx, uri, resource, df)
}

func (d *Driver) bulkUpsert(ctx context.Context, uri, resource string, df *frame.Frame) (int, error) {
	if df.Empty() {
		return 0, nil
	}

	client, err := d.connect(ctx, uri)
	if err != nil {
		return 0, &errtaxonomy.LoadConnectionError{Detail: err.Error()}
	}
	defer client.Disconnect(ctx)

	coll := database(client, uri).Collection(resource)

	models := make([]mongo.WriteModel, df.NRows())
	for i := 0; i < df.NRows(); i++ {
		doc := bson.M{}
		for k, v := range df.Row(i) {
			doc[k] = v
		}
		id := df.Index[i]
		doc["_id"] = id
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": id}).
			SetReplacement(doc).
			SetUpsert(true)
	}

	result, err := coll.BulkWrite(ctx, models)
	if err != nil {
		return 0, &errtaxonomy.LoadTableError{Detail: err.Error()}
	}

	n := int(result.InsertedCount + result.UpsertedCount + result.ModifiedCount)
	logger.Debug("docindex: upserted %d documents into %s", n, resource)
	return n, nil
}

// Delete removes documents whose "_id" appears in ids (spec.md §4.1
// "delete": "delete by the set of row-index values").
func (d *Driver) Delete(ctx context.Context, uri, resource string, ids []any) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	client, err := d.connect(ctx, uri)
	if err != nil {
		return 0, &errtaxonomy.LoadConnectionError{Detail: err.Error()}
	}
	defer client.Disconnect(ctx)

	coll := database(client, uri).Collection(resource)
	result, err := coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, &errtaxonomy.LoadTableError{Detail: err.Error()}
	}

	logger.Debug("docindex: deleted %d documents from %s", result.DeletedCount, resource)
	return int(result.DeletedCount), nil
}

func collectColumns(docs []bson.M) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, doc := range docs {
		for k := range doc {
			if k == "_id" || seen[k] {
				continue
			}
			seen[k] = true
			columns = append(columns, k)
		}
	}
	return columns
}
