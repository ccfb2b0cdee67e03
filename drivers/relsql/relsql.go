// Package relsql implements registry.Driver once for both relational
// backend tags (relational-sqlite, relational-postgres), parameterized by
// dialect, per spec.md §4.1 ("share the same SQL implementation but
// register under distinct tags"). The read/insert/scan shape is grounded
// on the teacher's legacy driver generation (drivers/sqlite/driver.go's
// RawInsert/RawFind/scanRows, drivers/postgresql/driver.go's DSN
// construction) rather than the newer ModelQuery builder surface, since
// the spec's contract is the simpler "read all rows, insert all rows" one.
package relsql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/riverstack/etlcore/catalog"
	"github.com/riverstack/etlcore/errtaxonomy"
	"github.com/riverstack/etlcore/frame"
	"github.com/riverstack/etlcore/logger"
	"github.com/riverstack/etlcore/registry"
	"github.com/riverstack/etlcore/utils"
)

func init() {
	registry.Register(catalog.RelationalSQLite, func() registry.Driver { return &Driver{dialect: SQLite} })
	registry.Register(catalog.RelationalPostgres, func() registry.Driver { return &Driver{dialect: Postgres} })
}

// Dialect selects the sql.DB driver name and placeholder style.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// Driver is registry.Driver's relational implementation. It holds no
// per-call mutable state: every method opens its own *sql.DB and closes it
// before returning, matching spec.md §4.1's "open a connection ... close
// the connection" contract.
type Driver struct {
	dialect Dialect
}

func (d *Driver) SupportsSync() bool { return false }

func (d *Driver) open(uri string) (*sql.DB, error) {
	switch d.dialect {
	case SQLite:
		dsn, err := sqliteDSN(uri)
		if err != nil {
			return nil, err
		}
		return sql.Open("sqlite3", dsn)
	case Postgres:
		dsn, err := postgresDSN(uri)
		if err != nil {
			return nil, err
		}
		return sql.Open("postgres", dsn)
	default:
		return nil, fmt.Errorf("relsql: unknown dialect %v", d.dialect)
	}
}

// Read fetches all rows of resource (spec.md §4.1 "read").
func (d *Driver) Read(ctx context.Context, uri, resource string) (*frame.Frame, error) {
	db, err := d.open(uri)
	if err != nil {
		return nil, &errtaxonomy.ExtractConnectionError{Detail: err.Error()}
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, &errtaxonomy.ExtractConnectionError{Detail: err.Error()}
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s", quoteIdent(d.dialect, resource)))
	if err != nil {
		return nil, &errtaxonomy.ExtractTableError{Detail: err.Error()}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &errtaxonomy.ExtractTableError{Detail: err.Error()}
	}

	maps, err := utils.ScanRowsToMaps(rows)
	if err != nil {
		return nil, &errtaxonomy.ExtractTableError{Detail: err.Error()}
	}

	logger.Debug("relsql: read %d rows from %s", len(maps), resource)
	return frame.FromRows(columns, maps), nil
}

// Create appends every row of df to resource, returning the inserted count
// (spec.md §4.1 "create"). The frame's own row index is disregarded, per
// spec: relational inserts never write a client-side index column.
func (d *Driver) Create(ctx context.Context, uri, resource string, df *frame.Frame) (int, error) {
	db, err := d.open(uri)
	if err != nil {
		return 0, &errtaxonomy.LoadConnectionError{Detail: err.Error()}
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return 0, &errtaxonomy.LoadConnectionError{Detail: err.Error()}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &errtaxonomy.LoadConnectionError{Detail: err.Error()}
	}

	inserted := 0
	for i := 0; i < df.NRows(); i++ {
		query, args := insertStatement(d.dialect, resource, df.Columns, df.Row(i))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			_ = tx.Rollback()
			return 0, &errtaxonomy.LoadTableError{Detail: err.Error()}
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, &errtaxonomy.LoadTableError{Detail: err.Error()}
	}

	logger.Debug("relsql: inserted %d rows into %s", inserted, resource)
	return inserted, nil
}

// Update is unimplemented for relational destinations (spec.md §9's
// resolution of the open question: restrict Sync to document-index
// destinations, and surface this as a classified error rather than a
// silent no-op so a misconfigured sync pipeline fails loudly).
func (d *Driver) Update(ctx context.Context, uri, resource string, df *frame.Frame) (int, error) {
	return 0, &errtaxonomy.LoadTableError{Detail: "update is not implemented for relational destinations"}
}

// Delete is unimplemented for relational destinations; see Update.
func (d *Driver) Delete(ctx context.Context, uri, resource string, ids []any) (int, error) {
	return 0, &errtaxonomy.LoadTableError{Detail: "delete is not implemented for relational destinations"}
}

func insertStatement(dialect Dialect, resource string, columns []string, row map[string]any) (string, []any) {
	args := make([]any, len(columns))
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		args[i] = row[col]
		if dialect == Postgres {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		} else {
			placeholders[i] = "?"
		}
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(dialect, resource), strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	return query, args
}

func quoteIdent(dialect Dialect, ident string) string {
	if dialect == Postgres {
		return fmt.Sprintf("%q", ident)
	}
	return ident
}
