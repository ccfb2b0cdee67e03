// Package catalog holds the plain-data pipeline definitions the ETL engine
// reads per job: Database, Model, Column, Process and Relationship (spec
// section "DATA MODEL"). These are authored out-of-band by an external
// admin surface; the engine only ever reads them.
package catalog

import "fmt"

// DatabaseType is the backend-type tag a Database declares. It is also the
// key the driver registry is looked up by.
type DatabaseType string

const (
	RelationalSQLite   DatabaseType = "relational-sqlite"
	RelationalPostgres DatabaseType = "relational-postgres"
	DocumentIndex      DatabaseType = "document-index"
)

// ColType is the declared type of a catalog Column.
type ColType string

const (
	ColString   ColType = "str"
	ColInt      ColType = "int"
	ColFloat    ColType = "float"
	ColDate     ColType = "date"
	ColDateTime ColType = "datetime"
	ColUUID     ColType = "uuid"
)

// TimeInterval is the scheduling cadence a Process runs on. The scheduler
// that reads this enum is out of scope; the engine only reports it back.
type TimeInterval string

const (
	OneMinute  TimeInterval = "1 min"
	FiveMinute TimeInterval = "5 mins"
	OneHour    TimeInterval = "1 hour"
)

// ProcessStatus gates whether the external scheduler should invoke a Process.
type ProcessStatus string

const (
	StatusActive   ProcessStatus = "active"
	StatusDisabled ProcessStatus = "disabled"
)

// Database describes one storage backend a Process reads from or writes to.
type Database struct {
	Slug string       `yaml:"slug"`
	Type DatabaseType `yaml:"type"`
	URI  string       `yaml:"uri"`
}

// Column is one field of a Model. Default is the literal string form from
// the catalog: the sentinel "None" means null, `""`/`''` mean empty string,
// anything else is coerced to Type at validation time (validator package).
// Nil means "no default" (the field is required).
type Column struct {
	Name    string  `yaml:"name"`
	Type    ColType `yaml:"type"`
	Default *string `yaml:"default"`
	Alias   string  `yaml:"alias"`
}

// OutputName is the alias if set, else the column's own name — the key a
// validated row is produced under (spec "Validator" step 1).
func (c Column) OutputName() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name
}

// Describe renders a short human summary, e.g. "name: str DEFAULT ''" —
// grounded on the original Django admin's Column.__str__.
func (c Column) Describe() string {
	s := fmt.Sprintf("%s: %s", c.OutputName(), string(c.Type))
	s = fmt.Sprintf("%s%s", s, func() string {
		if c.Default == nil {
			return ""
		}
		return " DEFAULT " + *c.Default
	}())
	return s
}

// Model is a named, ordered schema: the unit the Validator builds a row
// schema from and the Aggregator projects nested columns against.
type Model struct {
	Title   string   `yaml:"title"`
	Columns []Column `yaml:"columns"`
}

// Column looks up a column by name, returning (col, true) or (zero, false).
func (m Model) Column(name string) (Column, bool) {
	for _, c := range m.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Relationship declares a one-to-many join from a parent row, through a
// junction table, to a leaf table, producing one nested column.
type Relationship struct {
	RelatedName  string `yaml:"related_name"`
	Table        string `yaml:"table"`
	ThroughTable string `yaml:"through_table"`
	Suffix       string `yaml:"suffix"`
	Flat         bool   `yaml:"flat"`
	Condition    string `yaml:"condition"`
	Model        Model  `yaml:"model"`
}

// FKSuffix returns the configured suffix, defaulting to "_id" per spec.
func (r Relationship) FKSuffix() string {
	if r.Suffix == "" {
		return "_id"
	}
	return r.Suffix
}

// Process is one pipeline: a binding of a source table, a target table, a
// validation Model, and the relationships to aggregate along the way.
type Process struct {
	ID            int64
	Slug          string         `yaml:"slug"`
	Source        Database       `yaml:"source"`
	Target        Database       `yaml:"target"`
	FromTable     string         `yaml:"from_table"`
	ToTable       string         `yaml:"to_table"`
	Model         Model          `yaml:"model"`
	IndexCol      string         `yaml:"index_col"`
	Sync          bool           `yaml:"sync"`
	TimeInterval  TimeInterval   `yaml:"time_interval"`
	Status        ProcessStatus  `yaml:"status"`
	Relationships []Relationship `yaml:"relationships"`
}

// IndexColumn returns the configured index column, defaulting to "id".
func (p Process) IndexColumn() string {
	if p.IndexCol == "" {
		return "id"
	}
	return p.IndexCol
}

// String renders the pipeline's unique identifier, matching the original's
// `Process.__str__` (used by job entrypoints in their return message).
func (p Process) String() string {
	return p.Slug
}

// Validate checks the structural invariants spec.md places on a Process that
// can be checked without reading the backends themselves (existence of
// source/target/model, that each Relationship names both its table and its
// through_table, and that a flat Relationship's model has exactly one
// column). The through_table's foreign-key column names are not checked
// here. Invariants that depend on actual
// table contents — e.g. "index_col must exist as a column in from_table" —
// are enforced at runtime by the operators that read those tables.
func (p Process) Validate() error {
	if p.Slug == "" {
		return fmt.Errorf("catalog: process slug cannot be empty")
	}
	if p.Source.Slug == "" {
		return fmt.Errorf("catalog: process %q has no source database", p.Slug)
	}
	if p.Target.Slug == "" {
		return fmt.Errorf("catalog: process %q has no target database", p.Slug)
	}
	if len(p.Model.Columns) == 0 {
		return fmt.Errorf("catalog: process %q model %q has no columns", p.Slug, p.Model.Title)
	}
	for _, rel := range p.Relationships {
		if rel.Table == "" || rel.ThroughTable == "" {
			return fmt.Errorf("catalog: process %q relationship %q missing table/through_table", p.Slug, rel.RelatedName)
		}
		if rel.Flat && len(rel.Model.Columns) != 1 {
			return fmt.Errorf("catalog: process %q relationship %q is flat but its model has %d columns, want 1",
				p.Slug, rel.RelatedName, len(rel.Model.Columns))
		}
	}
	return nil
}
