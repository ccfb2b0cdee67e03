// Package validator builds a dynamic row schema from a catalog Model and its
// Relationships, then validates and coerces rows against it (spec.md
// "Validator"). The original implementation (original_source/.../etl/
// validation.py) builds a pydantic model at runtime via reflection
// (`pydantic.create_model`); Go has no equivalent dynamic-type facility, so
// per the Design Notes this represents the schema as a plain value — an
// ordered []FieldSpec — and ValidateRow is a table-driven coercion pass
// over it, in the same "plain struct + methods" shape as the teacher's
// schema.Schema (schema/schema.go).
package validator

import (
	"fmt"

	"github.com/riverstack/etlcore/catalog"
	"github.com/riverstack/etlcore/errtaxonomy"
)

// fieldDefault captures how a field's default was authored, mirroring the
// three cases spec.md §3 calls out for Column.Default: absent (field
// required), the "None" sentinel (nullable, null default), or a literal to
// coerce at substitution time.
type fieldDefault struct {
	present bool
	isNull  bool
	literal string // used when present && !isNull; the empty-string sentinel ("" / '') is just literal=""
}

// FieldSpec is one field of a dynamic row Schema.
type FieldSpec struct {
	Name    string // catalog column / relationship name (input key)
	Alias   string // output key
	Type    catalog.ColType
	Default fieldDefault

	// Relationship fields only:
	IsList  bool
	Flat    bool            // list<scalar> vs list<record>
	ElemTyp catalog.ColType // scalar element type when Flat
	Nested  *Schema         // nested row schema when !Flat
}

// Schema is a dynamically built row validator — the runtime analogue of the
// original's pydantic model (spec.md §4.2).
type Schema struct {
	Fields []FieldSpec
}

// Build constructs S(model, relations) per spec.md §4.2.
func Build(model catalog.Model, relations []catalog.Relationship) (*Schema, error) {
	s := &Schema{}

	for _, col := range model.Columns {
		s.Fields = append(s.Fields, FieldSpec{
			Name:    col.Name,
			Alias:   col.OutputName(),
			Type:    col.Type,
			Default: parseDefault(col.Default),
		})
	}

	for _, rel := range relations {
		field := FieldSpec{
			Name:    rel.RelatedName,
			Alias:   rel.RelatedName,
			IsList:  true,
			Default: fieldDefault{present: true}, // default=[] always, per spec
		}
		if rel.Flat {
			if len(rel.Model.Columns) != 1 {
				return nil, fmt.Errorf("validator: relationship %q is flat but its model has %d columns, want 1",
					rel.RelatedName, len(rel.Model.Columns))
			}
			field.Flat = true
			field.ElemTyp = rel.Model.Columns[0].Type
		} else {
			nested, err := Build(rel.Model, nil)
			if err != nil {
				return nil, fmt.Errorf("validator: building nested schema for relationship %q: %w", rel.RelatedName, err)
			}
			field.Nested = nested
		}
		s.Fields = append(s.Fields, field)
	}

	return s, nil
}

func parseDefault(d *string) fieldDefault {
	if d == nil {
		return fieldDefault{present: false}
	}
	switch *d {
	case "None":
		return fieldDefault{present: true, isNull: true}
	case `""`, "''":
		return fieldDefault{present: true, literal: ""}
	default:
		return fieldDefault{present: true, literal: *d}
	}
}

// isMissing reports whether a raw incoming value should be treated as
// absent — spec's "missing/NaN-equivalent" — for default substitution.
func isMissing(v any) bool {
	if v == nil {
		return true
	}
	if f, ok := v.(float64); ok && f != f { // NaN
		return true
	}
	return false
}

// ValidateRow validates and coerces one row, keyed by input field/relation
// names, and returns it keyed by output alias (spec.md §4.2). idx is the
// frame's index value for this row, used verbatim in TransformError.
func (s *Schema) ValidateRow(row map[string]any, idx any) (map[string]any, error) {
	out := make(map[string]any, len(s.Fields))

	for _, f := range s.Fields {
		val, present := row[f.Name]
		missing := !present || isMissing(val)

		if f.IsList {
			coerced, err := validateListField(f, val, missing, idx)
			if err != nil {
				return nil, err
			}
			out[f.Alias] = coerced
			continue
		}

		if missing {
			if !f.Default.present {
				return nil, &errtaxonomy.TransformError{
					Column:  f.Name,
					Message: "field is required",
					Index:   fmt.Sprint(idx),
				}
			}
			if f.Default.isNull {
				out[f.Alias] = nil
				continue
			}
			val = f.Default.literal
		}

		coerced, err := coerceScalar(val, f.Type)
		if err != nil {
			return nil, &errtaxonomy.TransformError{
				Column:  f.Name,
				Message: err.Error(),
				Index:   fmt.Sprint(idx),
			}
		}
		out[f.Alias] = coerced
	}

	return out, nil
}

func validateListField(f FieldSpec, val any, missing bool, idx any) (any, error) {
	if missing {
		return []any{}, nil
	}

	items, ok := val.([]any)
	if !ok {
		return nil, &errtaxonomy.TransformError{
			Column:  f.Name,
			Message: fmt.Sprintf("expected a list, got %T", val),
			Index:   fmt.Sprint(idx),
		}
	}

	out := make([]any, len(items))
	for i, item := range items {
		if f.Flat {
			coerced, err := coerceScalar(item, f.ElemTyp)
			if err != nil {
				return nil, &errtaxonomy.TransformError{
					Column:  f.Name,
					Message: err.Error(),
					Index:   fmt.Sprint(idx),
				}
			}
			out[i] = coerced
			continue
		}

		nestedRow, ok := item.(map[string]any)
		if !ok {
			return nil, &errtaxonomy.TransformError{
				Column:  f.Name,
				Message: fmt.Sprintf("expected a record, got %T", item),
				Index:   fmt.Sprint(idx),
			}
		}
		validated, err := f.Nested.ValidateRow(nestedRow, idx)
		if err != nil {
			return nil, err
		}
		out[i] = validated
	}
	return out, nil
}
