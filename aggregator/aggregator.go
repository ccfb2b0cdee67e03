// Package aggregator builds one nested relationship column from a junction
// table and its leaf table, and computes the three-way diff a Sync pipeline
// needs (spec.md "Aggregator"). Both are grounded on
// original_source/.../etl/aggregation.py's `Aggregation.get_column` and
// `get_data_changes` — a pandas `merge`+`query`+`groupby` pipeline and a
// set-difference over row tuples, respectively — reimplemented against
// frame.Frame, the purpose-built replacement for a pandas DataFrame.
package aggregator

import (
	"fmt"

	"github.com/riverstack/etlcore/catalog"
	"github.com/riverstack/etlcore/condition"
	"github.com/riverstack/etlcore/frame"
)

// BuildNestedColumn implements spec.md "Aggregator" step: join the
// junction (through) table to the leaf table on
// `rel.Table+rel.FKSuffix() == idxCol`, apply rel.Condition as a row
// filter, group by the parent's foreign key column
// (`parentTable+rel.FKSuffix()`), and aggregate each group's leaf-model
// columns into either a flat scalar list or a list of records. Returns a
// one-column frame named rel.RelatedName, indexed by the parent FK value —
// ready for Frame.AttachColumn.
func BuildNestedColumn(through, leaf *frame.Frame, rel catalog.Relationship, parentTable, idxCol string) (*frame.Frame, error) {
	joined := through.DropColumn(idxCol).LeftJoin(leaf, rel.Table+rel.FKSuffix(), idxCol)

	var filter condition.Expr
	if rel.Condition != "" {
		expr, err := condition.Parse(rel.Condition)
		if err != nil {
			return nil, fmt.Errorf("aggregator: parsing condition for relationship %q: %w", rel.RelatedName, err)
		}
		filter = expr
	}

	groupKeyCol := parentTable + rel.FKSuffix()
	modelCols := make([]string, len(rel.Model.Columns))
	for i, c := range rel.Model.Columns {
		modelCols[i] = c.Name
	}

	var order []any
	groups := make(map[string][]any)

	for i := 0; i < joined.NRows(); i++ {
		row := joined.Row(i)

		if filter != nil {
			ok, err := filter.Eval(row)
			if err != nil {
				return nil, fmt.Errorf("aggregator: evaluating condition for relationship %q: %w", rel.RelatedName, err)
			}
			if !ok {
				continue
			}
		}

		groupKey := row[groupKeyCol]
		keyStr := fmt.Sprint(groupKey)
		if _, seen := groups[keyStr]; !seen {
			order = append(order, groupKey)
		}

		if rel.Flat {
			groups[keyStr] = append(groups[keyStr], row[modelCols[0]])
		} else {
			record := make(map[string]any, len(modelCols))
			for _, c := range modelCols {
				record[c] = row[c]
			}
			groups[keyStr] = append(groups[keyStr], record)
		}
	}

	out := frame.New([]string{rel.RelatedName})
	for _, key := range order {
		keyStr := fmt.Sprint(key)
		items := groups[keyStr]
		if items == nil {
			items = []any{}
		}
		out.AppendRow(map[string]any{rel.RelatedName: items}, key)
	}
	return out, nil
}
