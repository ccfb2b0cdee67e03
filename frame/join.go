package frame

import "fmt"

// LeftJoin merges other onto f by equality of f's leftKey column against
// other's rightKey column (pandas-style `pd.merge(..., how='left')`, the
// operation the Aggregator uses to join a junction table to its leaf
// table — spec "Aggregator" step 2). Unmatched left rows keep their own
// columns with other's columns filled nil. Matching is attempted with every
// matching right row (a fan-out join), matching pandas' default behavior
// when the right key is not unique. The result has a fresh positional
// index; key equality uses the same string-formatted comparison as
// IndexOf/Diff.
func (f *Frame) LeftJoin(other *Frame, leftKey, rightKey string) *Frame {
	cols := append([]string(nil), f.Columns...)
	for _, c := range other.Columns {
		cols = append(cols, c)
	}
	out := New(cols)

	rowNum := int64(0)
	for i := 0; i < f.NRows(); i++ {
		leftVal := fmt.Sprint(f.Get(i, leftKey))
		matched := false
		for j := 0; j < other.NRows(); j++ {
			if fmt.Sprint(other.Get(j, rightKey)) != leftVal {
				continue
			}
			matched = true
			row := f.Row(i)
			for k, v := range other.Row(j) {
				row[k] = v
			}
			out.AppendRow(row, rowNum)
			rowNum++
		}
		if !matched {
			row := f.Row(i)
			for _, c := range other.Columns {
				row[c] = nil
			}
			out.AppendRow(row, rowNum)
			rowNum++
		}
	}
	return out
}

// AttachColumn joins a single nested column (as produced by the Aggregator,
// indexed by the parent's foreign-key values) onto f by matching f's row
// index. Rows in f with no matching nested-frame entry get nil (Transform's
// validate_row later substitutes the field's configured default for a
// missing value).
func (f *Frame) AttachColumn(name string, nested *Frame) *Frame {
	out := f.Clone()
	out.Columns = append(out.Columns, name)
	values := make([]any, f.NRows())
	for i := 0; i < f.NRows(); i++ {
		if j, ok := nested.IndexOf(f.Index[i]); ok {
			values[i] = nested.Get(j, name)
		}
	}
	out.data[name] = values
	return out
}
