package relsql

import (
	"errors"
	"testing"

	"github.com/riverstack/etlcore/frame"
)

func newRowsFrame(t *testing.T, columns []string, rows []map[string]any) *frame.Frame {
	t.Helper()
	if columns == nil {
		columns = []string{}
	}
	return frame.FromRows(columns, rows)
}

func errAs(err error, target any) bool {
	return errors.As(err, target)
}
