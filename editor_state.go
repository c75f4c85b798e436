package main

import (
	"errors"
	"fmt"
	"time"
)

var ErrStaleSnapshot = errors.New("snapshot is out of date, reload first (Ctrl+R)")

// EditorState is everything one editing session knows about the table: the
// snapshot, the pending change set, and whether the snapshot is known to be
// out of date. It is replaced wholesale after a save, never refreshed in
// place.
type EditorState struct {
	schema   *TableSchema
	snapshot *Snapshot
	changes  *ChangeSet
	stale    bool
}

func NewEditorState(schema *TableSchema, snapshot *Snapshot) *EditorState {
	if snapshot == nil {
		snapshot = &Snapshot{}
	}
	return &EditorState{
		schema:   schema,
		snapshot: snapshot,
		changes:  NewChangeSet(),
	}
}

// NewStaleEditorState is used when a save committed but the reload that
// should follow it failed. The old snapshot no longer matches the table.
func NewStaleEditorState(schema *TableSchema, snapshot *Snapshot) *EditorState {
	es := NewEditorState(schema, snapshot)
	es.stale = true
	return es
}

func (es *EditorState) Schema() *TableSchema {
	return es.schema
}

func (es *EditorState) Snapshot() *Snapshot {
	return es.snapshot
}

func (es *EditorState) Changes() *ChangeSet {
	return es.changes
}

func (es *EditorState) Stale() bool {
	return es.stale
}

func (es *EditorState) RowCount() int {
	return es.snapshot.Len() + len(es.changes.Added)
}

func (es *EditorState) IsAdded(row int) bool {
	return row >= es.snapshot.Len() && row < es.RowCount()
}

func (es *EditorState) IsDeleted(row int) bool {
	return row < es.snapshot.Len() && es.changes.IsDeleted(row)
}

func (es *EditorState) IsEdited(row int, column string) bool {
	if es.IsAdded(row) {
		_, ok := es.changes.Added[row-es.snapshot.Len()][column]
		return ok
	}
	_, ok := es.changes.EditedValue(row, column)
	return ok
}

// Value returns what the grid shows for a cell: the pending edit if any,
// otherwise the snapshot value, or the column default for added rows.
func (es *EditorState) Value(row int, column string) interface{} {
	if es.IsAdded(row) {
		added := es.changes.Added[row-es.snapshot.Len()]
		if val, ok := added[column]; ok {
			return val
		}
		col, _ := es.schema.Column(column)
		return col.Default
	}
	if val, ok := es.changes.EditedValue(row, column); ok {
		return val
	}
	return es.snapshot.Value(row, column)
}

// DisplayRow assembles the full row as currently shown.
func (es *EditorState) DisplayRow(row int) Row {
	out := make(Row, len(es.schema.Columns))
	for _, col := range es.schema.Columns {
		out[col.Name] = es.Value(row, col.Name)
	}
	return out
}

func (es *EditorState) SetValue(row int, column string, value interface{}) error {
	if es.stale {
		return ErrStaleSnapshot
	}
	if row < 0 || row >= es.RowCount() {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	if _, err := es.schema.WritableColumn(column); err != nil {
		return err
	}

	if es.IsAdded(row) {
		es.changes.Added[row-es.snapshot.Len()][column] = value
		return nil
	}
	if es.changes.IsDeleted(row) {
		return fmt.Errorf("row %d is marked for deletion", row+1)
	}

	if valuesEqual(es.snapshot.Value(row, column), value) {
		es.changes.Unedit(row, column)
		return nil
	}
	es.changes.Edit(row, column, value)
	return nil
}

// AddRow appends an empty added row and returns its grid index.
func (es *EditorState) AddRow() int {
	es.changes.Added = append(es.changes.Added, make(Row))
	return es.RowCount() - 1
}

// ToggleDelete marks or unmarks a snapshot row for deletion. Added rows are
// simply dropped.
func (es *EditorState) ToggleDelete(row int) error {
	if es.stale {
		return ErrStaleSnapshot
	}
	if row < 0 || row >= es.RowCount() {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}

	if es.IsAdded(row) {
		i := row - es.snapshot.Len()
		es.changes.Added = append(es.changes.Added[:i], es.changes.Added[i+1:]...)
		return nil
	}

	if es.changes.IsDeleted(row) {
		delete(es.changes.Deleted, row)
		return nil
	}
	es.changes.Deleted[row] = struct{}{}
	delete(es.changes.Edited, row)
	return nil
}

func valuesEqual(a, b interface{}) bool {
	ta, aIsTime := a.(time.Time)
	tb, bIsTime := b.(time.Time)
	if aIsTime || bIsTime {
		return aIsTime && bIsTime && ta.Equal(tb)
	}
	return a == b
}
