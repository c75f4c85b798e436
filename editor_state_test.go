package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basicState(t *testing.T) *EditorState {
	t.Helper()
	schema, err := NewTableSchema(VariantBasic, "reminders")
	require.NoError(t, err)
	snap, err := NewSnapshot([]Row{
		{"id": int64(1), "reminder": "A", "reminder_date_arg_tz": nil, "activated": true},
		{"id": int64(2), "reminder": "B", "reminder_date_arg_tz": nil, "activated": false},
	}, "id", time.Now())
	require.NoError(t, err)
	return NewEditorState(schema, snap)
}

func TestNewSnapshot_RequiresKey(t *testing.T) {
	_, err := NewSnapshot([]Row{{"reminder": "no id"}}, "id", time.Now())
	require.Error(t, err)

	snap, err := NewSnapshot([]Row{{"id": int64(7)}}, "id", time.Now())
	require.NoError(t, err)
	id, err := snap.KeyAt(0)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	_, err = snap.KeyAt(1)
	require.ErrorIs(t, err, ErrRowOutOfRange)
}

func TestEditorState_EditTracksOnlyChangedCells(t *testing.T) {
	state := basicState(t)

	require.NoError(t, state.SetValue(1, "activated", true))
	assert.True(t, state.IsEdited(1, "activated"))
	assert.Equal(t, true, state.Value(1, "activated"))
	assert.Equal(t, false, state.Snapshot().Value(1, "activated"))

	// Putting the original value back removes the edit.
	require.NoError(t, state.SetValue(1, "activated", false))
	assert.False(t, state.IsEdited(1, "activated"))
	assert.True(t, state.Changes().IsEmpty())
}

func TestEditorState_RejectsReadOnlyAndUnknownColumns(t *testing.T) {
	state := basicState(t)

	require.ErrorIs(t, state.SetValue(0, "id", int64(99)), ErrReadOnlyColumn)
	require.ErrorIs(t, state.SetValue(0, "colour", "red"), ErrUnknownColumn)
	require.ErrorIs(t, state.SetValue(5, "reminder", "x"), ErrRowOutOfRange)
	assert.True(t, state.Changes().IsEmpty())
}

func TestEditorState_AddedRowsUseDefaults(t *testing.T) {
	state := basicState(t)

	row := state.AddRow()
	assert.Equal(t, 2, row)
	assert.Equal(t, 3, state.RowCount())
	assert.True(t, state.IsAdded(row))
	assert.Equal(t, true, state.Value(row, "activated"))
	assert.Nil(t, state.Value(row, "reminder"))

	require.NoError(t, state.SetValue(row, "reminder", "C"))
	assert.Equal(t, []Row{{"reminder": "C"}}, state.Changes().Added)
	assert.Equal(t, Row{"id": nil, "reminder": "C", "reminder_date_arg_tz": nil, "activated": true}, state.DisplayRow(row))
}

func TestEditorState_ToggleDelete(t *testing.T) {
	state := basicState(t)

	require.NoError(t, state.SetValue(0, "reminder", "A2"))
	require.NoError(t, state.ToggleDelete(0))
	assert.True(t, state.IsDeleted(0))
	// Pending edits on a deleted row are dropped.
	assert.False(t, state.IsEdited(0, "reminder"))
	require.Error(t, state.SetValue(0, "reminder", "A3"))

	require.NoError(t, state.ToggleDelete(0))
	assert.False(t, state.IsDeleted(0))
	assert.Equal(t, "A", state.Value(0, "reminder"))

	row := state.AddRow()
	require.NoError(t, state.ToggleDelete(row))
	assert.Equal(t, 2, state.RowCount())
	assert.True(t, state.Changes().IsEmpty())
}

func TestEditorState_StaleState(t *testing.T) {
	schema, err := NewTableSchema(VariantBasic, "reminders")
	require.NoError(t, err)

	state := NewStaleEditorState(schema, nil)
	assert.True(t, state.Stale())
	assert.Equal(t, 0, state.RowCount())
}

func TestChangeSet_CloneIsDeep(t *testing.T) {
	cs := NewChangeSet()
	cs.Edit(0, "reminder", "x")
	cs.Deleted[3] = struct{}{}
	cs.Added = append(cs.Added, Row{"reminder": "new"})

	clone := cs.Clone()
	cs.Edit(0, "reminder", "y")
	cs.Added[0]["reminder"] = "changed"
	delete(cs.Deleted, 3)

	val, ok := clone.EditedValue(0, "reminder")
	require.True(t, ok)
	assert.Equal(t, "x", val)
	assert.Equal(t, "new", clone.Added[0]["reminder"])
	assert.True(t, clone.IsDeleted(3))
}

func TestChangeSet_SummaryAndOrdering(t *testing.T) {
	cs := NewChangeSet()
	cs.Edit(4, "reminder", "x")
	cs.Edit(1, "reminder", "y")
	cs.Edit(1, "activated", true)
	cs.Deleted[9] = struct{}{}
	cs.Deleted[2] = struct{}{}

	assert.Equal(t, []int{1, 4}, cs.EditedIndices())
	assert.Equal(t, []int{2, 9}, cs.DeletedIndices())
	assert.Equal(t, "3 cell(s) edited, 2 row(s) deleted, 0 row(s) added", cs.Summary())

	cs.Unedit(4, "reminder")
	assert.Equal(t, []int{1}, cs.EditedIndices())
}

func TestEditorState_StaleRefusesChanges(t *testing.T) {
	schema, err := NewTableSchema(VariantBasic, "reminders")
	require.NoError(t, err)
	snap, err := NewSnapshot([]Row{{"id": int64(1), "reminder": "A", "activated": true}}, "id", time.Now())
	require.NoError(t, err)

	state := NewStaleEditorState(schema, snap)
	require.ErrorIs(t, state.SetValue(0, "reminder", "B"), ErrStaleSnapshot)
	require.ErrorIs(t, state.ToggleDelete(0), ErrStaleSnapshot)
	assert.True(t, state.Changes().IsEmpty())
}
