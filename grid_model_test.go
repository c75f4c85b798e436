package main

import (
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridModel_NextRunColumn(t *testing.T) {
	clk := clock.NewFake()
	clk.Set(time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local))

	schema, err := NewTableSchema(VariantScheduled, "")
	require.NoError(t, err)
	snap, err := NewSnapshot([]Row{{
		"id": int64(1), "reminder": "Standup", "activated": true, "frequency": "daily",
		"hour_value": int64(9), "minute_value": int64(15),
	}}, "id", clk.Now())
	require.NoError(t, err)

	gm := NewGridModel(NewSchedulePreview(clk))
	gm.SetState(NewEditorState(schema, snap))

	cols := gm.Columns()
	require.Equal(t, nextRunColumn, cols[len(cols)-1])
	assert.Equal(t, "2024-03-02 09:15", gm.CellText(0, nextRunColumn))

	gm.SetSelection(0, len(cols)-1)
	assert.Equal(t, "Next Run (read-only)", gm.ColumnHint())

	// Unsaved edits feed the preview too.
	require.NoError(t, gm.State().SetValue(0, "hour_value", int64(11)))
	assert.Equal(t, "2024-03-01 11:15", gm.CellText(0, nextRunColumn))

	require.NoError(t, gm.State().ToggleDelete(0))
	assert.Equal(t, "", gm.CellText(0, nextRunColumn))
}

func TestGridModel_SelectionClampsToNewState(t *testing.T) {
	schema, err := NewTableSchema(VariantBasic, "")
	require.NoError(t, err)
	three, err := NewSnapshot([]Row{{"id": int64(1)}, {"id": int64(2)}, {"id": int64(3)}}, "id", time.Now())
	require.NoError(t, err)
	one, err := NewSnapshot([]Row{{"id": int64(1)}}, "id", time.Now())
	require.NoError(t, err)

	gm := NewGridModel(nil)
	gm.SetState(NewEditorState(schema, three))
	assert.Equal(t, 4, gm.ColCount())

	gm.MoveSelection(2, 10)
	assert.Equal(t, 2, gm.SelectedRow())
	assert.Equal(t, 3, gm.SelectedCol())

	gm.SetState(NewEditorState(schema, one))
	assert.Equal(t, 0, gm.SelectedRow())
	assert.Equal(t, "activated", gm.SelectedColumnName())
	assert.Equal(t, "Activated (Checkbox: Space toggles)", gm.ColumnHint())

	gm.SetSelection(0, 2)
	assert.Equal(t, "Reminder Date (DateTime)", gm.ColumnHint())
}

func TestGridModel_WidthsAreCachedUntilRefresh(t *testing.T) {
	schema, err := NewTableSchema(VariantBasic, "")
	require.NoError(t, err)
	snap, err := NewSnapshot([]Row{{"id": int64(1), "reminder": "short", "activated": true}}, "id", time.Now())
	require.NoError(t, err)

	gm := NewGridModel(nil)
	gm.SetState(NewEditorState(schema, snap))
	assert.Equal(t, minColumnWidth, gm.columnWidth("reminder"))

	require.NoError(t, gm.State().SetValue(0, "reminder", "a considerably longer reminder"))
	assert.Equal(t, minColumnWidth, gm.columnWidth("reminder"))

	gm.RefreshWidths()
	assert.Equal(t, 30, gm.columnWidth("reminder"))

	// Rendering measures afresh.
	require.NoError(t, gm.State().SetValue(0, "reminder", "tiny"))
	NewGridRenderer().RenderGrid(gm, "Edit Reminders", 80, 20, true)
	assert.Equal(t, minColumnWidth, gm.columnWidth("reminder"))
}
