package main

import "strings"

const (
	minColumnWidth = 8
	maxColumnWidth = 30
)

var nextRunColumnDef = Column{Name: nextRunColumn, Label: "Next Run", Kind: KindTimestamp, ReadOnly: true}

// GridModel is the cursor and viewport over an EditorState.
type GridModel struct {
	state         *EditorState
	preview       *SchedulePreview
	columns       []string
	widths        map[string]int
	rowOffset     int
	colOffset     int
	viewportRows  int
	viewportWidth int
	selectedRow   int
	selectedCol   int
}

// NewGridModel takes an optional schedule preview; with one, a derived
// next-run column is appended after the table columns.
func NewGridModel(preview *SchedulePreview) *GridModel {
	return &GridModel{
		preview:       preview,
		viewportRows:  10,
		viewportWidth: 80,
	}
}

// SetState swaps in a new editor state and keeps the cursor where it was,
// clamped to the new bounds.
func (gm *GridModel) SetState(state *EditorState) {
	gm.state = state
	gm.columns = gm.buildColumns()
	gm.RefreshWidths()
	gm.SetSelection(gm.selectedRow, gm.selectedCol)
}

func (gm *GridModel) State() *EditorState {
	return gm.state
}

func (gm *GridModel) HasState() bool {
	return gm.state != nil
}

func (gm *GridModel) buildColumns() []string {
	if gm.state == nil {
		return nil
	}
	columns := gm.state.Schema().ColumnNames()
	if gm.preview != nil && gm.state.Schema().Variant == VariantScheduled {
		columns = append(columns, nextRunColumn)
	}
	return columns
}

func (gm *GridModel) Columns() []string {
	return gm.columns
}

func (gm *GridModel) Column(name string) (Column, bool) {
	if name == nextRunColumn {
		return nextRunColumnDef, true
	}
	if gm.state == nil {
		return Column{}, false
	}
	return gm.state.Schema().Column(name)
}

func (gm *GridModel) RowCount() int {
	if gm.state == nil {
		return 0
	}
	return gm.state.RowCount()
}

func (gm *GridModel) ColCount() int {
	return len(gm.columns)
}

func (gm *GridModel) CellValue(row int, name string) interface{} {
	if gm.state == nil {
		return nil
	}
	if name == nextRunColumn {
		if gm.preview == nil || gm.state.IsDeleted(row) {
			return nil
		}
		if next, ok := gm.preview.NextRun(gm.state.DisplayRow(row)); ok {
			return next
		}
		return nil
	}
	return gm.state.Value(row, name)
}

func (gm *GridModel) CellText(row int, name string) string {
	col, ok := gm.Column(name)
	if !ok {
		return ""
	}
	return FormatCell(col, gm.CellValue(row, name))
}

// RefreshWidths measures every column once. Widths are then served from the
// cache until the next refresh, which happens on SetState and on each render.
func (gm *GridModel) RefreshWidths() {
	gm.widths = make(map[string]int, len(gm.columns))
	for _, name := range gm.columns {
		gm.widths[name] = gm.measureColumn(name)
	}
}

func (gm *GridModel) columnWidth(name string) int {
	if width, ok := gm.widths[name]; ok {
		return width
	}
	return gm.measureColumn(name)
}

func (gm *GridModel) measureColumn(name string) int {
	width := len(name)
	if col, ok := gm.Column(name); ok && len(col.Label) > width {
		width = len(col.Label)
	}
	for row := 0; row < gm.RowCount(); row++ {
		if l := len(gm.CellText(row, name)); l > width {
			width = l
		}
	}
	if width < minColumnWidth {
		width = minColumnWidth
	}
	if width > maxColumnWidth {
		width = maxColumnWidth
	}
	return width
}

func (gm *GridModel) SetViewport(bodyHeight int) {
	rows := bodyHeight - 3
	if rows < 1 {
		rows = 1
	}
	gm.viewportRows = rows
}

func (gm *GridModel) SetViewportWidth(width int) {
	if width < 20 {
		width = 20
	}
	gm.viewportWidth = width
}

func (gm *GridModel) ViewportRows() int {
	if gm.viewportRows < 1 {
		return 1
	}
	return gm.viewportRows
}

func (gm *GridModel) ViewportWidth() int {
	if gm.viewportWidth < 20 {
		return 20
	}
	return gm.viewportWidth
}

func (gm *GridModel) RowOffset() int {
	if gm.rowOffset < 0 {
		return 0
	}
	return gm.rowOffset
}

func (gm *GridModel) ColOffset() int {
	if gm.colOffset < 0 {
		return 0
	}
	return gm.colOffset
}

// visibleColumnCount is how many columns fit from the current column offset.
func (gm *GridModel) visibleColumnCount() int {
	widthRemaining := gm.ViewportWidth()
	count := 0
	for _, col := range gm.columns[gm.ColOffset():] {
		colWidth := gm.columnWidth(col)
		space := 1
		if count == 0 {
			space = 0
		}
		if widthRemaining-colWidth-space < 0 {
			break
		}
		widthRemaining -= colWidth + space
		count++
	}
	if count == 0 && len(gm.columns) > 0 {
		return 1
	}
	return count
}

func (gm *GridModel) MoveSelection(rowDelta, colDelta int) {
	if gm.RowCount() == 0 && colDelta == 0 {
		return
	}
	gm.SetSelection(gm.selectedRow+rowDelta, gm.selectedCol+colDelta)
}

func (gm *GridModel) SetSelection(row, col int) {
	if row >= gm.RowCount() {
		row = gm.RowCount() - 1
	}
	if row < 0 {
		row = 0
	}
	if col >= len(gm.columns) {
		col = len(gm.columns) - 1
	}
	if col < 0 {
		col = 0
	}
	gm.selectedRow = row
	gm.selectedCol = col
	gm.ensureSelectionVisible()
}

func (gm *GridModel) ensureSelectionVisible() {
	visibleRows := gm.ViewportRows()
	if gm.selectedRow < gm.rowOffset {
		gm.rowOffset = gm.selectedRow
	} else if gm.selectedRow >= gm.rowOffset+visibleRows {
		gm.rowOffset = gm.selectedRow - visibleRows + 1
	}

	if gm.selectedCol < gm.colOffset {
		gm.colOffset = gm.selectedCol
	}
	for gm.colOffset < gm.selectedCol && gm.selectedCol >= gm.colOffset+gm.visibleColumnCount() {
		gm.colOffset++
	}

	if gm.rowOffset < 0 {
		gm.rowOffset = 0
	}
	if gm.colOffset < 0 {
		gm.colOffset = 0
	}
}

func (gm *GridModel) SelectedRow() int {
	return gm.selectedRow
}

func (gm *GridModel) SelectedCol() int {
	return gm.selectedCol
}

func (gm *GridModel) SelectedColumnName() string {
	if gm.selectedCol >= 0 && gm.selectedCol < len(gm.columns) {
		return gm.columns[gm.selectedCol]
	}
	return ""
}

// ColumnHint describes the widget behind the selected column for the footer.
func (gm *GridModel) ColumnHint() string {
	col, ok := gm.Column(gm.SelectedColumnName())
	if !ok {
		return ""
	}
	if col.ReadOnly {
		return col.Label + " (read-only)"
	}

	hint := col.Label + " (" + col.Kind.String()
	switch col.Kind {
	case KindEnum:
		hint += ": " + strings.Join(col.Options, "|")
	case KindInt:
		if col.Min != nil && col.Max != nil {
			hint += ": " + formatInt(*col.Min) + ".." + formatInt(*col.Max)
		}
	case KindBool:
		hint += ": Space toggles"
	}
	if col.Required {
		hint += ", required"
	}
	return hint + ")"
}
