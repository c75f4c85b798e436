package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type GridRenderer struct {
	styles GridStyles
}

type GridStyles struct {
	Header    lipgloss.Style
	Body      lipgloss.Style
	Selected  lipgloss.Style
	Normal    lipgloss.Style
	ReadOnly  lipgloss.Style
	Edited    lipgloss.Style
	Added     lipgloss.Style
	Deleted   lipgloss.Style
	Focused   lipgloss.Style
	Unfocused lipgloss.Style
	Status    lipgloss.Style
	Warning   lipgloss.Style
	Danger    lipgloss.Style
}

func NewGridRenderer() *GridRenderer {
	return &GridRenderer{
		styles: GridStyles{
			Header:    lipgloss.NewStyle().Background(lipgloss.Color("#1a1a1a")).Foreground(lipgloss.Color("#FFD700")).Bold(true).Padding(0, 1),
			Body:      lipgloss.NewStyle().Background(lipgloss.Color("#000000")).Foreground(lipgloss.Color("#FFFFFF")),
			Selected:  lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#FFD700")),
			Normal:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")),
			ReadOnly:  lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")),
			Edited:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Bold(true),
			Added:     lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),
			Deleted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Strikethrough(true),
			Focused:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#00FF00")),
			Unfocused: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#666666")),
			Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")),
			Warning:   lipgloss.NewStyle().Background(lipgloss.Color("#FFA500")).Foreground(lipgloss.Color("#000000")).Bold(true).Padding(0, 1),
			Danger:    lipgloss.NewStyle().Background(lipgloss.Color("#8B0000")).Foreground(lipgloss.Color("#FFFFFF")).Bold(true).Padding(0, 1),
		},
	}
}

func (gr *GridRenderer) renderPaneHeader(title string, isFocused bool) string {
	if isFocused {
		return gr.styles.Header.Render("► " + title)
	}
	return gr.styles.Header.Render("  " + title)
}

func (gr *GridRenderer) RenderGrid(gm *GridModel, title string, width, height int, isFocused bool) string {
	bodyHeight := height - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	gm.SetViewport(bodyHeight)
	gm.RefreshWidths()
	gm.SetViewportWidth(width - 4)

	header := gr.renderPaneHeader(title, isFocused)
	body := gr.renderGridBody(gm, width, height-2)
	footer := gr.renderGridFooter(gm)

	content := header + "\n" + body + "\n" + footer

	borderStyle := gr.styles.Unfocused
	if isFocused {
		borderStyle = gr.styles.Focused
	}

	return borderStyle.Width(width).Height(height).Render(content)
}

func (gr *GridRenderer) renderGridBody(gm *GridModel, width, height int) string {
	columns := gm.Columns()
	if !gm.HasState() || len(columns) == 0 {
		return gr.styles.Body.Render("  (loading...)")
	}
	if gm.RowCount() == 0 {
		return gr.styles.Body.Render("  (no reminders, Ctrl+N adds one)")
	}

	visible := gr.visibleColumns(gm, columns[gm.ColOffset():], width-4)
	widths := make(map[string]int, len(visible))
	for _, col := range visible {
		widths[col] = gm.columnWidth(col)
	}

	var lines []string
	var headerParts []string
	for _, name := range visible {
		label := name
		if col, ok := gm.Column(name); ok {
			label = col.Label
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true).Width(widths[name])
		headerParts = append(headerParts, style.Render(truncate(label, widths[name])))
	}
	lines = append(lines, "  "+strings.Join(headerParts, " "))
	lines = append(lines, strings.Repeat("-", max(width-4, 1)))

	maxRows := height - 3
	if maxRows < 1 {
		maxRows = 1
	}
	state := gm.State()
	selectedName := gm.SelectedColumnName()
	rowOffset := gm.RowOffset()
	for rowIdx := rowOffset; rowIdx < gm.RowCount() && rowIdx < rowOffset+maxRows; rowIdx++ {
		marker := "  "
		switch {
		case state.IsDeleted(rowIdx):
			marker = "- "
		case state.IsAdded(rowIdx):
			marker = "+ "
		}

		var rowParts []string
		for _, name := range visible {
			text := truncate(gm.CellText(rowIdx, name), widths[name])
			style := gr.cellStyle(gm, rowIdx, name).Width(widths[name])
			if rowIdx == gm.SelectedRow() && name == selectedName {
				style = gr.styles.Selected.Copy().Width(widths[name])
			}
			rowParts = append(rowParts, style.Render(text))
		}
		lines = append(lines, marker+strings.Join(rowParts, " "))
	}

	return strings.Join(lines, "\n")
}

func (gr *GridRenderer) cellStyle(gm *GridModel, row int, name string) lipgloss.Style {
	state := gm.State()
	col, _ := gm.Column(name)
	switch {
	case state.IsDeleted(row):
		return gr.styles.Deleted.Copy()
	case state.IsEdited(row, name):
		return gr.styles.Edited.Copy()
	case state.IsAdded(row):
		return gr.styles.Added.Copy()
	case col.ReadOnly:
		return gr.styles.ReadOnly.Copy()
	}
	return gr.styles.Normal.Copy()
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width > 3 {
		return string(r[:width-3]) + "..."
	}
	return string(r[:width])
}

func (gr *GridRenderer) renderGridFooter(gm *GridModel) string {
	cols := gm.Columns()
	if gm.RowCount() == 0 || len(cols) == 0 {
		return ""
	}
	rowOffset := gm.RowOffset()
	rowEnd := rowOffset + gm.ViewportRows()
	if rowEnd > gm.RowCount() {
		rowEnd = gm.RowCount()
	}

	colOffset := gm.ColOffset()
	colEnd := colOffset + len(gr.visibleColumns(gm, cols[colOffset:], gm.ViewportWidth()))
	if colEnd > len(cols) {
		colEnd = len(cols)
	}

	info := fmt.Sprintf("rows %d-%d of %d | cols %d-%d of %d | %s",
		rowOffset+1, rowEnd, gm.RowCount(), colOffset+1, colEnd, len(cols), gm.ColumnHint())
	return gr.styles.Status.Render(info)
}

func (gr *GridRenderer) visibleColumns(gm *GridModel, columns []string, maxWidth int) []string {
	if maxWidth < 20 {
		maxWidth = 20
	}

	var selected []string
	currentWidth := 0

	for _, col := range columns {
		width := gm.columnWidth(col)

		space := 1
		if len(selected) == 0 {
			space = 0
		}

		if currentWidth+width+space > maxWidth {
			break
		}

		selected = append(selected, col)
		currentWidth += width + space
	}

	if len(selected) == 0 && len(columns) > 0 {
		selected = append(selected, columns[0])
	}

	return selected
}

// RenderSidebar draws the connection-management panel with its own feedback
// line.
func (gr *GridRenderer) RenderSidebar(width, height int, isFocused bool, feedback StatusMessage) string {
	content := gr.renderPaneHeader("Connections", isFocused) + "\n\n"
	content += gr.styles.Warning.Render("Database Connection Management") + "\n\n"

	button := "🔴 Kill All Active Connections"
	if isFocused {
		content += gr.styles.Selected.Render(button) + "\n"
	} else {
		content += gr.styles.Danger.Render(button) + "\n"
	}
	content += gr.styles.Status.Render("Ctrl+K or Tab+Enter") + "\n\n"

	if feedback.Text != "" {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
		if feedback.IsError {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
		}
		content += style.Width(width - 4).Render(feedback.Text)
	}

	borderStyle := gr.styles.Unfocused
	if isFocused {
		borderStyle = gr.styles.Focused
	}
	return borderStyle.Width(width).Height(height).Render(content)
}

func (gr *GridRenderer) renderHeader(title string, state *EditorState) string {
	if state != nil {
		if !state.Changes().IsEmpty() {
			title += "  [unsaved: " + state.Changes().Summary() + "]"
		}
		if state.Stale() {
			title += "  [stale, Ctrl+R to reload]"
		}
	}
	return gr.styles.Header.Render(title)
}

func (gr *GridRenderer) renderStatus(status StatusMessage, errorStyle, successStyle lipgloss.Style) string {
	if status.Text == "" {
		return ""
	}
	if status.IsError {
		return errorStyle.Render(status.Text)
	}
	return successStyle.Render(status.Text)
}
