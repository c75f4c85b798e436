package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/jmhodges/clock"
	"go.uber.org/zap"
)

const appTitle = "🔔 Reminder Database Editor"

type ReminderEditorApp struct {
	schema     *TableSchema
	repo       ReminderRepository
	resetter   ConnectionResetter
	logger     *zap.SugaredLogger
	timeout    time.Duration
	grid       *GridModel
	renderer   *GridRenderer
	editor     *TextInput
	editMode   DataEditMode
	editRow    int
	editColumn string
	focusMode  FocusMode
	busy       bool
	status     StatusMessage
	sidebar    StatusMessage
	styles     AppStyles
	width      int
	height     int
}

type AppStyles struct {
	Header  lipgloss.Style
	Body    lipgloss.Style
	Footer  lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
}

type FocusMode int

const (
	FocusGrid FocusMode = iota
	FocusSidebar
)

type DataEditMode int

const (
	DataEditNone DataEditMode = iota
	DataEditUpdateCell
)

// StatusMessage is inline feedback shown under the grid or in the sidebar.
type StatusMessage struct {
	Text    string
	IsError bool
}

func statusOK(format string, args ...interface{}) StatusMessage {
	return StatusMessage{Text: fmt.Sprintf(format, args...)}
}

func statusErr(prefix string, err error) StatusMessage {
	return StatusMessage{Text: fmt.Sprintf("%s: %v", prefix, err), IsError: true}
}

type SnapshotLoadedMsg struct {
	snapshot *Snapshot
	err      error
}

type SaveFinishedMsg struct {
	snapshot  *Snapshot
	previous  *Snapshot
	summary   string
	saveErr   error
	reloadErr error
}

type ResetFinishedMsg struct {
	terminated int64
	err        error
}

func NewReminderEditorApp(schema *TableSchema, repo ReminderRepository, resetter ConnectionResetter, preview *SchedulePreview, logger *zap.SugaredLogger, timeout time.Duration) *ReminderEditorApp {
	return &ReminderEditorApp{
		schema:   schema,
		repo:     repo,
		resetter: resetter,
		logger:   logger,
		timeout:  timeout,
		grid:     NewGridModel(preview),
		renderer: NewGridRenderer(),
		editor:   NewTextInput(),
		editRow:  -1,
		width:    80,
		height:   24,
		styles: AppStyles{
			Header:  lipgloss.NewStyle().Background(lipgloss.Color("#1a1a1a")).Foreground(lipgloss.Color("#FFD700")).Bold(true).Padding(0, 1),
			Body:    lipgloss.NewStyle().Background(lipgloss.Color("#000000")).Foreground(lipgloss.Color("#FFFFFF")),
			Footer:  lipgloss.NewStyle().Background(lipgloss.Color("#1a1a1a")).Foreground(lipgloss.Color("#808080")).Padding(0, 1),
			Error:   lipgloss.NewStyle().Background(lipgloss.Color("#FF0000")).Foreground(lipgloss.Color("#FFFFFF")).Padding(0, 1),
			Success: lipgloss.NewStyle().Background(lipgloss.Color("#00FF00")).Foreground(lipgloss.Color("#000000")).Padding(0, 1),
		},
		focusMode: FocusGrid,
	}
}

func (app *ReminderEditorApp) Init() tea.Cmd {
	app.busy = true
	return app.loadCmd()
}

func (app *ReminderEditorApp) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), app.timeout)
}

func (app *ReminderEditorApp) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := app.opContext()
		defer cancel()
		snapshot, err := app.repo.Load(ctx)
		return SnapshotLoadedMsg{snapshot: snapshot, err: err}
	}
}

// saveCmd hands a frozen copy of the change set to the background command;
// the grid stays locked by the busy flag until the result comes back.
func (app *ReminderEditorApp) saveCmd() tea.Cmd {
	state := app.grid.State()
	snapshot := state.Snapshot()
	changes := state.Changes().Clone()

	return func() tea.Msg {
		ctx, cancel := app.opContext()
		defer cancel()

		if err := app.repo.Save(ctx, snapshot, changes); err != nil {
			return SaveFinishedMsg{previous: snapshot, saveErr: err}
		}
		reloaded, err := app.repo.Load(ctx)
		return SaveFinishedMsg{snapshot: reloaded, previous: snapshot, summary: changes.Summary(), reloadErr: err}
	}
}

func (app *ReminderEditorApp) resetCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := app.opContext()
		defer cancel()
		n, err := app.resetter.Reset(ctx)
		return ResetFinishedMsg{terminated: n, err: err}
	}
}

func (app *ReminderEditorApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		app.width = msg.Width
		app.height = msg.Height
		return app, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlX {
			return app, tea.Quit
		}
		if app.focusMode == FocusSidebar {
			return app.handleSidebar(msg)
		}
		return app.handleGrid(msg)
	case SnapshotLoadedMsg:
		app.busy = false
		if msg.err != nil {
			app.logger.Errorw("load failed", "err", msg.err)
			app.status = statusErr("Could not load reminders", msg.err)
			return app, nil
		}
		app.grid.SetState(NewEditorState(app.schema, msg.snapshot))
		app.status = statusOK("Loaded %d reminder(s)", msg.snapshot.Len())
		return app, nil
	case SaveFinishedMsg:
		return app.handleSaveFinished(msg)
	case ResetFinishedMsg:
		app.busy = false
		if msg.err != nil {
			app.logger.Errorw("reset failed", "err", msg.err)
			app.sidebar = statusErr("Could not reset", msg.err)
			return app, nil
		}
		app.sidebar = statusOK("All other connections closed! (%d terminated)", msg.terminated)
		return app, nil
	default:
		return app, nil
	}
}

func (app *ReminderEditorApp) handleSaveFinished(msg SaveFinishedMsg) (tea.Model, tea.Cmd) {
	app.busy = false
	switch {
	case msg.saveErr != nil:
		// The snapshot and pending edits stay exactly as they were.
		app.logger.Errorw("save failed", "err", msg.saveErr)
		app.status = statusErr("Error", msg.saveErr)
	case msg.reloadErr != nil:
		app.logger.Errorw("reload after save failed", "err", msg.reloadErr)
		app.grid.SetState(NewStaleEditorState(app.schema, msg.previous))
		app.status = statusErr("Saved, but reload failed", msg.reloadErr)
	default:
		app.grid.SetState(NewEditorState(app.schema, msg.snapshot))
		app.status = statusOK("Successfully updated database! (%s)", msg.summary)
	}
	return app, nil
}

func (app *ReminderEditorApp) handleSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyEscape:
		app.focusMode = FocusGrid
		return app, nil
	case tea.KeyEnter, tea.KeyCtrlK:
		return app, app.requestReset()
	}
	return app, nil
}

func (app *ReminderEditorApp) handleGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if app.editMode != DataEditNone {
		return app.handleDataEditInput(msg)
	}

	switch msg.Type {
	case tea.KeyTab:
		app.focusMode = FocusSidebar
		return app, nil
	case tea.KeyCtrlK:
		return app, app.requestReset()
	case tea.KeyCtrlR:
		if app.busy {
			return app, nil
		}
		app.busy = true
		app.status = statusOK("Reloading...")
		return app, app.loadCmd()
	}

	if app.busy || !app.grid.HasState() {
		return app, nil
	}

	switch msg.Type {
	case tea.KeyEnter, tea.KeySpace, tea.KeyCtrlN, tea.KeyCtrlD, tea.KeyCtrlS:
		if app.grid.State().Stale() {
			app.status = statusErr("Cannot edit", ErrStaleSnapshot)
			return app, nil
		}
	}

	switch msg.Type {
	case tea.KeyUp:
		app.grid.MoveSelection(-1, 0)
	case tea.KeyDown:
		app.grid.MoveSelection(1, 0)
	case tea.KeyLeft:
		app.grid.MoveSelection(0, -1)
	case tea.KeyRight:
		app.grid.MoveSelection(0, 1)
	case tea.KeyPgUp:
		app.grid.MoveSelection(-app.grid.ViewportRows(), 0)
	case tea.KeyPgDown:
		app.grid.MoveSelection(app.grid.ViewportRows(), 0)
	case tea.KeyHome:
		app.grid.SetSelection(app.grid.SelectedRow(), 0)
	case tea.KeyEnd:
		app.grid.SetSelection(app.grid.SelectedRow(), app.grid.ColCount()-1)
	case tea.KeyEnter:
		app.beginCellEdit()
	case tea.KeySpace:
		app.toggleSelectedCheckbox()
	case tea.KeyCtrlN:
		row := app.grid.State().AddRow()
		app.grid.SetSelection(row, 1)
		app.status = statusOK("Row added; unset cells take their defaults")
	case tea.KeyCtrlD:
		app.toggleDeleteSelected()
	case tea.KeyCtrlS:
		return app, app.requestSave()
	}
	return app, nil
}

func (app *ReminderEditorApp) requestSave() tea.Cmd {
	if app.busy || !app.grid.HasState() {
		return nil
	}
	if app.grid.State().Stale() {
		app.status = statusErr("Cannot save", ErrStaleSnapshot)
		return nil
	}
	if app.grid.State().Changes().IsEmpty() {
		app.status = statusOK("Nothing to save")
		return nil
	}
	app.busy = true
	app.status = statusOK("Saving...")
	return app.saveCmd()
}

func (app *ReminderEditorApp) requestReset() tea.Cmd {
	if app.busy {
		return nil
	}
	app.busy = true
	app.sidebar = statusOK("Terminating connections...")
	return app.resetCmd()
}

func (app *ReminderEditorApp) selectedColumn() (Column, bool) {
	return app.grid.Column(app.grid.SelectedColumnName())
}

func (app *ReminderEditorApp) toggleSelectedCheckbox() {
	col, ok := app.selectedColumn()
	if !ok || col.Kind != KindBool {
		return
	}
	row := app.grid.SelectedRow()
	current, _ := app.grid.State().Value(row, col.Name).(bool)
	if err := app.grid.State().SetValue(row, col.Name, !current); err != nil {
		app.status = statusErr("Cannot edit", err)
	}
}

func (app *ReminderEditorApp) toggleDeleteSelected() {
	state := app.grid.State()
	if state.RowCount() == 0 {
		return
	}
	row := app.grid.SelectedRow()
	if err := state.ToggleDelete(row); err != nil {
		app.status = statusErr("Cannot delete", err)
		return
	}
	app.grid.SetSelection(row, app.grid.SelectedCol())
}

func (app *ReminderEditorApp) beginCellEdit() {
	if app.grid.RowCount() == 0 {
		return
	}
	col, ok := app.selectedColumn()
	if !ok {
		return
	}
	if col.ReadOnly {
		app.status = statusErr("Cannot edit", fmt.Errorf("%w: %q", ErrReadOnlyColumn, col.Name))
		return
	}
	if col.Kind == KindBool {
		app.toggleSelectedCheckbox()
		return
	}

	row := app.grid.SelectedRow()
	if app.grid.State().IsDeleted(row) {
		app.status = statusErr("Cannot edit", fmt.Errorf("row %d is marked for deletion", row+1))
		return
	}

	app.editMode = DataEditUpdateCell
	app.editRow = row
	app.editColumn = col.Name
	app.editor.SetWidth(max(app.width-4, 20))
	app.editor.SetValue(FormatInput(app.grid.State().Value(row, col.Name)))
	if col.Kind == KindEnum {
		app.editor.SetOptions(col.Options)
		app.editor.SetPlaceholder("Tab cycles: " + strings.Join(col.Options, " | "))
	}
}

func (app *ReminderEditorApp) handleDataEditInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		app.cancelDataEdit()
		return app, nil
	case tea.KeyEnter:
		app.commitDataEdit()
		return app, nil
	}

	app.editor.HandleKey(msg)
	return app, nil
}

// commitDataEdit validates the typed text against the column widget; on a
// bad value the editor stays open with the message shown.
func (app *ReminderEditorApp) commitDataEdit() {
	col, ok := app.grid.Column(app.editColumn)
	if !ok {
		app.cancelDataEdit()
		return
	}

	value, err := ParseCellInput(col, app.editor.Value())
	if err != nil {
		app.status = statusErr("Invalid value", err)
		return
	}
	if err := app.grid.State().SetValue(app.editRow, col.Name, value); err != nil {
		app.status = statusErr("Cannot edit", err)
		app.cancelDataEdit()
		return
	}
	app.status = StatusMessage{}
	app.cancelDataEdit()
}

func (app *ReminderEditorApp) cancelDataEdit() {
	app.editMode = DataEditNone
	app.editRow = -1
	app.editColumn = ""
	app.editor.Reset()
}

func (app *ReminderEditorApp) dataEditPrompt() string {
	col, _ := app.grid.Column(app.editColumn)
	return fmt.Sprintf("Edit %s (row %d) | Enter: apply | Esc: cancel", col.Label, app.editRow+1)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (app *ReminderEditorApp) View() string {
	width, height := app.width, app.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	headerHeight := 1
	footerHeight := 2
	extra := 0
	if app.editMode != DataEditNone {
		extra = 4
	}
	bodyHeight := height - headerHeight - footerHeight - extra
	if bodyHeight < 6 {
		bodyHeight = 6
	}

	sidebarWidth := 36
	gridWidth := width - sidebarWidth - 2
	if gridWidth < 30 {
		gridWidth = 30
	}

	header := app.renderer.renderHeader(appTitle, app.grid.State())
	sidebar := app.renderer.RenderSidebar(sidebarWidth, bodyHeight-2, app.focusMode == FocusSidebar, app.sidebar)
	grid := app.renderer.RenderGrid(app.grid, "Edit Reminders", gridWidth, bodyHeight-2, app.focusMode == FocusGrid)

	content := header + "\n"
	content += lipgloss.JoinHorizontal(lipgloss.Top, sidebar, grid) + "\n"
	if app.editMode != DataEditNone {
		content += app.editor.View(app.dataEditPrompt()) + "\n"
	}
	content += app.renderer.renderStatus(app.status, app.styles.Error, app.styles.Success) + "\n"

	footer := "Enter: Edit | Space: Toggle | Ctrl+N: Add | Ctrl+D: Delete | Ctrl+S: Save Changes | Ctrl+R: Reload | Tab: Sidebar | Ctrl+C: Quit"
	if app.busy {
		footer = "Working..."
	}
	content += app.styles.Footer.Render(footer)
	return content
}

func run() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	logger, syncLogs, err := newLogger(cfg.LogFile, uuid.NewString())
	if err != nil {
		return err
	}
	defer syncLogs()

	schema, err := NewTableSchema(cfg.SchemaVariant, cfg.Table)
	if err != nil {
		return err
	}

	conns, err := NewConnectionManager(cfg.ConnectionInfo())
	if err != nil {
		return fmt.Errorf("failed to create connection manager: %w", err)
	}

	clk := clock.New()
	store := NewReminderStore(conns, schema, clk, logger)
	reset := NewConnectionReset(conns, logger)

	var preview *SchedulePreview
	if schema.Variant == VariantScheduled {
		preview = NewSchedulePreview(clk)
	}

	logger.Infow("starting editor", "table", schema.Table, "variant", schema.Variant, "driver", cfg.Driver)
	app := NewReminderEditorApp(schema, store, reset, preview, logger, cfg.Timeout)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("application error: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "reminder editor: %v\n", err)
		os.Exit(1)
	}
}
