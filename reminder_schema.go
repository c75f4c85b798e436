package main

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownColumn  = errors.New("unknown column")
	ErrReadOnlyColumn = errors.New("column is read-only")
)

// ColumnKind selects the grid widget and value conversion for a column.
type ColumnKind int

const (
	KindIdentifier ColumnKind = iota
	KindText
	KindBool
	KindEnum
	KindInt
	KindTimestamp
)

func (ck ColumnKind) String() string {
	switch ck {
	case KindIdentifier:
		return "Identifier"
	case KindText:
		return "Text"
	case KindBool:
		return "Checkbox"
	case KindEnum:
		return "Select"
	case KindInt:
		return "Number"
	case KindTimestamp:
		return "DateTime"
	default:
		return "Unknown"
	}
}

type Column struct {
	Name    string
	Label   string
	Kind    ColumnKind
	Options []string // closed choice set for KindEnum
	Min     *int64   // KindInt bounds, UI guidance only
	Max     *int64
	// Required marks columns the grid refuses to clear.
	Required bool
	Default  interface{}
	// ReadOnly columns are shown but never written by updates.
	ReadOnly bool
	// InsertNull columns are always bound to NULL on insert.
	InsertNull bool
}

// Insertable reports whether the column appears in INSERT statements.
func (c Column) Insertable() bool {
	return c.Kind != KindIdentifier
}

func (c Column) HasOption(value string) bool {
	for _, opt := range c.Options {
		if opt == value {
			return true
		}
	}
	return false
}

// TableSchema is the closed set of columns the editor knows about. Column
// names that reach generated SQL always come from here.
type TableSchema struct {
	Variant string
	Table   string
	Key     string
	Columns []Column
}

const (
	VariantBasic     = "basic"
	VariantScheduled = "scheduled"

	defaultReminderTable = "my_schema_1.reminders"
)

var frequencyOptions = []string{"daily", "weekly", "monthly", "yearly", "once"}

var weekdayOptions = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func bound(v int64) *int64 {
	return &v
}

func basicReminderColumns() []Column {
	return []Column{
		{Name: "id", Label: "ID", Kind: KindIdentifier, ReadOnly: true},
		{Name: "reminder", Label: "Reminder", Kind: KindText},
		{Name: "reminder_date_arg_tz", Label: "Reminder Date", Kind: KindTimestamp},
		{Name: "activated", Label: "Activated", Kind: KindBool, Default: true},
	}
}

func scheduledReminderColumns() []Column {
	return []Column{
		{Name: "id", Label: "ID", Kind: KindIdentifier, ReadOnly: true},
		{Name: "reminder", Label: "Reminder", Kind: KindText, Required: true},
		{Name: "activated", Label: "Activated", Kind: KindBool, Default: true},
		{Name: "chat_id", Label: "Chat ID", Kind: KindText},
		{Name: "frequency", Label: "Frequency", Kind: KindEnum, Options: frequencyOptions, Default: "daily"},
		{Name: "day_of_week", Label: "Day of Week", Kind: KindEnum, Options: weekdayOptions},
		{Name: "day_value", Label: "Day", Kind: KindInt, Min: bound(1), Max: bound(31)},
		{Name: "month_value", Label: "Month", Kind: KindInt, Min: bound(1), Max: bound(12)},
		{Name: "year_value", Label: "Year", Kind: KindInt},
		{Name: "hour_value", Label: "Hour", Kind: KindInt, Min: bound(0), Max: bound(23), Default: int64(9)},
		{Name: "minute_value", Label: "Minute", Kind: KindInt, Min: bound(0), Max: bound(59), Default: int64(0)},
		{Name: "last_completed_at", Label: "Last Completed", Kind: KindTimestamp, ReadOnly: true, InsertNull: true},
	}
}

// NewTableSchema returns the column set for a schema variant bound to table.
func NewTableSchema(variant, table string) (*TableSchema, error) {
	if table == "" {
		table = defaultReminderTable
	}

	var columns []Column
	switch variant {
	case VariantBasic:
		columns = basicReminderColumns()
	case VariantScheduled, "":
		variant = VariantScheduled
		columns = scheduledReminderColumns()
	default:
		return nil, fmt.Errorf("unknown schema variant %q", variant)
	}

	return &TableSchema{
		Variant: variant,
		Table:   table,
		Key:     "id",
		Columns: columns,
	}, nil
}

func (ts *TableSchema) Column(name string) (Column, bool) {
	for _, col := range ts.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

func (ts *TableSchema) ColumnIndex(name string) int {
	for i, col := range ts.Columns {
		if col.Name == name {
			return i
		}
	}
	return -1
}

func (ts *TableSchema) ColumnNames() []string {
	names := make([]string, 0, len(ts.Columns))
	for _, col := range ts.Columns {
		names = append(names, col.Name)
	}
	return names
}

// WritableColumn resolves name against the schema for use in an UPDATE.
func (ts *TableSchema) WritableColumn(name string) (Column, error) {
	col, ok := ts.Column(name)
	if !ok {
		return Column{}, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	if col.ReadOnly {
		return Column{}, fmt.Errorf("%w: %q", ErrReadOnlyColumn, name)
	}
	return col, nil
}

func (ts *TableSchema) InsertColumns() []Column {
	cols := make([]Column, 0, len(ts.Columns))
	for _, col := range ts.Columns {
		if col.Insertable() {
			cols = append(cols, col)
		}
	}
	return cols
}

// WithDefaults copies row and fills every column the user left unset with
// its default. Explicitly set values, including nil, are kept.
func (ts *TableSchema) WithDefaults(row Row) Row {
	out := make(Row, len(ts.Columns))
	for _, col := range ts.Columns {
		if val, ok := row[col.Name]; ok {
			out[col.Name] = val
			continue
		}
		out[col.Name] = col.Default
	}
	return out
}
