package main

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const basicRemindersDDL = `CREATE TABLE reminders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	reminder TEXT,
	reminder_date_arg_tz TIMESTAMP,
	activated BOOLEAN NOT NULL DEFAULT 1
);`

const scheduledRemindersDDL = `CREATE TABLE reminders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	reminder TEXT NOT NULL,
	activated BOOLEAN NOT NULL DEFAULT 1,
	chat_id TEXT,
	frequency TEXT,
	day_of_week TEXT,
	day_value INTEGER,
	month_value INTEGER,
	year_value INTEGER,
	hour_value INTEGER,
	minute_value INTEGER,
	last_completed_at TIMESTAMP
);`

// openTestDB creates a sqlite file in a temp dir, runs the statements and
// returns its path together with a handle for assertions.
func openTestDB(t *testing.T, stmts ...string) (string, *sql.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "reminders.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, "exec %q", stmt)
	}
	return path, db
}

func newTestStore(t *testing.T, variant string, stmts ...string) (*ReminderStore, *sql.DB, clock.FakeClock) {
	t.Helper()

	ddl := scheduledRemindersDDL
	if variant == VariantBasic {
		ddl = basicRemindersDDL
	}
	path, db := openTestDB(t, append([]string{ddl}, stmts...)...)

	schema, err := NewTableSchema(variant, "reminders")
	require.NoError(t, err)
	conns, err := NewConnectionManager(ConnectionInfo{Type: ConnectionSQLite, URL: path})
	require.NoError(t, err)

	clk := clock.NewFake()
	return NewReminderStore(conns, schema, clk, zaptest.NewLogger(t).Sugar()), db, clk
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM reminders`).Scan(&n))
	return n
}
