package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmhodges/clock"
	"go.uber.org/zap"
)

// ReminderStore runs the fixed statements of the editor against one table.
// Every call opens its own handle and closes it before returning.
type ReminderStore struct {
	conns  *ConnectionManager
	schema *TableSchema
	clock  clock.Clock
	logger *zap.SugaredLogger
}

func NewReminderStore(conns *ConnectionManager, schema *TableSchema, clk clock.Clock, logger *zap.SugaredLogger) *ReminderStore {
	return &ReminderStore{
		conns:  conns,
		schema: schema,
		clock:  clk,
		logger: logger,
	}
}

func (rs *ReminderStore) selectQuery() string {
	quoted := make([]string, 0, len(rs.schema.Columns))
	for _, col := range rs.schema.Columns {
		quoted = append(quoted, quoteIdentifier(col.Name))
	}
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s ASC",
		strings.Join(quoted, ", "), quoteQualified(rs.schema.Table), quoteIdentifier(rs.schema.Key))
}

func (rs *ReminderStore) updateQuery(col Column) string {
	d := rs.conns.Dialect()
	return fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s = %s",
		quoteQualified(rs.schema.Table), quoteIdentifier(col.Name), d.Placeholder(1),
		quoteIdentifier(rs.schema.Key), d.Placeholder(2))
}

func (rs *ReminderStore) deleteQuery() string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = %s",
		quoteQualified(rs.schema.Table), quoteIdentifier(rs.schema.Key), rs.conns.Dialect().Placeholder(1))
}

func (rs *ReminderStore) insertQuery() (string, []Column) {
	cols := rs.schema.InsertColumns()
	quoted := make([]string, 0, len(cols))
	for _, col := range cols {
		quoted = append(quoted, quoteIdentifier(col.Name))
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteQualified(rs.schema.Table), strings.Join(quoted, ", "),
		strings.Join(rs.conns.Dialect().placeholders(1, len(cols)), ", "))
	return query, cols
}

// Load reads the whole table ordered by primary key.
func (rs *ReminderStore) Load(ctx context.Context) (*Snapshot, error) {
	db, err := rs.conns.Connect(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, rs.selectQuery())
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns := rs.schema.Columns
	results := make([]Row, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			row[col.Name] = NormalizeValue(col, values[i])
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows failed: %w", err)
	}

	snapshot, err := NewSnapshot(results, rs.schema.Key, rs.clock.Now())
	if err != nil {
		return nil, err
	}
	rs.logger.Infow("loaded reminders", "table", rs.schema.Table, "rows", snapshot.Len())
	return snapshot, nil
}

// Save replays changes against snapshot in a single transaction: updates,
// then deletes, then inserts. Any failure rolls the whole batch back.
func (rs *ReminderStore) Save(ctx context.Context, snapshot *Snapshot, changes *ChangeSet) error {
	if changes == nil || changes.IsEmpty() {
		return nil
	}

	db, err := rs.conns.Connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := rs.replay(ctx, tx, snapshot, changes); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			rs.logger.Errorw("rollback failed", "err", rbErr)
		}
		rs.logger.Errorw("save rolled back", "err", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	rs.logger.Infow("saved reminders", "table", rs.schema.Table, "changes", changes.Summary())
	return nil
}

func (rs *ReminderStore) replay(ctx context.Context, tx *sql.Tx, snapshot *Snapshot, changes *ChangeSet) error {
	for _, idx := range changes.EditedIndices() {
		id, err := snapshot.KeyAt(idx)
		if err != nil {
			return err
		}
		cells := changes.Edited[idx]
		for name := range cells {
			if _, known := rs.schema.Column(name); !known {
				return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
			}
		}
		// Schema order keeps the statement sequence deterministic.
		for _, col := range rs.schema.Columns {
			val, ok := cells[col.Name]
			if !ok {
				continue
			}
			if err := rs.updateCell(ctx, tx, col.Name, id, val); err != nil {
				return err
			}
		}
	}

	for _, idx := range changes.DeletedIndices() {
		id, err := snapshot.KeyAt(idx)
		if err != nil {
			return err
		}
		if err := rs.deleteRow(ctx, tx, id); err != nil {
			return err
		}
	}

	for _, row := range changes.Added {
		if err := rs.insertRow(ctx, tx, row); err != nil {
			return err
		}
	}

	return nil
}

func (rs *ReminderStore) updateCell(ctx context.Context, tx *sql.Tx, column string, id int64, value interface{}) error {
	col, err := rs.schema.WritableColumn(column)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, rs.updateQuery(col), value, id)
	if err != nil {
		return fmt.Errorf("failed to update %s of %s %d: %w", col.Name, rs.schema.Key, id, err)
	}
	rs.warnIfMissing(res, "update", id)
	return nil
}

func (rs *ReminderStore) deleteRow(ctx context.Context, tx *sql.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, rs.deleteQuery(), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", rs.schema.Key, id, err)
	}
	rs.warnIfMissing(res, "delete", id)
	return nil
}

func (rs *ReminderStore) insertRow(ctx context.Context, tx *sql.Tx, added Row) error {
	for name := range added {
		if _, err := rs.schema.WritableColumn(name); err != nil {
			return err
		}
	}

	query, cols := rs.insertQuery()
	row := rs.schema.WithDefaults(added)
	args := make([]interface{}, 0, len(cols))
	for _, col := range cols {
		if col.InsertNull {
			args = append(args, nil)
			continue
		}
		args = append(args, row[col.Name])
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert row: %w", err)
	}
	return nil
}

// The snapshot may be older than the table; a vanished row is not an error.
func (rs *ReminderStore) warnIfMissing(res sql.Result, op string, id int64) {
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		rs.logger.Warnw("statement matched no rows", "op", op, rs.schema.Key, id)
	}
}
