package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var ErrResetUnsupported = errors.New("connection reset is not supported by this database")

// ConnectionReset is the sidebar's emergency hammer: it kills every other
// backend attached to the configured database, whoever owns it.
type ConnectionReset struct {
	conns  *ConnectionManager
	logger *zap.SugaredLogger
}

func NewConnectionReset(conns *ConnectionManager, logger *zap.SugaredLogger) *ConnectionReset {
	return &ConnectionReset{conns: conns, logger: logger}
}

// Reset returns how many backends were terminated. It runs outside any
// transaction on a handle of its own.
func (cr *ConnectionReset) Reset(ctx context.Context) (int64, error) {
	query := cr.conns.Dialect().TerminateQuery
	if query == "" {
		return 0, ErrResetUnsupported
	}

	dbName, err := cr.conns.DatabaseName()
	if err != nil {
		return 0, err
	}

	db, err := cr.conns.Connect(ctx)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query, dbName)
	if err != nil {
		cr.logger.Errorw("connection reset failed", "database", dbName, "err", err)
		return 0, fmt.Errorf("terminate query failed: %w", err)
	}
	defer rows.Close()

	var terminated int64
	for rows.Next() {
		var ok bool
		if err := rows.Scan(&ok); err != nil {
			return terminated, fmt.Errorf("scan failed: %w", err)
		}
		if ok {
			terminated++
		}
	}
	if err := rows.Err(); err != nil {
		return terminated, fmt.Errorf("reading rows failed: %w", err)
	}

	cr.logger.Infow("terminated backends", "database", dbName, "count", terminated)
	return terminated, nil
}
