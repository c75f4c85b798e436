package main

import (
	"errors"
	"fmt"
	"time"
)

var ErrRowOutOfRange = errors.New("row index out of range")

// Row maps column name to a normalised value (bool, int64, string,
// time.Time or nil).
type Row map[string]interface{}

func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Snapshot is the table as read by the last successful load. It is the
// baseline every grid edit is diffed against.
type Snapshot struct {
	Rows     []Row
	LoadedAt time.Time
	keys     []int64
}

// NewSnapshot builds the position -> primary key lookup once, at load time.
func NewSnapshot(rows []Row, key string, loadedAt time.Time) (*Snapshot, error) {
	keys := make([]int64, len(rows))
	for i, row := range rows {
		k, ok := toInt64(row[key])
		if !ok {
			return nil, fmt.Errorf("row %d has no usable %s value: %v", i, key, row[key])
		}
		keys[i] = k
	}

	return &Snapshot{
		Rows:     rows,
		LoadedAt: loadedAt,
		keys:     keys,
	}, nil
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rows)
}

func (s *Snapshot) KeyAt(idx int) (int64, error) {
	if idx < 0 || idx >= s.Len() {
		return 0, fmt.Errorf("%w: %d", ErrRowOutOfRange, idx)
	}
	return s.keys[idx], nil
}

func (s *Snapshot) Value(idx int, column string) interface{} {
	if idx < 0 || idx >= s.Len() {
		return nil
	}
	return s.Rows[idx][column]
}
