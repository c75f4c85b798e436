package main

import "context"

// ReminderRepository loads the reminders table and writes a change set back.
type ReminderRepository interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot *Snapshot, changes *ChangeSet) error
}

// ConnectionResetter terminates the other backends on the database.
type ConnectionResetter interface {
	Reset(ctx context.Context) (int64, error)
}
