// Package state persists generation run history in SQLite.
package state

import "time"

// RunStatus is the lifecycle state of a generation run.
type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusError   RunStatus = "error"
)

// Run is one recorded invocation of the generation pipeline.
type Run struct {
	ID          string
	InputPath   string
	Convention  string
	Status      RunStatus
	Retained    int
	Skipped     int
	SchemaNodes int
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// Store records and lists generation runs.
type Store interface {
	CreateRun(inputPath, convention string) (*Run, error)
	CompleteRun(id string, status RunStatus, retained, skipped, schemaNodes int, errMsg string) error
	ListRuns(limit int) ([]*Run, error)
	Close() error
}
