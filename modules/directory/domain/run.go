package domain

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// SyncRun is the audit record kept for every run that reached the database.
type SyncRun struct {
	ID            uuid.UUID
	StartedAt     time.Time
	FinishedAt    time.Time
	Status        RunStatus
	Employees     int
	Departments   int
	Organizations int
	PathsResolved int
	Error         string
}
