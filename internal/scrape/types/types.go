package types

import (
	"context"
	"time"
)

// Status is the state of the last pipeline run, reported by the scheduler.
type Status struct {
	LastRunAt string `json:"last_run_at"`
	LastOkAt  string `json:"last_ok_at"`
	LastError string `json:"last_error"`
	LastAdded int    `json:"last_added"`
	Running   bool   `json:"running"`
}

// Task is one scheduled unit of work.
type Task func(ctx context.Context) error

// Clock returns the current time; swapped in tests.
type Clock func() time.Time
