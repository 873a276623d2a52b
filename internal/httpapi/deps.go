package httpapi

import (
	"careers-scraper/internal/scrape/types"
)

type Deps struct {
	// Status of the last run
	Status func() types.Status

	// run_history.json
	HistoryPath string

	// Lock takes the run lock without waiting; scheduler.ErrLocked when held.
	Lock func() (unlock func(), err error)

	// Run executes the pipeline once. Called with the lock held.
	Run types.Task
}
