package poll

import (
	"context"
	"sync/atomic"
	"time"

	log "github.com/go-pkgz/lgr"

	"careers-scraper/internal/config"
	"careers-scraper/internal/scrape/types"
)

// Poller runs PollOnce as a scheduled task and keeps the status of the last run.
type Poller struct {
	cfg    config.Config
	opts   Options
	status atomic.Value // types.Status
}

func NewPoller(cfg config.Config, opts Options) *Poller {
	p := &Poller{cfg: cfg, opts: opts}
	p.status.Store(types.Status{})
	return p
}

func (p *Poller) Status() types.Status {
	st, _ := p.status.Load().(types.Status)
	return st
}

// Run is a types.Task.
func (p *Poller) Run(ctx context.Context) error {
	clock := p.opts.Clock
	if clock == nil {
		clock = time.Now
	}

	st := p.Status()
	st.Running = true
	st.LastRunAt = clock().Format(time.RFC3339)
	p.status.Store(st)

	rec, err := PollOnce(ctx, p.cfg, p.opts)

	st = p.Status()
	st.Running = false
	st.LastAdded = rec.New
	if err != nil {
		st.LastError = err.Error()
		log.Printf("[ERROR] [poll] run failed: %v", err)
	} else {
		st.LastError = ""
		st.LastOkAt = clock().Format(time.RFC3339)
	}
	p.status.Store(st)
	return err
}
