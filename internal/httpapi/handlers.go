package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	log "github.com/go-pkgz/lgr"

	"careers-scraper/internal/domain"
	"careers-scraper/internal/history"
	"careers-scraper/internal/scheduler"
	"careers-scraper/internal/scrape/types"
)

type HealthHandler struct{}

func (h HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, map[string]any{
		"ok":   true,
		"time": time.Now().Format(time.RFC3339),
	})
}

type RunsHandler struct {
	Status      func() types.Status
	HistoryPath string
	Lock        func() (unlock func(), err error)
	Run         types.Task
}

func (h RunsHandler) CurrentStatus(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, h.Status())
}

// List returns the run history, newest first. ?limit=N caps the result.
func (h RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	recs, err := history.Load(h.HistoryPath)
	if err != nil {
		fail(w, r, http.StatusInternalServerError, "history_unreadable", err.Error())
		return
	}

	limit := len(recs)
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			fail(w, r, http.StatusBadRequest, "bad_limit", "limit must be a non-negative integer")
			return
		}
		limit = min(n, len(recs))
	}

	out := make([]domain.RunRecord, 0, limit)
	for i := len(recs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, recs[i])
	}
	respond(w, http.StatusOK, out)
}

// Start takes the run lock and runs the pipeline in the background.
// 409 when the lock is held by the scheduler or an earlier request.
func (h RunsHandler) Start(w http.ResponseWriter, r *http.Request) {
	unlock, err := h.Lock()
	if errors.Is(err, scheduler.ErrLocked) {
		fail(w, r, http.StatusConflict, "already_running", "a run is already in progress")
		return
	}
	if err != nil {
		fail(w, r, http.StatusInternalServerError, "lock_failed", err.Error())
		return
	}

	id := requestID(r.Context())
	go func() {
		defer unlock()
		if err := h.Run(context.Background()); err != nil {
			log.Printf("[WARN] [httpapi] request_id=%s manual run failed: %v", id, err)
			return
		}
		log.Printf("[INFO] [httpapi] request_id=%s manual run done", id)
	}()

	respond(w, http.StatusAccepted, map[string]any{"ok": true})
}
