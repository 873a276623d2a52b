package store

import (
	"context"
	"fmt"
	"time"

	"careers-scraper/internal/domain"
)

type SeenJob struct {
	ReqID     string `db:"req_id"`
	Title     string `db:"title"`
	URL       string `db:"url"`
	FirstSeen string `db:"first_seen"`
	LastSeen  string `db:"last_seen"`
}

// MarkSeen upserts jobs; first_seen is kept for ids already present.
func (d *DB) MarkSeen(ctx context.Context, jobs []domain.JobPosting, at time.Time) (err error) {
	tx, err := d.Pool.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("mark seen: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	ts := at.UTC().Format(time.RFC3339)
	for _, j := range jobs {
		row := SeenJob{ReqID: j.ReqID, Title: j.Title, URL: j.URL, FirstSeen: ts, LastSeen: ts}
		if _, err = tx.NamedExecContext(ctx, `
INSERT INTO seen_jobs (req_id, title, url, first_seen, last_seen)
VALUES (:req_id, :title, :url, :first_seen, :last_seen)
ON CONFLICT(req_id) DO UPDATE SET
  title = excluded.title,
  url = excluded.url,
  last_seen = excluded.last_seen;`, row); err != nil {
			return fmt.Errorf("mark seen %s: %w", j.ReqID, err)
		}
	}
	return tx.Commit()
}

func (d *DB) SeenIDs(ctx context.Context) (map[string]bool, error) {
	var ids []string
	if err := d.Pool.SelectContext(ctx, &ids, `SELECT req_id FROM seen_jobs;`); err != nil {
		return nil, fmt.Errorf("seen ids: %w", err)
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// CleanupStale removes ids not seen since before cutoff.
func (d *DB) CleanupStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := d.Pool.ExecContext(ctx, `DELETE FROM seen_jobs WHERE last_seen < ?;`, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("cleanup stale: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
