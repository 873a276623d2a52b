package poll

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	log "github.com/go-pkgz/lgr"

	"careers-scraper/internal/config"
	"careers-scraper/internal/dedup"
	"careers-scraper/internal/domain"
	"careers-scraper/internal/export"
	"careers-scraper/internal/history"
	"careers-scraper/internal/scrape"
	"careers-scraper/internal/scrape/session"
	"careers-scraper/internal/scrape/types"
	"careers-scraper/internal/scrape/util"
	"careers-scraper/internal/scrape/workday"
	"careers-scraper/internal/store"
)

type Options struct {
	Source session.Source
	Clock  types.Clock // time.Now when nil
}

// PollOnce runs the whole pipeline once: session, fetch, normalize, dedup, export.
// Every run, failed or not, is appended to the run history. A fetch failure
// leaves the output dir untouched.
func PollOnce(ctx context.Context, cfg config.Config, opts Options) (rec domain.RunRecord, err error) {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	now := clock().In(cfg.Location())
	date := now.Format(util.DateLayout)

	rec = domain.RunRecord{
		Timestamp: now.Format(time.RFC3339),
		Date:      date,
		Status:    domain.RunSuccess,
		Files:     []string{},
	}

	defer func() {
		if err != nil {
			rec.Status = domain.RunError
			rec.Error = err.Error()
		}
		if herr := history.Append(cfg.HistoryPath(), rec); herr != nil {
			log.Printf("[ERROR] [poll] history append failed: %v", herr)
		}
	}()

	sess, err := session.Build(ctx, opts.Source, session.Options{
		BoardURL:       cfg.Target.BoardURL,
		UserAgent:      cfg.Session.UserAgent,
		AcceptLanguage: cfg.Session.AcceptLanguage,
		Timeout:        cfg.Target.Timeout,
	})
	if err != nil {
		return rec, err
	}
	if sess.Cookies == 0 {
		log.Printf("[WARN] [poll] no session cookies from %s", sess.Source)
	} else {
		log.Printf("[INFO] [poll] session cookies=%d source=%s", sess.Cookies, sess.Source)
	}

	scr, err := workday.New(workday.Config{
		BoardURL:     cfg.Target.BoardURL,
		Tenant:       cfg.Target.Tenant,
		PageSize:     cfg.Target.PageSize,
		MaxJobs:      cfg.Target.MaxJobs,
		FetchDetails: cfg.Target.FetchDetails,
	}, sess, util.NewDelayLimiter(cfg.Target.RequestDelay))
	if err != nil {
		return rec, err
	}

	log.Printf("[INFO] [poll] fetching %s", cfg.Target.BoardURL)
	raws, err := scr.FetchAll(ctx)
	if err != nil {
		var authErr *types.AuthenticationError
		if errors.As(err, &authErr) {
			log.Printf("[ERROR] [poll] authentication failed: %v", authErr)
		}
		return rec, err
	}
	rec.Fetched = len(raws)

	jobs, skipped := scrape.ProcessJobs(raws, scr.Board(), now)
	rec.Skipped = skipped

	var db *store.DB
	if cfg.Dedup.Source == config.DedupStore {
		if err = os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
			return rec, fmt.Errorf("output dir: %w", err)
		}
		if db, err = store.Open(cfg.StorePath()); err != nil {
			return rec, err
		}
		defer db.Close()
	}

	seen, err := seenIDs(ctx, cfg, db)
	if err != nil {
		return rec, err
	}
	newIDs := dedup.NewIDs(jobs, seen)
	rec.New = len(newIDs)

	files, err := export.Write(exportOptions(cfg), date, export.Rows(jobs, dedup.Set(newIDs)))
	rec.Files = append(rec.Files, files...)
	if err != nil {
		return rec, err
	}

	if db != nil {
		if err = db.MarkSeen(ctx, jobs, now); err != nil {
			return rec, err
		}
		if days := cfg.Dedup.RetentionDays; days > 0 {
			n, cerr := db.CleanupStale(ctx, now.AddDate(0, 0, -days))
			if cerr != nil {
				return rec, cerr
			}
			if n > 0 {
				log.Printf("[INFO] [poll] forgot %d ids not listed for %d days", n, days)
			}
		}
	}

	log.Printf("[INFO] [poll] ok fetched=%d kept=%d new=%d skipped=%d files=%d",
		rec.Fetched, len(jobs), rec.New, rec.Skipped, len(rec.Files))
	return rec, nil
}

func exportOptions(cfg config.Config) export.Options {
	return export.Options{
		Dir:    cfg.Output.Dir,
		Prefix: cfg.Output.FilePrefix,
		Excel:  cfg.Output.SaveExcel,
		CSV:    cfg.Output.SaveCSV,
		JSON:   cfg.Output.SaveJSON,
	}
}

// seenIDs loads previously seen req ids from the store or, with dedup.source=output,
// from the latest JSON export.
func seenIDs(ctx context.Context, cfg config.Config, db *store.DB) (map[string]bool, error) {
	if db != nil {
		return db.SeenIDs(ctx)
	}

	path, err := export.LatestJSON(cfg.Output.Dir, cfg.Output.FilePrefix)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return map[string]bool{}, nil
	}
	prev, err := export.ReadJSON(path)
	if err != nil {
		log.Printf("[WARN] [poll] previous export unreadable, treating all as new: %v", err)
		return map[string]bool{}, nil
	}
	log.Printf("[DEBUG] [poll] dedup against %s (%d ids)", path, len(prev))
	return dedup.Set(export.IDs(prev)), nil
}
