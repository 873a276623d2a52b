package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// migrations[i] moves the schema from user_version i to i+1.
var migrations = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS seen_jobs (
  req_id TEXT PRIMARY KEY,
  title TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL DEFAULT '',
  first_seen TEXT NOT NULL,
  last_seen TEXT NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS idx_seen_jobs_last_seen ON seen_jobs(last_seen);`,
	},
}

func Migrate(db *sqlx.DB) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.Get(&v, `PRAGMA user_version;`); err != nil {
		return err
	}

	for ; v < len(migrations); v++ {
		for _, q := range migrations[v] {
			if _, err := tx.Exec(q); err != nil {
				return err
			}
		}
	}

	// PRAGMA does not take bind parameters
	if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d;`, len(migrations))); err != nil {
		return err
	}

	return tx.Commit()
}
