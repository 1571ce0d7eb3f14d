package store

import "database/sql"

// Migrate brings the schema to the current version. Versioned via
// PRAGMA user_version so re-runs are no-ops.
func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	stmts := []string{
		`
CREATE TABLE IF NOT EXISTS jobs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  job_id TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  company TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  requirements TEXT NOT NULL DEFAULT '[]',
  created_at TEXT NOT NULL
);`,
		`
CREATE TABLE IF NOT EXISTS candidates (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  job_id TEXT NOT NULL,
  locator TEXT NOT NULL,
  name TEXT NOT NULL DEFAULT '',
  headline TEXT NOT NULL DEFAULT '',
  current_employer TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  education TEXT NOT NULL DEFAULT '[]',
  experience TEXT NOT NULL DEFAULT '[]',
  skills TEXT NOT NULL DEFAULT '[]',
  github_url TEXT NOT NULL DEFAULT '',
  twitter_url TEXT NOT NULL DEFAULT '',
  website TEXT NOT NULL DEFAULT '',
  extracted_at TEXT NOT NULL
);`,
		`
CREATE UNIQUE INDEX IF NOT EXISTS idx_candidates_job_locator
ON candidates(job_id, locator);`,
		`
CREATE TABLE IF NOT EXISTS candidate_scores (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  job_id TEXT NOT NULL,
  locator TEXT NOT NULL,
  aggregate REAL NOT NULL,
  breakdown TEXT NOT NULL DEFAULT '{}',
  confidence REAL NOT NULL DEFAULT 1.0,
  scored_at TEXT NOT NULL
);`,
		`
CREATE INDEX IF NOT EXISTS idx_scores_job
ON candidate_scores(job_id);`,
		`
CREATE TABLE IF NOT EXISTS outreach_messages (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  job_id TEXT NOT NULL,
  locator TEXT NOT NULL,
  message TEXT NOT NULL,
  generated_at TEXT NOT NULL
);`,
		`
CREATE TABLE IF NOT EXISTS cache_entries (
  key TEXT PRIMARY KEY,
  value BLOB NOT NULL,
  expires_at TEXT NOT NULL,
  created_at TEXT NOT NULL
);`,
		`PRAGMA user_version = 1;`,
	}

	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return err
		}
	}

	return tx.Commit()
}
