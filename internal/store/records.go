package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"sourcing-engine/internal/domain"
)

// CandidateRecord is one scored candidate from a pipeline run.
type CandidateRecord struct {
	Profile domain.CandidateProfile
	Score   domain.ScoreBreakdown
	Message string
}

// RunRecord is everything a single job's pipeline run persists.
type RunRecord struct {
	JobID      string
	Query      domain.JobQuery
	Candidates []CandidateRecord
}

// SaveRun appends one run's records. Jobs and candidates are keyed
// (job_id, locator) and inserted once; scores and outreach messages append.
func SaveRun(ctx context.Context, db *sql.DB, rec RunRecord) error {
	now := time.Now().UTC().Format(time.RFC3339)

	reqs, _ := json.Marshal(rec.Query.Requirements)
	if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO jobs(job_id, title, company, location, description, requirements, created_at)
VALUES(?,?,?,?,?,?,?);`,
		rec.JobID, rec.Query.Title, rec.Query.Company, rec.Query.Location,
		rec.Query.Description, string(reqs), now,
	); err != nil {
		return fmt.Errorf("insert job: %w", err)
	}

	for _, c := range rec.Candidates {
		edu, _ := json.Marshal(c.Profile.Education)
		exp, _ := json.Marshal(c.Profile.Experience)
		skills, _ := json.Marshal(c.Profile.Skills)

		if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO candidates(
  job_id, locator, name, headline, current_employer, location,
  education, experience, skills, github_url, twitter_url, website, extracted_at)
VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?);`,
			rec.JobID, c.Profile.Locator, c.Profile.Name, c.Profile.Headline,
			c.Profile.CurrentEmployer, c.Profile.Location,
			string(edu), string(exp), string(skills),
			c.Profile.GitHubURL, c.Profile.TwitterURL, c.Profile.Website, now,
		); err != nil {
			return fmt.Errorf("insert candidate %s: %w", c.Profile.Locator, err)
		}

		breakdown, _ := json.Marshal(c.Score.Categories)
		if _, err := db.ExecContext(ctx, `
INSERT INTO candidate_scores(job_id, locator, aggregate, breakdown, confidence, scored_at)
VALUES(?,?,?,?,?,?);`,
			rec.JobID, c.Profile.Locator, c.Score.Aggregate, string(breakdown),
			c.Score.Confidence, now,
		); err != nil {
			return fmt.Errorf("insert score %s: %w", c.Profile.Locator, err)
		}

		if c.Message != "" {
			if _, err := db.ExecContext(ctx, `
INSERT INTO outreach_messages(job_id, locator, message, generated_at)
VALUES(?,?,?,?);`,
				rec.JobID, c.Profile.Locator, c.Message, now,
			); err != nil {
				return fmt.Errorf("insert outreach %s: %w", c.Profile.Locator, err)
			}
		}
	}

	return nil
}

// CountCandidates reports how many candidates are recorded for a job.
func CountCandidates(ctx context.Context, db *sql.DB, jobID string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM candidates WHERE job_id = ?;`, jobID,
	).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return n, err
}
