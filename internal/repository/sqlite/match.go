package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jobdeck/jobdeck/pkg/models"
)

func (r *SQLiteRepo) SaveMatchResult(ctx context.Context, m *models.MatchResult) (int64, error) {
	if m == nil {
		return 0, fmt.Errorf("match result is nil")
	}

	highlights, err := json.Marshal(m.Highlights)
	if err != nil {
		return 0, fmt.Errorf("encode highlights: %w", err)
	}

	// Re-matching the same resume/job pair replaces the previous score.
	res, err := r.conn.Exec(ctx,
		`INSERT INTO match_results (resume_id, job_id, score, highlights, created) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(resume_id, job_id) DO UPDATE SET score = excluded.score, highlights = excluded.highlights, created = excluded.created`,
		m.ResumeID, m.JobID, m.Score, string(highlights), now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) ListMatchResults(ctx context.Context, resumeID string) ([]models.MatchResult, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, resume_id, job_id, score, highlights, created FROM match_results WHERE resume_id = ? ORDER BY score DESC`, resumeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.MatchResult
	for rows.Next() {
		var m models.MatchResult
		var highlights string
		if err := rows.Scan(&m.ID, &m.ResumeID, &m.JobID, &m.Score, &highlights, &m.Created); err != nil {
			return nil, err
		}
		if highlights != "" {
			if err := json.Unmarshal([]byte(highlights), &m.Highlights); err != nil {
				return nil, fmt.Errorf("decode highlights for match %d: %w", m.ID, err)
			}
		}
		out = append(out, m)
	}

	return out, rows.Err()
}
