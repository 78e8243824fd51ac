package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jobdeck/jobdeck/pkg/models"
)

func (r *SQLiteRepo) CreateResume(ctx context.Context, res *models.Resume) error {
	if res == nil {
		return fmt.Errorf("resume is nil")
	}
	if res.ID == "" {
		return fmt.Errorf("resume id is empty")
	}

	ts := now()
	_, err := r.conn.Exec(ctx,
		`INSERT INTO resumes (id, user_id, file_name, file_path, mime_type, size_bytes, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.UserID, res.FileName, res.FilePath, res.MimeType, res.SizeBytes, ts, ts)
	return err
}

func (r *SQLiteRepo) GetResumeByID(ctx context.Context, id string) (*models.Resume, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, user_id, file_name, file_path, mime_type, size_bytes, created, updated FROM resumes WHERE id = ?`, id)
	var res models.Resume
	if err := row.Scan(&res.ID, &res.UserID, &res.FileName, &res.FilePath, &res.MimeType, &res.SizeBytes, &res.Created, &res.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &res, nil
}

func (r *SQLiteRepo) ListResumes(ctx context.Context, userID int64) ([]models.Resume, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, user_id, file_name, file_path, mime_type, size_bytes, created, updated FROM resumes WHERE user_id = ? ORDER BY created DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Resume
	for rows.Next() {
		var res models.Resume
		if err := rows.Scan(&res.ID, &res.UserID, &res.FileName, &res.FilePath, &res.MimeType, &res.SizeBytes, &res.Created, &res.Updated); err != nil {
			return nil, err
		}
		out = append(out, res)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) SaveResumeParse(ctx context.Context, p *models.ResumeParse) (int64, error) {
	if p == nil {
		return 0, fmt.Errorf("resume parse is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO resume_parses (resume_id, parsed, model, created) VALUES (?, ?, ?, ?)`, p.ResumeID, p.Parsed, p.Model, now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) LatestResumeParse(ctx context.Context, resumeID string) (*models.ResumeParse, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, resume_id, parsed, model, created FROM resume_parses WHERE resume_id = ? ORDER BY id DESC LIMIT 1`, resumeID)
	var p models.ResumeParse
	if err := row.Scan(&p.ID, &p.ResumeID, &p.Parsed, &p.Model, &p.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &p, nil
}
