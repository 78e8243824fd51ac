package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jobdeck/jobdeck/pkg/models"
)

const postingCols = `id, title, company_name, industry_id, industry_name, apply_email, email_subject_template, email_body_template, requirements, source_type, raw_content, published_at, status, created, updated`

func (r *SQLiteRepo) CreatePosting(ctx context.Context, p *models.Posting) (int64, error) {
	if p == nil {
		return 0, fmt.Errorf("posting is nil")
	}
	if p.Status == "" {
		p.Status = "active"
	}
	if p.SourceType == "" {
		p.SourceType = "manual"
	}

	reqs, err := marshalRequirements(p.Requirements)
	if err != nil {
		return 0, err
	}

	ts := now()
	res, err := r.conn.Exec(ctx,
		`INSERT INTO jobs (title, company_name, industry_id, industry_name, apply_email, email_subject_template, email_body_template, requirements, source_type, raw_content, published_at, status, created, updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.CompanyName, p.IndustryID, p.IndustryName, p.ApplyEmail, p.SubjectTpl, p.BodyTpl, reqs, p.SourceType, p.RawContent, p.PublishedAt, p.Status, ts, ts)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(p.TagIDs) > 0 {
		if err := r.SetPostingTags(ctx, id, p.TagIDs); err != nil {
			return 0, err
		}
	}

	return id, nil
}

func (r *SQLiteRepo) GetPostingByID(ctx context.Context, id int64) (*models.Posting, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+postingCols+` FROM jobs WHERE id = ?`, id)
	p, err := scanPosting(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	tags, err := r.postingTagIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	p.TagIDs = tags

	return p, nil
}

func (r *SQLiteRepo) ListPostings(ctx context.Context, status string, limit, offset int) ([]models.Posting, error) {
	if limit <= 0 {
		limit = 50
	}

	q := `SELECT ` + postingCols + ` FROM jobs`
	args := []any{}
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.conn.QueryRows(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Posting
	for rows.Next() {
		p, err := scanPosting(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		tags, err := r.postingTagIDs(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].TagIDs = tags
	}

	return out, nil
}

func (r *SQLiteRepo) UpdatePosting(ctx context.Context, p *models.Posting) error {
	if p == nil {
		return fmt.Errorf("posting is nil")
	}

	reqs, err := marshalRequirements(p.Requirements)
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(ctx,
		`UPDATE jobs SET title = ?, company_name = ?, industry_id = ?, industry_name = ?, apply_email = ?, email_subject_template = ?, email_body_template = ?, requirements = ?, source_type = ?, raw_content = ?, published_at = ?, status = ?, updated = ? WHERE id = ?`,
		p.Title, p.CompanyName, p.IndustryID, p.IndustryName, p.ApplyEmail, p.SubjectTpl, p.BodyTpl, reqs, p.SourceType, p.RawContent, p.PublishedAt, p.Status, now(), p.ID)
	if err != nil {
		return err
	}

	return r.SetPostingTags(ctx, p.ID, p.TagIDs)
}

func (r *SQLiteRepo) DeletePosting(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	return err
}

// SetPostingTags replaces a posting's tag links. Position preserves the order
// in which tags were supplied.
func (r *SQLiteRepo) SetPostingTags(ctx context.Context, postingID int64, tagIDs []int64) error {
	if _, err := r.conn.Exec(ctx, `DELETE FROM job_tags WHERE job_id = ?`, postingID); err != nil {
		return err
	}

	for i, tagID := range tagIDs {
		if _, err := r.conn.Exec(ctx, `INSERT OR IGNORE INTO job_tags (job_id, tag_id, position) VALUES (?, ?, ?)`, postingID, tagID, i); err != nil {
			return err
		}
	}

	return nil
}

func (r *SQLiteRepo) ExpirePostingsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.conn.Exec(ctx, `UPDATE jobs SET status = 'expired', updated = ? WHERE status = 'active' AND created < ?`, now(), cutoff.UTC().Unix())
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (r *SQLiteRepo) postingTagIDs(ctx context.Context, postingID int64) ([]int64, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT tag_id FROM job_tags WHERE job_id = ? ORDER BY position, tag_id`, postingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func scanPosting(scan func(dest ...any) error) (*models.Posting, error) {
	var p models.Posting
	var reqs string
	if err := scan(&p.ID, &p.Title, &p.CompanyName, &p.IndustryID, &p.IndustryName, &p.ApplyEmail, &p.SubjectTpl, &p.BodyTpl, &reqs, &p.SourceType, &p.RawContent, &p.PublishedAt, &p.Status, &p.Created, &p.Updated); err != nil {
		return nil, err
	}

	if reqs != "" {
		if err := json.Unmarshal([]byte(reqs), &p.Requirements); err != nil {
			return nil, fmt.Errorf("decode requirements for job %d: %w", p.ID, err)
		}
	}

	return &p, nil
}

func marshalRequirements(reqs models.Requirements) (string, error) {
	b, err := json.Marshal(reqs)
	if err != nil {
		return "", fmt.Errorf("encode requirements: %w", err)
	}

	return string(b), nil
}
