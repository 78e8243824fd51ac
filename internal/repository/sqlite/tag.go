package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jobdeck/jobdeck/pkg/models"
)

func (r *SQLiteRepo) CreateTag(ctx context.Context, t *models.Tag) (int64, error) {
	if t == nil {
		return 0, fmt.Errorf("tag is nil")
	}
	if t.Category == "" {
		t.Category = "skill"
	}
	if t.Color == "" {
		t.Color = "#1890ff"
	}

	ts := now()
	res, err := r.conn.Exec(ctx,
		`INSERT INTO tags (code, name, category, color, is_active, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.Code, t.Name, t.Category, t.Color, boolToInt(t.IsActive), ts, ts)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetTagByCode(ctx context.Context, code string) (*models.Tag, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, code, name, category, color, is_active, created, updated FROM tags WHERE code = ?`, code)
	var t models.Tag
	var active int
	if err := row.Scan(&t.ID, &t.Code, &t.Name, &t.Category, &t.Color, &active, &t.Created, &t.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	t.IsActive = active != 0
	return &t, nil
}

func (r *SQLiteRepo) GetTagByID(ctx context.Context, id int64) (*models.Tag, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, code, name, category, color, is_active, created, updated FROM tags WHERE id = ?`, id)
	var t models.Tag
	var active int
	if err := row.Scan(&t.ID, &t.Code, &t.Name, &t.Category, &t.Color, &active, &t.Created, &t.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	t.IsActive = active != 0
	return &t, nil
}

func (r *SQLiteRepo) UpdateTag(ctx context.Context, t *models.Tag) error {
	if t == nil {
		return fmt.Errorf("tag is nil")
	}

	res, err := r.conn.Exec(ctx,
		`UPDATE tags SET name = ?, category = ?, color = ?, is_active = ?, updated = ? WHERE id = ?`,
		t.Name, t.Category, t.Color, boolToInt(t.IsActive), now(), t.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// DeactivateTag soft-deletes; job_tags rows referencing the tag stay intact.
func (r *SQLiteRepo) DeactivateTag(ctx context.Context, id int64) error {
	res, err := r.conn.Exec(ctx, `UPDATE tags SET is_active = 0, updated = ? WHERE id = ?`, now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *SQLiteRepo) ListTags(ctx context.Context, activeOnly bool) ([]models.Tag, error) {
	q := `SELECT id, code, name, category, color, is_active, created, updated FROM tags`
	if activeOnly {
		q += ` WHERE is_active = 1`
	}
	q += ` ORDER BY id`

	rows, err := r.conn.QueryRows(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Tag
	for rows.Next() {
		var t models.Tag
		var active int
		if err := rows.Scan(&t.ID, &t.Code, &t.Name, &t.Category, &t.Color, &active, &t.Created, &t.Updated); err != nil {
			return nil, err
		}
		t.IsActive = active != 0
		out = append(out, t)
	}

	return out, rows.Err()
}
