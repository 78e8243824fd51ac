package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jobdeck/jobdeck/pkg/models"
)

func (r *SQLiteRepo) CreateIndustry(ctx context.Context, in *models.Industry) (int64, error) {
	if in == nil {
		return 0, fmt.Errorf("industry is nil")
	}

	ts := now()
	res, err := r.conn.Exec(ctx,
		`INSERT INTO industries (code, name, parent_id, sort_order, is_active, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.Code, in.Name, in.ParentID, in.SortOrder, boolToInt(in.IsActive), ts, ts)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetIndustryByCode(ctx context.Context, code string) (*models.Industry, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, code, name, parent_id, sort_order, is_active, created, updated FROM industries WHERE code = ?`, code)
	var in models.Industry
	var active int
	if err := row.Scan(&in.ID, &in.Code, &in.Name, &in.ParentID, &in.SortOrder, &active, &in.Created, &in.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	in.IsActive = active != 0
	return &in, nil
}

func (r *SQLiteRepo) GetIndustryByID(ctx context.Context, id int64) (*models.Industry, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, code, name, parent_id, sort_order, is_active, created, updated FROM industries WHERE id = ?`, id)
	var in models.Industry
	var active int
	if err := row.Scan(&in.ID, &in.Code, &in.Name, &in.ParentID, &in.SortOrder, &active, &in.Created, &in.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	in.IsActive = active != 0
	return &in, nil
}

func (r *SQLiteRepo) UpdateIndustry(ctx context.Context, in *models.Industry) error {
	if in == nil {
		return fmt.Errorf("industry is nil")
	}

	res, err := r.conn.Exec(ctx,
		`UPDATE industries SET name = ?, parent_id = ?, sort_order = ?, is_active = ?, updated = ? WHERE id = ?`,
		in.Name, in.ParentID, in.SortOrder, boolToInt(in.IsActive), now(), in.ID)
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

// DeactivateIndustry soft-deletes; the row survives so postings keep their
// industry link.
func (r *SQLiteRepo) DeactivateIndustry(ctx context.Context, id int64) error {
	res, err := r.conn.Exec(ctx, `UPDATE industries SET is_active = 0, updated = ? WHERE id = ?`, now(), id)
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

func (r *SQLiteRepo) ListIndustries(ctx context.Context, activeOnly bool) ([]models.Industry, error) {
	q := `SELECT id, code, name, parent_id, sort_order, is_active, created, updated FROM industries`
	if activeOnly {
		q += ` WHERE is_active = 1`
	}
	q += ` ORDER BY sort_order, id`

	rows, err := r.conn.QueryRows(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Industry
	for rows.Next() {
		var in models.Industry
		var active int
		if err := rows.Scan(&in.ID, &in.Code, &in.Name, &in.ParentID, &in.SortOrder, &active, &in.Created, &in.Updated); err != nil {
			return nil, err
		}
		in.IsActive = active != 0
		out = append(out, in)
	}

	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
