package sqlite

import (
	"context"

	"github.com/jobdeck/jobdeck/pkg/models"
)

// AddCartItem is idempotent: re-adding a job already in the cart is a no-op.
func (r *SQLiteRepo) AddCartItem(ctx context.Context, userID, jobID int64) error {
	_, err := r.conn.Exec(ctx, `INSERT OR IGNORE INTO cart_items (user_id, job_id, created) VALUES (?, ?, ?)`, userID, jobID, now())
	return err
}

func (r *SQLiteRepo) RemoveCartItem(ctx context.Context, userID, jobID int64) (bool, error) {
	res, err := r.conn.Exec(ctx, `DELETE FROM cart_items WHERE user_id = ? AND job_id = ?`, userID, jobID)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *SQLiteRepo) ClearCart(ctx context.Context, userID int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID)
	return err
}

func (r *SQLiteRepo) ListCartItems(ctx context.Context, userID int64) ([]models.CartItem, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, user_id, job_id, created FROM cart_items WHERE user_id = ? ORDER BY created, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CartItem
	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.JobID, &item.Created); err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) CountCartItems(ctx context.Context, userID int64) (int64, error) {
	var n int64
	row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM cart_items WHERE user_id = ?`, userID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}

	return n, nil
}
