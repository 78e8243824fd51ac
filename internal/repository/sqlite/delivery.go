package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jobdeck/jobdeck/pkg/models"
)

const deliveryCols = `id, batch_id, job_id, resume_id, user_id, status, sent_at, delivered_at, viewed_at, replied_at, created, updated`

// CreateBatch inserts the batch row and one pending delivery per job in a
// single transaction, so a failed insert leaves no partial batch behind.
func (r *SQLiteRepo) CreateBatch(ctx context.Context, b *models.DeliveryBatch, jobIDs []int64) ([]models.Delivery, error) {
	if b == nil {
		return nil, fmt.Errorf("batch is nil")
	}
	if len(jobIDs) == 0 {
		return nil, fmt.Errorf("batch has no jobs")
	}

	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ts := now()
	cfg := string(b.Config)
	if cfg == "" {
		cfg = "{}"
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO delivery_batches (id, user_id, resume_id, config, created) VALUES (?, ?, ?, ?, ?)`, b.ID, b.UserID, b.ResumeID, cfg, ts); err != nil {
		return nil, err
	}

	out := make([]models.Delivery, 0, len(jobIDs))
	for _, jobID := range jobIDs {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO deliveries (batch_id, job_id, resume_id, user_id, status, created, updated) VALUES (?, ?, ?, ?, 'pending', ?, ?)`,
			b.ID, jobID, b.ResumeID, b.UserID, ts, ts)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		out = append(out, models.Delivery{
			ID:       id,
			BatchID:  b.ID,
			JobID:    jobID,
			ResumeID: b.ResumeID,
			UserID:   b.UserID,
			Status:   "pending",
			Created:  ts,
			Updated:  ts,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	b.Created = ts
	return out, nil
}

func (r *SQLiteRepo) GetDeliveryByID(ctx context.Context, id int64) (*models.Delivery, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+deliveryCols+` FROM deliveries WHERE id = ?`, id)
	d, err := scanDelivery(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return d, nil
}

func (r *SQLiteRepo) ListDeliveries(ctx context.Context, userID int64, status string, limit, offset int) ([]models.Delivery, error) {
	if limit <= 0 {
		limit = 100
	}

	// userID 0 means all users (maintenance scans)
	q := `SELECT ` + deliveryCols + ` FROM deliveries WHERE 1=1`
	var args []any
	if userID > 0 {
		q += ` AND user_id = ?`
		args = append(args, userID)
	}
	if status != "" {
		q += ` AND status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	return r.queryDeliveries(ctx, q, args...)
}

func (r *SQLiteRepo) ListDeliveriesByBatch(ctx context.Context, batchID string) ([]models.Delivery, error) {
	return r.queryDeliveries(ctx, `SELECT `+deliveryCols+` FROM deliveries WHERE batch_id = ? ORDER BY id`, batchID)
}

// UpdateDeliveryStatus sets the new status and stamps the matching milestone
// column when the status has one.
func (r *SQLiteRepo) UpdateDeliveryStatus(ctx context.Context, id int64, status string, at time.Time) error {
	ts := at.UTC().Unix()

	var col string
	switch status {
	case "sent":
		col = "sent_at"
	case "delivered":
		col = "delivered_at"
	case "viewed":
		col = "viewed_at"
	case "replied":
		col = "replied_at"
	}

	q := `UPDATE deliveries SET status = ?, updated = ?`
	args := []any{status, ts}
	if col != "" {
		q += `, ` + col + ` = ?`
		args = append(args, ts)
	}
	q += ` WHERE id = ?`
	args = append(args, id)

	res, err := r.conn.Exec(ctx, q, args...)
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

func (r *SQLiteRepo) queryDeliveries(ctx context.Context, q string, args ...any) ([]models.Delivery, error) {
	rows, err := r.conn.QueryRows(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}

	return out, rows.Err()
}

func scanDelivery(scan func(dest ...any) error) (*models.Delivery, error) {
	var d models.Delivery
	if err := scan(&d.ID, &d.BatchID, &d.JobID, &d.ResumeID, &d.UserID, &d.Status, &d.SentAt, &d.DeliveredAt, &d.ViewedAt, &d.RepliedAt, &d.Created, &d.Updated); err != nil {
		return nil, err
	}

	return &d, nil
}
