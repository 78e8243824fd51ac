package sqlite

import (
	"io"
	"time"

	"log/slog"

	"github.com/jobdeck/jobdeck/internal/db"
	"github.com/jobdeck/jobdeck/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.UserRepo = (*SQLiteRepo)(nil)
var _ repository.IndustryRepo = (*SQLiteRepo)(nil)
var _ repository.TagRepo = (*SQLiteRepo)(nil)
var _ repository.PostingRepo = (*SQLiteRepo)(nil)
var _ repository.CartRepo = (*SQLiteRepo)(nil)
var _ repository.ResumeRepo = (*SQLiteRepo)(nil)
var _ repository.MatchRepo = (*SQLiteRepo)(nil)
var _ repository.DeliveryRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

// now returns Unix seconds; the schema stores all timestamps in seconds.
func now() int64 {
	return time.Now().UTC().Unix()
}
