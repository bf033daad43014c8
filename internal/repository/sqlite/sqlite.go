package sqlite

import (
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/garnizeh/workshop/internal/db"
	"github.com/garnizeh/workshop/pkg/repository"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// timestampLayout sorts lexicographically, so ORDER BY on the TEXT columns
// follows time order.
const timestampLayout = "2006-01-02 15:04:05.000"

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
	now    func() time.Time
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.UserRepo = (*SQLiteRepo)(nil)
var _ repository.RepairRepo = (*SQLiteRepo)(nil)
var _ repository.HistoryRepo = (*SQLiteRepo)(nil)
var _ repository.StatsRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteRepo{conn: conn, logger: logger, now: time.Now}
}

func (r *SQLiteRepo) timestamp() string {
	return r.now().UTC().Format(timestampLayout)
}

func (r *SQLiteRepo) today() string {
	return r.now().UTC().Format(time.DateOnly)
}

// isConstraintViolation reports whether err is a SQLite constraint failure
// mentioning column (e.g. "repair_jobs.job_id").
func isConstraintViolation(err error, column string) bool {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), column)
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullInt64(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}
