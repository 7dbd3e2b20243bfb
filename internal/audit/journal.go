package audit

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/copybot/godash/pkg/logger"
)

// Journal is an append-only sqlite log of issued batch commands and their
// backend outcomes. Write failures are logged and swallowed; the journal
// must never block or break the dashboard.
type Journal struct {
	db *sql.DB
}

// Open opens (and migrates) the journal database.
func Open(dbPath string) (*Journal, error) {
	if dbPath == "" {
		return nil, errors.New("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite：单连接更稳定
	db.SetMaxIdleConns(1)

	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) migrate() error {
	_, err := j.db.Exec(`
CREATE TABLE IF NOT EXISTS command_log (
  id         INTEGER PRIMARY KEY AUTOINCREMENT,
  ts         TEXT NOT NULL,
  op         TEXT NOT NULL,
  request_id TEXT NOT NULL,
  payload    TEXT NOT NULL,
  outcome    TEXT NOT NULL,
  ok         INTEGER NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Record appends one command entry. The request id is the X-Request-ID the
// command carried, so an entry can be matched against the backend's logs.
// Errors are logged, never returned: auditing is best-effort by contract.
func (j *Journal) Record(op, requestID, payload, outcome string, ok bool) {
	okInt := 0
	if ok {
		okInt = 1
	}
	_, err := j.db.Exec(`
INSERT INTO command_log (ts,op,request_id,payload,outcome,ok) VALUES (?,?,?,?,?,?)
`, time.Now().Format(time.RFC3339Nano), op, requestID, payload, outcome, okInt)
	if err != nil {
		logger.Errorf("audit: record %s failed: %v", op, err)
	}
}

// Entry is one journal row.
type Entry struct {
	ID        int64
	TS        time.Time
	Op        string
	RequestID string
	Payload   string
	Outcome   string
	OK        bool
}

// Recent returns the most recent entries, newest first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.Query(`
SELECT id,ts,op,request_id,payload,outcome,ok FROM command_log ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ts string
		var ok int
		if err := rows.Scan(&e.ID, &ts, &e.Op, &e.RequestID, &e.Payload, &e.Outcome, &ok); err != nil {
			return nil, err
		}
		e.TS, _ = time.Parse(time.RFC3339Nano, ts)
		e.OK = ok == 1
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}
