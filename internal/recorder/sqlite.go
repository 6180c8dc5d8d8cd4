package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"CodeSentinel/internal/model"
)

// SQLiteRecorder persists scan history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while a scan writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scans (
			id           TEXT PRIMARY KEY,
			started      INTEGER NOT NULL,
			finished     INTEGER NOT NULL,
			roots        TEXT,
			files        INTEGER,
			bytes        INTEGER,
			parse_errors INTEGER,
			findings     INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS findings (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			scan_id  TEXT NOT NULL,
			path     TEXT NOT NULL,
			line     INTEGER NOT NULL,
			col      INTEGER,
			kind     TEXT NOT NULL,
			severity TEXT,
			message  TEXT,
			detector TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_findings_scan ON findings(scan_id)`,
		`CREATE INDEX IF NOT EXISTS idx_findings_key ON findings(path, line, kind)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordScan stores the scan and its findings in one transaction.
func (r *SQLiteRecorder) RecordScan(result *model.ScanResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	sum := result.Summary
	_, err = tx.Exec(`INSERT INTO scans
		(id, started, finished, roots, files, bytes, parse_errors, findings)
		VALUES (?,?,?,?,?,?,?,?)`,
		sum.ID, sum.Started.Unix(), sum.Finished.Unix(),
		strings.Join(sum.Roots, ","), sum.Files, sum.Bytes, sum.ParseErrors,
		len(result.Findings),
	)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO findings
		(scan_id, path, line, col, kind, severity, message, detector)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare findings: %w", err)
	}
	defer stmt.Close()

	for _, f := range result.Findings {
		if _, err := stmt.Exec(sum.ID, f.Path, f.Line, f.Col, f.Kind, string(f.Severity), f.Message, f.Detector); err != nil {
			return fmt.Errorf("insert finding: %w", err)
		}
	}

	return tx.Commit()
}

// KnownFindings returns the identity keys of every recorded finding.
func (r *SQLiteRecorder) KnownFindings() (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT DISTINCT path, line, kind FROM findings`)
	if err != nil {
		return nil, fmt.Errorf("query findings: %w", err)
	}
	defer rows.Close()

	known := make(map[string]bool)
	for rows.Next() {
		var (
			path string
			line int
			kind string
		)
		if err := rows.Scan(&path, &line, &kind); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		known[fmt.Sprintf("%s:%d:%s", path, line, kind)] = true
	}
	return known, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
