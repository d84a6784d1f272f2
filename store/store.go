// Package store persists reports and their analysis results in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Report represents a row in the reports table.
type Report struct {
	ID          int64  `json:"id"`
	Path        string `json:"path"`
	Filename    string `json:"filename"`
	Format      string `json:"format"`
	ContentHash string `json:"content_hash"`
	Status      string `json:"status"`
	Metadata    string `json:"metadata,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Analysis represents a row in the analyses table. Result is the JSON
// encoding of the full analysis bundle.
type Analysis struct {
	ID        int64  `json:"id"`
	ReportID  int64  `json:"report_id"`
	Result    string `json:"result"`
	CreatedAt string `json:"created_at"`
}

// Store wraps the SQLite database for all reportparse persistence.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at the given path and
// initialises the schema.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	// Connection pool settings for SQLite.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// --- Report operations ---

// UpsertReport inserts or updates a report record. Returns the report ID.
func (s *Store) UpsertReport(ctx context.Context, r Report) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (path, filename, format, content_hash, status, metadata)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			filename = excluded.filename,
			format = excluded.format,
			content_hash = excluded.content_hash,
			status = excluded.status,
			metadata = excluded.metadata,
			updated_at = CURRENT_TIMESTAMP
	`, r.Path, r.Filename, r.Format, r.ContentHash, r.Status, r.Metadata)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	// If UPSERT did an UPDATE, LastInsertId may not reflect the existing row.
	if id == 0 {
		row := s.db.QueryRowContext(ctx, "SELECT id FROM reports WHERE path = ?", r.Path)
		if err := row.Scan(&id); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// GetReportByPath retrieves a report by its file path.
func (s *Store) GetReportByPath(ctx context.Context, path string) (*Report, error) {
	return s.getReport(ctx, "path = ?", path)
}

// GetReport retrieves a report by ID.
func (s *Store) GetReport(ctx context.Context, id int64) (*Report, error) {
	return s.getReport(ctx, "id = ?", id)
}

func (s *Store) getReport(ctx context.Context, where string, arg any) (*Report, error) {
	r := &Report{}
	var metadata sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, path, filename, format, content_hash, status, metadata, created_at, updated_at
		FROM reports WHERE `+where,
		arg).Scan(&r.ID, &r.Path, &r.Filename, &r.Format,
		&r.ContentHash, &r.Status, &metadata, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.Metadata = metadata.String
	return r, nil
}

// ListReports returns all reports ordered by creation time.
func (s *Store) ListReports(ctx context.Context) ([]Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path, filename, format, content_hash, status, metadata, created_at, updated_at
		FROM reports ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var r Report
		var metadata sql.NullString
		if err := rows.Scan(&r.ID, &r.Path, &r.Filename, &r.Format,
			&r.ContentHash, &r.Status, &metadata, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		r.Metadata = metadata.String
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// UpdateReportStatus updates just the status field.
func (s *Store) UpdateReportStatus(ctx context.Context, id int64, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE reports SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, id)
	return err
}

// DeleteReport removes a report and its analyses.
func (s *Store) DeleteReport(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM analyses WHERE report_id = ?", id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM reports WHERE id = ?", id); err != nil {
			return err
		}
		return nil
	})
}

// --- Analysis operations ---

// SaveAnalysis stores an analysis result, replacing any earlier result for
// the same report.
func (s *Store) SaveAnalysis(ctx context.Context, reportID int64, result string) (int64, error) {
	var id int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM analyses WHERE report_id = ?", reportID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO analyses (report_id, result) VALUES (?, ?)", reportID, result)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	return id, err
}

// GetAnalysis retrieves the analysis for a report.
func (s *Store) GetAnalysis(ctx context.Context, reportID int64) (*Analysis, error) {
	a := &Analysis{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, report_id, result, created_at
		FROM analyses WHERE report_id = ? ORDER BY id DESC LIMIT 1
	`, reportID).Scan(&a.ID, &a.ReportID, &a.Result, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// inTx runs fn inside a transaction, committing on success and rolling
// back on error.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
