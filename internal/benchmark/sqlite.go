package benchmark

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path and applies migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME NOT NULL,
		artifact TEXT NOT NULL,
		git_commit TEXT NOT NULL DEFAULT '',
		git_branch TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS session_rows (
		session_id INTEGER NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		workload TEXT NOT NULL,
		args TEXT NOT NULL,
		jit_ms REAL,
		no_jit_ms REAL,
		speedup REAL,
		PRIMARY KEY (session_id, position)
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Save(session Session) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO sessions (created_at, artifact, git_commit, git_branch) VALUES (?, ?, ?, ?)`,
		session.Timestamp.UTC(), session.Artifact, session.Commit, session.Branch)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i, r := range session.Rows {
		args, err := json.Marshal(r.Args)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO session_rows (session_id, position, workload, args, jit_ms, no_jit_ms, speedup) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, i, r.Workload, string(args), nullFloat(r.JITMillis), nullFloat(r.NoJITMillis), nullFloat(r.Speedup)); err != nil {
			return fmt.Errorf("failed to insert row: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) LoadAll() ([]Session, error) {
	rows, err := s.db.Query(`SELECT id, created_at, artifact, git_commit, git_branch FROM sessions ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	sessions, err := scanSessions(rows)
	if err != nil {
		return nil, err
	}

	for i := range sessions {
		if sessions[i].Rows, err = s.loadRows(sessions[i].ID); err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

func (s *SQLiteStore) LoadLatest() (*Session, error) {
	var sess Session
	err := s.db.QueryRow(`SELECT id, created_at, artifact, git_commit, git_branch FROM sessions ORDER BY created_at DESC, id DESC LIMIT 1`).
		Scan(&sess.ID, &sess.Timestamp, &sess.Artifact, &sess.Commit, &sess.Branch)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if sess.Rows, err = s.loadRows(sess.ID); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *SQLiteStore) loadRows(sessionID int64) ([]RowRecord, error) {
	rows, err := s.db.Query(`SELECT workload, args, jit_ms, no_jit_ms, speedup FROM session_rows WHERE session_id = ? ORDER BY position`, sessionID)
	if err != nil {
		return nil, err
	}
	return scanRowRecords(rows)
}

// scanSessions reads session headers; rows are loaded separately.
func scanSessions(rows *sql.Rows) ([]Session, error) {
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Timestamp, &sess.Artifact, &sess.Commit, &sess.Branch); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func scanRowRecords(rows *sql.Rows) ([]RowRecord, error) {
	defer rows.Close()

	var out []RowRecord
	for rows.Next() {
		var (
			rec                 RowRecord
			args                string
			jit, noJIT, speedup sql.NullFloat64
		)
		if err := rows.Scan(&rec.Workload, &args, &jit, &noJIT, &speedup); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(args), &rec.Args); err != nil {
			return nil, fmt.Errorf("corrupt args for %s: %w", rec.Workload, err)
		}
		rec.JITMillis = floatPtr(jit)
		rec.NoJITMillis = floatPtr(noJIT)
		rec.Speedup = floatPtr(speedup)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// OpenStore opens the history store for a driver name. For "postgres" the
// path is a connection string.
func OpenStore(driver, path string) (Store, error) {
	switch driver {
	case "postgres":
		return NewPostgresStore(path)
	case "sqlite":
		return NewSQLiteStore(path)
	case "json", "":
		return NewFileStore(path)
	}
	return nil, fmt.Errorf("unknown history driver %q", driver)
}
