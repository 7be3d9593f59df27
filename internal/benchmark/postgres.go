package benchmark

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

// ErrDSNRequired is returned when the postgres driver is selected without a connection string.
var ErrDSNRequired = errors.New("postgres history requires a connection string")

// PostgresStore implements Store using PostgreSQL, so several machines can
// share one history. Tables are prefixed because the database may be shared.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to dsn and applies migrations.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, ErrDSNRequired
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS slowbench_sessions (
			id BIGSERIAL PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			artifact TEXT NOT NULL,
			git_commit TEXT NOT NULL DEFAULT '',
			git_branch TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS slowbench_session_rows (
			session_id BIGINT NOT NULL REFERENCES slowbench_sessions(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			workload TEXT NOT NULL,
			args TEXT NOT NULL,
			jit_ms DOUBLE PRECISION,
			no_jit_ms DOUBLE PRECISION,
			speedup DOUBLE PRECISION,
			PRIMARY KEY (session_id, position)
		);`,
	}
	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Save(session Session) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRow(`INSERT INTO slowbench_sessions (created_at, artifact, git_commit, git_branch) VALUES ($1, $2, $3, $4) RETURNING id`,
		session.Timestamp.UTC(), session.Artifact, session.Commit, session.Branch).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	for i, r := range session.Rows {
		args, err := json.Marshal(r.Args)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO slowbench_session_rows (session_id, position, workload, args, jit_ms, no_jit_ms, speedup) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, i, r.Workload, string(args), nullFloat(r.JITMillis), nullFloat(r.NoJITMillis), nullFloat(r.Speedup)); err != nil {
			return fmt.Errorf("failed to insert row: %w", err)
		}
	}
	return tx.Commit()
}

func (s *PostgresStore) LoadAll() ([]Session, error) {
	rows, err := s.db.Query(`SELECT id, created_at, artifact, git_commit, git_branch FROM slowbench_sessions ORDER BY created_at, id`)
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

func (s *PostgresStore) LoadLatest() (*Session, error) {
	var sess Session
	err := s.db.QueryRow(`SELECT id, created_at, artifact, git_commit, git_branch FROM slowbench_sessions ORDER BY created_at DESC, id DESC LIMIT 1`).
		Scan(&sess.ID, &sess.Timestamp, &sess.Artifact, &sess.Commit, &sess.Branch)
	if errors.Is(err, sql.ErrNoRows) {
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

func (s *PostgresStore) loadRows(sessionID int64) ([]RowRecord, error) {
	rows, err := s.db.Query(`SELECT workload, args, jit_ms, no_jit_ms, speedup FROM slowbench_session_rows WHERE session_id = $1 ORDER BY position`, sessionID)
	if err != nil {
		return nil, err
	}
	return scanRowRecords(rows)
}
