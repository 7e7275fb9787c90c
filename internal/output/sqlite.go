package output

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	// SQLite driver using pure Go implementation
	_ "modernc.org/sqlite"

	"github.com/soltixdb/varindex/internal/analytics/variability"
)

// ErrStarNotFound is returned by SQLiteStore.Get for an unknown star
var ErrStarNotFound = errors.New("star not found")

const sqliteBusyTimeoutMs = 5000

// SQLiteStore keeps the latest index set of every star in a SQLite table
// named indices, one REAL column per index.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.Mutex
	closed bool

	upsertStmt *sql.Stmt
	selectStmt *sql.Stmt
}

// OpenSQLite opens (creating if needed) the store at path
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", path, sqliteBusyTimeoutMs)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}
	return s, nil
}

func quotedColumns() []string {
	cols := variability.Columns()
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = `"` + c + `"`
	}
	return out
}

func (s *SQLiteStore) initSchema() error {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE IF NOT EXISTS indices (\n\tstar TEXT PRIMARY KEY,\n\tn INTEGER NOT NULL")
	for _, c := range quotedColumns() {
		sb.WriteString(",\n\t" + c + " REAL NOT NULL")
	}
	sb.WriteString(",\n\tstatus TEXT NOT NULL DEFAULT '{}'\n)")

	_, err := s.db.Exec(sb.String())
	return err
}

func (s *SQLiteStore) prepareStatements() error {
	cols := quotedColumns()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)+3), ", ")
	updates := make([]string, 0, len(cols)+2)
	updates = append(updates, "n = excluded.n")
	for _, c := range cols {
		updates = append(updates, c+" = excluded."+c)
	}
	updates = append(updates, "status = excluded.status")

	upsert := fmt.Sprintf(
		"INSERT INTO indices (star, n, %s, status) VALUES (%s) ON CONFLICT(star) DO UPDATE SET %s",
		strings.Join(cols, ", "), placeholders, strings.Join(updates, ", "))

	var err error
	if s.upsertStmt, err = s.db.Prepare(upsert); err != nil {
		return err
	}

	sel := fmt.Sprintf("SELECT n, %s, status FROM indices WHERE star = ?", strings.Join(cols, ", "))
	if s.selectStmt, err = s.db.Prepare(sel); err != nil {
		return err
	}
	return nil
}

// Write upserts the row of one star
func (s *SQLiteStore) Write(ctx context.Context, star string, set variability.IndexSet) error {
	rec := set.Record(star)
	status, err := json.Marshal(rec.Status)
	if err != nil {
		return err
	}
	if rec.Status == nil {
		status = []byte("{}")
	}

	args := make([]any, 0, variability.NumIndices+3)
	args = append(args, star, set.N())
	for _, v := range set.Values() {
		args = append(args, v)
	}
	args = append(args, string(status))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("sqlite store closed")
	}

	if _, err := s.upsertStmt.ExecContext(ctx, args...); err != nil {
		return fmt.Errorf("failed to upsert indices of %s: %w", star, err)
	}
	return nil
}

// Get returns the stored record of a star
func (s *SQLiteStore) Get(ctx context.Context, star string) (variability.Record, error) {
	values := make([]float64, variability.NumIndices)
	var n int
	var status string

	dest := make([]any, 0, variability.NumIndices+2)
	dest = append(dest, &n)
	for i := range values {
		dest = append(dest, &values[i])
	}
	dest = append(dest, &status)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return variability.Record{}, fmt.Errorf("sqlite store closed")
	}

	err := s.selectStmt.QueryRowContext(ctx, star).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return variability.Record{}, fmt.Errorf("%s: %w", star, ErrStarNotFound)
	}
	if err != nil {
		return variability.Record{}, fmt.Errorf("failed to query indices of %s: %w", star, err)
	}

	rec := variability.Record{
		Star:    star,
		N:       n,
		Indices: make(map[string]float64, variability.NumIndices),
	}
	for i, name := range variability.Columns() {
		rec.Indices[name] = values[i]
	}
	if status != "{}" {
		if err := json.Unmarshal([]byte(status), &rec.Status); err != nil {
			return variability.Record{}, fmt.Errorf("corrupt status of %s: %w", star, err)
		}
	}
	return rec, nil
}

// Count returns the number of stored stars
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM indices").Scan(&n)
	return n, err
}

// Close releases the prepared statements and the database
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	s.upsertStmt.Close()
	s.selectStmt.Close()
	return s.db.Close()
}
