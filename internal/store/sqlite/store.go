// Package sqlite implements store.Store on an embedded SQLite database.
// It backs local development and integration tests.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/vmunix/vkine/internal/catalog"
	"github.com/vmunix/vkine/internal/migrations"
	"github.com/vmunix/vkine/internal/store"
	"github.com/vmunix/vkine/pkg/textmatch"
)

// querier abstracts *sql.DB and *sql.Tx for shared query logic.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Store reads listings from SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ store.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies the schema.
// ":memory:" opens a private in-memory database.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if strings.HasPrefix(path, ":memory:") {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return New(db, logger), nil
}

// New wraps a database that already has the schema applied.
func New(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger.With("component", "sqlite-store")}
}

// mapSQLiteError converts SQLite errors to store sentinel errors.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// Movies returns movies by id, or a page in insertion order.
func (s *Store) Movies(ctx context.Context, f store.MovieFilter) ([]catalog.Movie, error) {
	var (
		query string
		args  []any
	)
	if len(f.IDs) > 0 {
		query = `SELECT data FROM movies WHERE id IN (` + placeholders(len(f.IDs)) + `) ORDER BY seq`
		for _, id := range f.IDs {
			args = append(args, id)
		}
	} else {
		limit := f.Limit
		if limit <= 0 {
			limit = -1
		}
		query = `SELECT data FROM movies ORDER BY seq LIMIT ? OFFSET ?`
		args = append(args, limit, max(f.Offset, 0))
	}

	movies, err := queryJSON[catalog.Movie](ctx, s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

// SearchMovies scans the catalog in insertion order and keeps movies matching every token.
func (s *Store) SearchMovies(ctx context.Context, tokens []string, limit int) ([]catalog.Movie, error) {
	m := textmatch.NewMatcher(tokens)
	out := []catalog.Movie{}
	if m.Empty() {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT data FROM movies ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", mapSQLiteError(err))
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		var mv catalog.Movie
		if err := json.Unmarshal(raw, &mv); err != nil {
			return nil, fmt.Errorf("decode movie: %w", err)
		}
		if m.Match(mv.SearchFields()...) {
			out = append(out, mv)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	return out, nil
}

// CountMovies returns the number of stored movies.
func (s *Store) CountMovies(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movies: %w", mapSQLiteError(err))
	}
	return n, nil
}

// Schedules returns entries ordered by date then movie id.
func (s *Store) Schedules(ctx context.Context, f store.ScheduleFilter) ([]catalog.ScheduleEntry, error) {
	query := `SELECT date, movie_id, movie_title, performances FROM schedules WHERE 1=1`
	var args []any
	if f.From != nil {
		query += ` AND date >= ?`
		args = append(args, f.From.String())
	}
	if f.To != nil {
		query += ` AND date <= ?`
		args = append(args, f.To.String())
	}
	if f.MovieID != nil {
		query += ` AND movie_id = ?`
		args = append(args, *f.MovieID)
	}
	query += ` ORDER BY date, movie_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", mapSQLiteError(err))
	}
	defer func() { _ = rows.Close() }()

	var out []catalog.ScheduleEntry
	for rows.Next() {
		var (
			e     catalog.ScheduleEntry
			date  string
			perfs []byte
		)
		if err := rows.Scan(&date, &e.MovieID, &e.MovieTitle, &perfs); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		if e.Date, err = catalog.ParseDate(date); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(perfs, &e.Performances); err != nil {
			return nil, fmt.Errorf("decode performances for movie %d: %w", e.MovieID, err)
		}
		e.Performances = catalog.MergePerformances(e.Performances)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return out, nil
}

// Venues returns venues by id, or all venues when no ids are given.
func (s *Store) Venues(ctx context.Context, f store.VenueFilter) ([]catalog.Venue, error) {
	query := `SELECT data FROM venues`
	var args []any
	if len(f.IDs) > 0 {
		query += ` WHERE id IN (` + placeholders(len(f.IDs)) + `)`
		for _, id := range f.IDs {
			args = append(args, id)
		}
	}
	query += ` ORDER BY id`

	venues, err := queryJSON[catalog.Venue](ctx, s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return venues, nil
}

// Premieres returns premieres on or after from, ascending by date.
func (s *Store) Premieres(ctx context.Context, from catalog.Date) ([]catalog.Premiere, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT movie_id, date FROM premieres WHERE date >= ? ORDER BY date, movie_id`, from.String())
	if err != nil {
		return nil, fmt.Errorf("list premieres: %w", mapSQLiteError(err))
	}
	defer func() { _ = rows.Close() }()

	var out []catalog.Premiere
	for rows.Next() {
		var (
			p    catalog.Premiere
			date string
		)
		if err := rows.Scan(&p.MovieID, &date); err != nil {
			return nil, fmt.Errorf("scan premiere: %w", err)
		}
		if p.Date, err = catalog.ParseDate(date); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list premieres: %w", err)
	}
	return out, nil
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sqlite: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close(_ context.Context) error {
	return s.db.Close()
}

func queryJSON[T any](ctx context.Context, q querier, query string, args ...any) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer func() { _ = rows.Close() }()

	var out []T
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
