package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmunix/vkine/internal/catalog"
)

// Tx wraps a write transaction. The listings core never writes; Tx exists for
// fixtures and local development data.
type Tx struct {
	tx *sql.Tx
}

// Begin starts a write transaction.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

func putMovie(ctx context.Context, q querier, m catalog.Movie) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode movie %d: %w", m.ID, err)
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO movies (id, title, data) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		m.ID, m.Title, string(data),
	)
	if err != nil {
		return fmt.Errorf("put movie %d: %w", m.ID, mapSQLiteError(err))
	}
	return nil
}

// PutMovie inserts or replaces a movie. A replaced movie keeps its catalog position.
func (t *Tx) PutMovie(ctx context.Context, m catalog.Movie) error { return putMovie(ctx, t.tx, m) }

func putVenue(ctx context.Context, q querier, v catalog.Venue) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode venue %d: %w", v.ID, err)
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO venues (id, name, data) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, data = excluded.data`,
		v.ID, v.Name, string(data),
	)
	if err != nil {
		return fmt.Errorf("put venue %d: %w", v.ID, mapSQLiteError(err))
	}
	return nil
}

// PutVenue inserts or replaces a venue.
func (t *Tx) PutVenue(ctx context.Context, v catalog.Venue) error { return putVenue(ctx, t.tx, v) }

func putSchedule(ctx context.Context, q querier, e catalog.ScheduleEntry) error {
	perfs := make([]catalog.Performance, len(e.Performances))
	for i, p := range e.Performances {
		p.Venue = nil
		perfs[i] = p
	}
	data, err := json.Marshal(perfs)
	if err != nil {
		return fmt.Errorf("encode schedule %s/%d: %w", e.Date, e.MovieID, err)
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO schedules (date, movie_id, movie_title, performances) VALUES (?, ?, ?, ?)
		ON CONFLICT(date, movie_id) DO UPDATE SET
			movie_title = excluded.movie_title,
			performances = excluded.performances,
			stored_at = CURRENT_TIMESTAMP`,
		e.Date.String(), e.MovieID, e.MovieTitle, string(data),
	)
	if err != nil {
		return fmt.Errorf("put schedule %s/%d: %w", e.Date, e.MovieID, mapSQLiteError(err))
	}
	return nil
}

// PutSchedule inserts or replaces the entry for (Date, MovieID). Resolved venues are not stored.
func (t *Tx) PutSchedule(ctx context.Context, e catalog.ScheduleEntry) error {
	return putSchedule(ctx, t.tx, e)
}

func putPremiere(ctx context.Context, q querier, p catalog.Premiere) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO premieres (movie_id, date) VALUES (?, ?)
		ON CONFLICT(movie_id) DO UPDATE SET date = excluded.date, stored_at = CURRENT_TIMESTAMP`,
		p.MovieID, p.Date.String(),
	)
	if err != nil {
		return fmt.Errorf("put premiere %d: %w", p.MovieID, mapSQLiteError(err))
	}
	return nil
}

// PutPremiere inserts or replaces a premiere.
func (t *Tx) PutPremiere(ctx context.Context, p catalog.Premiere) error {
	return putPremiere(ctx, t.tx, p)
}

// Fixtures is the JSON document accepted by LoadFixtures.
type Fixtures struct {
	Movies    []catalog.Movie         `json:"movies"`
	Venues    []catalog.Venue         `json:"venues"`
	Schedules []catalog.ScheduleEntry `json:"schedules"`
	Premieres []catalog.Premiere      `json:"premieres"`
}

// LoadFixtures decodes a Fixtures document from r and writes it in one transaction.
func (s *Store) LoadFixtures(ctx context.Context, r io.Reader) (err error) {
	var f Fixtures
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, m := range f.Movies {
		if err = tx.PutMovie(ctx, m); err != nil {
			return err
		}
	}
	for _, v := range f.Venues {
		if err = tx.PutVenue(ctx, v); err != nil {
			return err
		}
	}
	for _, e := range f.Schedules {
		if err = tx.PutSchedule(ctx, e); err != nil {
			return err
		}
	}
	for _, p := range f.Premieres {
		if err = tx.PutPremiere(ctx, p); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit fixtures: %w", err)
	}
	s.logger.Info("loaded fixtures",
		"movies", len(f.Movies),
		"venues", len(f.Venues),
		"schedules", len(f.Schedules),
		"premieres", len(f.Premieres),
	)
	return nil
}
