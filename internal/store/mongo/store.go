// Package mongo implements store.Store on a MongoDB listings database.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/vmunix/vkine/internal/catalog"
	"github.com/vmunix/vkine/internal/store"
	"github.com/vmunix/vkine/pkg/textmatch"
)

// DefaultDatabase is the database holding the listings collections.
const DefaultDatabase = "movies"

// searchFields are matched by SearchMovies, one case-insensitive regex per token.
var searchFields = []string{
	"title",
	"description",
	"cast",
	"crew",
	"directors",
	"localized_titles.Original",
	"localized_titles.US",
	"localized_titles.GB",
	"localized_titles.AU",
}

// Config configures the MongoDB connection.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Store reads listings from MongoDB.
type Store struct {
	client    *mongo.Client
	movies    *mongo.Collection
	schedules *mongo.Collection
	venues    *mongo.Collection
	premieres *mongo.Collection
	logger    *slog.Logger
}

var _ store.Store = (*Store)(nil)

// Open connects to MongoDB and verifies the connection with a ping.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.URI == "" {
		return nil, errors.New("mongo uri is required")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	s := New(client, cfg.Database, logger)
	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, err
	}
	s.logger.Info("connected", "database", cfg.Database)
	return s, nil
}

// New wraps an existing client.
func New(client *mongo.Client, database string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	db := client.Database(database)
	return &Store{
		client:    client,
		movies:    db.Collection(moviesCollection),
		schedules: db.Collection(schedulesCollection),
		venues:    db.Collection(venuesCollection),
		premieres: db.Collection(premieresCollection),
		logger:    logger.With("component", "mongo-store"),
	}
}

// Movies returns movies by csfd id, or a page in natural insertion order.
func (s *Store) Movies(ctx context.Context, f store.MovieFilter) ([]catalog.Movie, error) {
	filter := bson.D{}
	opts := options.Find()
	if len(f.IDs) > 0 {
		filter = bson.D{{Key: "csfd_id", Value: bson.D{{Key: "$in", Value: f.IDs}}}}
	} else {
		opts.SetSort(bson.D{{Key: "_id", Value: 1}})
		if f.Offset > 0 {
			opts.SetSkip(int64(f.Offset))
		}
		if f.Limit > 0 {
			opts.SetLimit(int64(f.Limit))
		}
	}

	var docs []movieDocument
	if err := s.find(ctx, s.movies, filter, opts, &docs); err != nil {
		return nil, fmt.Errorf("find movies: %w", err)
	}
	out := make([]catalog.Movie, 0, len(docs))
	for i := range docs {
		out = append(out, mapMovie(&docs[i]))
	}
	return out, nil
}

// SearchMovies ANDs tokens; each token is a case- and diacritic-insensitive regex ORed across searchFields.
func (s *Store) SearchMovies(ctx context.Context, tokens []string, limit int) ([]catalog.Movie, error) {
	perToken := bson.A{}
	for _, tok := range tokens {
		pattern := textmatch.RegexPattern(tok)
		if pattern == "" {
			continue
		}
		or := bson.A{}
		for _, field := range searchFields {
			or = append(or, bson.D{{Key: field, Value: bson.Regex{Pattern: pattern, Options: "i"}}})
		}
		perToken = append(perToken, bson.D{{Key: "$or", Value: or}})
	}
	if len(perToken) == 0 {
		return []catalog.Movie{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	var docs []movieDocument
	if err := s.find(ctx, s.movies, bson.D{{Key: "$and", Value: perToken}}, opts, &docs); err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	out := make([]catalog.Movie, 0, len(docs))
	for i := range docs {
		out = append(out, mapMovie(&docs[i]))
	}
	return out, nil
}

// CountMovies returns the number of movie documents.
func (s *Store) CountMovies(ctx context.Context) (int, error) {
	n, err := s.movies.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return int(n), nil
}

// Schedules returns entries ordered by date then movie id.
func (s *Store) Schedules(ctx context.Context, f store.ScheduleFilter) ([]catalog.ScheduleEntry, error) {
	filter := scheduleQuery(f)
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "movie_id", Value: 1}})

	var docs []scheduleDocument
	if err := s.find(ctx, s.schedules, filter, opts, &docs); err != nil {
		return nil, fmt.Errorf("find schedules: %w", err)
	}
	out := make([]catalog.ScheduleEntry, 0, len(docs))
	for i := range docs {
		out = append(out, mapSchedule(&docs[i]))
	}
	return out, nil
}

func scheduleQuery(f store.ScheduleFilter) bson.D {
	filter := bson.D{}
	dateRange := bson.D{}
	if f.From != nil {
		dateRange = append(dateRange, bson.E{Key: "$gte", Value: dateValue(*f.From)})
	}
	if f.To != nil {
		dateRange = append(dateRange, bson.E{Key: "$lte", Value: dateValue(*f.To)})
	}
	if len(dateRange) > 0 {
		filter = append(filter, bson.E{Key: "date", Value: dateRange})
	}
	if f.MovieID != nil {
		filter = append(filter, bson.E{Key: "movie_id", Value: *f.MovieID})
	}
	return filter
}

// Venues returns venues by id, or every venue when no ids are given.
func (s *Store) Venues(ctx context.Context, f store.VenueFilter) ([]catalog.Venue, error) {
	filter := bson.D{}
	if len(f.IDs) > 0 {
		filter = bson.D{{Key: "venue_id", Value: bson.D{{Key: "$in", Value: f.IDs}}}}
	}
	var docs []venueDocument
	if err := s.find(ctx, s.venues, filter, options.Find(), &docs); err != nil {
		return nil, fmt.Errorf("find venues: %w", err)
	}
	out := make([]catalog.Venue, 0, len(docs))
	for i := range docs {
		out = append(out, mapVenue(&docs[i]))
	}
	return out, nil
}

// Premieres returns premieres on or after from, ascending by date.
func (s *Store) Premieres(ctx context.Context, from catalog.Date) ([]catalog.Premiere, error) {
	var docs []premiereDocument
	if err := s.find(ctx, s.premieres, premiereQuery(from), options.Find(), &docs); err != nil {
		return nil, fmt.Errorf("find premieres: %w", err)
	}
	out := make([]catalog.Premiere, 0, len(docs))
	for i := range docs {
		out = append(out, mapPremiere(&docs[i]))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// premiereQuery compares the split year/month/day fields lexicographically.
func premiereQuery(from catalog.Date) bson.D {
	const (
		year  = "premiere_date.Year"
		month = "premiere_date.Month"
		day   = "premiere_date.Day"
	)
	return bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: year, Value: bson.D{{Key: "$gt", Value: from.Year}}}},
		bson.D{
			{Key: year, Value: from.Year},
			{Key: month, Value: bson.D{{Key: "$gt", Value: int(from.Month)}}},
		},
		bson.D{
			{Key: year, Value: from.Year},
			{Key: month, Value: int(from.Month)},
			{Key: day, Value: bson.D{{Key: "$gte", Value: from.Day}}},
		},
	}}}
}

// Ping checks the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) find(ctx context.Context, coll *mongo.Collection, filter any, opts *options.FindOptionsBuilder, out any) error {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}
