package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Collection names in the listings database.
const (
	moviesCollection    = "movies"
	schedulesCollection = "schedule"
	venuesCollection    = "venues"
	premieresCollection = "premieres"
)

type movieDocument struct {
	ID              bson.ObjectID     `bson:"_id,omitempty"`
	CSFDID          *int              `bson:"csfd_id"`
	TMDBID          *int              `bson:"tmdb_id"`
	IMDbID          string            `bson:"imdb_id"`
	IMDbRating      *float64          `bson:"imdb_rating"`
	IMDbRatingCount *int              `bson:"imdb_rating_count"`
	Rating          string            `bson:"rating"`
	VoteAverage     *float64          `bson:"vote_average"`
	Title           string            `bson:"title"`
	Description     string            `bson:"description"`
	DescriptionCs   string            `bson:"description_cs"`
	PosterURL       string            `bson:"poster_url"`
	BackdropURL     string            `bson:"backdrop_url"`
	Cast            []string          `bson:"cast"`
	Crew            []string          `bson:"crew"`
	Directors       []string          `bson:"directors"`
	LocalizedTitles map[string]string `bson:"localized_titles"`
	Year            string            `bson:"year"`
	Duration        string            `bson:"duration"`
	Genres          []string          `bson:"genres"`
	Origin          string            `bson:"origin"`
	OriginCodes     []string          `bson:"origin_country_codes"`
	Homepage        string            `bson:"homepage"`
	TrailerURL      string            `bson:"trailer_url"`
}

// scheduleDocument stores Date as UTC midnight of the civil date.
type scheduleDocument struct {
	ID           bson.ObjectID         `bson:"_id,omitempty"`
	MovieID      int                   `bson:"movie_id"`
	Date         time.Time             `bson:"date"`
	MovieTitle   string                `bson:"movie_title"`
	Performances []performanceDocument `bson:"performances"`
	StoredAt     time.Time             `bson:"stored_at"`
}

type performanceDocument struct {
	VenueID   int                `bson:"venue_id"`
	Showtimes []showtimeDocument `bson:"showtimes"`
}

// showtimeDocument stores StartAt as a datetime whose UTC wall clock is the local start time.
type showtimeDocument struct {
	StartAt          time.Time       `bson:"start_at"`
	TicketsAvailable bool            `bson:"tickets_available"`
	TicketURL        string          `bson:"ticket_url"`
	IsPast           bool            `bson:"is_past"`
	Badges           []badgeDocument `bson:"badges"`
}

type badgeDocument struct {
	Kind        int    `bson:"kind"`
	Code        string `bson:"code"`
	Description string `bson:"description"`
}

type venueDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	VenueID   int           `bson:"venue_id"`
	Name      string        `bson:"name"`
	Address   string        `bson:"address"`
	City      string        `bson:"city"`
	DetailURL string        `bson:"detail_url"`
	MapURL    string        `bson:"map_url"`
}

type premiereDocument struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	CSFDID       int           `bson:"csfd_id"`
	PremiereDate struct {
		Year  int `bson:"Year"`
		Month int `bson:"Month"`
		Day   int `bson:"Day"`
	} `bson:"premiere_date"`
	StoredAt time.Time `bson:"stored_at"`
}
