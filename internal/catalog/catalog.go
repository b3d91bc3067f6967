// Package catalog defines the movie, venue and schedule records served by the listings core.
package catalog

import "slices"

// Movie is a film from the source catalog.
// Caches hold clones; callers own the values they receive.
type Movie struct {
	ID              int      `json:"id"`
	TMDBID          *int     `json:"tmdb_id,omitempty"`
	IMDbID          string   `json:"imdb_id,omitempty"`
	IMDbRating      *float64 `json:"imdb_rating,omitempty"`
	IMDbRatingCount *int     `json:"imdb_rating_count,omitempty"`
	CSFDRating      string   `json:"csfd_rating,omitempty"`
	TMDBRating      *float64 `json:"tmdb_rating,omitempty"`
	Title           string   `json:"title"`
	TitleEn         string   `json:"title_en,omitempty"`
	OriginalTitle   string   `json:"original_title,omitempty"`
	Synopsis        string   `json:"synopsis"`
	CoverURL        string   `json:"cover_url,omitempty"`
	BackdropURL     string   `json:"backdrop_url,omitempty"`
	Year            string   `json:"year,omitempty"`
	Duration        string   `json:"duration,omitempty"`
	Genres          []string `json:"genres"`
	OriginCountries []string `json:"origin_countries"`
	Cast            []string `json:"cast"`
	Crew            []string `json:"crew"`
	Directors       []string `json:"directors"`
	Homepage        string   `json:"homepage,omitempty"`
	TrailerURL      string   `json:"trailer_url,omitempty"`
}

// Clone returns a copy of m sharing no slices or pointers with it.
func (m Movie) Clone() Movie {
	m.TMDBID = clonePtr(m.TMDBID)
	m.IMDbRating = clonePtr(m.IMDbRating)
	m.IMDbRatingCount = clonePtr(m.IMDbRatingCount)
	m.TMDBRating = clonePtr(m.TMDBRating)
	m.Genres = slices.Clone(m.Genres)
	m.OriginCountries = slices.Clone(m.OriginCountries)
	m.Cast = slices.Clone(m.Cast)
	m.Crew = slices.Clone(m.Crew)
	m.Directors = slices.Clone(m.Directors)
	return m
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// SearchFields returns the text fields matched by free-text search.
func (m *Movie) SearchFields() []string {
	fields := make([]string, 0, 4+len(m.Cast)+len(m.Crew)+len(m.Directors))
	fields = append(fields, m.Title, m.Synopsis, m.OriginalTitle, m.TitleEn)
	fields = append(fields, m.Cast...)
	fields = append(fields, m.Crew...)
	fields = append(fields, m.Directors...)
	return fields
}

// Venue is a cinema where performances take place.
type Venue struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	MapURL    string `json:"map_url,omitempty"`
	DetailURL string `json:"detail_url,omitempty"`
}

// Premiere marks the date a movie opens.
type Premiere struct {
	MovieID int  `json:"movie_id"`
	Date    Date `json:"date"`
}
