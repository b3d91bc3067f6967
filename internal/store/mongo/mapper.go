package mongo

import (
	"strings"
	"time"

	"github.com/vmunix/vkine/internal/catalog"
)

// englishTitleRegions is the preference order for the English title.
var englishTitleRegions = []string{"US", "GB", "AU"}

func mapMovie(d *movieDocument) catalog.Movie {
	m := catalog.Movie{
		TMDBID:          d.TMDBID,
		IMDbID:          d.IMDbID,
		IMDbRating:      positive(d.IMDbRating),
		IMDbRatingCount: positive(d.IMDbRatingCount),
		CSFDRating:      d.Rating,
		TMDBRating:      positive(d.VoteAverage),
		Title:           d.Title,
		OriginalTitle:   d.LocalizedTitles["Original"],
		Synopsis:        d.Description,
		CoverURL:        d.PosterURL,
		BackdropURL:     d.BackdropURL,
		Year:            d.Year,
		Duration:        d.Duration,
		Genres:          nonNil(d.Genres),
		OriginCountries: originCodes(d.OriginCodes, d.Origin),
		Cast:            nonNil(d.Cast),
		Crew:            nonNil(d.Crew),
		Directors:       nonNil(d.Directors),
		Homepage:        d.Homepage,
		TrailerURL:      d.TrailerURL,
	}
	if d.CSFDID != nil {
		m.ID = *d.CSFDID
	}
	if m.Title == "" {
		m.Title = m.OriginalTitle
	}
	if m.Synopsis == "" {
		m.Synopsis = d.DescriptionCs
	}
	for _, region := range englishTitleRegions {
		if t := d.LocalizedTitles[region]; t != "" {
			m.TitleEn = t
			break
		}
	}
	return m
}

// positive maps non-positive ratings to absent.
func positive[T int | float64](v *T) *T {
	if v == nil || *v <= 0 {
		return nil
	}
	out := *v
	return &out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// originCodes prefers the explicit code list; otherwise it keeps the
// two-letter parts of the free-text origin ("US / GB, Kanada" -> [US GB]).
func originCodes(codes []string, origin string) []string {
	out := []string{}
	seen := make(map[string]bool)
	add := func(code string) {
		key := strings.ToUpper(code)
		if code == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, code)
	}

	if len(codes) > 0 {
		for _, c := range codes {
			add(strings.TrimSpace(c))
		}
		return out
	}

	parts := strings.FieldsFunc(origin, func(r rune) bool { return r == ',' || r == '/' })
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) == 2 {
			add(strings.ToUpper(p))
		}
	}
	return out
}

func mapSchedule(d *scheduleDocument) catalog.ScheduleEntry {
	e := catalog.ScheduleEntry{
		Date:         catalog.DateOf(d.Date.UTC()),
		MovieID:      d.MovieID,
		MovieTitle:   d.MovieTitle,
		Performances: make([]catalog.Performance, 0, len(d.Performances)),
	}
	for _, p := range d.Performances {
		perf := catalog.Performance{
			VenueID:   p.VenueID,
			Showtimes: make([]catalog.Showtime, 0, len(p.Showtimes)),
		}
		for _, st := range p.Showtimes {
			perf.Showtimes = append(perf.Showtimes, mapShowtime(st))
		}
		e.Performances = append(e.Performances, perf)
	}
	e.Performances = catalog.MergePerformances(e.Performances)
	return e
}

func mapShowtime(d showtimeDocument) catalog.Showtime {
	st := catalog.Showtime{
		StartAt:          catalog.TimeOfDayOf(d.StartAt.UTC()),
		TicketsAvailable: d.TicketsAvailable,
		TicketURL:        d.TicketURL,
		Badges:           make([]catalog.Badge, 0, len(d.Badges)),
	}
	for _, b := range d.Badges {
		kind := catalog.BadgeKind(b.Kind)
		if kind < catalog.BadgeUnknown || kind > catalog.BadgeLanguage {
			kind = catalog.BadgeUnknown
		}
		st.Badges = append(st.Badges, catalog.Badge{Kind: kind, Code: b.Code, Description: b.Description})
	}
	return st
}

func mapVenue(d *venueDocument) catalog.Venue {
	return catalog.Venue{
		ID:        d.VenueID,
		Name:      d.Name,
		Address:   d.Address,
		City:      d.City,
		MapURL:    d.MapURL,
		DetailURL: d.DetailURL,
	}
}

func mapPremiere(d *premiereDocument) catalog.Premiere {
	return catalog.Premiere{
		MovieID: d.CSFDID,
		Date: catalog.Date{
			Year:  d.PremiereDate.Year,
			Month: time.Month(d.PremiereDate.Month),
			Day:   d.PremiereDate.Day,
		},
	}
}

// dateValue is the stored representation of a civil date.
func dateValue(d catalog.Date) time.Time {
	return d.Midnight(time.UTC)
}
