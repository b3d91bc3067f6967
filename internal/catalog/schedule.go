package catalog

// BadgeKind classifies a showtime badge.
type BadgeKind int

const (
	BadgeUnknown BadgeKind = iota
	BadgeTechnology
	BadgeFormat
	BadgeLanguage
)

func (k BadgeKind) String() string {
	switch k {
	case BadgeTechnology:
		return "technology"
	case BadgeFormat:
		return "format"
	case BadgeLanguage:
		return "language"
	default:
		return "unknown"
	}
}

// Badge tags a showtime with a technology, format or language (e.g. "3D", "OV").
type Badge struct {
	Kind        BadgeKind `json:"kind"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`
}

// Showtime is a single screening at one venue.
type Showtime struct {
	StartAt          TimeOfDay `json:"start_at"`
	TicketsAvailable bool      `json:"tickets_available"`
	TicketURL        string    `json:"ticket_url,omitempty"`
	Badges           []Badge   `json:"badges"`
}

// Performance holds the showtimes of one movie at one venue on one date.
// Venue is nil when the venue id could not be resolved.
type Performance struct {
	VenueID   int        `json:"venue_id"`
	Venue     *Venue     `json:"venue,omitempty"`
	Showtimes []Showtime `json:"showtimes"`
}

// ScheduleEntry is the schedule of one movie on one date, unique by (Date, MovieID).
type ScheduleEntry struct {
	Date         Date          `json:"date"`
	MovieID      int           `json:"movie_id"`
	MovieTitle   string        `json:"movie_title"`
	Performances []Performance `json:"performances"`
}

// Clone returns a deep copy of e.
func (e ScheduleEntry) Clone() ScheduleEntry {
	out := e
	out.Performances = make([]Performance, len(e.Performances))
	for i, p := range e.Performances {
		cp := p
		if p.Venue != nil {
			v := *p.Venue
			cp.Venue = &v
		}
		cp.Showtimes = make([]Showtime, len(p.Showtimes))
		for j, st := range p.Showtimes {
			cst := st
			cst.Badges = append([]Badge(nil), st.Badges...)
			cp.Showtimes[j] = cst
		}
		out.Performances[i] = cp
	}
	return out
}

// MergePerformances folds performances that share a venue id into one,
// keeping first-seen venue order.
func MergePerformances(perfs []Performance) []Performance {
	if len(perfs) < 2 {
		return perfs
	}
	index := make(map[int]int, len(perfs))
	out := make([]Performance, 0, len(perfs))
	for _, p := range perfs {
		if i, ok := index[p.VenueID]; ok {
			out[i].Showtimes = append(out[i].Showtimes, p.Showtimes...)
			if out[i].Venue == nil {
				out[i].Venue = p.Venue
			}
			continue
		}
		index[p.VenueID] = len(out)
		out = append(out, p)
	}
	return out
}
