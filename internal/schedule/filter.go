// Package schedule aggregates schedule entries into upcoming-movie orderings.
package schedule

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/vmunix/vkine/internal/catalog"
	"github.com/vmunix/vkine/pkg/textmatch"
)

// Window selects showtimes at or after Now whose time of day is at or after MinTime.
type Window struct {
	Now      time.Time
	Location *time.Location
	MinTime  *catalog.TimeOfDay // nil = any time of day
}

// Includes reports whether a showtime at tod on date falls inside w.
func (w Window) Includes(date catalog.Date, tod catalog.TimeOfDay) bool {
	if w.MinTime != nil && tod < *w.MinTime {
		return false
	}
	return !date.At(tod, w.Location).Before(w.Now)
}

// Upcoming keeps the showtimes inside w, sorted by start time. Performances and
// entries left without showtimes are dropped; entries are ordered by date then movie id.
// The input is not modified.
func Upcoming(entries []catalog.ScheduleEntry, w Window) []catalog.ScheduleEntry {
	out := make([]catalog.ScheduleEntry, 0, len(entries))
	for _, e := range entries {
		kept := e
		kept.Performances = nil
		for _, p := range e.Performances {
			var showtimes []catalog.Showtime
			for _, st := range p.Showtimes {
				if w.Includes(e.Date, st.StartAt) {
					showtimes = append(showtimes, st)
				}
			}
			if len(showtimes) == 0 {
				continue
			}
			slices.SortStableFunc(showtimes, func(a, b catalog.Showtime) int {
				return cmp.Compare(a.StartAt, b.StartAt)
			})
			p.Showtimes = showtimes
			kept.Performances = append(kept.Performances, p)
		}
		if len(kept.Performances) > 0 {
			out = append(out, kept)
		}
	}
	slices.SortStableFunc(out, func(a, b catalog.ScheduleEntry) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.MovieID, b.MovieID)
	})
	return out
}

// Earliest returns, per movie, the earliest showtime instant inside w.
func Earliest(entries []catalog.ScheduleEntry, w Window) map[int]time.Time {
	earliest := make(map[int]time.Time)
	for _, e := range entries {
		for _, p := range e.Performances {
			for _, st := range p.Showtimes {
				if !w.Includes(e.Date, st.StartAt) {
					continue
				}
				at := e.Date.At(st.StartAt, w.Location)
				if cur, ok := earliest[e.MovieID]; !ok || at.Before(cur) {
					earliest[e.MovieID] = at
				}
			}
		}
	}
	return earliest
}

// OrderByEarliest returns movie ids sorted by earliest showtime, ties by id.
func OrderByEarliest(earliest map[int]time.Time) []int {
	ids := make([]int, 0, len(earliest))
	for id := range earliest {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b int) int {
		if c := earliest[a].Compare(earliest[b]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return ids
}

// Page returns ids[skip:skip+limit], clamped to the list. limit <= 0 means no limit.
func Page(ids []int, skip, limit int) []int {
	skip = max(skip, 0)
	if skip >= len(ids) {
		return []int{}
	}
	end := len(ids)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return slices.Clone(ids[skip:end])
}

// MatchQuery keeps entries whose movie title, venue name, address or city, badge
// code or description, or ticket URL contains query. A blank query keeps everything.
func MatchQuery(entries []catalog.ScheduleEntry, query string) []catalog.ScheduleEntry {
	query = strings.TrimSpace(query)
	if query == "" {
		return entries
	}
	out := make([]catalog.ScheduleEntry, 0, len(entries))
	for _, e := range entries {
		if entryMatches(e, query) {
			out = append(out, e)
		}
	}
	return out
}

func entryMatches(e catalog.ScheduleEntry, query string) bool {
	if textmatch.ContainsFold(e.MovieTitle, query) {
		return true
	}
	for _, p := range e.Performances {
		if v := p.Venue; v != nil {
			for _, field := range []string{v.Name, v.Address, v.City} {
				if field != "" && textmatch.ContainsFold(field, query) {
					return true
				}
			}
		}
		for _, st := range p.Showtimes {
			for _, b := range st.Badges {
				if (b.Code != "" && textmatch.ContainsFold(b.Code, query)) ||
					(b.Description != "" && textmatch.ContainsFold(b.Description, query)) {
					return true
				}
			}
			if st.TicketURL != "" && textmatch.ContainsFold(st.TicketURL, query) {
				return true
			}
		}
	}
	return false
}
