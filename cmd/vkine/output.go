package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vmunix/vkine/internal/catalog"
)

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// parseIDs converts arguments like "42" or "1,2,3" into ids.
func parseIDs(args []string) ([]int, error) {
	var ids []int
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.Atoi(part)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("invalid id: %s", part)
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no ids given")
	}
	return ids, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func printMovies(w io.Writer, movies []catalog.Movie) {
	for _, m := range movies {
		year := ""
		if m.Year != "" {
			year = " (" + m.Year + ")"
		}
		fmt.Fprintf(w, "%6d  %s%s\n", m.ID, m.Title, year)
	}
}

func printMovieDetail(w io.Writer, m catalog.Movie) {
	fmt.Fprintf(w, "%s", m.Title)
	if m.Year != "" {
		fmt.Fprintf(w, " (%s)", m.Year)
	}
	fmt.Fprintf(w, "  [id %d]\n", m.ID)
	if m.OriginalTitle != "" && m.OriginalTitle != m.Title {
		fmt.Fprintf(w, "  Original:  %s\n", m.OriginalTitle)
	}
	if m.Duration != "" {
		fmt.Fprintf(w, "  Duration:  %s\n", m.Duration)
	}
	if len(m.Genres) > 0 {
		fmt.Fprintf(w, "  Genres:    %s\n", strings.Join(m.Genres, ", "))
	}
	if len(m.Directors) > 0 {
		fmt.Fprintf(w, "  Directors: %s\n", strings.Join(m.Directors, ", "))
	}
	if len(m.Cast) > 0 {
		fmt.Fprintf(w, "  Cast:      %s\n", truncate(strings.Join(m.Cast, ", "), 80))
	}
	if m.IMDbRating != nil {
		fmt.Fprintf(w, "  IMDb:      %.1f\n", *m.IMDbRating)
	}
	if m.Synopsis != "" {
		fmt.Fprintf(w, "\n  %s\n", truncate(m.Synopsis, 300))
	}
}

func printSchedules(w io.Writer, entries []catalog.ScheduleEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No showtimes")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %s\n", e.Date, e.MovieTitle)
		for _, p := range e.Performances {
			venue := fmt.Sprintf("venue %d", p.VenueID)
			if p.Venue != nil {
				venue = p.Venue.Name
			}
			times := make([]string, len(p.Showtimes))
			for i, st := range p.Showtimes {
				times[i] = st.StartAt.String()
				for _, b := range st.Badges {
					times[i] += " " + b.Code
				}
				if !st.TicketsAvailable {
					times[i] += " (sold out)"
				}
			}
			fmt.Fprintf(w, "  %-24s %s\n", venue, strings.Join(times, ", "))
		}
	}
}
