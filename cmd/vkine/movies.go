package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/vkine/internal/catalog"
	"github.com/vmunix/vkine/pkg/textmatch"
)

var movieCmd = &cobra.Command{
	Use:   "movie <id>...",
	Short: "Show movie details",
	Long: `Show details for one or more movies.

Examples:
  vkine movie 42
  vkine movie 42,7 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMovieCmd,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search the movie catalog",
	Long: `Search movies by title, synopsis, cast and crew.
Every word of the query must match.

Examples:
  vkine search alien covenant
  vkine search --rank --limit 5 vetrelec`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearchCmd,
}

func init() {
	rootCmd.AddCommand(movieCmd)
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().Int("limit", 0, "Maximum results (server default if 0)")
	searchCmd.Flags().Bool("rank", false, "Order results by title similarity to the query")
}

func runMovieCmd(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	resp, err := NewClient(serverURL).Movies(ids)
	if err != nil {
		return fmt.Errorf("fetch movies: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}

	for i, m := range resp.Items {
		if i > 0 {
			fmt.Println()
		}
		printMovieDetail(os.Stdout, m)
	}
	for _, id := range resp.Missing {
		fmt.Printf("Movie %d not found\n", id)
	}
	return nil
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	limit, _ := cmd.Flags().GetInt("limit")
	rank, _ := cmd.Flags().GetBool("rank")

	resp, err := NewClient(serverURL).Search(query, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if rank {
		rankMovies(query, resp.Items)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}

	if len(resp.Items) == 0 {
		fmt.Println("No movies found")
		return nil
	}
	printMovies(os.Stdout, resp.Items)
	return nil
}

// rankMovies orders movies by how closely any of their titles resembles query.
func rankMovies(query string, movies []catalog.Movie) {
	textmatch.RankByTitle(query, movies, func(m catalog.Movie) string {
		best, bestScore := m.Title, textmatch.Similarity(query, m.Title)
		for _, alt := range []string{m.TitleEn, m.OriginalTitle} {
			if alt == "" {
				continue
			}
			if s := textmatch.Similarity(query, alt); s > bestScore {
				best, bestScore = alt, s
			}
		}
		return best
	})
}
