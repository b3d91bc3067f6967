package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List movies with upcoming showtimes",
	Long: `List movies with upcoming showtimes, soonest first.

Examples:
  vkine upcoming --limit 10
  vkine upcoming --time-from 18:00
  vkine upcoming --from 2026-10-16 --to 2026-10-18`,
	Args: cobra.NoArgs,
	RunE: runUpcomingCmd,
}

func init() {
	rootCmd.AddCommand(upcomingCmd)
	upcomingCmd.Flags().Int("skip", 0, "Skip this many movies")
	upcomingCmd.Flags().Int("limit", 20, "Maximum movies (0 for all)")
	upcomingCmd.Flags().String("from", "", "First date (YYYY-MM-DD)")
	upcomingCmd.Flags().String("to", "", "Last date (YYYY-MM-DD)")
	upcomingCmd.Flags().String("time-from", "", "Earliest start time (HH:MM)")
}

func runUpcomingCmd(cmd *cobra.Command, _ []string) error {
	skip, _ := cmd.Flags().GetInt("skip")
	limit, _ := cmd.Flags().GetInt("limit")
	q := ScheduleQuery{}
	q.From, _ = cmd.Flags().GetString("from")
	q.To, _ = cmd.Flags().GetString("to")
	q.TimeFrom, _ = cmd.Flags().GetString("time-from")

	client := NewClient(serverURL)
	resp, err := client.Upcoming(q, skip, limit)
	if err != nil {
		return fmt.Errorf("fetch upcoming: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}

	if len(resp.IDs) == 0 {
		fmt.Println("No upcoming movies")
		return nil
	}
	titles := client.titles(resp.IDs)
	for i, id := range resp.IDs {
		title := titles[id]
		if title == "" {
			title = "?"
		}
		fmt.Printf("%3d. %6d  %s\n", skip+i+1, id, title)
	}
	return nil
}
