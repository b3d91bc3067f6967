package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule <movie-id>",
	Short: "Show upcoming showtimes for a movie",
	Long: `Show upcoming showtimes for a movie. Past showtimes are never listed.

Examples:
  vkine schedule 42
  vkine schedule 42 --from 2026-10-16 --to 2026-10-16 --time-from 18:00`,
	Args: cobra.ExactArgs(1),
	RunE: runScheduleCmd,
}

var todayCmd = &cobra.Command{
	Use:   "today [query]...",
	Short: "Show today's remaining showtimes",
	Long: `Show today's remaining showtimes ordered by title, optionally filtered
by movie title, venue, city or badge.

Examples:
  vkine today
  vkine today lucerna`,
	RunE: runTodayCmd,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(todayCmd)
	scheduleCmd.Flags().String("from", "", "First date (YYYY-MM-DD, default today)")
	scheduleCmd.Flags().String("to", "", "Last date (YYYY-MM-DD, default open-ended)")
	scheduleCmd.Flags().String("time-from", "", "Earliest start time (HH:MM)")
}

func runScheduleCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid movie id: %s", args[0])
	}
	q := ScheduleQuery{}
	q.From, _ = cmd.Flags().GetString("from")
	q.To, _ = cmd.Flags().GetString("to")
	q.TimeFrom, _ = cmd.Flags().GetString("time-from")

	resp, err := NewClient(serverURL).MovieSchedules(id, q)
	if err != nil {
		return fmt.Errorf("fetch schedule: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}
	printSchedules(os.Stdout, resp.Items)
	return nil
}

func runTodayCmd(cmd *cobra.Command, args []string) error {
	resp, err := NewClient(serverURL).Today(strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("fetch today: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}
	if resp.Date != nil {
		fmt.Printf("Showtimes for %s\n\n", resp.Date)
	}
	printSchedules(os.Stdout, resp.Items)
	return nil
}
