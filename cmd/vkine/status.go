package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Server and store health",
	Args:  cobra.NoArgs,
	RunE:  runStatusCmd,
}

var invalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Drop the server's cached day of showtimes",
	Long: `Drop the server's cached day of showtimes so the next request reloads
it from the store. Use after importing new schedules.`,
	Args: cobra.NoArgs,
	RunE: runInvalidateCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(invalidateCmd)
}

func runStatusCmd(cmd *cobra.Command, _ []string) error {
	resp, err := NewClient(serverURL).Status()
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}
	printStatus(os.Stdout, serverURL, resp)
	return nil
}

func printStatus(w io.Writer, server string, s *StatusResponse) {
	fmt.Fprintf(w, "vkined %s | Server: %s | Status: %s\n\n", s.Version, server, s.Status)
	fmt.Fprintf(w, "Listings day: %s\n", s.Today)

	store := "reachable"
	if !s.Store.Reachable {
		store = "FAIL " + s.Store.Error
	}
	fmt.Fprintln(w, "Store")
	if s.Store.Driver != "" {
		fmt.Fprintf(w, "  Driver:   %s\n", s.Store.Driver)
	}
	fmt.Fprintf(w, "  State:    %s\n", store)
	if s.Store.Breaker != "" {
		fmt.Fprintf(w, "  Breaker:  %s\n", s.Store.Breaker)
	}
}

func runInvalidateCmd(cmd *cobra.Command, _ []string) error {
	if err := NewClient(serverURL).InvalidatePerformances(); err != nil {
		return fmt.Errorf("invalidate failed: %w", err)
	}
	fmt.Println("Performance cache invalidated")
	return nil
}
