package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var venuesCmd = &cobra.Command{
	Use:   "venues <id>...",
	Short: "Show venues",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runVenuesCmd,
}

var premieresCmd = &cobra.Command{
	Use:   "premieres",
	Short: "List upcoming premieres",
	Args:  cobra.NoArgs,
	RunE:  runPremieresCmd,
}

func init() {
	rootCmd.AddCommand(venuesCmd)
	rootCmd.AddCommand(premieresCmd)
}

func runVenuesCmd(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	resp, err := NewClient(serverURL).Venues(ids)
	if err != nil {
		return fmt.Errorf("fetch venues: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}
	if len(resp.Items) == 0 {
		fmt.Println("No venues found")
		return nil
	}
	for _, v := range resp.Items {
		fmt.Printf("%5d  %-24s %s, %s\n", v.ID, v.Name, v.Address, v.City)
	}
	return nil
}

func runPremieresCmd(cmd *cobra.Command, _ []string) error {
	client := NewClient(serverURL)
	resp, err := client.Premieres()
	if err != nil {
		return fmt.Errorf("fetch premieres: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}
	if len(resp.Items) == 0 {
		fmt.Println("No upcoming premieres")
		return nil
	}
	ids := make([]int, len(resp.Items))
	for i, p := range resp.Items {
		ids[i] = p.MovieID
	}
	titles := client.titles(ids)
	for _, p := range resp.Items {
		fmt.Printf("%s  %6d  %s\n", p.Date, p.MovieID, titles[p.MovieID])
	}
	return nil
}
