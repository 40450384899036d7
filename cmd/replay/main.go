package main

import (
	"fmt"
	"os"

	"fenrir/internal/book"
	"fenrir/internal/replay"
	"fenrir/internal/snapshot"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var snapshotPath string

func main() {
	root := &cobra.Command{
		Use:   "replay <scenario-file>",
		Short: "drive an order book from a scenario file and report the outcome",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplay,
	}
	root.Flags().StringVar(&snapshotPath, "snapshot", "", "write a CSV snapshot of resting orders to this path after replay")

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("replay failed")
	}
}

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening scenario file: %w", err)
	}
	defer f.Close()

	ob := book.NewOrderBook()
	results, err := replay.Run(f, ob)
	if err != nil {
		return fmt.Errorf("running scenario: %w", err)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "line %d: %s -> ERROR: %v\n", r.Line, r.Directive, r.Err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "line %d: %s -> ok\n", r.Line, r.Directive)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d directives, %d failed\n", len(results), failed)

	if snapshotPath != "" {
		out, err := os.Create(snapshotPath)
		if err != nil {
			return fmt.Errorf("creating snapshot file: %w", err)
		}
		defer out.Close()
		if err := snapshot.Write(out, ob); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
	}

	return nil
}
