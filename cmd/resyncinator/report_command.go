package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var showAssets bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the outcome of the most recent run",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openJournal()
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			run, err := store.LastRun(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if run == nil {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}

			finished := "-"
			if !run.FinishedAt.IsZero() {
				finished = run.FinishedAt.Local().Format(time.RFC3339)
			}
			fmt.Fprintf(out, "Run %s\n", run.ID)
			fmt.Fprintln(out, renderTable(
				[]string{"Field", "Value"},
				[][]string{
					{"Status", run.Status},
					{"Delay", fmt.Sprintf("%dms", run.DelayMs)},
					{"Started", run.StartedAt.Local().Format(time.RFC3339)},
					{"Finished", finished},
				},
				[]columnAlignment{alignLeft, alignLeft},
			))

			units, err := store.UnitResults(cmd.Context(), run.ID)
			if err != nil {
				return err
			}
			if len(units) > 0 {
				rows := make([][]string, 0, len(units))
				for _, unit := range units {
					rows = append(rows, []string{unit.HeaderPath, unit.Status, unit.Detail})
				}
				fmt.Fprintln(out, "\nArchive units:")
				fmt.Fprintln(out, renderTable(
					[]string{"Header", "Status", "Detail"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft},
				))
			}

			if showAssets {
				assets, err := store.AssetResults(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				if len(assets) > 0 {
					rows := make([][]string, 0, len(assets))
					for _, asset := range assets {
						rows = append(rows, []string{asset.AssetPath, asset.Status, asset.Detail})
					}
					fmt.Fprintln(out, "\nAssets:")
					fmt.Fprintln(out, renderTable(
						[]string{"Asset", "Status", "Detail"},
						rows,
						[]columnAlignment{alignLeft, alignLeft, alignLeft},
					))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showAssets, "assets", false, "Include per-asset outcomes")
	return cmd
}
