package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/erazemk/lostfound/internal/legacy"
	"github.com/erazemk/lostfound/internal/match"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the example items into an empty database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		seeded, err := a.items.SeedIfEmpty(cmd.Context())
		if err != nil {
			return err
		}
		if seeded {
			fmt.Fprintln(cmd.OutOrStdout(), "Example items loaded.")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Database already has items, nothing loaded.")
		}
		return nil
	},
}

var importLegacyCmd = &cobra.Command{
	Use:   "import-legacy <file>",
	Short: "Import items exported from the browser version",
	Long: `Reads a JSON array of items in the browser export format and saves
each one. Items are keyed by ID, so importing a file again updates the
existing items instead of duplicating them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		rep, err := legacy.Import(cmd.Context(), f, a.items, a.logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items, skipped %d.\n", rep.Imported, rep.Skipped)
		return nil
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List potential lost/found matches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		items, err := a.items.All(cmd.Context())
		if err != nil {
			return err
		}

		matches := match.Find(items, a.logger)
		if len(matches) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No potential matches.")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tCATEGORY\tLOST\tFOUND\tDAYS")
		for _, m := range matches {
			fmt.Fprintf(tw, "%s\t%s\t%s (%s)\t%s (%s)\t%d\n",
				m.Key, m.Lost.Category, m.Lost.Title, m.Lost.Date, m.Found.Title, m.Found.Date, m.Days)
		}
		return tw.Flush()
	},
}
