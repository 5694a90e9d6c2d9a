// Update command fetches the tool manifest and caches it locally.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/venueforge/venuekit/internal/manifest"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch the tool manifest from the configured endpoint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		f := manifest.NewFetcher(cfg.ManifestURL, cfg.HTTPTimeout)
		m, err := f.Update(cmd.Context(), dataDir)
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(m)
		}

		fmt.Printf("manifest updated: %d tools available\n", len(m.Tools))
		for _, t := range m.Tools {
			fmt.Printf("  %-20s %-10s %s\n", t.Name, t.Version, t.Description)
		}
		return nil
	},
}
