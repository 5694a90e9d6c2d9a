// Uninstall command removes an installed tool.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/venueforge/venuekit/internal/installer"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <tool>",
	Short: "Remove an installed tool",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		st, err := loadState()
		if err != nil {
			return err
		}

		if !confirm(fmt.Sprintf("Remove %s and its installed versions?", name)) {
			return errAborted
		}

		inst := installer.New(dataDir, cfg.HTTPTimeout)
		if err := inst.Uninstall(name, st); err != nil {
			return err
		}

		fmt.Printf("uninstalled %s\n", name)
		return nil
	},
}
