// Db commands verify the shared POS database connection.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/venueforge/venuekit/internal/posdb"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "POS database helpers",
}

var dbCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Open and ping the configured POS database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := posdb.Check(cmd.Context(), cfg.Database); err != nil {
			return err
		}
		fmt.Printf("database ok (%s)\n", cfg.Database.Driver)
		return nil
	},
}

func init() {
	dbCmd.AddCommand(dbCheckCmd)
}
