// Version command for the venuekit CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/venueforge/venuekit/pkg/venuekit"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the venuekit version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("venuekit", venuekit.Version)
	},
}
