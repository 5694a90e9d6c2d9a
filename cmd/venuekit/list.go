// List command shows available tools and their install status.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagListInstalled bool

// toolListing is one row of list output.
type toolListing struct {
	Name             string `json:"name"`
	Version          string `json:"version"`
	InstalledVersion string `json:"installed_version,omitempty"`
	Status           string `json:"status"`
	Description      string `json:"description,omitempty"`
	RequiresDB       bool   `json:"requires_db,omitempty"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tools from the cached manifest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := requireManifest()
		if err != nil {
			return err
		}
		st, err := loadState()
		if err != nil {
			return err
		}

		var listings []toolListing
		for _, t := range m.Tools {
			l := toolListing{
				Name:        t.Name,
				Version:     t.Version,
				Status:      "not installed",
				Description: t.Description,
				RequiresDB:  t.RequiresDB,
			}
			if it, ok := st.Get(t.Name); ok {
				l.InstalledVersion = it.Version
				if it.Current(t.Version) {
					l.Status = "installed"
				} else {
					l.Status = "update available"
				}
			}
			if flagListInstalled && l.InstalledVersion == "" {
				continue
			}
			listings = append(listings, l)
		}

		if flagJSON {
			return printJSON(listings)
		}

		if len(listings) == 0 {
			fmt.Println("no tools")
			return nil
		}
		fmt.Printf("%-20s %-10s %-18s %s\n", "TOOL", "VERSION", "STATUS", "DESCRIPTION")
		for _, l := range listings {
			status := l.Status
			if l.Status == "update available" {
				status = fmt.Sprintf("%s -> %s", l.InstalledVersion, l.Version)
			}
			fmt.Printf("%-20s %-10s %-18s %s\n", l.Name, l.Version, status, l.Description)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&flagListInstalled, "installed", false, "only show installed tools")
}
