// Install command downloads tool artifacts into the data dir.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/venueforge/venuekit/internal/installer"
)

var flagInstallAll bool

var installCmd = &cobra.Command{
	Use:   "install [tool...]",
	Short: "Install or upgrade tools from the cached manifest",
	Long: `Install downloads the manifest version of each named tool into the
data dir. Tools already at the manifest version are skipped; a version
difference triggers a re-download.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !flagInstallAll {
			return fmt.Errorf("name at least one tool or pass --all")
		}

		m, err := requireManifest()
		if err != nil {
			return err
		}
		st, err := loadState()
		if err != nil {
			return err
		}

		tools := m.Tools
		if !flagInstallAll {
			tools = tools[:0:0]
			for _, name := range args {
				tool, err := findTool(m, name)
				if err != nil {
					return err
				}
				tools = append(tools, tool)
			}
		}

		inst := installer.New(dataDir, cfg.HTTPTimeout)
		for _, tool := range tools {
			if current, ok := st.Get(tool.Name); ok && current.Current(tool.Version) {
				fmt.Printf("%s@%s already installed\n", tool.Name, tool.Version)
				continue
			}
			installed, err := inst.Ensure(cmd.Context(), tool, st)
			if err != nil {
				return err
			}
			fmt.Printf("installed %s@%s\n", tool.Name, installed.Version)
		}
		return nil
	},
}

func init() {
	installCmd.Flags().BoolVar(&flagInstallAll, "all", false, "install every tool in the manifest")
}
