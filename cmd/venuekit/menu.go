// Menu command is the interactive console picker: choose a tool by
// number, run it, repeat.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick and run tools interactively",
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

		reader := bufio.NewReader(os.Stdin)
		for {
			fmt.Println()
			fmt.Println("Available tools:")
			for i, t := range m.Tools {
				marker := " "
				if it, ok := st.Get(t.Name); ok && it.Current(t.Version) {
					marker = "*"
				}
				fmt.Printf("  %2d%s %-20s %-10s %s\n", i+1, marker, t.Name, t.Version, t.Description)
			}
			fmt.Print("select tool (q to quit): ")

			line, err := reader.ReadString('\n')
			if err != nil {
				// EOF on stdin ends the session.
				return nil
			}
			choice := strings.TrimSpace(line)
			if choice == "q" || choice == "quit" {
				return nil
			}

			idx, err := strconv.Atoi(choice)
			if err != nil || idx < 1 || idx > len(m.Tools) {
				fmt.Printf("enter a number between 1 and %d, or q\n", len(m.Tools))
				continue
			}

			tool := m.Tools[idx-1]
			if err := runTool(cmd.Context(), tool.Name, nil); err != nil {
				if errors.Is(err, errAborted) {
					continue
				}
				if errors.Is(err, errToolFailed) {
					fmt.Fprintln(os.Stderr, err)
					continue
				}
				return err
			}

			// Reload state: the run may have installed or upgraded the tool.
			if st, err = loadState(); err != nil {
				return err
			}
		}
	},
}
