package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nenoeldeeb/quran-databases/internal/edition"
)

func newEditionsCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:         "editions",
		Short:       "List the Quran editions this tool can download",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			all := edition.All()
			if jsonOut {
				return writeJSON(cmd, all)
			}

			rows := make([][]string, 0, len(all))
			for _, ed := range all {
				rows = append(rows, []string{ed.ID, edition.DisplayName(ed.ID), ed.Description})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Name", "Description"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}
