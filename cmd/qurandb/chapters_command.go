package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Nenoeldeeb/quran-databases/internal/chapters"
)

func newChaptersCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "chapters",
		Short: "Extract the chapter-name map from the corpus info document",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}

			info, err := chapters.EnsureInfo(cmd.Context(), client, cfg.InfoPath(), logger)
			if err != nil {
				return err
			}
			names, err := chapters.Names(info)
			if err != nil {
				return err
			}
			if err := chapters.WriteNames(cfg.ChapterNamesPath(), names); err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, map[string]any{
					"chapters": len(names),
					"path":     cfg.ChapterNamesPath(),
				})
			}

			ids := make([]int, 0, len(names))
			for id := range names {
				ids = append(ids, id)
			}
			sort.Ints(ids)
			rows := make([][]string, 0, len(ids))
			for _, id := range ids {
				rows = append(rows, []string{strconv.Itoa(id), names[id]})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Chapter", "Name"}, rows, 1))
			fmt.Fprintf(out, "Wrote %d chapter names to %s\n", len(names), cfg.ChapterNamesPath())
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}
