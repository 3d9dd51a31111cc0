package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Nenoeldeeb/quran-databases/internal/download"
	"github.com/Nenoeldeeb/quran-databases/internal/edition"
	"github.com/Nenoeldeeb/quran-databases/internal/runlock"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var editionID string
	var batchSize int
	var maxConcurrent int
	var strict bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download an edition's pages and assemble its corpus file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := edition.Validate(editionID); err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("batch-size") {
				cfg.Download.BatchSize = batchSize
			}
			if cmd.Flags().Changed("max-concurrent") {
				cfg.Download.MaxConcurrent = maxConcurrent
			}
			if strict {
				cfg.Download.FailOnMissing = true
			}
			if err := cfg.Validate(); err != nil {
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

			lock, err := runlock.New(cfg.Paths.DataDir, editionID)
			if err != nil {
				return err
			}
			if err := lock.Acquire(); err != nil {
				if errors.Is(err, runlock.ErrBusy) {
					return fmt.Errorf("%s is busy: %w", editionID, err)
				}
				return err
			}
			defer lock.Release() //nolint:errcheck

			var opts []download.Option
			if bar := newPageBar(cfg.Download.EndPage-cfg.Download.StartPage+1, editionID, jsonOut); bar != nil {
				opts = append(opts, download.WithProgress(func(pages int) {
					bar.Add(pages) //nolint:errcheck
				}))
				defer bar.Finish() //nolint:errcheck
			}

			dl, err := download.New(cfg, editionID, client, logger, opts...)
			if err != nil {
				return err
			}

			summary, runErr := dl.Run(cmd.Context())
			if summary != nil {
				if jsonOut {
					if err := writeJSON(cmd, summary); err != nil {
						return err
					}
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary))
				}
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&editionID, "edition", "e", "", "Edition to download (see `qurandb editions`)")
	cmd.Flags().IntVarP(&batchSize, "batch-size", "b", 0, "Pages per batch")
	cmd.Flags().IntVarP(&maxConcurrent, "max-concurrent", "m", 0, "Concurrent page fetches within a batch")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail the run when any page is missing")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	cmd.MarkFlagRequired("edition") //nolint:errcheck
	return cmd
}

// newPageBar returns a stderr progress bar, or nil when output is not a
// terminal or JSON output was requested.
func newPageBar(totalPages int, editionID string, jsonOut bool) *progressbar.ProgressBar {
	if jsonOut || !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}
	return progressbar.NewOptions(totalPages,
		progressbar.OptionSetDescription(editionID),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("pages"),
		progressbar.OptionClearOnFinish(),
	)
}

func renderSummary(s *download.Summary) string {
	missing := "none"
	if len(s.MissingPages) > 0 {
		parts := make([]string, len(s.MissingPages))
		for i, page := range s.MissingPages {
			parts[i] = strconv.Itoa(page)
		}
		missing = strings.Join(parts, ", ")
	}
	rows := [][]string{
		{"Edition", edition.DisplayName(s.Edition)},
		{"Run ID", s.RunID},
		{"Pages wanted", strconv.Itoa(s.PagesWanted)},
		{"Pages fetched", strconv.Itoa(s.PagesFetched)},
		{"Missing pages", missing},
		{"Elapsed", s.Elapsed.Round(time.Millisecond).String()},
		{"Pages/sec", fmt.Sprintf("%.1f", s.Rate())},
		{"Corpus", s.CorpusPath},
		{"Manifest", s.ManifestPath},
	}
	return renderTable([]string{"Field", "Value"}, rows)
}
