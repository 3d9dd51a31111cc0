package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Nenoeldeeb/quran-databases/internal/corpus"
	"github.com/Nenoeldeeb/quran-databases/internal/edition"
	"github.com/Nenoeldeeb/quran-databases/internal/runlock"
	"github.com/Nenoeldeeb/quran-databases/internal/store"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var editionID string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Load a downloaded corpus into the edition's SQLite database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := edition.Validate(editionID); err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			corpusPath := cfg.CorpusPath(editionID)
			if _, err := os.Stat(corpusPath); errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("corpus %s not found; run `qurandb download -e %s` first", corpusPath, editionID)
			} else if err != nil {
				return fmt.Errorf("inspect corpus: %w", err)
			}
			namesPath := cfg.ChapterNamesPath()
			if _, err := os.Stat(namesPath); errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("chapter names %s not found; run `qurandb chapters` first", namesPath)
			} else if err != nil {
				return fmt.Errorf("inspect chapter names: %w", err)
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

			checkCorpusDigest(cfg.ManifestPath(editionID), cfg.EditionDir(editionID), corpusPath, logger)

			doc, err := corpus.ReadDocument(corpusPath)
			if err != nil {
				return err
			}
			names, err := corpus.ReadChapterNames(namesPath)
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.DatabasePath(editionID), cfg.SQLite.Pragmas)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			stats, err := st.Load(cmd.Context(), doc, names, logger)
			if err != nil {
				return err
			}

			report, err := st.VerifyIntegrity(cmd.Context())
			if err != nil {
				return err
			}
			logIntegrityWarnings(report, logger)

			if jsonOut {
				return writeJSON(cmd, map[string]any{
					"database":  st.Path(),
					"stats":     stats,
					"integrity": report,
				})
			}

			rows := [][]string{
				{"Database", st.Path()},
				{"Chapters inserted", strconv.Itoa(stats.ChaptersInserted)},
				{"Chapters skipped", strconv.Itoa(len(stats.ChaptersSkipped))},
				{"Verses inserted", strconv.Itoa(stats.VersesInserted)},
				{"Pages inserted", strconv.Itoa(stats.PagesInserted)},
				{"Page links", strconv.Itoa(stats.PageVerses)},
				{"Integrity", integrityLabel(report)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&editionID, "edition", "e", "", "Edition to build (see `qurandb editions`)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	cmd.MarkFlagRequired("edition") //nolint:errcheck
	return cmd
}

// checkCorpusDigest compares the corpus file against the digest its download
// manifest recorded. Mismatches are logged, not fatal: a hand-edited corpus
// is still loadable.
func checkCorpusDigest(manifestPath, dir, corpusPath string, logger *slog.Logger) {
	manifest, err := corpus.ReadManifest(manifestPath)
	if err != nil {
		logger.Warn("manifest unavailable, skipping corpus digest check",
			slog.String("path", manifestPath),
			slog.Any("error", err))
		return
	}
	ok, err := manifest.VerifyArtifact(dir, filepath.Base(corpusPath))
	switch {
	case err != nil:
		logger.Warn("corpus digest check failed", slog.Any("error", err))
	case !ok:
		logger.Warn("corpus file does not match its manifest digest",
			slog.String("path", corpusPath),
			slog.String("run_id", manifest.RunID))
	}
}

func logIntegrityWarnings(report *store.IntegrityReport, logger *slog.Logger) {
	for _, m := range report.CountMismatches {
		logger.Warn("chapter verse count mismatch",
			slog.Int("chapter", m.ChapterID),
			slog.Int("expected", m.TotalVerses),
			slog.Int("actual", m.ActualVerses))
	}
	for _, d := range report.DuplicateOrders {
		logger.Warn("duplicate verse order on page",
			slog.Int("page_id", d.PageID),
			slog.Int("verse_order", d.VerseOrder),
			slog.Int("rows", d.Rows))
	}
}

func integrityLabel(report *store.IntegrityReport) string {
	if report.Clean() {
		return "ok"
	}
	return fmt.Sprintf("%d count mismatches, %d duplicate orders",
		len(report.CountMismatches), len(report.DuplicateOrders))
}
