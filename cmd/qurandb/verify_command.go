package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Nenoeldeeb/quran-databases/internal/edition"
	"github.com/Nenoeldeeb/quran-databases/internal/store"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var editionID string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Run consistency checks against an edition's database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := edition.Validate(editionID); err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			dbPath := cfg.DatabasePath(editionID)
			if _, err := os.Stat(dbPath); errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("database %s not found; run `qurandb build -e %s` first", dbPath, editionID)
			} else if err != nil {
				return fmt.Errorf("inspect database: %w", err)
			}

			st, err := store.Open(dbPath, cfg.SQLite.Pragmas)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			counts, err := st.Counts(cmd.Context())
			if err != nil {
				return err
			}
			report, err := st.VerifyIntegrity(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, map[string]any{
					"database":  dbPath,
					"counts":    counts,
					"integrity": report,
				})
			}

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"Database", dbPath},
				{"Chapters", strconv.Itoa(counts.Chapters)},
				{"Verses", strconv.Itoa(counts.Verses)},
				{"Pages", strconv.Itoa(counts.Pages)},
				{"Page links", strconv.Itoa(counts.PageVerses)},
			}
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows))

			if report.Clean() {
				fmt.Fprintln(out, "Database is internally consistent")
				return nil
			}

			if len(report.CountMismatches) > 0 {
				mismatchRows := make([][]string, 0, len(report.CountMismatches))
				for _, m := range report.CountMismatches {
					mismatchRows = append(mismatchRows, []string{
						strconv.Itoa(m.ChapterID),
						strconv.Itoa(m.TotalVerses),
						strconv.Itoa(m.ActualVerses),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"Chapter", "Expected", "Actual"}, mismatchRows, 1, 2, 3))
			}
			if len(report.DuplicateOrders) > 0 {
				dupRows := make([][]string, 0, len(report.DuplicateOrders))
				for _, d := range report.DuplicateOrders {
					dupRows = append(dupRows, []string{
						strconv.Itoa(d.PageID),
						strconv.Itoa(d.VerseOrder),
						strconv.Itoa(d.Rows),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"Page", "Verse order", "Rows"}, dupRows, 1, 2, 3))
			}
			return fmt.Errorf("database has %d count mismatches and %d duplicate orders",
				len(report.CountMismatches), len(report.DuplicateOrders))
		},
	}

	cmd.Flags().StringVarP(&editionID, "edition", "e", "", "Edition database to verify")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	cmd.MarkFlagRequired("edition") //nolint:errcheck
	return cmd
}
