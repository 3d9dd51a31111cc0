package store

import (
	"context"
	"fmt"
)

// CountMismatch reports a chapter whose stored total disagrees with the
// verse rows actually referencing it.
type CountMismatch struct {
	ChapterID    int `db:"chapter_id"`
	TotalVerses  int `db:"total_verses"`
	ActualVerses int `db:"actual_verses"`
}

// DuplicateOrder reports a page carrying the same verse_order twice. The
// loader's counter discipline makes this impossible; an occurrence indicates
// a loader defect, not bad input.
type DuplicateOrder struct {
	PageID     int `db:"page_id"`
	VerseOrder int `db:"verse_order"`
	Rows       int `db:"dup_rows"`
}

// IntegrityReport carries the advisory post-load findings.
type IntegrityReport struct {
	CountMismatches []CountMismatch
	DuplicateOrders []DuplicateOrder
}

// Clean reports whether no issues were found.
func (r *IntegrityReport) Clean() bool {
	return len(r.CountMismatches) == 0 && len(r.DuplicateOrders) == 0
}

// VerifyIntegrity runs the read-only consistency checks over a populated
// database. Findings are advisory: the caller logs them and continues.
func (s *Store) VerifyIntegrity(ctx context.Context) (*IntegrityReport, error) {
	report := &IntegrityReport{}

	err := s.db.SelectContext(ctx, &report.CountMismatches, `
		SELECT c.chapter_id, c.total_verses, COUNT(v.verse_id) AS actual_verses
		FROM chapters c
		LEFT JOIN verses v ON c.chapter_id = v.chapter_id
		GROUP BY c.chapter_id
		HAVING c.total_verses != actual_verses`)
	if err != nil {
		return nil, fmt.Errorf("verify chapter counts: %w", err)
	}

	err = s.db.SelectContext(ctx, &report.DuplicateOrders, `
		SELECT page_id, verse_order, COUNT(*) AS dup_rows
		FROM page_verses
		GROUP BY page_id, verse_order
		HAVING dup_rows > 1`)
	if err != nil {
		return nil, fmt.Errorf("verify page ordering: %w", err)
	}

	return report, nil
}
