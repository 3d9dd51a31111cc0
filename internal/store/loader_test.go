package store_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/Nenoeldeeb/quran-databases/internal/corpus"
	"github.com/Nenoeldeeb/quran-databases/internal/logging"
	"github.com/Nenoeldeeb/quran-databases/internal/testsupport"
)

func TestLoadSinglePageTwoChapters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg, "ara-quransimple")
	ctx := context.Background()

	doc := testsupport.SinglePageDocument(1,
		testsupport.Fragment(1, 7, "text A"),
		testsupport.Fragment(2, 1, "text B"),
		testsupport.Fragment(2, 2, "text C"),
	)
	names := map[int]string{1: "الفاتحة", 2: "البقرة"}

	stats, err := st.Load(ctx, doc, names, logging.NewNop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stats.ChaptersInserted != 2 || stats.VersesInserted != 3 || stats.PageVerses != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	rows, err := st.PageVersesByPage(ctx, 1)
	if err != nil {
		t.Fatalf("page verses: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 page_verses rows, got %d", len(rows))
	}
	wantFlags := []bool{true, true, false}
	for i, row := range rows {
		if row.VerseOrder != i {
			t.Fatalf("row %d has order %d", i, row.VerseOrder)
		}
		if row.StartsNewChapter != wantFlags[i] {
			t.Fatalf("row %d starts_new_chapter = %v, want %v", i, row.StartsNewChapter, wantFlags[i])
		}
	}

	one, err := st.ChapterByID(ctx, 1)
	if err != nil {
		t.Fatalf("chapter 1: %v", err)
	}
	two, err := st.ChapterByID(ctx, 2)
	if err != nil {
		t.Fatalf("chapter 2: %v", err)
	}
	if one.TotalVerses != 1 || two.TotalVerses != 2 {
		t.Fatalf("unexpected chapter counts: %d, %d", one.TotalVerses, two.TotalVerses)
	}
}

func TestLoadDeduplicatesVersesAcrossPages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg, "ara-quransimple")
	ctx := context.Background()

	shared := testsupport.Fragment(1, 1, "shared verse")
	doc := &corpus.Document{Pages: []corpus.Page{
		{Number: 1, Fragments: []corpus.Fragment{shared, testsupport.Fragment(1, 2, "only page 1")}},
		{Number: 2, Fragments: []corpus.Fragment{shared}},
	}}
	names := map[int]string{1: "الفاتحة"}

	stats, err := st.Load(ctx, doc, names, logging.NewNop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stats.VersesInserted != 2 {
		t.Fatalf("expected 2 verses after dedup, got %d", stats.VersesInserted)
	}

	verses, err := st.VersesByChapter(ctx, 1)
	if err != nil {
		t.Fatalf("verses: %v", err)
	}
	if len(verses) != 2 {
		t.Fatalf("expected 2 stored verses, got %d", len(verses))
	}

	// Both pages reference the same surrogate id.
	page1, err := st.PageVersesByPage(ctx, 1)
	if err != nil {
		t.Fatalf("page 1 rows: %v", err)
	}
	page2, err := st.PageVersesByPage(ctx, 2)
	if err != nil {
		t.Fatalf("page 2 rows: %v", err)
	}
	if page1[0].VerseID != page2[0].VerseID {
		t.Fatalf("shared verse stored twice: %d vs %d", page1[0].VerseID, page2[0].VerseID)
	}
}

func TestLoadIgnoresDuplicatePageSubmission(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg, "ara-quransimple")
	ctx := context.Background()

	// The same page number appears twice in the input groupings, e.g. from
	// upstream retry artifacts. Distinct verses keep the join rows valid.
	doc := &corpus.Document{Pages: []corpus.Page{
		{Number: 7, Fragments: []corpus.Fragment{testsupport.Fragment(1, 1, "a")}},
		{Number: 7, Fragments: []corpus.Fragment{testsupport.Fragment(1, 2, "b")}},
	}}
	names := map[int]string{1: "الفاتحة"}

	stats, err := st.Load(ctx, doc, names, logging.NewNop())
	if err != nil {
		t.Fatalf("load should tolerate duplicate page ids: %v", err)
	}
	if stats.PagesInserted != 1 {
		t.Fatalf("expected a single page row, got %d", stats.PagesInserted)
	}
	if stats.VersesInserted != 1 || stats.PageVerses != 1 {
		t.Fatalf("later duplicate entry must be skipped, got %+v", stats)
	}

	counts, err := st.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.Pages != 1 {
		t.Fatalf("expected 1 page row, got %d", counts.Pages)
	}

	// The first entry's fragments win; the chapter total matches them.
	rows, err := st.PageVersesByPage(ctx, 7)
	if err != nil {
		t.Fatalf("page rows: %v", err)
	}
	if len(rows) != 1 || rows[0].VerseOrder != 0 {
		t.Fatalf("expected the first entry's single ordered row, got %+v", rows)
	}
	chapter, err := st.ChapterByID(ctx, 1)
	if err != nil {
		t.Fatalf("chapter 1: %v", err)
	}
	if chapter.TotalVerses != 1 {
		t.Fatalf("chapter total must count the kept entry only, got %d", chapter.TotalVerses)
	}

	report, err := st.VerifyIntegrity(ctx)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !report.Clean() {
		t.Fatalf("duplicate submission left an inconsistent database: %+v", report)
	}
}

func TestLoadFailureLeavesNoRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg, "ara-quransimple")
	ctx := context.Background()

	// The second fragment violates the verses check constraint, failing the
	// load after the chapter, page, and first verse were already written.
	doc := testsupport.SinglePageDocument(1,
		testsupport.Fragment(1, 1, "a"),
		testsupport.Fragment(1, -1, "bad"),
	)
	names := map[int]string{1: "الفاتحة"}

	if _, err := st.Load(ctx, doc, names, logging.NewNop()); err == nil {
		t.Fatal("expected load to fail on the invalid verse number")
	}

	counts, err := st.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts.Chapters != 0 || counts.Verses != 0 || counts.Pages != 0 || counts.PageVerses != 0 {
		t.Fatalf("failed load must leave no rows, got %+v", counts)
	}
}

func TestLoadSkipsChapterAbsentFromCorpus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg, "ara-quransimple")
	ctx := context.Background()

	doc := testsupport.SinglePageDocument(1, testsupport.Fragment(1, 1, "a"))
	names := map[int]string{1: "الفاتحة", 115: "not in this corpus"}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	stats, err := st.Load(ctx, doc, names, logger)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stats.ChaptersInserted != 1 {
		t.Fatalf("expected 1 chapter, got %d", stats.ChaptersInserted)
	}
	if len(stats.ChaptersSkipped) != 1 || stats.ChaptersSkipped[0] != 115 {
		t.Fatalf("expected chapter 115 skipped, got %v", stats.ChaptersSkipped)
	}
	if !bytes.Contains(buf.Bytes(), []byte("chapter=115")) {
		t.Fatalf("expected warning naming chapter 115, got %q", buf.String())
	}
	if _, err := st.ChapterByID(ctx, 115); err == nil {
		t.Fatal("chapter 115 must not be inserted")
	}
}

func TestLoadOrderContiguityAcrossPages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg, "ara-quransimple")
	ctx := context.Background()

	doc := &corpus.Document{Pages: []corpus.Page{
		{Number: 1, Fragments: []corpus.Fragment{
			testsupport.Fragment(1, 1, "a"),
			testsupport.Fragment(1, 2, "b"),
			testsupport.Fragment(1, 3, "c"),
		}},
		{Number: 2, Fragments: []corpus.Fragment{
			testsupport.Fragment(1, 4, "d"),
			testsupport.Fragment(2, 1, "e"),
		}},
	}}
	names := map[int]string{1: "one", 2: "two"}

	if _, err := st.Load(ctx, doc, names, logging.NewNop()); err != nil {
		t.Fatalf("load: %v", err)
	}

	for page, wantLen := range map[int]int{1: 3, 2: 2} {
		rows, err := st.PageVersesByPage(ctx, page)
		if err != nil {
			t.Fatalf("page %d rows: %v", page, err)
		}
		if len(rows) != wantLen {
			t.Fatalf("page %d: expected %d rows, got %d", page, wantLen, len(rows))
		}
		for i, row := range rows {
			if row.VerseOrder != i {
				t.Fatalf("page %d: order gap at %d (got %d)", page, i, row.VerseOrder)
			}
		}
		// The order counter resets per page, so row 0 always opens a chapter.
		if !rows[0].StartsNewChapter {
			t.Fatalf("page %d: first row must start a chapter", page)
		}
	}

	// Page 2 row 1 switches from chapter 1 to 2 mid-page.
	rows, err := st.PageVersesByPage(ctx, 2)
	if err != nil {
		t.Fatalf("page 2 rows: %v", err)
	}
	if !rows[1].StartsNewChapter {
		t.Fatal("chapter change mid-page must set starts_new_chapter")
	}
}
