package store

// Chapter is one chapter of the corpus with its derived verse count.
type Chapter struct {
	ChapterID   int    `db:"chapter_id"`
	ChapterName string `db:"chapter_name"`
	TotalVerses int    `db:"total_verses"`
}

// Verse is one deduplicated logical verse, identified by its surrogate id
// and naturally keyed by (chapter_id, verse_number).
type Verse struct {
	VerseID     int64  `db:"verse_id"`
	ChapterID   int    `db:"chapter_id"`
	VerseNumber int    `db:"verse_number"`
	VerseText   string `db:"verse_text"`
}

// PageVerse links a verse to its position on a page.
type PageVerse struct {
	PageID           int   `db:"page_id"`
	VerseID          int64 `db:"verse_id"`
	VerseOrder       int   `db:"verse_order"`
	StartsNewChapter bool  `db:"starts_new_chapter"`
}

// TableCounts holds row totals per table.
type TableCounts struct {
	Chapters   int
	Verses     int
	Pages      int
	PageVerses int
}
