// Package store persists a Quran edition in SQLite and loads corpus
// documents into the normalized schema.
//
// The Store manages the database connection, pragma application, and schema
// initialization. Loading is a two-pass transform: verse counts are tallied
// per chapter first, then pages, verses, and the ordered page-verse join are
// populated inside a single transaction committed once at the end. Verses
// are deduplicated on their (chapter, verse number) natural key; the same
// logical verse referenced by several pages is stored exactly once.
//
// Schema changes bump the version in schema.go; existing databases with a
// different version are rejected rather than migrated, since an edition
// database is cheap to rebuild from its artifacts.
package store
