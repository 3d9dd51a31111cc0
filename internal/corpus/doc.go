// Package corpus models the page-oriented Quran documents exchanged with the
// CDN and persisted as JSON artifacts.
//
// A Document is an ordered list of pages; each Page carries the ordered verse
// fragments that appear on it. The JSON wire format keys each page object as
// "page_<N>" and wraps the combined corpus in a single "pages" field, matching
// the artifacts the loader consumes. Artifact writes are digested with BLAKE3
// and recorded in a per-edition manifest.
package corpus
