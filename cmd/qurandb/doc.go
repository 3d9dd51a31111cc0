// Package main hosts the qurandb CLI entrypoint and command graph.
//
// The Cobra-based command tree drives the full pipeline: listing the known
// Quran editions, downloading an edition's pages from the quran-api CDN into
// per-page and combined corpus artifacts, extracting the chapter-name map,
// loading a corpus into a normalized per-edition SQLite database, and running
// consistency checks over the result. It centralizes configuration
// resolution and structured logging setup so subcommands stay declarative
// while the heavy lifting lives in the internal packages.
package main
