// Package logging assembles the structured slog loggers used across qurandb.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes helpers so commands can tag log lines with the
// component and run identifier. A no-op logger is provided for tests and
// wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
