// Package download drives the concurrency-bounded, batched retrieval of
// corpus pages and assembles the combined corpus artifact.
//
// Pages are processed in fixed-size sequential batches. Within a batch,
// fetches run concurrently under a shared in-flight cap; batch N+1 never
// starts before batch N has fully resolved and been accumulated. Fetch
// failures are per-page: they become absence results, are logged, and are
// excluded from the combined artifact. Artifact writes are handed to a small
// background writer pool so disk I/O never blocks fetch scheduling; the run
// does not finish until every write has drained.
package download
