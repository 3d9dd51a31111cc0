package download

import (
	"fmt"
	"time"

	"github.com/Nenoeldeeb/quran-databases/internal/corpus"
)

// PageResult carries the outcome of a single page fetch: either the page's
// ordered fragment list or the reason the page is absent from this run.
type PageResult struct {
	Page      int
	Fragments []corpus.Fragment
	Err       error
}

// Missing reports whether the page produced no data.
func (r PageResult) Missing() bool {
	return r.Err != nil
}

// Summary describes a completed download run.
type Summary struct {
	Edition      string
	RunID        string
	PagesWanted  int
	PagesFetched int
	MissingPages []int
	Elapsed      time.Duration
	CorpusPath   string
	ManifestPath string
}

// Rate returns the average throughput in pages per second.
func (s Summary) Rate() float64 {
	seconds := s.Elapsed.Seconds()
	if seconds <= 0 {
		return 0
	}
	return float64(s.PagesFetched) / seconds
}

// MissingPagesError is returned when a strict run ends with absent pages.
type MissingPagesError struct {
	Pages []int
}

func (e *MissingPagesError) Error() string {
	return fmt.Sprintf("download incomplete: %d pages missing %v", len(e.Pages), e.Pages)
}
