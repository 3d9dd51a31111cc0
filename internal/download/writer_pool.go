package download

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/Nenoeldeeb/quran-databases/internal/corpus"
)

type writeJob struct {
	name  string
	value any
}

// writerPool persists artifacts on background workers and records their
// digests in the run manifest. Enqueue never performs disk I/O itself.
type writerPool struct {
	dir  string
	jobs chan writeJob
	wg   sync.WaitGroup

	mu       sync.Mutex
	manifest *corpus.Manifest
	errs     []error
}

func newWriterPool(dir string, workers int, manifest *corpus.Manifest) *writerPool {
	if workers < 1 {
		workers = 1
	}
	p := &writerPool{
		dir:      dir,
		jobs:     make(chan writeJob, workers*4),
		manifest: manifest,
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *writerPool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		digest, err := corpus.WriteJSON(filepath.Join(p.dir, job.name), job.value)
		p.mu.Lock()
		if err != nil {
			p.errs = append(p.errs, err)
		} else {
			p.manifest.Record(job.name, digest)
		}
		p.mu.Unlock()
	}
}

func (p *writerPool) enqueue(name string, value any) {
	p.jobs <- writeJob{name: name, value: value}
}

// close drains the queue, stops the workers, and reports any write failures.
func (p *writerPool) close() error {
	close(p.jobs)
	p.wg.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	return errors.Join(p.errs...)
}
