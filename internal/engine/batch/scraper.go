// internal/engine/batch/scraper.go
package batch

import (
	"context"
	"sync"

	"github.com/law-makers/pagesift/pkg/models"
)

// Scraper is what the batch runs for every URL
type Scraper interface {
	Scrape(ctx context.Context, url string) *models.ScrapeResult
}

// Item is one finished job
type Item struct {
	Job
	Result *models.ScrapeResult
}

// Runner scrapes many URLs with bounded concurrency. Every job runs the
// full pipeline independently.
type Runner struct {
	scraper     Scraper
	concurrency int
}

// New creates a Runner. If concurrency <= 0 it is tuned to the machine.
func New(scraper Scraper, concurrency int) *Runner {
	if concurrency <= 0 {
		concurrency = OptimalConcurrency()
	}
	return &Runner{
		scraper:     scraper,
		concurrency: concurrency,
	}
}

// Concurrency returns the worker count
func (r *Runner) Concurrency() int {
	return r.concurrency
}

// Run scrapes urls and streams results as they finish. Jobs not yet started
// when ctx is cancelled are skipped; the channel closes once running jobs
// finish.
func (r *Runner) Run(ctx context.Context, urls []string) <-chan Item {
	jobs := make([]Job, len(urls))
	for i, u := range urls {
		jobs[i] = Job{Index: i, URL: u}
	}
	jobs = Interleave(jobs)

	results := make(chan Item, len(jobs))
	sem := make(chan struct{}, r.concurrency)
	var wg sync.WaitGroup

	go func() {
		defer close(results)
		defer wg.Wait()

		for _, job := range jobs {
			if ctx.Err() != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
			}

			wg.Add(1)
			go func(j Job) {
				defer wg.Done()
				defer func() { <-sem }()

				results <- Item{Job: j, Result: r.scraper.Scrape(ctx, j.URL)}
			}(job)
		}
	}()

	return results
}
