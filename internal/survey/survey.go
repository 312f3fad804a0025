// Package survey measures how much payload a set of cover images can carry.
package survey

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
)

// Config holds all parameters for a survey run.
type Config struct {
	Workers int
	Verbose bool
}

// Survey decodes cover images in parallel and reports their capacity.
type Survey struct {
	cfg Config
}

// New creates a configured survey.
func New(cfg Config) *Survey {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Survey{cfg: cfg}
}

// Workers returns the effective worker count.
func (s *Survey) Workers() int { return s.cfg.Workers }

type result struct {
	entry Entry
	err   error
}

// Run surveys every source. Entries come back in source order; failed
// sources are logged and skipped unless every source fails.
func (s *Survey) Run(ctx context.Context, sources []Source) ([]Entry, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images to survey")
	}

	results := make([]result, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, src Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			if err := ctx.Err(); err != nil {
				results[idx].err = err
				return
			}
			if s.cfg.Verbose {
				fmt.Fprintf(os.Stderr, "[lsbsteg] surveying: %s\n", src.RelPath)
			}
			e, err := surveyImage(src)
			results[idx] = result{entry: e, err: err}
		}(i, src)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entries []Entry
	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		entries = append(entries, r.entry)
	}

	// Report errors but don't fail the survey for partial failures.
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "[lsbsteg] error: %v\n", e)
		}
		if len(errs) == len(sources) {
			return nil, fmt.Errorf("all %d images failed to decode", len(errs))
		}
	}
	return entries, nil
}
