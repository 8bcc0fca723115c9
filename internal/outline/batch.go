package outline

import (
	"golang.org/x/sync/errgroup"
)

// ExtractAll runs Extract over paths with bounded parallelism. Results keep
// the input order and one failing document never affects the others.
func (e *Extractor) ExtractAll(paths []string, concurrency int) []Result {
	if concurrency <= 0 {
		concurrency = 1
	}
	results := make([]Result, len(paths))
	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, p := range paths {
		g.Go(func() error {
			results[i] = e.Extract(p)
			return nil
		})
	}
	g.Wait()
	return results
}
