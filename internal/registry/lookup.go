package registry

import (
	"context"
	"sync"
)

type lookupResult struct {
	name    string
	version string
	err     error
}

// LookupAll resolves target versions for all names with bounded parallelism
// and partitions the outcome into a succeeded map (name -> version) and a
// failed map (name -> reason). A single failed lookup never aborts the
// batch. Both maps are assembled after the fan-out completes, so no
// accumulator is shared between goroutines.
func (c *Client) LookupAll(ctx context.Context, names []string, mode Mode, concurrency int) (map[string]string, map[string]error) {
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make(chan lookupResult, len(names))
	sem := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			version, err := c.PackageVersion(ctx, name, mode)
			results <- lookupResult{name: name, version: version, err: err}
		}(name)
	}
	wg.Wait()
	close(results)

	found := make(map[string]string, len(names))
	failed := make(map[string]error)
	for r := range results {
		if r.err != nil {
			failed[r.name] = r.err
			continue
		}
		found[r.name] = r.version
	}
	return found, failed
}
