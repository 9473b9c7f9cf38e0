// SPDX-License-Identifier: MPL-2.0

package source

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultFetchConcurrency bounds parallel object downloads during prefetch.
const DefaultFetchConcurrency = 4

// prefetched holds the buffered outcome of one fetch.
type prefetched struct {
	body []byte
	err  error
}

// Prefetch downloads every ref concurrently and returns a Fetcher serving
// the buffered results. Plan compilation must observe artifacts in their
// original configured order, not fetch-completion order, so the fan-out
// stays here: results are keyed by ref and the sequential compiler reads
// them back in order with zero extra latency.
//
// Individual fetch failures are buffered, not returned; the compiler applies
// its own skip policy per artifact. Prefetch itself fails only when the
// context is canceled.
func Prefetch(ctx context.Context, fetcher Fetcher, refs []Ref, concurrency int) (Fetcher, error) {
	if concurrency <= 0 {
		concurrency = DefaultFetchConcurrency
	}

	results := make([]prefetched, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, ref := range refs {
		g.Go(func() error {
			body, err := fetcher.Fetch(gctx, ref)
			results[i] = prefetched{body: body, err: err}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("prefetch artifacts: %w", err)
	}

	index := make(map[Ref]prefetched, len(refs))
	for i, ref := range refs {
		index[ref] = results[i]
	}

	return FetcherFunc(func(_ context.Context, ref Ref) ([]byte, error) {
		res, ok := index[ref]
		if !ok {
			return nil, fmt.Errorf("%w: %s was not prefetched", ErrUnavailable, ref)
		}
		return res.body, res.err
	}), nil
}
