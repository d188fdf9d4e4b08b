package boundary

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Sequence is an ordered set of candidate boundary strings.
type Sequence []Matcher

// Find tests every candidate against window concurrently. The successful
// candidate that appears first in the sequence wins, regardless of which
// search finishes first. Candidates ordered after a known winner are skipped.
//
// A zero Match with a nil error means no candidate matched.
func (s Sequence) Find(ctx context.Context, window string) (Match, error) {
	if err := ctx.Err(); err != nil {
		return Match{}, err
	}

	switch len(s) {
	case 0:
		return Match{}, nil
	case 1:
		return s[0].Match(window), nil
	}

	results := make([]Match, len(s))

	var winner atomic.Int64
	winner.Store(int64(len(s)))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))

	for idx, candidate := range s {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			if int64(idx) > winner.Load() {
				return nil
			}

			match := candidate.Match(window)
			if !match.Success {
				return nil
			}
			results[idx] = match

			for {
				current := winner.Load()
				if int64(idx) >= current || winner.CompareAndSwap(current, int64(idx)) {
					return nil
				}
			}
		})
	}

	if err := group.Wait(); err != nil {
		return Match{}, err
	}

	if best := winner.Load(); best < int64(len(s)) {
		return results[best], nil
	}
	return Match{}, nil
}
