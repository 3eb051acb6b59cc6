package testutil

import (
	"errors"
	"sync"

	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/sentinel"
)

// Outcomes tallies how a batch of parallel calls ended.
type Outcomes struct {
	OK       int
	Conflict int
	NotFound int
	Failed   int
	// Errs holds the errors counted as Failed.
	Errs []error
}

func (o Outcomes) Total() int {
	return o.OK + o.Conflict + o.NotFound + o.Failed
}

// RunConcurrent starts n goroutines that all call fn at the same moment and
// waits for them. Conflicts and misses are recognised by store sentinel or by
// domain error code.
func RunConcurrent(n int, fn func(i int) error) Outcomes {
	var (
		mu  sync.Mutex
		out Outcomes
		wg  sync.WaitGroup
	)
	start := make(chan struct{})
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := fn(i)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				out.OK++
			case errors.Is(err, sentinel.ErrConflict), dErrors.HasCode(err, dErrors.CodeConflict):
				out.Conflict++
			case errors.Is(err, sentinel.ErrNotFound), dErrors.HasCode(err, dErrors.CodeNotFound):
				out.NotFound++
			default:
				out.Failed++
				out.Errs = append(out.Errs, err)
			}
		}()
	}
	close(start)
	wg.Wait()
	return out
}
