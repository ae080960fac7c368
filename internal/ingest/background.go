package ingest

import (
	"sync"

	"github.com/cezarfuhr/primoia-log-watcher/pkg/log"
)

// Runner executes fire-and-forget tasks on their own goroutines. A task
// that panics is logged and absorbed; it never takes the process down
// and never reaches the request path that spawned it.
type Runner struct {
	wg     sync.WaitGroup
	logger log.Logger
}

// NewRunner creates a runner that reports task failures to logger.
func NewRunner(logger log.Logger) *Runner {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Runner{logger: logger.WithComponent("background")}
}

// Go spawns fn on its own goroutine. name identifies the task in
// failure logs.
func (r *Runner) Go(name string, fn func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				r.logger.Error("background task panicked",
					log.Str("task", name),
					log.F("panic", p))
			}
		}()
		fn()
	}()
}

// Wait blocks until every spawned task has finished. Used on shutdown
// so deferred metrics updates are not lost.
func (r *Runner) Wait() {
	r.wg.Wait()
}
