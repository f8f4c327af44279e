package app

import (
	"image"
	"sync"
	"time"

	"scan-cleaner/internal/stain"

	"github.com/rs/zerolog"
)

// Runner debounces processing requests and executes the pipeline off
// the interactive thread. The pipeline itself is a synchronous pure
// transform; the runner treats each run as an atomic unit of work and
// delivers only the newest result: a request issued while an older run
// is still in flight supersedes it, and the stale result is dropped on
// completion (last-writer-wins).
type Runner struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	gen   uint64

	log      zerolog.Logger
	onResult func(*stain.Result)
	onError  func(error)
}

// NewRunner creates a runner. onResult and onError are called from a
// background goroutine; UI callers must hop back to the event loop
// themselves.
func NewRunner(delay time.Duration, log zerolog.Logger, onResult func(*stain.Result), onError func(error)) *Runner {
	return &Runner{
		delay:    delay,
		log:      log,
		onResult: onResult,
		onError:  onError,
	}
}

// Request schedules a processing run after the debounce delay. Rapid
// successive calls (slider drags) collapse into one run. The source
// raster is read, never written, so the caller may keep displaying it;
// the whitelist must be a private copy.
func (r *Runner) Request(src *image.RGBA, p stain.Params, whitelist *stain.Mask) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gen++
	gen := r.gen

	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.delay, func() {
		r.run(gen, src, p, whitelist)
	})
}

// Flush runs any pending request immediately. Used before export so
// the saved output reflects the latest parameters.
func (r *Runner) Flush() {
	r.mu.Lock()
	timer := r.timer
	r.mu.Unlock()
	if timer != nil && timer.Stop() {
		timer.Reset(0)
	}
}

func (r *Runner) run(gen uint64, src *image.RGBA, p stain.Params, whitelist *stain.Mask) {
	start := time.Now()
	res, err := stain.Process(src, p, whitelist)

	r.mu.Lock()
	stale := gen != r.gen
	r.mu.Unlock()
	if stale {
		r.log.Debug().Uint64("generation", gen).Msg("dropping superseded result")
		return
	}

	if err != nil {
		r.log.Error().Err(err).Msg("processing failed")
		if r.onError != nil {
			r.onError(err)
		}
		return
	}

	r.log.Info().
		Dur("elapsed", time.Since(start)).
		Int("replaced", res.Stats.ReplacedPixels).
		Int("black", res.Stats.BlackPixels).
		Int("shielded", res.Stats.NearBlackPixels).
		Msg("processing complete")

	if r.onResult != nil {
		r.onResult(res)
	}
}
