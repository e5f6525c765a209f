package unitsync

import (
	"github.com/joeycumines/logiface"
)

// config holds the shared construction options for all primitives.
type config struct {
	wq    WaitQueue
	sched Scheduler
	log   *logiface.Logger[logiface.Event]
}

// Option configures a primitive at construction.
type Option interface {
	apply(*config)
}

// optionImpl implements Option.
type optionImpl struct {
	applyFunc func(*config)
}

func (x *optionImpl) apply(cfg *config) {
	x.applyFunc(cfg)
}

// WithWaitQueue sets the wait queue a primitive parks on. Each primitive
// should be given its own queue; sharing one queue between primitives is
// safe only if every party rechecks its condition in a loop (as [PerThread]
// does internally).
//
// Defaults to a fresh [NewWaitQueue].
func WithWaitQueue(wq WaitQueue) Option {
	return &optionImpl{func(cfg *config) {
		cfg.wq = wq
	}}
}

// WithScheduler sets the scheduler collaborator supplying unit identity,
// worker-thread ids, and unit-local storage.
//
// Defaults to a process-wide goroutine-backed scheduler.
func WithScheduler(sched Scheduler) Option {
	return &optionImpl{func(cfg *config) {
		cfg.sched = sched
	}}
}

// WithLogger attaches a structured logger. Slow paths emit trace and debug
// events (parks, wakes, permanent initialization failures); fast paths never
// touch the logger. A nil logger is valid and costs one nil check.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(cfg *config) {
		cfg.log = logger
	}}
}

// resolveConfig applies options over the defaults. Nil options are skipped.
func resolveConfig(opts []Option) config {
	cfg := config{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(&cfg)
	}
	if cfg.wq == nil {
		cfg.wq = NewWaitQueue()
	}
	if cfg.sched == nil {
		cfg.sched = defaultScheduler
	}
	return cfg
}
