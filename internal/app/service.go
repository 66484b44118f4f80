// Package app is the frame loop. Each frame it polls providers, drains the
// event queue into the active game, updates it, performs any requested game
// handoff and draws.
//
// Every game, scene and provider call runs on the goroutine calling Tick.
// Only Stats may be called from elsewhere.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/facepad/internal/adapters/input"
	eventqueue "github.com/okian/facepad/internal/adapters/mq/queue"
	"github.com/okian/facepad/internal/domain/game"
	"github.com/okian/facepad/pkg/logger"
	"github.com/okian/facepad/pkg/metrics"
)

const (
	defaultFPS     = 30
	errorLogEvery  = 5 * time.Second
	stageOnEvent   = "on_event"
	stageUpdate    = "update"
	stageDraw      = "draw"
	stagePoll      = "poll"
	stageStart     = "start"
	reasonSuppress = "menu_suppressed"
)

// registered wraps a provider with its failure-logged flag.
type registered struct {
	provider input.Provider
	logged   atomic.Bool
}

// App drives one active game.
type App struct {
	mu sync.RWMutex

	game  game.Game
	queue *eventqueue.InMemoryQueue

	providers    []*registered
	keyboardNote string
	fps          int
	maxFrames    int64
	strict       bool

	terminate bool
	frames    atomic.Int64
	running   atomic.Bool
	started   bool

	errLog *rate.Sometimes
	logger logger.Logger
}

// Option applies a configuration option to the App.
type Option func(*App)

// WithQueue replaces the default event queue.
func WithQueue(q *eventqueue.InMemoryQueue) Option {
	return func(a *App) {
		if q != nil {
			a.queue = q
		}
	}
}

// WithProviders registers input providers in polling order.
func WithProviders(ps ...input.Provider) Option {
	return func(a *App) {
		for _, p := range ps {
			if p != nil {
				a.providers = append(a.providers, &registered{provider: p})
			}
		}
	}
}

// WithFPS sets the Run tick rate.
func WithFPS(fps int) Option {
	return func(a *App) {
		if fps > 0 {
			a.fps = fps
		}
	}
}

// WithMaxFrames makes Run return after n frames. Zero runs until quit.
func WithMaxFrames(n int64) Option {
	return func(a *App) {
		if n >= 0 {
			a.maxFrames = n
		}
	}
}

// WithStrict re-raises panics caught at stage boundaries.
func WithStrict(strict bool) Option {
	return func(a *App) { a.strict = strict }
}

// WithKeyboardNote sets the tag of events allowed through while the menu is
// active.
func WithKeyboardNote(note string) Option {
	return func(a *App) {
		if note != "" {
			a.keyboardNote = note
		}
	}
}

// WithLogger sets a custom logger for the loop.
func WithLogger(l logger.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// New constructs a loop starting on initial.
func New(initial game.Game, opts ...Option) (*App, error) {
	if initial == nil {
		return nil, ErrNoGame
	}
	a := &App{
		game:         initial,
		keyboardNote: input.KeyboardNote,
		fps:          defaultFPS,
		errLog:       &rate.Sometimes{First: 1, Interval: errorLogEvery},
		logger:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.queue == nil {
		a.queue = eventqueue.NewInMemoryQueue()
	}
	metrics.UpdateActiveProviders(len(a.providers))
	return a, nil
}

// Queue returns the event queue providers enqueue into.
func (a *App) Queue() *eventqueue.InMemoryQueue { return a.queue }

// Game returns the active game.
func (a *App) Game() game.Game {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.game
}

// Terminated reports whether a QUIT was accepted without a handoff.
func (a *App) Terminated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.terminate
}

// Frames returns the number of completed frames.
func (a *App) Frames() int64 { return a.frames.Load() }

// Start starts every threaded provider. A provider that fails to start is
// logged once and left registered; its Poll still runs.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return nil
	}
	a.logger.Info(ctx, "starting frame loop",
		logger.String("game", game.NameOf(a.game)),
		logger.Int("providers", len(a.providers)),
		logger.Int("fps", a.fps))

	for _, r := range a.providers {
		t, ok := r.provider.(input.Threaded)
		if !ok {
			continue
		}
		err := a.guard(ctx, stageStart, func() error { return t.Start(ctx, a.queue) })
		if err != nil {
			a.providerFailed(ctx, r, stageStart, err)
		}
	}
	a.started = true
	return nil
}

// Stop stops threaded providers and closes the queue.
func (a *App) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.started {
		return nil
	}
	ctx := context.Background()
	a.logger.Info(ctx, "stopping frame loop", logger.Int64("frames", a.frames.Load()))

	var errs []error
	for _, r := range a.providers {
		if t, ok := r.provider.(input.Threaded); ok {
			if err := t.Stop(); err != nil {
				errs = append(errs, fmt.Errorf("stop %s: %w", r.provider.Name(), err))
			}
		}
	}
	if err := a.queue.Close(); err != nil {
		errs = append(errs, err)
	}
	a.started = false
	return errors.Join(errs...)
}

// providerFailed logs err the first time r fails.
func (a *App) providerFailed(ctx context.Context, r *registered, stage string, err error) {
	if !r.logged.CompareAndSwap(false, true) {
		return
	}
	a.logger.Error(ctx, "input provider failed",
		logger.String("provider", r.provider.Name()),
		logger.String("stage", stage),
		logger.Error(err))
}
