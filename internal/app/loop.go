package app

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/facepad/internal/adapters/input"
	"github.com/okian/facepad/internal/domain/game"
	"github.com/okian/facepad/internal/domain/model"
	"github.com/okian/facepad/internal/render"
	"github.com/okian/facepad/pkg/logger"
	"github.com/okian/facepad/pkg/metrics"
)

// Surface is a render context the loop begins once per frame.
type Surface interface {
	render.Context
	BeginFrame()
}

// resizer is implemented by surfaces that follow the active game's size.
type resizer interface {
	Resize(width, height int)
}

// guard runs f as one stage. Errors are counted and returned. Panics are
// recovered into ErrPanic unless the loop is strict.
func (a *App) guard(ctx context.Context, stage string, f func() error) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		metrics.RecordStageFailure(stage, "panic")
		if a.strict {
			panic(r)
		}
		err = fmt.Errorf("%w in %s: %v", ErrPanic, stage, r)
		a.logger.Error(ctx, "stage panicked", logger.String("stage", stage), logger.Error(err))
	}()
	if err = f(); err != nil {
		metrics.RecordStageFailure(stage, "error")
	}
	return err
}

// gameFailed logs a game error through the throttle.
func (a *App) gameFailed(ctx context.Context, stage string, g game.Game, err error) {
	a.errLog.Do(func() {
		a.logger.Warn(ctx, "game stage failed",
			logger.String("game", game.NameOf(g)),
			logger.String("stage", stage),
			logger.Error(err))
	})
}

// Tick runs the update half of a frame: poll, drain and dispatch, update and
// handoff. It never fails; every failure is logged and the frame goes on.
func (a *App) Tick(ctx context.Context, rc render.Context) {
	for _, r := range a.providers {
		p, ok := r.provider.(input.Poller)
		if !ok {
			continue
		}
		if err := a.guard(ctx, stagePoll, func() error { return p.Poll(ctx, rc, a.queue) }); err != nil {
			a.providerFailed(ctx, r, stagePoll, err)
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	g := a.game
	menuActive := game.IsMenu(g)
	events := a.queue.Drain(ctx)
	for _, e := range events {
		if menuActive && e.Note != a.keyboardNote {
			metrics.RecordEventDropped(reasonSuppress)
			continue
		}
		a.dispatch(ctx, g, e)
	}

	if err := a.guard(ctx, stageUpdate, g.Update); err != nil {
		a.gameFailed(ctx, stageUpdate, g, err)
	}

	if next := g.Next(); next != nil {
		g.ClearNext()
		a.swap(ctx, rc, g, next)
	}
}

// dispatch forwards e. A QUIT terminates the loop unless the game answered
// it with a handoff.
func (a *App) dispatch(ctx context.Context, g game.Game, e model.InputEvent) {
	metrics.RecordEventDispatched(e.Action.String())
	if err := a.guard(ctx, stageOnEvent, func() error { return g.OnEvent(e) }); err != nil {
		a.gameFailed(ctx, stageOnEvent, g, err)
	}
	if e.Action == model.Quit && g.Next() == nil {
		a.terminate = true
	}
}

func (a *App) swap(ctx context.Context, rc render.Context, from, to game.Game) {
	a.game = to
	a.terminate = false
	metrics.RecordGameSwitch(game.NameOf(to))
	if r, ok := rc.(resizer); ok {
		r.Resize(to.Width(), to.Height())
	}
	a.logger.Info(ctx, "game switched",
		logger.String("from", game.NameOf(from)),
		logger.String("to", game.NameOf(to)))
}

// Draw renders the active game. A failed draw clears the screen.
func (a *App) Draw(ctx context.Context, rc render.Context) {
	a.mu.RLock()
	g := a.game
	a.mu.RUnlock()

	if err := a.guard(ctx, stageDraw, func() error { return g.Draw(rc) }); err != nil {
		rc.Cls(render.ColorBlack)
		a.gameFailed(ctx, stageDraw, g, err)
	}
}

// Step runs one whole frame and records its latency.
func (a *App) Step(ctx context.Context, rc render.Context) {
	start := time.Now()
	a.Tick(ctx, rc)
	a.Draw(ctx, rc)
	a.frames.Add(1)
	metrics.RecordFrame(float64(time.Since(start).Microseconds()) / 1000)
}

// Run starts the providers and ticks at the configured rate until a QUIT
// terminates the loop, the frame limit is reached or ctx is done.
func (a *App) Run(ctx context.Context, s Surface) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	if err := a.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := a.Stop(); err != nil {
			a.logger.Warn(context.Background(), "stopping providers", logger.Error(err))
		}
	}()

	if r, ok := s.(resizer); ok {
		g := a.Game()
		r.Resize(g.Width(), g.Height())
	}

	ticker := time.NewTicker(time.Second / time.Duration(a.fps))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			a.logger.Info(ctx, "frame loop cancelled", logger.Int64("frames", a.Frames()))
			return nil
		case <-ticker.C:
		}

		s.BeginFrame()
		a.Step(ctx, s)

		if a.Terminated() {
			a.logger.Info(ctx, "quit requested", logger.Int64("frames", a.Frames()))
			return nil
		}
		if a.maxFrames > 0 && a.Frames() >= a.maxFrames {
			return nil
		}
	}
}
