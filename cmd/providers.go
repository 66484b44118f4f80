package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/facepad/internal/adapters/capture"
	"github.com/okian/facepad/internal/adapters/capture/script"
	"github.com/okian/facepad/internal/adapters/input"
	"github.com/okian/facepad/internal/config"
	"github.com/okian/facepad/internal/domain/expression"
	"github.com/okian/facepad/internal/domain/game"
	"github.com/okian/facepad/pkg/logger"
)

// cameraPlan returns the camera for each face player. Multiplayer games
// name their own; explicit -cameras win.
func cameraPlan(g game.Game, override []int) []int {
	if len(override) > 0 {
		return override
	}
	if mp, ok := g.(game.Multiplayer); ok {
		return mp.CameraIndices()
	}
	return nil
}

// buildProviders turns parsed -provider values into providers. Faces take
// players in order; a face without a camera uses the planned camera for
// its player. When the plan has more cameras than faces, the remaining
// players get a face provider each.
func buildProviders(ctx context.Context, specs []input.Spec, cfg *config.Config, cameras []int, log logger.Logger) ([]input.Provider, error) {
	var timeline script.Timeline
	var err error
	if cfg.FaceScript != "" {
		if timeline, err = script.Load(cfg.FaceScript); err != nil {
			return nil, fmt.Errorf("face script: %w", err)
		}
	} else {
		timeline = script.Demo()
	}

	var (
		out     []input.Provider
		workers []*capture.Worker
		player  int
	)
	fail := func(err error) ([]input.Provider, error) {
		for _, w := range workers {
			err = errors.Join(err, w.Stop())
		}
		return nil, err
	}
	addFace := func(cam int) error {
		player++
		w, err := newWorker(ctx, cam, cfg, timeline, log)
		if err != nil {
			return err
		}
		workers = append(workers, w)
		out = append(out, input.NewFaceProvider(w, expression.NewExtractor(cfg.Expression()),
			input.WithPlayer(player),
			input.WithFaceLogger(log.Named("face"))))
		return nil
	}

	for _, spec := range specs {
		switch spec.Kind {
		case input.KindKeyboard:
			out = append(out, input.NewKeyboardProvider(input.WithKeyboardNote(cfg.KeyboardNote)))
		case input.KindFace:
			cam := player
			switch {
			case spec.HasCamera:
				cam = spec.Camera
			case player < len(cameras):
				cam = cameras[player]
			}
			if err := addFace(cam); err != nil {
				return fail(err)
			}
		default:
			return fail(fmt.Errorf("%w: %s", input.ErrUnknownProvider, spec.Kind))
		}
	}
	if player > 0 {
		for player < len(cameras) {
			if err := addFace(cameras[player]); err != nil {
				return fail(err)
			}
		}
	}
	return out, nil
}

// newWorker opens camera cam with the scripted detector.
func newWorker(ctx context.Context, cam int, cfg *config.Config, timeline script.Timeline, log logger.Logger) (*capture.Worker, error) {
	initial, maxInterval := cfg.RetryRange()
	return capture.NewWorker(ctx, cam, script.Open, script.Factory(timeline, script.WithAsync()),
		capture.WithFrameSize(cfg.FaceFrameWidth, cfg.FaceFrameHeight),
		capture.WithCameraFPS(cfg.FaceCameraFPS),
		capture.WithFrameSkip(cfg.FaceFrameSkip),
		capture.WithStopTimeout(cfg.StopTimeout()),
		capture.WithRetry(initial, maxInterval),
		capture.WithLogger(log.Named("capture")),
	)
}
