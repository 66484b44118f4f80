// Package reactionvs is the two-player expression quiz. Each player plays
// through their own face camera and events are told apart by note.
package reactionvs

import (
	"context"
	"fmt"

	"github.com/okian/facepad/internal/adapters/input"
	"github.com/okian/facepad/internal/domain/game"
	"github.com/okian/facepad/internal/domain/model"
	"github.com/okian/facepad/internal/games/menu"
	"github.com/okian/facepad/internal/games/reaction"
	"github.com/okian/facepad/internal/games/registry"
	"github.com/okian/facepad/pkg/logger"
)

// Name is the registry name.
const Name = "reactionvs"

// Alias is the name the game was first published under.
const Alias = "reaction_vs"

const players = 2

// DefaultCameras are used when the environment names none.
var DefaultCameras = []int{0, 1} //nolint:gochecknoglobals // fixed default

// Config returns the flow timings for the larger two-player screen.
func Config() reaction.Config {
	cfg := reaction.DefaultConfig()
	cfg.Title = "Reaction VS"
	cfg.DialogueHeight = 80
	return cfg
}

// Game wraps the quiz with two players and a QUIT that returns to the menu.
type Game struct {
	*reaction.Game
	reg     *registry.Registry
	cameras []int
	logger  logger.Logger
}

// Entry registers the game.
func Entry() registry.Entry {
	return registry.Entry{Name: Name, Source: registry.SourceLocal, Aliases: []string{Alias}, New: New}
}

// New builds the game. Camera indices come from env when exactly two are
// given.
func New(env registry.Env) (game.Game, error) {
	cams := DefaultCameras
	if len(env.CameraIndices) == players {
		cams = env.CameraIndices
	}
	g := &Game{reg: env.Registry, cameras: append([]int(nil), cams...), logger: env.Logger}
	if g.logger == nil {
		g.logger = logger.Discard()
	}
	g.Game = reaction.NewGame(env,
		reaction.WithName(Name),
		reaction.WithSize(256, 224),
		reaction.WithConfig(Config()),
		reaction.WithPlayers(playerList()),
	)
	return g, nil
}

func playerList() []reaction.Player {
	out := make([]reaction.Player, players)
	for i := range out {
		out[i] = reaction.Player{Label: fmt.Sprintf("Player %d", i+1), Note: input.FaceNote(i + 1)}
	}
	return out
}

// OnEvent hands control back to the menu on QUIT and forwards the rest.
func (g *Game) OnEvent(e model.InputEvent) error {
	if e.Action != model.Quit {
		return g.Game.OnEvent(e)
	}
	if g.reg == nil {
		return nil
	}
	m, err := g.reg.Create(menu.Name)
	if err != nil {
		return fmt.Errorf("return to menu: %w", err)
	}
	g.logger.Info(context.Background(), "returning to menu", logger.String("game", Name))
	g.SetNext(m)
	return nil
}

// PlayerCount is always two.
func (g *Game) PlayerCount() int { return players }

// CameraIndices returns the camera for each player.
func (g *Game) CameraIndices() []int { return append([]int(nil), g.cameras...) }

// SetCameraIndices replaces the cameras and zeroes the scores.
func (g *Game) SetCameraIndices(indices []int) error {
	if len(indices) != players {
		return fmt.Errorf("%w: got %d, want %d", game.ErrPlayerCount, len(indices), players)
	}
	g.cameras = append([]int(nil), indices...)
	g.ResetScores()
	return nil
}
