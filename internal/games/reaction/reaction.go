// Package reaction is the expression quiz: each round shows a prompt and the
// player answers with a face (open mouth for surprise, smile for smile)
// before time runs out.
//
// The flow is a scene stack: title, countdown, play, and after the last
// round, score. The same game runs with several players, each identified by
// the note their events carry.
package reaction

import (
	"context"

	"github.com/okian/facepad/internal/assets"
	"github.com/okian/facepad/internal/domain/game"
	"github.com/okian/facepad/internal/domain/model"
	"github.com/okian/facepad/internal/domain/scene"
	"github.com/okian/facepad/internal/games/registry"
	"github.com/okian/facepad/internal/render"
	"github.com/okian/facepad/pkg/logger"
)

// Name is the registry name of the single-player game.
const Name = "reaction"

// Config holds the flow timings in frames and the fixed texts.
type Config struct {
	Title             string
	TitlePrompt       string
	RestartPrompt     string
	Countdown         []int
	CountdownInterval int
	TotalRounds       int
	Line2Delay        int
	PromptDelay       int
	ReactionWindow    int
	TimeUpHold        int
	ResultHold        int
	PromptBlink       int
	DialogueHeight    int
	GaugeHeight       int
	GaugeMargin       int
}

// DefaultConfig returns the single-player timings at 30 fps.
func DefaultConfig() Config {
	return Config{
		Title:             "Reaction Game",
		TitlePrompt:       "Smile to start!",
		RestartPrompt:     "Smile to return",
		Countdown:         []int{3, 2, 1},
		CountdownInterval: 15,
		TotalRounds:       5,
		Line2Delay:        90,
		PromptDelay:       30,
		ReactionWindow:    120,
		TimeUpHold:        60,
		ResultHold:        60,
		PromptBlink:       30,
		DialogueHeight:    44,
		GaugeHeight:       3,
		GaugeMargin:       6,
	}
}

// Player is one participant.
type Player struct {
	Label string
	Note  string
	Score int
}

// Game runs the scene flow.
type Game struct {
	game.Handoff

	name    string
	width   int
	height  int
	cfg     Config
	content *assets.Store
	stack   *scene.Stack
	players []Player
	logger  logger.Logger
}

// Option configures a Game.
type Option func(*Game)

// WithConfig replaces the flow timings.
func WithConfig(cfg Config) Option {
	return func(g *Game) { g.cfg = cfg }
}

// WithSize sets the screen size.
func WithSize(width, height int) Option {
	return func(g *Game) {
		if width > 0 && height > 0 {
			g.width, g.height = width, height
		}
	}
}

// WithName sets the name reported to logs and metrics.
func WithName(name string) Option {
	return func(g *Game) {
		if name != "" {
			g.name = name
		}
	}
}

// WithPlayers replaces the single default player.
func WithPlayers(players []Player) Option {
	return func(g *Game) {
		if len(players) > 0 {
			g.players = append([]Player(nil), players...)
		}
	}
}

// WithContent sets the question store.
func WithContent(s *assets.Store) Option {
	return func(g *Game) {
		if s != nil {
			g.content = s
		}
	}
}

// Entry registers the single-player game.
func Entry() registry.Entry {
	return registry.Entry{Name: Name, Source: registry.SourceLocal, New: New}
}

// New builds the single-player game from env.
func New(env registry.Env) (game.Game, error) {
	return NewGame(env), nil
}

// NewGame builds a game reading content from the "reaction" asset directory.
func NewGame(env registry.Env, opts ...Option) *Game {
	g := &Game{
		name:    Name,
		width:   160,
		height:  120,
		cfg:     DefaultConfig(),
		players: []Player{{Label: "Player 1"}},
		logger:  env.Logger,
	}
	if env.Assets != nil {
		g.content = env.Assets.Store(Name)
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.content == nil {
		g.content = assets.New("")
	}
	if g.logger == nil {
		g.logger = logger.Discard()
	}
	g.stack = scene.NewStack()
	g.Reset()
	return g
}

// Reset zeroes the scores and returns to the title scene.
func (g *Game) Reset() {
	g.resetScores()
	g.stack.Reset(newTitle(g))
}

// ResetScores zeroes every player's score without leaving the current scene.
func (g *Game) ResetScores() { g.resetScores() }

func (g *Game) resetScores() {
	for i := range g.players {
		g.players[i].Score = 0
	}
}

func (g *Game) Name() string { return g.name }
func (g *Game) Width() int   { return g.width }
func (g *Game) Height() int  { return g.height }

// Config returns the flow timings.
func (g *Game) Config() Config { return g.cfg }

// Stack exposes the scene stack.
func (g *Game) Stack() *scene.Stack { return g.stack }

// Players returns a copy of the participants with their scores.
func (g *Game) Players() []Player { return append([]Player(nil), g.players...) }

// SetPlayers replaces the participants and resets the game.
func (g *Game) SetPlayers(players []Player) {
	g.players = append([]Player(nil), players...)
	g.Reset()
}

// Scores returns each player's score.
func (g *Game) Scores() []int {
	out := make([]int, len(g.players))
	for i, p := range g.players {
		out[i] = p.Score
	}
	return out
}

// playerFor maps an event note to a player. Notes that match nobody count
// for the first player.
func (g *Game) playerFor(note string) int {
	for i, p := range g.players {
		if p.Note != "" && p.Note == note {
			return i
		}
	}
	return 0
}

// OnEvent forwards e to the active scene.
func (g *Game) OnEvent(e model.InputEvent) error { return g.stack.OnEvent(e) }

// Update advances the active scene.
func (g *Game) Update() error { return g.stack.Update() }

// Draw renders the active scene.
func (g *Game) Draw(rc render.Context) error { return g.stack.Draw(rc) }

func (g *Game) startSession() {
	qs := g.content.PickQuestions(g.cfg.TotalRounds)
	s := g.stack.StartSession(qs)
	g.resetScores()
	g.logger.Debug(context.Background(), "session started",
		logger.String("game", g.name),
		logger.String("session", s.ID()),
		logger.Any("questions", qs))
}
