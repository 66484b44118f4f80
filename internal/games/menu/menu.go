// Package menu is the game selector shown at startup.
package menu

import (
	"context"
	"fmt"

	"github.com/okian/facepad/internal/domain/game"
	"github.com/okian/facepad/internal/domain/model"
	"github.com/okian/facepad/internal/games/registry"
	"github.com/okian/facepad/internal/render"
	"github.com/okian/facepad/pkg/logger"
)

// Name is the registry name of the selector.
const Name = "menu"

const (
	width       = 160
	height      = 120
	listTop     = 36
	rowHeight   = 10
	blinkPeriod = 60
	blinkOn     = 45
)

// Game lists every other registered game. ACTION1 moves the cursor and
// ACTION2 starts the selected game.
type Game struct {
	game.Handoff
	reg     *registry.Registry
	items   []registry.Entry
	idx     int
	blink   int
	lastErr string
	logger  logger.Logger
}

// Entry registers the selector.
func Entry() registry.Entry {
	return registry.Entry{Name: Name, Source: registry.SourceLocal, New: New}
}

// New builds a selector over env.Registry.
func New(env registry.Env) (game.Game, error) {
	g := &Game{reg: env.Registry, logger: env.Logger}
	if g.logger == nil {
		g.logger = logger.Discard()
	}
	if g.reg != nil {
		for _, e := range g.reg.Entries() {
			if e.Name != Name {
				g.items = append(g.items, e)
			}
		}
	}
	return g, nil
}

func (g *Game) Name() string { return Name }
func (g *Game) IsMenu() bool { return true }
func (g *Game) Width() int   { return width }
func (g *Game) Height() int  { return height }

// Items returns the selectable entries.
func (g *Game) Items() []registry.Entry { return g.items }

// Selected returns the cursor position.
func (g *Game) Selected() int { return g.idx }

// OnEvent moves the cursor or starts the selected game. A game that fails
// to build leaves the menu active.
func (g *Game) OnEvent(e model.InputEvent) error {
	if len(g.items) == 0 {
		return nil
	}
	switch e.Action {
	case model.Action1:
		g.idx = (g.idx + 1) % len(g.items)
	case model.Action2:
		name := g.items[g.idx].Name
		next, err := g.reg.Create(name)
		if err != nil {
			g.lastErr = fmt.Sprintf("cannot start %s", name)
			g.ClearNext()
			return err
		}
		g.lastErr = ""
		g.logger.Info(context.Background(), "game selected", logger.String("game", name))
		g.SetNext(next)
	}
	return nil
}

// Update advances the cursor blink.
func (g *Game) Update() error {
	g.blink = (g.blink + 1) % blinkPeriod
	return nil
}

// Draw renders the title, help line and list.
func (g *Game) Draw(rc render.Context) error {
	rc.Cls(render.ColorBlack)

	title := "Select Game"
	help := "SPACE: next  ENTER: start  ESC: quit"
	render.TextCentered(rc, title, width, 8, render.ColorWhite)
	render.TextCentered(rc, help, width, 18, render.ColorLight)

	if len(g.items) == 0 {
		rc.Text(20, 60, "No games found.", render.ColorRed)
		return nil
	}

	for i, item := range g.items {
		y := listTop + i*rowHeight
		col := render.ColorWhite
		marker := " "
		if i == g.idx {
			col = render.ColorLime
			if g.blink < blinkOn {
				marker = ">"
			}
		}
		rc.Text(24, y, marker+" "+item.Name, col)
		rc.Text(120, y, "("+item.Source+")", render.ColorGray)
	}
	if g.lastErr != "" {
		rc.Text(4, height-10, g.lastErr, render.ColorRed)
	}
	return nil
}
