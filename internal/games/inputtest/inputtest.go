// Package inputtest counts every action it receives and flashes a lamp per
// action, for checking that keyboard and face input arrive.
package inputtest

import (
	"fmt"

	"github.com/okian/facepad/internal/domain/game"
	"github.com/okian/facepad/internal/domain/model"
	"github.com/okian/facepad/internal/games/registry"
	"github.com/okian/facepad/internal/render"
)

// Name is the registry name.
const Name = "inputtest"

// Alias is the name the game was first published under.
const Alias = "test"

// FlashFrames is how long a lamp stays lit after an action.
const FlashFrames = 8

const (
	width  = 256
	height = 224
)

var rows = [...]model.Action{model.Action1, model.Action2, model.Action3} //nolint:gochecknoglobals // fixed layout

// Game is the input tester.
type Game struct {
	game.Handoff
	counts map[model.Action]int
	flash  map[model.Action]int
	last   string
}

// Entry registers the tester.
func Entry() registry.Entry {
	return registry.Entry{Name: Name, Source: registry.SourceLocal, Aliases: []string{Alias}, New: New}
}

// New builds a tester with zero counts.
func New(registry.Env) (game.Game, error) {
	return &Game{counts: map[model.Action]int{}, flash: map[model.Action]int{}, last: "-"}, nil
}

func (g *Game) Name() string { return Name }
func (g *Game) Width() int   { return width }
func (g *Game) Height() int  { return height }

// Count returns how many times a was received.
func (g *Game) Count(a model.Action) int { return g.counts[a] }

// Lit reports whether a's lamp is on.
func (g *Game) Lit(a model.Action) bool { return g.flash[a] > 0 }

// Last describes the most recent counted event.
func (g *Game) Last() string { return g.last }

// OnEvent counts ACTION1..3. QUIT is left to the loop.
func (g *Game) OnEvent(e model.InputEvent) error {
	switch e.Action {
	case model.Action1, model.Action2, model.Action3:
		g.counts[e.Action]++
		g.flash[e.Action] = FlashFrames
		g.last = fmt.Sprintf("%s  val=%.2f", e.Action, e.Value)
		if e.Note != "" {
			g.last += "  " + e.Note
		}
	}
	return nil
}

// Update dims the lamps.
func (g *Game) Update() error {
	for a, n := range g.flash {
		if n > 0 {
			g.flash[a] = n - 1
		}
	}
	return nil
}

func (g *Game) Draw(rc render.Context) error {
	rc.Cls(render.ColorBlack)
	for y := 0; y < height; y += 8 {
		col := render.ColorNavy
		if (y/8)%2 == 1 {
			col = render.ColorGray
		}
		rc.Line(0, y, width, y, col)
	}

	title := "INPUT TEST"
	render.TextOutlined(rc, width/2-render.TextWidth(title)/2, 8, title, render.ColorWhite)
	rc.Text(10, 24, "Press inputs to verify.", render.ColorLight)
	rc.Text(10, 34, "ACTION1: Space / Blink", render.ColorWhite)
	rc.Text(10, 42, "ACTION2: Enter / Mouth", render.ColorWhite)
	rc.Text(10, 50, "ACTION3: Shift / Smile", render.ColorWhite)
	rc.Text(10, 58, "ESC: Quit", render.ColorGray)

	rc.RectB(8, 72, width-16, 128, render.ColorYellow)
	for i, a := range rows {
		y := 86 + i*32
		lit := g.Lit(a)
		rc.Text(20, y, a.String(), render.ColorWhite)
		rc.Text(20, y+10, fmt.Sprintf("COUNT: %d", g.counts[a]), render.ColorLime)

		lamp := render.ColorRed
		if lit {
			lamp = render.ColorLime
		}
		rc.Rect(107, y+1, 10, 10, render.ColorBlack)
		rc.Rect(108, y+2, 8, 8, lamp)

		rc.Rect(128, y+2, 104, 9, render.ColorBlack)
		if lit {
			rc.Rect(128, y+2, 104, 9, render.ColorGreen)
			rc.RectB(128, y+2, 104, 9, render.ColorWhite)
		} else {
			rc.RectB(128, y+2, 104, 9, render.ColorGray)
		}
	}

	rc.Text(10, 200, "LAST: "+g.last, render.ColorLight)
	return nil
}
