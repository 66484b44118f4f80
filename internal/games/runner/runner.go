// Package runner is a one-button endless jumper.
//
// ACTION1 jumps. Each obstacle cleared scores a point; hitting one ends the
// run and ACTION1 restarts it. The best score survives restarts.
package runner

import (
	"fmt"

	"github.com/okian/facepad/internal/domain/game"
	"github.com/okian/facepad/internal/domain/model"
	"github.com/okian/facepad/internal/games/registry"
	"github.com/okian/facepad/internal/render"
)

// Name is the registry name of the runner.
const Name = "runner"

const (
	width  = 160
	height = 120

	startSpeed    = 1.5
	maxSpeed      = 3.0
	accel         = 0.0008
	gravity       = 0.25
	jumpVelocity  = -4.6
	playerX       = 24.0
	playerW       = 10
	playerH       = 12
	spawnCooldown = 60
	minCooldown   = 40
)

// Obstacle is one block on the ground.
type Obstacle struct {
	X      float64
	Y      int
	W      int
	H      int
	Passed bool
}

// Game is the runner state.
type Game struct {
	game.Handoff

	groundY  int
	speed    float64
	py       float64
	vy       float64
	onGround bool

	obstacles  []Obstacle
	spawnTimer int
	cooldown   int

	score    int
	best     int
	gameOver bool
	frames   int
}

// Entry registers the runner.
func Entry() registry.Entry {
	return registry.Entry{Name: Name, Source: registry.SourceLocal, New: New}
}

// New starts a fresh run.
func New(registry.Env) (game.Game, error) {
	g := &Game{}
	g.reset()
	return g, nil
}

func (g *Game) reset() {
	g.groundY = height - 16
	g.speed = startSpeed
	g.py = float64(g.groundY)
	g.vy = 0
	g.onGround = true
	g.obstacles = nil
	g.spawnTimer = 0
	g.cooldown = spawnCooldown
	g.score = 0
	g.gameOver = false
	g.frames = 0
}

func (g *Game) Name() string { return Name }
func (g *Game) Width() int   { return width }
func (g *Game) Height() int  { return height }

// Score returns the points of the current run.
func (g *Game) Score() int { return g.score }

// Best returns the highest score across runs.
func (g *Game) Best() int { return g.best }

// Over reports whether the current run has ended.
func (g *Game) Over() bool { return g.gameOver }

// Airborne reports whether the player is mid-jump.
func (g *Game) Airborne() bool { return !g.onGround }

// OnEvent jumps, or restarts after a collision.
func (g *Game) OnEvent(e model.InputEvent) error {
	if e.Action != model.Action1 {
		return nil
	}
	if g.gameOver {
		g.reset()
		return nil
	}
	if g.onGround {
		g.vy = jumpVelocity
		g.onGround = false
	}
	return nil
}

// Update steps physics, spawns and scrolls obstacles and checks collisions.
func (g *Game) Update() error {
	if g.gameOver {
		return nil
	}
	g.frames++
	g.speed = min(maxSpeed, g.speed+accel)

	g.vy += gravity
	g.py += g.vy
	if g.py >= float64(g.groundY) {
		g.py = float64(g.groundY)
		g.vy = 0
		g.onGround = true
	}

	g.spawnTimer--
	if g.spawnTimer <= 0 {
		g.spawn()
	}

	kept := g.obstacles[:0]
	for _, o := range g.obstacles {
		o.X -= g.speed
		if !o.Passed && o.X+float64(o.W) < playerX {
			o.Passed = true
			g.score++
		}
		if o.X+float64(o.W) > -4 {
			kept = append(kept, o)
		}
	}
	g.obstacles = kept

	if g.collides() {
		g.gameOver = true
		g.best = max(g.best, g.score)
	}
	return nil
}

// spawn varies obstacle size over time and shortens the gap down to a floor.
func (g *Game) spawn() {
	h := 10
	if (g.frames/180)%2 == 0 {
		h += 4
	}
	w := 8 + ((g.frames/240)%3)*2
	g.obstacles = append(g.obstacles, Obstacle{X: width + 8, Y: g.groundY - h + 1, W: w, H: h})
	g.cooldown = max(minCooldown, g.cooldown-1)
	g.spawnTimer = g.cooldown + g.frames%23
}

func (g *Game) collides() bool {
	px1 := playerX - playerW/2
	py1 := g.py - playerH
	px2 := playerX + playerW/2
	py2 := g.py
	for _, o := range g.obstacles {
		ox1, oy1 := o.X, float64(o.Y)
		ox2, oy2 := o.X+float64(o.W), float64(o.Y+o.H)
		if !(px2 < ox1 || px1 > ox2 || py2 < oy1 || py1 > oy2) {
			return true
		}
	}
	return false
}

// Draw renders ground, player, obstacles and the score line.
func (g *Game) Draw(rc render.Context) error {
	rc.Cls(render.ColorBlack)
	rc.Line(0, g.groundY+1, width, g.groundY+1, render.ColorGray)

	left := int(playerX) - playerW/2
	top := int(g.py) - playerH
	rc.Rect(left, top, playerW, playerH, render.ColorLime)
	rc.Pset(left+3, top+3, render.ColorNavy)
	rc.Pset(left+6, top+3, render.ColorNavy)

	for _, o := range g.obstacles {
		rc.Rect(int(o.X), o.Y, o.W, o.H, render.ColorRed)
	}

	rc.Text(4, 4, fmt.Sprintf("SCORE: %d", g.score), render.ColorWhite)
	if g.best > 0 {
		rc.Text(92, 4, fmt.Sprintf("BEST: %d", g.best), render.ColorLight)
	}
	if g.gameOver {
		y := height/2 - 10
		render.TextCentered(rc, "GAME OVER", width, y, render.ColorWhite)
		render.TextCentered(rc, "Press SPACE to retry", width, y+10, render.ColorGray)
	}
	return nil
}
