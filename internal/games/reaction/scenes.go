package reaction

import (
	"context"
	"fmt"
	"strconv"

	"github.com/okian/facepad/internal/assets"
	"github.com/okian/facepad/internal/domain/model"
	"github.com/okian/facepad/internal/domain/scene"
	"github.com/okian/facepad/internal/render"
	"github.com/okian/facepad/pkg/logger"
)

// Scene names reported by Kind.
const (
	KindTitle = "title"
	KindCount = "count"
	KindPlay  = "play"
	KindScore = "score"
)

// Kinded scenes report which step of the flow they are.
type Kinded interface {
	Kind() string
}

// KindOf returns the kind of s, or "".
func KindOf(s scene.Scene) string {
	if k, ok := s.(Kinded); ok {
		return k.Kind()
	}
	return ""
}

var titlePalette = [...]int{ //nolint:gochecknoglobals // fixed gradient
	render.ColorNavy, render.ColorNavy, render.ColorPurple, render.ColorPurple,
	render.ColorBrown, render.ColorBrown, render.ColorGray, render.ColorGray,
}

// titleScene waits for a smile from anyone.
type titleScene struct {
	scene.Base
	g         *Game
	requested bool
}

func newTitle(g *Game) *titleScene { return &titleScene{g: g} }

func (s *titleScene) Kind() string { return KindTitle }

func (s *titleScene) OnEvent(e model.InputEvent) error {
	if e.Action == model.Action3 {
		s.requested = true
	}
	return nil
}

func (s *titleScene) Update() error {
	if !s.requested {
		return nil
	}
	s.requested = false
	s.g.startSession()
	s.g.stack.Replace(newCount(s.g))
	return nil
}

func (s *titleScene) Draw(rc render.Context) error {
	g := s.g
	rc.Cls(render.ColorBlack)
	for y := 0; y < g.height; y++ {
		idx := min(y*len(titlePalette)/g.height, len(titlePalette)-1)
		rc.Line(0, y, g.width, y, titlePalette[idx])
	}
	render.TextCentered(rc, g.cfg.Title, g.width, g.height/3+1, render.ColorBlack)
	render.TextCentered(rc, g.cfg.Title, g.width, g.height/3, render.ColorWhite)
	if blinkOn(rc, g.cfg.PromptBlink) {
		render.TextCentered(rc, g.cfg.TitlePrompt, g.width, g.height-18, render.ColorWhite)
	}
	return nil
}

// countScene shows the countdown then starts the round at the cursor.
type countScene struct {
	scene.Base
	g     *Game
	index int
	timer int
}

func newCount(g *Game) *countScene { return &countScene{g: g} }

func (s *countScene) Kind() string { return KindCount }

func (s *countScene) Update() error {
	s.timer++
	if s.timer < s.g.cfg.CountdownInterval {
		return nil
	}
	s.timer = 0
	s.index++
	if s.index < len(s.g.cfg.Countdown) {
		return nil
	}
	id := 1
	if sess := s.g.stack.Session(); sess != nil {
		if q, ok := sess.Current(); ok {
			id = q
		}
	}
	s.g.stack.Replace(newPlay(s.g, id))
	return nil
}

func (s *countScene) Draw(rc render.Context) error {
	rc.Cls(render.ColorBlack)
	if s.index < len(s.g.cfg.Countdown) {
		render.TextCentered(rc, strconv.Itoa(s.g.cfg.Countdown[s.index]), s.g.width, s.g.height/2-8, render.ColorWhite)
	}
	return nil
}

// playScene runs one round: line 1, then line 2 and the reaction window,
// then a time-up hold, then the result.
type playScene struct {
	scene.Base
	g        *Game
	question int
	round    int
	line1    string
	line2    string
	expected assets.Reaction

	frames       int
	elapsed      int
	line2Shown   bool
	promptActive bool
	windowActive bool
	timeUp       bool
	timeUpTimer  int
	resultReady  bool
	resultTimer  int
	registered   []assets.Reaction
	correct      []bool
	imageTried   bool
	imageLoaded  bool
	soundPending bool
}

const sceneBank = 0

func newPlay(g *Game, question int) *playScene {
	round := 1
	if sess := g.stack.Session(); sess != nil {
		round = sess.Index() + 1
	}
	return &playScene{
		g:          g,
		question:   question,
		round:      round,
		line1:      g.content.Line1(question),
		line2:      g.content.Line2(question),
		expected:   g.content.Answer(question),
		registered: make([]assets.Reaction, len(g.players)),
		correct:    make([]bool, len(g.players)),
	}
}

func (s *playScene) Kind() string { return KindPlay }

// OnEvent records the latest reaction per player while the window is open.
func (s *playScene) OnEvent(e model.InputEvent) error {
	if !s.windowActive {
		return nil
	}
	p := s.g.playerFor(e.Note)
	switch e.Action {
	case model.Action2:
		s.registered[p] = assets.ReactionSurprise
	case model.Action3:
		s.registered[p] = assets.ReactionSmile
	}
	return nil
}

func (s *playScene) Update() error {
	cfg := s.g.cfg
	s.frames++
	if !s.line2Shown && s.frames >= cfg.Line2Delay {
		s.line2Shown = true
		s.windowActive = true
		s.elapsed = 0
	}

	if s.line2Shown && !s.resultReady {
		s.elapsed++
		if s.elapsed >= cfg.PromptDelay {
			s.promptActive = true
		}
		if s.elapsed >= cfg.ReactionWindow {
			s.windowActive = false
			s.promptActive = false
			s.timeUp = true
		}
	}

	if s.timeUp && !s.resultReady {
		s.timeUpTimer++
		if s.timeUpTimer >= cfg.TimeUpHold {
			s.timeUp = false
			s.resultReady = true
			s.evaluate()
		}
	}

	if s.resultReady {
		s.resultTimer++
		if s.resultTimer >= cfg.ResultHold {
			s.proceed()
		}
	}
	return nil
}

func (s *playScene) evaluate() {
	for i := range s.g.players {
		s.correct[i] = s.registered[i] == s.expected
		if s.correct[i] {
			s.g.players[i].Score++
		}
	}
	s.soundPending = true
	s.g.logger.Debug(context.Background(), "round evaluated",
		logger.String("game", s.g.name),
		logger.Int("question", s.question),
		logger.String("expected", s.expected.String()),
		logger.Any("correct", s.correct))
}

func (s *playScene) proceed() {
	sess := s.g.stack.Session()
	if sess != nil {
		sess.Advance()
	}
	if sess != nil && !sess.Done() {
		s.g.stack.Replace(newCount(s.g))
		return
	}
	s.g.stack.Replace(newScore(s.g))
}

func (s *playScene) Draw(rc render.Context) error {
	g := s.g
	cfg := g.cfg
	rc.Cls(render.ColorBlack)
	sceneH := g.height - cfg.DialogueHeight

	if !s.imageTried {
		s.imageTried = true
		if path, ok := g.content.ImagePath(s.question); ok {
			s.imageLoaded = rc.LoadImage(sceneBank, path) == nil
		}
	}
	if s.imageLoaded {
		rc.Rect(0, 0, g.width, sceneH, render.ColorBlack)
		rc.Blt(0, 0, sceneBank, 0, 0, g.width, sceneH)
	} else {
		rc.Rect(0, 0, g.width, sceneH, render.ColorNavy)
		render.TextCentered(rc, fmt.Sprintf("Scene #%d", s.question), g.width, sceneH/2-6, render.ColorWhite)
	}

	dy := sceneH
	rc.Rect(0, dy, g.width, cfg.DialogueHeight, render.ColorBlack)
	rc.Text(6, dy+6, s.line1, render.ColorWhite)
	total := cfg.TotalRounds
	if sess := g.stack.Session(); sess != nil {
		total = sess.Total()
	}
	roundText := fmt.Sprintf("%d/%d", s.round, total)
	rc.Text(g.width-6-render.TextWidth(roundText), dy+6, roundText, render.ColorWhite)
	if s.line2Shown {
		rc.Text(6, dy+14, s.line2, render.ColorWhite)
	} else if s.line2 != "" {
		rc.Text(6, dy+14, "...", render.ColorWhite)
	}

	if s.promptActive && !s.resultReady {
		rc.Text(6, dy+27, "Reaction Now!", render.ColorRed)
		remaining := max(0, cfg.ReactionWindow-s.elapsed)
		gaugeW := g.width - cfg.GaugeMargin*2
		filled := gaugeW * remaining / max(1, cfg.ReactionWindow)
		gy := dy + cfg.DialogueHeight - cfg.GaugeHeight - cfg.GaugeMargin
		rc.Rect(cfg.GaugeMargin, gy, gaugeW, cfg.GaugeHeight, render.ColorPurple)
		rc.Rect(cfg.GaugeMargin, gy, filled, cfg.GaugeHeight, render.ColorRed)
	}

	if s.timeUp {
		render.TextCentered(rc, "Time Up!", g.width, dy+25, render.ColorYellow)
	}

	if s.resultReady {
		s.drawResult(rc, dy+25)
	}
	return nil
}

func (s *playScene) drawResult(rc render.Context, y int) {
	g := s.g
	if len(g.players) == 1 {
		msg, col := "Bad Reaction...", render.ColorRed
		if s.correct[0] {
			msg, col = "Good Reaction!", render.ColorLime
		}
		render.TextCentered(rc, msg, g.width, y, col)
	} else {
		colW := g.width / len(g.players)
		for i, p := range g.players {
			msg, col := p.Label+": Bad", render.ColorRed
			if s.correct[i] {
				msg, col = p.Label+": Good", render.ColorLime
			}
			rc.Text(i*colW+colW/2-render.TextWidth(msg)/2, y, msg, col)
		}
	}

	if s.soundPending {
		s.soundPending = false
		name := "bad"
		for _, c := range s.correct {
			if c {
				name = "good"
				break
			}
		}
		if snd, ok := g.content.Sound(name); ok {
			rc.Play(0, snd)
		}
	}
}

// scoreScene shows the totals; a smile returns to the title.
type scoreScene struct {
	scene.Base
	g *Game
}

func newScore(g *Game) *scoreScene { return &scoreScene{g: g} }

func (s *scoreScene) Kind() string { return KindScore }

func (s *scoreScene) OnEnter() {
	s.g.logger.Info(context.Background(), "session finished",
		logger.String("game", s.g.name),
		logger.Any("scores", s.g.Scores()))
}

func (s *scoreScene) OnEvent(e model.InputEvent) error {
	if e.Action == model.Action3 {
		s.g.Reset()
	}
	return nil
}

func (s *scoreScene) Draw(rc render.Context) error {
	g := s.g
	rc.Cls(render.ColorBlack)
	total := g.cfg.TotalRounds
	if sess := g.stack.Session(); sess != nil {
		total = sess.Total()
	}

	if len(g.players) == 1 {
		render.TextCentered(rc, "Your reaction score is", g.width, 20, render.ColorWhite)
		render.TextCentered(rc, fmt.Sprintf("%d/%d", g.players[0].Score, total), g.width, g.height/2-8, render.ColorWhite)
	} else {
		render.TextCentered(rc, "Final scores", g.width, 20, render.ColorWhite)
		for i, p := range g.players {
			render.TextCentered(rc, fmt.Sprintf("%s  %d/%d", p.Label, p.Score, total), g.width, 40+i*12, render.ColorWhite)
		}
		render.TextCentered(rc, winnerText(g.players), g.width, 40+len(g.players)*12+8, render.ColorYellow)
	}

	if blinkOn(rc, g.cfg.PromptBlink) {
		render.TextCentered(rc, g.cfg.RestartPrompt, g.width, g.height-18, render.ColorWhite)
	}
	return nil
}

func winnerText(players []Player) string {
	best, winner, tie := -1, 0, false
	for i, p := range players {
		switch {
		case p.Score > best:
			best, winner, tie = p.Score, i, false
		case p.Score == best:
			tie = true
		}
	}
	if tie {
		return "Draw!"
	}
	return players[winner].Label + " wins!"
}

func blinkOn(rc render.Context, period int) bool {
	if period <= 0 {
		return true
	}
	return (rc.FrameCount()/period)%2 == 0
}
