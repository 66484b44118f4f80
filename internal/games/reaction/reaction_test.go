package reaction

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/facepad/internal/assets"
	"github.com/okian/facepad/internal/domain/model"
	"github.com/okian/facepad/internal/games/registry"
	"github.com/okian/facepad/internal/render"
	. "github.com/smartystreets/goconvey/convey"
)

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.CountdownInterval = 1
	cfg.TotalRounds = 2
	cfg.Line2Delay = 2
	cfg.PromptDelay = 1
	cfg.ReactionWindow = 3
	cfg.TimeUpHold = 2
	cfg.ResultHold = 2
	return cfg
}

// smileContent writes a content directory where every question expects a
// smile and the result sounds exist.
func smileContent(t *testing.T) *assets.Store {
	t.Helper()
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	write(assets.AnswersFile, "2\n2\n2\n")
	write(assets.Lines1File, "What a view\nLook here\nOh no\n")
	write(filepath.Join(assets.SoundsDir, "bad.wav"), "")
	write(filepath.Join(assets.SoundsDir, "good.wav"), "")
	return assets.New(dir, assets.WithRand(rand.New(rand.NewPCG(1, 2))))
}

func kind(g *Game) string { return KindOf(g.Stack().Top()) }

// updateUntil ticks g until the active scene kind is want.
func updateUntil(t *testing.T, g *Game, want string) {
	t.Helper()
	for range 500 {
		if kind(g) == want {
			return
		}
		if err := g.Update(); err != nil {
			t.Fatal(err)
		}
	}
	t.Fatalf("scene %q never became active, stuck in %q", want, kind(g))
}

// openWindow ticks the play scene until reactions are accepted.
func openWindow(t *testing.T, g *Game) {
	t.Helper()
	for range 500 {
		if p, ok := g.Stack().Top().(*playScene); ok && p.windowActive {
			return
		}
		if err := g.Update(); err != nil {
			t.Fatal(err)
		}
	}
	t.Fatal("reaction window never opened")
}

func send(g *Game, a model.Action, note string) {
	So(g.OnEvent(model.NewInputEvent(a, model.WithNote(note))), ShouldBeNil)
}

func TestReactionFlow(t *testing.T) {
	Convey("Given a single-player game", t, func() {
		g := NewGame(registry.Env{}, WithConfig(fastConfig()), WithContent(smileContent(t)))

		Convey("Then it should open on the title without a session", func() {
			So(kind(g), ShouldEqual, KindTitle)
			So(g.Stack().Session(), ShouldBeNil)
			So(g.Width(), ShouldEqual, 160)
			So(g.Height(), ShouldEqual, 120)
		})

		Convey("When a non-smile arrives on the title", func() {
			send(g, model.Action2, "")
			So(g.Update(), ShouldBeNil)

			Convey("Then nothing should start", func() {
				So(kind(g), ShouldEqual, KindTitle)
			})
		})

		Convey("When a smile starts the session", func() {
			send(g, model.Action3, "")
			So(g.Update(), ShouldBeNil)

			Convey("Then a countdown should run over distinct questions", func() {
				So(kind(g), ShouldEqual, KindCount)
				sess := g.Stack().Session()
				So(sess, ShouldNotBeNil)
				So(sess.Total(), ShouldEqual, 2)
			})

			Convey("And reactions before the window opens should be ignored", func() {
				updateUntil(t, g, KindPlay)
				send(g, model.Action3, "")
				p := g.Stack().Top().(*playScene)
				So(p.registered[0], ShouldEqual, assets.ReactionNone)
			})

			Convey("And a correct then a wrong answer should score one", func() {
				updateUntil(t, g, KindPlay)
				openWindow(t, g)
				send(g, model.Action2, "")
				send(g, model.Action3, "")
				updateUntil(t, g, KindCount)
				So(g.Scores(), ShouldResemble, []int{1})
				So(g.Stack().Session().Index(), ShouldEqual, 1)

				updateUntil(t, g, KindPlay)
				openWindow(t, g)
				send(g, model.Action2, "")
				updateUntil(t, g, KindScore)
				So(g.Scores(), ShouldResemble, []int{1})

				Convey("Then a smile on the score screen should reset to the title", func() {
					send(g, model.Action3, "")
					So(kind(g), ShouldEqual, KindTitle)
					So(g.Scores(), ShouldResemble, []int{0})
					So(g.Stack().Session(), ShouldBeNil)
					So(g.Stack().Len(), ShouldEqual, 1)
				})
			})

			Convey("And an unanswered round should score nothing", func() {
				updateUntil(t, g, KindPlay)
				updateUntil(t, g, KindCount)
				So(g.Scores(), ShouldResemble, []int{0})
			})
		})
	})
}

func TestReactionMultiplayer(t *testing.T) {
	Convey("Given a two-player game", t, func() {
		players := []Player{{Label: "P1", Note: "face:player1"}, {Label: "P2", Note: "face:player2"}}
		g := NewGame(registry.Env{}, WithConfig(fastConfig()), WithContent(smileContent(t)), WithPlayers(players))
		send(g, model.Action3, "face:player2")
		So(g.Update(), ShouldBeNil)
		updateUntil(t, g, KindPlay)
		openWindow(t, g)

		Convey("When each player answers through their own note", func() {
			send(g, model.Action2, "face:player1")
			send(g, model.Action3, "face:player2")
			updateUntil(t, g, KindCount)

			Convey("Then only the correct player should score", func() {
				So(g.Scores(), ShouldResemble, []int{0, 1})
			})
		})

		Convey("When an unknown note answers", func() {
			send(g, model.Action3, "keyboard")
			updateUntil(t, g, KindCount)

			Convey("Then it should count for the first player", func() {
				So(g.Scores(), ShouldResemble, []int{1, 0})
			})
		})

		Convey("Then notes are matched to players", func() {
			So(g.playerFor("face:player2"), ShouldEqual, 1)
			So(g.playerFor("face:player9"), ShouldEqual, 0)
			So(g.playerFor(""), ShouldEqual, 0)
		})

		Convey("When the session ends", func() {
			updateUntil(t, g, KindScore)
			rc := render.NewHeadless(g.Width(), g.Height())
			rc.BeginFrame()
			So(g.Draw(rc), ShouldBeNil)

			Convey("Then both scores and the outcome should be drawn", func() {
				So(rc.Texts(), ShouldContain, "P1  0/2")
				So(rc.Texts(), ShouldContain, "P2  0/2")
				So(rc.Texts(), ShouldContain, "Draw!")
			})
		})
	})
}

func TestReactionDraw(t *testing.T) {
	Convey("Given a game and a headless surface", t, func() {
		g := NewGame(registry.Env{}, WithConfig(fastConfig()), WithContent(smileContent(t)))
		rc := render.NewHeadless(g.Width(), g.Height())
		draw := func() {
			rc.BeginFrame()
			So(g.Draw(rc), ShouldBeNil)
		}

		Convey("Then the title should show its texts", func() {
			draw()
			So(rc.Texts(), ShouldContain, "Reaction Game")
			So(rc.Texts(), ShouldContain, "Smile to start!")
		})

		Convey("When a round is playing without an image", func() {
			send(g, model.Action3, "")
			So(g.Update(), ShouldBeNil)
			updateUntil(t, g, KindPlay)
			id, _ := g.Stack().Session().Current()
			draw()

			Convey("Then the placeholder and the round counter should be drawn", func() {
				So(rc.Texts(), ShouldContain, fmt.Sprintf("Scene #%d", id))
				So(rc.Texts(), ShouldContain, "1/2")
				So(rc.Texts(), ShouldContain, "...")
				_, loaded := rc.Image(sceneBank)
				So(loaded, ShouldBeFalse)
			})

			Convey("And a correct answer should play the good sound once", func() {
				openWindow(t, g)
				send(g, model.Action3, "")
				for !g.Stack().Top().(*playScene).resultReady {
					So(g.Update(), ShouldBeNil)
				}
				draw()
				So(rc.Texts(), ShouldContain, "Good Reaction!")
				good, _ := g.content.Sound("good")
				So(rc.Played(), ShouldResemble, []int{good})
				draw()
				So(rc.Played(), ShouldBeEmpty)
			})
		})
	})
}

func TestWinnerText(t *testing.T) {
	Convey("Given final scores", t, func() {
		So(winnerText([]Player{{Label: "A", Score: 2}, {Label: "B", Score: 1}}), ShouldEqual, "A wins!")
		So(winnerText([]Player{{Label: "A", Score: 1}, {Label: "B", Score: 3}}), ShouldEqual, "B wins!")
		So(winnerText([]Player{{Label: "A", Score: 2}, {Label: "B", Score: 2}}), ShouldEqual, "Draw!")
	})
}

func TestEntry(t *testing.T) {
	Convey("Given the registry entry", t, func() {
		e := Entry()
		So(e.Name, ShouldEqual, Name)
		g, err := e.New(registry.Env{})
		So(err, ShouldBeNil)
		So(g.(*Game).Name(), ShouldEqual, Name)
	})
}
