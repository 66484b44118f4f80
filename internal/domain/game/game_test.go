package game

import (
	"testing"

	"github.com/okian/facepad/internal/domain/model"
	"github.com/okian/facepad/internal/render"
	. "github.com/smartystreets/goconvey/convey"
)

type stub struct {
	Handoff
	menu bool
}

func (s *stub) Width() int                     { return 10 }
func (s *stub) Height() int                    { return 10 }
func (s *stub) OnEvent(model.InputEvent) error { return nil }
func (s *stub) Update() error                  { return nil }
func (s *stub) Draw(render.Context) error      { return nil }
func (s *stub) IsMenu() bool                   { return s.menu }

type named struct{ stub }

func (n *named) Name() string { return "runner" }

func TestHandoff(t *testing.T) {
	Convey("Given a game with an empty handoff slot", t, func() {
		g := &stub{}
		So(g.Next(), ShouldBeNil)

		Convey("When another game is requested", func() {
			target := &stub{}
			g.SetNext(target)

			Convey("Then Next should return it until cleared", func() {
				So(g.Next(), ShouldEqual, target)
				g.ClearNext()
				So(g.Next(), ShouldBeNil)
			})
		})
	})
}

func TestMarkers(t *testing.T) {
	Convey("Given games with and without markers", t, func() {
		Convey("Then IsMenu should honour the marker value", func() {
			So(IsMenu(&stub{menu: true}), ShouldBeTrue)
			So(IsMenu(&stub{}), ShouldBeFalse)
		})

		Convey("Then NameOf should prefer Name", func() {
			So(NameOf(&named{}), ShouldEqual, "runner")
			So(NameOf(&stub{}), ShouldEqual, "*game.stub")
			So(NameOf(nil), ShouldEqual, "none")
		})
	})
}
