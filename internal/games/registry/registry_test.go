package registry

import (
	"errors"
	"testing"

	"github.com/okian/facepad/internal/domain/game"
	"github.com/okian/facepad/internal/domain/model"
	"github.com/okian/facepad/internal/render"
	. "github.com/smartystreets/goconvey/convey"
)

type stubGame struct {
	game.Handoff
	cams []int
}

func (s *stubGame) Width() int                     { return 1 }
func (s *stubGame) Height() int                    { return 1 }
func (s *stubGame) OnEvent(model.InputEvent) error { return nil }
func (s *stubGame) Update() error                  { return nil }
func (s *stubGame) Draw(render.Context) error      { return nil }

func stubEntry(name string) Entry {
	return Entry{Name: name, New: func(env Env) (game.Game, error) {
		return &stubGame{cams: env.CameraIndices}, nil
	}}
}

func TestRegistry(t *testing.T) {
	Convey("Given a registry with two games", t, func() {
		r := New(WithCameraIndices([]int{3, 4}))
		So(r.Register(stubEntry("runner")), ShouldBeNil)
		So(r.Register(Entry{Name: "arcade", Source: "github.com/acme/arcade", New: stubEntry("arcade").New}), ShouldBeNil)

		Convey("Then names and entries should be sorted", func() {
			So(r.Names(), ShouldResemble, []string{"arcade", "runner"})
			entries := r.Entries()
			So(entries[0].Source, ShouldEqual, "github.com/acme/arcade")
			So(entries[1].Source, ShouldEqual, SourceLocal)
		})

		Convey("Then Create should build a fresh instance with the environment", func() {
			a, err := r.Create("runner")
			So(err, ShouldBeNil)
			b, err := r.Create("runner")
			So(err, ShouldBeNil)
			So(a, ShouldNotPointTo, b)
			So(a.(*stubGame).cams, ShouldResemble, []int{3, 4})
			So(r.Env().Registry, ShouldEqual, r)
		})

		Convey("Then unknown names should fail", func() {
			_, err := r.Create("pong")
			So(errors.Is(err, ErrUnknownGame), ShouldBeTrue)
			_, ok := r.Lookup("pong")
			So(ok, ShouldBeFalse)
		})

		Convey("Then duplicates and invalid entries should be rejected", func() {
			So(errors.Is(r.Register(stubEntry("runner")), ErrDuplicateGame), ShouldBeTrue)
			So(errors.Is(r.Register(Entry{Name: "x"}), ErrInvalidEntry), ShouldBeTrue)
			So(errors.Is(r.Register(Entry{New: stubEntry("y").New}), ErrInvalidEntry), ShouldBeTrue)
		})

		Convey("Then aliases should resolve without being listed", func() {
			alias := stubEntry("reactionvs")
			alias.Aliases = []string{"reaction_vs"}
			So(r.Register(alias), ShouldBeNil)

			e, ok := r.Lookup("reaction_vs")
			So(ok, ShouldBeTrue)
			So(e.Name, ShouldEqual, "reactionvs")
			_, err := r.Create("reaction_vs")
			So(err, ShouldBeNil)
			So(r.Names(), ShouldResemble, []string{"arcade", "reactionvs", "runner"})

			clash := stubEntry("reaction_vs")
			So(errors.Is(r.Register(clash), ErrDuplicateGame), ShouldBeTrue)
			taken := stubEntry("other")
			taken.Aliases = []string{"runner"}
			So(errors.Is(r.Register(taken), ErrDuplicateGame), ShouldBeTrue)
			empty := stubEntry("blank")
			empty.Aliases = []string{""}
			So(errors.Is(r.Register(empty), ErrInvalidEntry), ShouldBeTrue)
		})

		Convey("Then constructor failures should be wrapped", func() {
			boom := errors.New("boom")
			So(r.Register(Entry{Name: "broken", New: func(Env) (game.Game, error) { return nil, boom }}), ShouldBeNil)
			_, err := r.Create("broken")
			So(errors.Is(err, boom), ShouldBeTrue)

			So(r.Register(Entry{Name: "empty", New: func(Env) (game.Game, error) { return nil, nil }}), ShouldBeNil)
			_, err = r.Create("empty")
			So(errors.Is(err, ErrInvalidEntry), ShouldBeTrue)
		})
	})
}
