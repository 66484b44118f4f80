package games

import (
	"errors"
	"testing"

	"github.com/okian/facepad/internal/domain/game"
	"github.com/okian/facepad/internal/games/menu"
	"github.com/okian/facepad/internal/games/registry"
	"github.com/okian/facepad/internal/games/runner"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDiscover(t *testing.T) {
	Convey("Given the local games", t, func() {
		r, err := Discover(nil)
		So(err, ShouldBeNil)

		Convey("Then every built-in game should be registered once", func() {
			So(r.Names(), ShouldResemble, []string{"inputtest", "menu", "reaction", "reactionvs", "runner"})
			for _, e := range r.Entries() {
				So(e.Source, ShouldEqual, registry.SourceLocal)
			}
		})

		Convey("Then each should build", func() {
			for _, name := range r.Names() {
				g, err := r.Create(name)
				So(err, ShouldBeNil)
				So(g.Width(), ShouldBeGreaterThan, 0)
				So(game.NameOf(g), ShouldEqual, name)
			}
		})

		Convey("Then the first published names should still start their games", func() {
			for alias, name := range map[string]string{"reaction_vs": "reactionvs", "test": "inputtest"} {
				g, err := r.Create(alias)
				So(err, ShouldBeNil)
				So(game.NameOf(g), ShouldEqual, name)
			}
		})

		Convey("Then the menu should list everything but itself", func() {
			g, err := r.Create(menu.Name)
			So(err, ShouldBeNil)
			So(game.IsMenu(g), ShouldBeTrue)
			So(g.(*menu.Game).Items(), ShouldHaveLength, 4)
		})
	})

	Convey("Given an extra entry that collides with a local name", t, func() {
		_, err := Discover([]registry.Entry{{Name: runner.Name, Source: "github.com/acme/runner", New: runner.New}})

		Convey("Then discovery should fail", func() {
			So(errors.Is(err, registry.ErrDuplicateGame), ShouldBeTrue)
		})
	})

	Convey("Given an extra entry from another package", t, func() {
		r, err := Discover([]registry.Entry{{Name: "arcade", Source: "github.com/acme/arcade", New: runner.New}})
		So(err, ShouldBeNil)
		e, ok := r.Lookup("arcade")
		So(ok, ShouldBeTrue)
		So(e.Source, ShouldEqual, "github.com/acme/arcade")
	})
}
