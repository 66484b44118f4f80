package expression_test

import (
	"testing"

	"github.com/okian/facepad/internal/domain/expression"
	"github.com/okian/facepad/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSignals(t *testing.T) {
	Convey("Given blendshape scores", t, func() {
		Convey("When both eye pairs are present", func() {
			s := expression.Shapes{
				expression.EyeBlinkLeft: 0.2, expression.EyeBlinkRight: 0.4,
				expression.EyeSquintLeft: 0.6, expression.EyeSquintRight: 0.8,
			}
			v, ok := expression.Blink(s)

			Convey("Then blink should be the larger average", func() {
				So(ok, ShouldBeTrue)
				So(v, ShouldAlmostEqual, 0.7)
			})
		})

		Convey("When only the blink pair is present", func() {
			v, ok := expression.Blink(expression.Shapes{expression.EyeBlinkLeft: 0.5, expression.EyeBlinkRight: 0.7})

			Convey("Then blink should be its average", func() {
				So(ok, ShouldBeTrue)
				So(v, ShouldAlmostEqual, 0.6)
			})
		})

		Convey("When only half of each pair is present", func() {
			_, ok := expression.Blink(expression.Shapes{expression.EyeBlinkLeft: 0.9, expression.EyeSquintRight: 0.9})

			Convey("Then blink should be unknown", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When jawOpen is missing", func() {
			v, ok := expression.MouthOpen(expression.Shapes{expression.MouthClose: 0.25})

			Convey("Then mouth openness should fall back to 1 - mouthClose", func() {
				So(ok, ShouldBeTrue)
				So(v, ShouldAlmostEqual, 0.75)
			})
		})

		Convey("When jawOpen is present", func() {
			v, ok := expression.MouthOpen(expression.Shapes{expression.JawOpen: 0.3, expression.MouthClose: 0.9})

			Convey("Then jawOpen should win", func() {
				So(ok, ShouldBeTrue)
				So(v, ShouldAlmostEqual, 0.3)
			})
		})

		Convey("When smile comes from corner pulls", func() {
			v, ok := expression.Smile(expression.Shapes{
				expression.MouthCornerPullLeft: 0.4, expression.MouthCornerPullRight: 0.6,
			})

			Convey("Then smile should be their average", func() {
				So(ok, ShouldBeTrue)
				So(v, ShouldAlmostEqual, 0.5)
			})
		})

		Convey("When names arrive in mixed case", func() {
			s := expression.Normalize(map[string]float64{"jawOpen": 0.8, "mouthSmileLeft": 0.1, "mouthSmileRight": 0.3})

			Convey("Then they should be lower-cased", func() {
				So(s, ShouldContainKey, expression.JawOpen)
				v, ok := expression.Smile(s)
				So(ok, ShouldBeTrue)
				So(v, ShouldAlmostEqual, 0.2)
			})
		})
	})
}

func TestThreshold(t *testing.T) {
	Convey("Given a hysteresis threshold", t, func() {
		Convey("Then off should be on minus hysteresis", func() {
			th := expression.NewThreshold(0.6, 0.1)
			So(th.On, ShouldEqual, 0.6)
			So(th.Off, ShouldAlmostEqual, 0.5)
		})

		Convey("Then off should never go below zero", func() {
			So(expression.NewThreshold(0.05, 0.2).Off, ShouldEqual, 0)
		})

		Convey("Then a negative hysteresis should collapse to a single cutoff", func() {
			th := expression.NewThreshold(0.4, -1)
			So(th.Off, ShouldEqual, th.On)
		})
	})
}

func TestChannelEdges(t *testing.T) {
	Convey("Given a channel with on=0.6 off=0.5", t, func() {
		ch := expression.NewChannel("blink", model.Action1, expression.Threshold{On: 0.6, Off: 0.5}, expression.Blink)

		Convey("When feeding 0.3, 0.65, 0.65, 0.52, 0.3", func() {
			var edges []int
			var states []bool
			for i, score := range []float64{0.3, 0.65, 0.65, 0.52, 0.3} {
				if ch.Observe(score) {
					edges = append(edges, i)
				}
				states = append(states, ch.Active())
			}

			Convey("Then exactly one edge should fire, at the first 0.65", func() {
				So(edges, ShouldResemble, []int{1})
			})

			Convey("And it should only deactivate once the score drops below off", func() {
				So(states, ShouldResemble, []bool{false, true, true, true, false})
			})
		})

		Convey("When the score re-crosses on after deactivating", func() {
			ch.Observe(0.7)
			ch.Observe(0.1)

			Convey("Then a second edge should fire", func() {
				So(ch.Observe(0.7), ShouldBeTrue)
			})
		})

		Convey("When the signal cannot be computed", func() {
			ch.Observe(0.9)
			_, edge := ch.Update(expression.Shapes{expression.JawOpen: 0.0})

			Convey("Then the previous state should be preserved", func() {
				So(edge, ShouldBeFalse)
				So(ch.Active(), ShouldBeTrue)
			})
		})
	})
}

func TestExtractor(t *testing.T) {
	Convey("Given an extractor with default thresholds", t, func() {
		x := expression.NewExtractor(expression.DefaultConfig())

		Convey("When every signal rises in the same detection", func() {
			edges := x.Update(expression.Shapes{
				expression.EyeBlinkLeft: 0.9, expression.EyeBlinkRight: 0.9,
				expression.JawOpen:        0.9,
				expression.MouthSmileLeft: 0.9, expression.MouthSmileRight: 0.9,
			})

			Convey("Then one edge per channel should be reported in channel order", func() {
				So(len(edges), ShouldEqual, 3)
				So(edges[0].Action, ShouldEqual, model.Action1)
				So(edges[1].Action, ShouldEqual, model.Action2)
				So(edges[2].Action, ShouldEqual, model.Action3)
			})

			Convey("And sustaining the expression should report nothing", func() {
				again := x.Update(expression.Shapes{
					expression.EyeBlinkLeft: 0.9, expression.EyeBlinkRight: 0.9,
					expression.JawOpen:        0.9,
					expression.MouthSmileLeft: 0.9, expression.MouthSmileRight: 0.9,
				})
				So(again, ShouldBeEmpty)
			})

			Convey("And a reset should re-arm every channel", func() {
				x.Reset()
				So(x.Channel(expression.ChannelBlink).Active(), ShouldBeFalse)
				So(x.Channel(expression.ChannelMouth).Active(), ShouldBeFalse)
				So(x.Channel(expression.ChannelSmile).Active(), ShouldBeFalse)
			})
		})

		Convey("When only the mouth is known", func() {
			edges := x.Update(expression.Shapes{expression.MouthClose: 0.1})

			Convey("Then only the mouth channel should fire", func() {
				So(len(edges), ShouldEqual, 1)
				So(edges[0].Channel, ShouldEqual, expression.ChannelMouth)
				So(edges[0].Score, ShouldAlmostEqual, 0.9)
			})
		})

		Convey("When asking for an unknown channel", func() {
			Convey("Then nil should be returned", func() {
				So(x.Channel("eyebrow"), ShouldBeNil)
			})
		})
	})
}
