package capture

import (
	"testing"

	"github.com/okian/facepad/internal/domain/expression"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMailbox(t *testing.T) {
	Convey("Given an empty mailbox", t, func() {
		m := NewMailbox()

		Convey("When polling", func() {
			_, ok := m.Poll()

			Convey("Then there should be no data", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When timestamps 100, 100, 250, 200 arrive between polls", func() {
			var consumed []int64
			for _, ts := range []int64{100, 100, 250, 200} {
				m.Publish(Result{Shapes: expression.Shapes{expression.JawOpen: 0.5}, TimestampMS: ts})
				if r, ok := m.Poll(); ok {
					consumed = append(consumed, r.TimestampMS)
				}
			}

			Convey("Then only 100 and 250 should be consumed", func() {
				So(consumed, ShouldResemble, []int64{100, 250})
				last, ok := m.LastConsumed()
				So(ok, ShouldBeTrue)
				So(last, ShouldEqual, 250)
			})
		})

		Convey("When two results are published before a poll", func() {
			So(m.Publish(Result{Shapes: expression.Shapes{expression.JawOpen: 0.1}, TimestampMS: 10}), ShouldBeTrue)
			So(m.Publish(Result{Shapes: expression.Shapes{expression.JawOpen: 0.9}, TimestampMS: 20}), ShouldBeTrue)

			Convey("Then the newest should win and be consumed once", func() {
				r, ok := m.Poll()
				So(ok, ShouldBeTrue)
				So(r.TimestampMS, ShouldEqual, 20)
				So(r.Shapes[expression.JawOpen], ShouldEqual, 0.9)

				_, ok = m.Poll()
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When an older result arrives after a newer one", func() {
			m.Publish(Result{TimestampMS: 50})

			Convey("Then it should be rejected", func() {
				So(m.Publish(Result{TimestampMS: 40}), ShouldBeFalse)
				r, ok := m.Poll()
				So(ok, ShouldBeTrue)
				So(r.TimestampMS, ShouldEqual, 50)
			})
		})

		Convey("When a no-face result is published", func() {
			m.Publish(Result{Shapes: nil, TimestampMS: 5})

			Convey("Then poll should report new data with nil shapes", func() {
				r, ok := m.Poll()
				So(ok, ShouldBeTrue)
				So(r.Shapes, ShouldBeNil)
			})
		})
	})
}

func TestToRGB(t *testing.T) {
	Convey("Given a BGR frame", t, func() {
		f := Frame{Width: 2, Height: 1, Format: BGR, Pix: []byte{1, 2, 3, 4, 5, 6}}

		Convey("Then ToRGB should swap channels without touching the input", func() {
			out := ToRGB(f)
			So(out.Format, ShouldEqual, RGB)
			So(out.Pix, ShouldResemble, []byte{3, 2, 1, 6, 5, 4})
			So(f.Pix, ShouldResemble, []byte{1, 2, 3, 4, 5, 6})
		})

		Convey("Then an RGB frame should pass through", func() {
			rgb := Frame{Format: RGB, Pix: []byte{9, 8, 7}}
			So(ToRGB(rgb).Pix, ShouldResemble, []byte{9, 8, 7})
		})
	})
}
