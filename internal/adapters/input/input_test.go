package input

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/facepad/internal/adapters/capture"
	"github.com/okian/facepad/internal/domain/expression"
	"github.com/okian/facepad/internal/domain/model"
	"github.com/okian/facepad/internal/render"
	. "github.com/smartystreets/goconvey/convey"
)

type recordingSink struct {
	mu     sync.Mutex
	events []model.InputEvent
	err    error
}

func (s *recordingSink) Enqueue(_ context.Context, e model.InputEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) actions() []model.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Action, len(s.events))
	for i, e := range s.events {
		out[i] = e.Action
	}
	return out
}

type fakeSource struct {
	results  []capture.Result
	started  int
	stopped  int
	startErr error
}

func (f *fakeSource) Start(context.Context) error {
	f.started++
	return f.startErr
}

func (f *fakeSource) Stop() error {
	f.stopped++
	return nil
}

func (f *fakeSource) Poll() (capture.Result, bool) {
	if len(f.results) == 0 {
		return capture.Result{}, false
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r, true
}

func (f *fakeSource) CameraIndex() int { return 2 }

func frame(keys ...render.Key) *render.Headless {
	h := render.NewHeadless(160, 120)
	for _, k := range keys {
		h.Press(k)
	}
	h.BeginFrame()
	return h
}

func TestParseSpec(t *testing.T) {
	Convey("Given provider arguments", t, func() {
		Convey("Then plain names should parse", func() {
			s, err := ParseSpec("keyboard")
			So(err, ShouldBeNil)
			So(s, ShouldResemble, Spec{Kind: KindKeyboard})

			s, err = ParseSpec("mediapipe_face")
			So(err, ShouldBeNil)
			So(s.Kind, ShouldEqual, KindFace)
		})

		Convey("Then a camera index should parse for face", func() {
			s, err := ParseSpec("face:1")
			So(err, ShouldBeNil)
			So(s.Camera, ShouldEqual, 1)
			So(s.HasCamera, ShouldBeTrue)
			So(s.String(), ShouldEqual, "face:1")
		})

		Convey("Then bad arguments should fail", func() {
			_, err := ParseSpec("joystick")
			So(errors.Is(err, ErrUnknownProvider), ShouldBeTrue)

			_, err = ParseSpec("face:x")
			So(errors.Is(err, ErrInvalidSpec), ShouldBeTrue)

			_, err = ParseSpec("face:-1")
			So(errors.Is(err, ErrInvalidSpec), ShouldBeTrue)

			_, err = ParseSpec("keyboard:0")
			So(errors.Is(err, ErrInvalidSpec), ShouldBeTrue)
		})
	})
}

func TestKeyboardProvider(t *testing.T) {
	Convey("Given a keyboard provider", t, func() {
		k := NewKeyboardProvider()
		sink := &recordingSink{}

		Convey("When every bound key is pressed", func() {
			err := k.Poll(context.Background(), frame(render.KeyEscape, render.KeySpace, render.KeyShift, render.KeyReturn), sink)

			Convey("Then one event per key should be emitted in binding order", func() {
				So(err, ShouldBeNil)
				So(sink.actions(), ShouldResemble, []model.Action{model.Action1, model.Action2, model.Action3, model.Quit})
				for _, e := range sink.events {
					So(e.Note, ShouldEqual, KeyboardNote)
					So(e.Value, ShouldEqual, model.DefaultValue)
				}
			})
		})

		Convey("When nothing is pressed", func() {
			So(k.Poll(context.Background(), frame(), sink), ShouldBeNil)

			Convey("Then nothing should be emitted", func() {
				So(sink.events, ShouldBeEmpty)
			})
		})

		Convey("When the sink rejects events", func() {
			sink.err = errors.New("full")
			err := k.Poll(context.Background(), frame(render.KeySpace), sink)

			Convey("Then the error should be reported", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When configured with a custom note", func() {
			k = NewKeyboardProvider(WithKeyboardNote("pad"))
			So(k.Poll(context.Background(), frame(render.KeySpace), sink), ShouldBeNil)

			Convey("Then events should carry it", func() {
				So(sink.events[0].Note, ShouldEqual, "pad")
				So(k.Note(), ShouldEqual, "pad")
			})
		})
	})
}

func TestFaceProvider(t *testing.T) {
	Convey("Given a face provider for player 2", t, func() {
		src := &fakeSource{}
		f := NewFaceProvider(src, nil, WithPlayer(2))
		sink := &recordingSink{}
		ctx := context.Background()
		captured := time.Unix(50, 0)

		Convey("Then it should identify itself", func() {
			So(f.Name(), ShouldEqual, "face:2")
			So(f.Note(), ShouldEqual, "face:player2")
			So(f.Player(), ShouldEqual, 2)
		})

		Convey("When started and stopped", func() {
			So(f.Start(ctx, sink), ShouldBeNil)
			So(f.Stop(), ShouldBeNil)

			Convey("Then the source should follow", func() {
				So(src.started, ShouldEqual, 1)
				So(src.stopped, ShouldEqual, 1)
			})
		})

		Convey("When the source fails to start", func() {
			src.startErr = capture.ErrStopped

			Convey("Then the error should be wrapped", func() {
				err := f.Start(ctx, sink)
				So(errors.Is(err, capture.ErrStopped), ShouldBeTrue)
			})
		})

		Convey("When a detection opens the mouth", func() {
			src.results = []capture.Result{{
				Shapes:      expression.Shapes{expression.JawOpen: 0.8},
				TimestampMS: 10,
				CapturedAt:  captured,
			}}
			So(f.Poll(ctx, frame(), sink), ShouldBeNil)

			Convey("Then one ACTION2 should carry the score, capture time and note", func() {
				So(len(sink.events), ShouldEqual, 1)
				e := sink.events[0]
				So(e.Action, ShouldEqual, model.Action2)
				So(e.Value, ShouldEqual, 0.8)
				So(e.Timestamp, ShouldEqual, captured)
				So(e.Note, ShouldEqual, "face:player2")
			})
		})

		Convey("When the mouth stays open across detections", func() {
			src.results = []capture.Result{
				{Shapes: expression.Shapes{expression.JawOpen: 0.8}, TimestampMS: 10},
				{Shapes: expression.Shapes{expression.JawOpen: 0.7}, TimestampMS: 20},
			}
			So(f.Poll(ctx, frame(), sink), ShouldBeNil)
			So(f.Poll(ctx, frame(), sink), ShouldBeNil)

			Convey("Then only the first should produce an event", func() {
				So(sink.actions(), ShouldResemble, []model.Action{model.Action2})
			})
		})

		Convey("When the face disappears between two open mouths", func() {
			src.results = []capture.Result{
				{Shapes: expression.Shapes{expression.JawOpen: 0.8}, TimestampMS: 10},
				{Shapes: nil, TimestampMS: 20},
				{Shapes: expression.Shapes{expression.JawOpen: 0.8}, TimestampMS: 30},
			}
			for range 3 {
				So(f.Poll(ctx, frame(), sink), ShouldBeNil)
			}

			Convey("Then the channel should re-arm and fire again", func() {
				So(sink.actions(), ShouldResemble, []model.Action{model.Action2, model.Action2})
			})
		})

		Convey("When Escape is pressed", func() {
			So(f.Poll(ctx, frame(render.KeyEscape), sink), ShouldBeNil)

			Convey("Then a QUIT should be emitted", func() {
				So(sink.actions(), ShouldResemble, []model.Action{model.Quit})
				So(sink.events[0].Note, ShouldEqual, "face:player2")
			})
		})

		Convey("When there is no new detection", func() {
			So(f.Poll(ctx, nil, sink), ShouldBeNil)

			Convey("Then nothing should be emitted", func() {
				So(sink.events, ShouldBeEmpty)
			})
		})
	})
}

func TestFaceNote(t *testing.T) {
	Convey("Then face notes should be numbered from one", t, func() {
		So(FaceNote(1), ShouldEqual, "face:player1")
		So(FaceNote(2), ShouldEqual, "face:player2")
	})
}
