// Package scene implements the per-game stack of modal scenes and the
// question session a multi-round game walks through.
package scene

import (
	"github.com/okian/facepad/internal/domain/model"
	"github.com/okian/facepad/internal/render"
	"github.com/okian/facepad/pkg/metrics"
)

// Scene is one step of a game's flow. Only the top of the stack receives
// OnEvent, Update and Draw.
type Scene interface {
	OnEnter()
	OnExit()
	OnEvent(e model.InputEvent) error
	Update() error
	Draw(rc render.Context) error
}

// Base provides no-op implementations for scenes to embed.
type Base struct{}

func (Base) OnEnter()                       {}
func (Base) OnExit()                        {}
func (Base) OnEvent(model.InputEvent) error { return nil }
func (Base) Update() error                  { return nil }
func (Base) Draw(render.Context) error      { return nil }

// Stack is a LIFO of scenes. It is not safe for concurrent use; the frame
// loop is its only caller.
type Stack struct {
	scenes  []Scene
	session *Session
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push appends s and calls its OnEnter.
func (st *Stack) Push(s Scene) {
	st.scenes = append(st.scenes, s)
	metrics.RecordSceneTransition("push")
	s.OnEnter()
}

// Pop calls OnExit on the top scene and removes it. The base scene is never
// popped.
func (st *Stack) Pop() {
	if len(st.scenes) <= 1 {
		return
	}
	st.popTop()
	metrics.RecordSceneTransition("pop")
}

// Replace removes the top scene, base included, and pushes s.
func (st *Stack) Replace(s Scene) {
	if len(st.scenes) > 0 {
		st.popTop()
	}
	st.scenes = append(st.scenes, s)
	metrics.RecordSceneTransition("replace")
	s.OnEnter()
}

// Reset exits every scene, top first, and pushes s as the new base.
func (st *Stack) Reset(s Scene) {
	for len(st.scenes) > 0 {
		st.popTop()
	}
	st.session = nil
	st.Push(s)
}

func (st *Stack) popTop() {
	last := len(st.scenes) - 1
	top := st.scenes[last]
	st.scenes[last] = nil
	st.scenes = st.scenes[:last]
	top.OnExit()
}

// Top returns the active scene, or nil when the stack is empty.
func (st *Stack) Top() Scene {
	if len(st.scenes) == 0 {
		return nil
	}
	return st.scenes[len(st.scenes)-1]
}

// Len returns the stack depth.
func (st *Stack) Len() int { return len(st.scenes) }

// OnEvent forwards e to the top scene.
func (st *Stack) OnEvent(e model.InputEvent) error {
	if top := st.Top(); top != nil {
		return top.OnEvent(e)
	}
	return nil
}

// Update advances the top scene.
func (st *Stack) Update() error {
	if top := st.Top(); top != nil {
		return top.Update()
	}
	return nil
}

// Draw renders the top scene.
func (st *Stack) Draw(rc render.Context) error {
	if top := st.Top(); top != nil {
		return top.Draw(rc)
	}
	return nil
}

// StartSession begins a new session over questions.
func (st *Stack) StartSession(questions []int) *Session {
	st.session = NewSession(questions)
	return st.session
}

// Session returns the running session, or nil.
func (st *Stack) Session() *Session { return st.session }

// EndSession discards the running session.
func (st *Stack) EndSession() { st.session = nil }
