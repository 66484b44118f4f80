package scene

import "github.com/google/uuid"

// Session is an ordered list of question ids and a cursor.
type Session struct {
	id        string
	questions []int
	index     int
}

// NewSession copies questions into a fresh session.
func NewSession(questions []int) *Session {
	return &Session{
		id:        uuid.NewString(),
		questions: append([]int(nil), questions...),
	}
}

// ID uniquely identifies the session in logs.
func (s *Session) ID() string { return s.id }

// Current returns the question at the cursor.
func (s *Session) Current() (int, bool) {
	if s.index < 0 || s.index >= len(s.questions) {
		return 0, false
	}
	return s.questions[s.index], true
}

// Advance moves the cursor to the next question.
func (s *Session) Advance() {
	if s.index < len(s.questions) {
		s.index++
	}
}

// Index is the zero-based cursor.
func (s *Session) Index() int { return s.index }

// Total is the number of questions.
func (s *Session) Total() int { return len(s.questions) }

// Done reports whether every question has been played.
func (s *Session) Done() bool { return s.index >= len(s.questions) }
