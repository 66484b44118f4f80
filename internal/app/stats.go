package app

import (
	"context"

	"github.com/okian/facepad/internal/domain/game"
	"github.com/okian/facepad/pkg/metrics"
)

// Stats is a point-in-time view of the loop for the status endpoint.
type Stats struct {
	Game       string `json:"game"`
	Menu       bool   `json:"menu"`
	Frames     int64  `json:"frames"`
	QueueLen   int    `json:"queue_length"`
	QueueCap   int    `json:"queue_capacity"`
	Providers  int    `json:"providers"`
	Terminated bool   `json:"terminated"`
}

// Stats returns the current loop state. It is safe to call from any
// goroutine.
func (a *App) Stats() Stats {
	a.mu.RLock()
	g := a.game
	st := Stats{
		Game:       game.NameOf(g),
		Menu:       game.IsMenu(g),
		Frames:     a.frames.Load(),
		QueueCap:   a.queue.Capacity(),
		Providers:  len(a.providers),
		Terminated: a.terminate,
	}
	a.mu.RUnlock()

	st.QueueLen = a.queue.Len(context.Background())
	metrics.UpdateQueueSize(st.QueueLen)
	return st
}
