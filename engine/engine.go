// Package engine defines the boundary to the long-running game computation.
// The backend only starts a game and observes success, failure, and the
// location of the record it produced; how the game is actually played is the
// engine's business.
package engine

import "context"

// Player is one seat at the table: a display name plus the model that plays
// for it.
type Player struct {
	Name  string `json:"name" yaml:"name"`
	Model string `json:"model" yaml:"model"`
}

// Engine runs one full game to completion and reports the path of the record
// file it wrote. The call blocks for the duration of the game; callers that
// need asynchrony run it on their own goroutine.
type Engine interface {
	Run(ctx context.Context, players []Player) (recordPath string, err error)
}

// Func adapts a plain function to the Engine interface.
type Func func(ctx context.Context, players []Player) (string, error)

func (f Func) Run(ctx context.Context, players []Player) (string, error) {
	return f(ctx, players)
}
