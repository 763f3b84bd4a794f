package monitor

import (
	"github.com/penwyp/go-focus-monitor/internal/core/model"
	"github.com/penwyp/go-focus-monitor/internal/presentation/interaction"
)

// KeySource delivers key presses to the live view
type KeySource interface {
	Events() <-chan interaction.KeyEvent
	Close() error
}

// DisplayController handles terminal display operations
type DisplayController interface {
	// EnterAlternateScreen switches to the alternate terminal screen
	EnterAlternateScreen()
	// ExitAlternateScreen returns to the normal terminal screen
	ExitAlternateScreen()
	// Render draws one frame
	Render(snap model.Snapshot, state model.InteractionState)
}
