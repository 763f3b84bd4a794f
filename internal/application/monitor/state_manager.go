package monitor

import (
	"sync"

	"github.com/penwyp/go-focus-monitor/internal/core/model"
)

// StateManager holds the live view's interaction state in a thread-safe manner
type StateManager struct {
	mu               sync.RWMutex
	interactionState model.InteractionState
}

func NewStateManager(sort model.SortField) *StateManager {
	return &StateManager{
		interactionState: model.InteractionState{SortField: sort},
	}
}

// GetInteractionState returns a copy of the interaction state
func (sm *StateManager) GetInteractionState() model.InteractionState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.interactionState
}

// UpdateInteractionState updates specific fields of interaction state
func (sm *StateManager) UpdateInteractionState(updateFunc func(*model.InteractionState)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	updateFunc(&sm.interactionState)
}

// SetStatus replaces the status line
func (sm *StateManager) SetStatus(message string) {
	sm.UpdateInteractionState(func(s *model.InteractionState) {
		s.StatusMessage = message
	})
}
