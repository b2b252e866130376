package emitter

import "github.com/google/uuid"

const (
	spanKeyEventName      = "event.name"
	spanKeyEventManager   = "event.manager"
	spanKeyEventListeners = "event.listeners"
	spanKeyEventExecuted  = "event.executed"
	spanKeyEventStopped   = "event.stopped"
)

// NewID generates a new unique ID
func NewID() string {
	return uuid.NewString()
}
