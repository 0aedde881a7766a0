package bus

import "time"

// Event kinds.
const (
	KindAPIStatusChanged = "api.status_changed"
	KindChatsLoaded      = "chats.loaded"
	KindMessageSent      = "messages.sent"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
