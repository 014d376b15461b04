// Package events is a small in-process publisher for lobby and game
// lifecycle notifications.
package events

import "sync"

// EventType represents the type of event
type EventType string

// Define event types
const (
	EventPlayerConnected    EventType = "PLAYER_CONNECTED"
	EventPlayerDisconnected EventType = "PLAYER_DISCONNECTED"
	EventRoomCreated        EventType = "ROOM_CREATED"
	EventRoomRemoved        EventType = "ROOM_REMOVED"
	EventPlayerJoined       EventType = "PLAYER_JOINED"
	EventPlayerLeft         EventType = "PLAYER_LEFT"
	EventGameStarted        EventType = "GAME_STARTED"
	EventGameFinished       EventType = "GAME_FINISHED"

	// EventAll subscribes a handler to every event type
	EventAll EventType = "*"
)

// Event represents an event in the system
type Event struct {
	Type     EventType
	RoomID   string // creator id of the room, empty for non-room events
	PlayerID string
	Payload  interface{}
}

// Handler is a function that processes events
type Handler func(event Event)

// Publisher is the central event publisher
type Publisher struct {
	mu          sync.RWMutex
	subscribers map[EventType][]Handler
	wg          sync.WaitGroup
}

// NewPublisher creates a new event publisher
func NewPublisher() *Publisher {
	return &Publisher{
		subscribers: make(map[EventType][]Handler),
	}
}

// Subscribe registers a handler for a specific event type
func (p *Publisher) Subscribe(eventType EventType, handler Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.subscribers[eventType] = append(p.subscribers[eventType], handler)
}

// SubscribeAll registers a handler for all event types
func (p *Publisher) SubscribeAll(handler Handler) {
	p.Subscribe(EventAll, handler)
}

// Publish hands the event to every subscriber of its type and to the
// "all events" handlers. Handlers run on their own goroutines so a slow
// subscriber never stalls the caller.
func (p *Publisher) Publish(event Event) {
	if p == nil {
		return
	}

	p.mu.RLock()
	handlers := append([]Handler(nil), p.subscribers[event.Type]...)
	handlers = append(handlers, p.subscribers[EventAll]...)
	p.mu.RUnlock()

	for _, handler := range handlers {
		p.wg.Add(1)
		go func(h Handler) {
			defer p.wg.Done()
			h(event)
		}(handler)
	}
}

// Wait blocks until every handler started so far has returned
func (p *Publisher) Wait() {
	p.wg.Wait()
}
