package sim

type EventType int

const (
	EventFoodPickup EventType = iota
	EventPowerupPickup
	EventCollision
	EventComboChanged
)

// CollisionKind distinguishes what ended the session.
type CollisionKind int

const (
	CollisionSelf CollisionKind = iota
	CollisionObstacle
)

// Event is the payload delivered to subscribers. Only the fields relevant
// to the event type are populated.
type Event struct {
	Type       EventType
	Powerup    PowerupKind   // EventPowerupPickup
	Collision  CollisionKind // EventCollision
	Combo      int           // EventComboChanged
	Multiplier float64       // EventComboChanged
	Points     int           // EventFoodPickup, EventPowerupPickup
}

type EventHandler func(Event)

// EventBus fans events out to subscribers. A session works identically
// with zero handlers registered.
type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}
