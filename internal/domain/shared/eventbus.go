package shared

import "context"

// EventHandler handles domain events
type EventHandler interface {
	// Handle processes a domain event
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes returns the event types this handler is interested in
	// An empty slice means the handler receives all events
	EventTypes() []string
}

// EventPublisher publishes domain events. Publication happens after the
// originating mutation has committed; handler failures must never affect
// the committed state.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventCarrier is implemented by aggregate roots that record domain events
type EventCarrier interface {
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// CollectEvents drains the recorded events off the given aggregates in
// order. Application services call this after commit and hand the result to
// an EventPublisher.
func CollectEvents(carriers ...EventCarrier) []DomainEvent {
	var events []DomainEvent
	for _, c := range carriers {
		if c == nil {
			continue
		}
		events = append(events, c.GetDomainEvents()...)
		c.ClearDomainEvents()
	}
	return events
}

// EventSubscriber subscribes to domain events
type EventSubscriber interface {
	// Subscribe registers a handler for specific event types
	// If no event types are provided, the handler receives all events
	Subscribe(handler EventHandler, eventTypes ...string)
	// Unsubscribe removes a handler from the subscription list
	Unsubscribe(handler EventHandler)
}

// EventBus combines publisher and subscriber capabilities
type EventBus interface {
	EventPublisher
	EventSubscriber
	// Start starts the event bus (e.g., background processing)
	Start(ctx context.Context) error
	// Stop gracefully stops the event bus
	Stop(ctx context.Context) error
}
