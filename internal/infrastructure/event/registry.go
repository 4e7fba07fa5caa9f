package event

import (
	"slices"
	"sync"

	"github.com/vellap/portal/internal/domain/shared"
)

// HandlerRegistry maps event types to handlers
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	wildcard []shared.EventHandler
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[string][]shared.EventHandler),
	}
}

// Register adds a handler for the event types, or for all events when none
// are given
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		r.wildcard = append(r.wildcard, handler)
		return
	}
	for _, eventType := range eventTypes {
		r.handlers[eventType] = append(r.handlers[eventType], handler)
	}
}

// Unregister removes a handler from every event type
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	isTarget := func(h shared.EventHandler) bool { return h == handler }
	r.wildcard = slices.DeleteFunc(r.wildcard, isTarget)
	for eventType, handlers := range r.handlers {
		if handlers = slices.DeleteFunc(handlers, isTarget); len(handlers) == 0 {
			delete(r.handlers, eventType)
		} else {
			r.handlers[eventType] = handlers
		}
	}
}

// GetHandlers returns the type-specific handlers followed by the wildcard
// handlers
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]shared.EventHandler, 0, len(r.handlers[eventType])+len(r.wildcard))
	result = append(result, r.handlers[eventType]...)
	return append(result, r.wildcard...)
}
