package host

import "sync"

// Bus is a minimal in-process event bus standing in for the host's
// websocket event channel. Handlers run synchronously on the publishing
// goroutine, matching the single-threaded turn model of the host UI.
type Bus struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any)
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]func(payload any))}
}

// Subscribe registers a handler for the named event.
func (b *Bus) Subscribe(event string, fn func(payload any)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], fn)
}

// Publish delivers the payload to every handler of the named event.
func (b *Bus) Publish(event string, payload any) {
	b.mu.Lock()
	handlers := append([]func(payload any){}, b.handlers[event]...)
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(payload)
	}
}
