// Package messaging delivers in-process notifications to subscribers.
package messaging

import "sync"

// Hub fans out published values to every current subscriber, in subscription order.
// Handlers run synchronously on the publishing goroutine.
type Hub[T any] struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription[T]
}

type subscription[T any] struct {
	id      int
	handler func(T)
}

// NewHub creates a hub with no subscribers.
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{}
}

// Subscribe registers handler and returns a function that removes it.
func (h *Hub[T]) Subscribe(handler func(T)) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.subs = append(h.subs, subscription[T]{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(id) })
	}
}

func (h *Hub[T]) remove(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, sub := range h.subs {
		if sub.id == id {
			h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers value to all subscribers.
func (h *Hub[T]) Publish(value T) {
	h.mu.RLock()
	subs := h.subs
	h.mu.RUnlock()

	for _, sub := range subs {
		sub.handler(value)
	}
}

// SubscriberCount returns the number of registered handlers.
func (h *Hub[T]) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
