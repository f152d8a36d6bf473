package common

import (
	"sync"

	"go-firestore-hampter/internal/eventpublisher/event"
)

type SubManager struct {
	subscribers    map[event.EventWChannel]struct{}
	subscriptionMu sync.RWMutex
}

func NewSubManager() *SubManager {
	return &SubManager{
		subscribers:    make(map[event.EventWChannel]struct{}),
		subscriptionMu: sync.RWMutex{},
	}
}

func (m *SubManager) Subscribe(subscriber event.EventWChannel) {
	m.subscriptionMu.Lock()
	defer m.subscriptionMu.Unlock()

	if _, ok := m.subscribers[subscriber]; !ok {
		m.subscribers[subscriber] = struct{}{}
	}
}

// Unsubscribe removes the subscriber and closes its channel. It reports whether
// the subscriber was registered.
func (m *SubManager) Unsubscribe(subscriber event.EventWChannel) bool {
	m.subscriptionMu.Lock()
	defer m.subscriptionMu.Unlock()

	// only act on the subscribed channels
	if _, ok := m.subscribers[subscriber]; !ok {
		return false
	}
	delete(m.subscribers, subscriber)
	close(subscriber)
	return true
}

func (m *SubManager) UnsubscribeAll() {
	for _, subscriber := range m.snapshot() {
		m.Unsubscribe(subscriber)
	}
}

func (m *SubManager) Len() int {
	m.subscriptionMu.RLock()
	defer m.subscriptionMu.RUnlock()
	return len(m.subscribers)
}

func (m *SubManager) OnSubscribers(do func(event.EventWChannel)) {
	// Caution: The 'do' function may modify the 'subscribers' map during iteration.
	// To avoid unexpected bugs caused by channel deletion on the iterating map,
	// we create a separate list of channels for processing.
	for _, subscriber := range m.snapshot() {
		do(subscriber)
	}
}

func (m *SubManager) snapshot() []event.EventWChannel {
	m.subscriptionMu.RLock()
	defer m.subscriptionMu.RUnlock()

	subsCopy := make([]event.EventWChannel, 0, len(m.subscribers))
	for subscriber := range m.subscribers {
		subsCopy = append(subsCopy, subscriber)
	}
	return subsCopy
}
