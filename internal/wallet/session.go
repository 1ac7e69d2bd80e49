// Package wallet tracks the connected wallet and talks to the wallet
// provider bridge over WebSocket.
package wallet

import (
	"sync"
)

// Session holds the currently connected wallet address and notifies
// subscribers when it changes. The empty address means disconnected.
type Session struct {
	mu       sync.RWMutex
	address  string
	nextID   int
	watchers map[int]func(address string)
}

// NewSession creates a disconnected session.
func NewSession() *Session {
	return &Session{watchers: make(map[int]func(string))}
}

// Address returns the connected wallet address, empty when disconnected.
func (s *Session) Address() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.address
}

// Connected reports whether a wallet is connected.
func (s *Session) Connected() bool {
	return s.Address() != ""
}

// SetAddress updates the session address. Subscribers are notified only
// when the address actually changes, after the session state is updated.
func (s *Session) SetAddress(address string) {
	s.mu.Lock()
	if s.address == address {
		s.mu.Unlock()
		return
	}
	s.address = address
	watchers := make([]func(string), 0, len(s.watchers))
	for _, fn := range s.watchers {
		watchers = append(watchers, fn)
	}
	s.mu.Unlock()

	for _, fn := range watchers {
		fn(address)
	}
}

// Disconnect clears the session address.
func (s *Session) Disconnect() {
	s.SetAddress("")
}

// Subscribe registers a change callback and returns its unsubscribe
// function. The callback runs on the goroutine that called SetAddress.
func (s *Session) Subscribe(fn func(address string)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}
