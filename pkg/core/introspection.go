package core

import (
	"github.com/aretw0/introspection"
)

// SessionState exposes internal state for observability.
type SessionState struct {
	Status          Status `json:"status"`
	ContentBytes    int    `json:"content_bytes"`
	SavePending     bool   `json:"save_pending"`
	ResetPending    bool   `json:"reset_pending"`
	Loaded          bool   `json:"loaded"`
	EventBufferSize int    `json:"event_buffer_size"`
	StoreType       string `json:"store_type"`
	LastError       string `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Session) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	storeType := "store"
	if comp, ok := s.store.(introspection.Component); ok {
		storeType = comp.ComponentType()
	}

	lastErr := ""
	if s.lastErr != nil {
		lastErr = s.lastErr.Error()
	}

	return SessionState{
		Status:          s.status,
		ContentBytes:    len(s.content),
		SavePending:     s.saveTimer != nil,
		ResetPending:    s.resetTimer != nil,
		Loaded:          s.loaded,
		EventBufferSize: s.eventBuffer,
		StoreType:       storeType,
		LastError:       lastErr,
	}
}

// ComponentType implements introspection.Component.
func (s *Session) ComponentType() string {
	return "session"
}

var _ introspection.Introspectable = (*Session)(nil)
var _ introspection.Component = (*Session)(nil)
