package mem

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Keys         int   `json:"keys"`
	QuotaBytes   int64 `json:"quota_bytes"`
	Subscribers  int   `json:"subscribers"`
	FailingSet   bool  `json:"failing_set"`
	FailingProbe bool  `json:"failing_probe"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StoreState{
		Keys:         len(s.data),
		QuotaBytes:   s.quota,
		Subscribers:  len(s.subs),
		FailingSet:   s.setErr != nil,
		FailingProbe: s.probeErr != nil,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "mem-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
