package sqlite

import "github.com/aretw0/introspection"

// StoreState exposes internal state for observability.
type StoreState struct {
	Path     string `json:"path"`
	Open     bool   `json:"open"`
	ReadOnly bool   `json:"read_only"`
	MaxTries int    `json:"max_tries"`
	Writes   int    `json:"writes"`
	Retries  int    `json:"retries"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StoreState{
		Path:     s.Path,
		Open:     s.db != nil,
		ReadOnly: s.config.ReadOnly,
		MaxTries: s.config.MaxTries,
		Writes:   s.writes,
		Retries:  s.retries,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
