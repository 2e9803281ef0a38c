package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	RepositoryType string `json:"repository_type"`
	Transactional  bool   `json:"transactional"`
	Watchable      bool   `json:"watchable"`
	Syncable       bool   `json:"syncable"`
	Repository     any    `json:"repository,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := ServiceState{RepositoryType: "unknown"}
	if s.repo == nil {
		return state
	}

	state.RepositoryType = "repository"
	if comp, ok := s.repo.(introspection.Component); ok {
		state.RepositoryType = comp.ComponentType()
	}
	if intro, ok := s.repo.(introspection.Introspectable); ok {
		state.Repository = intro.State()
	}
	_, state.Transactional = s.repo.(Transactional)
	_, state.Watchable = s.repo.(Watchable)
	_, state.Syncable = s.repo.(Syncable)
	return state
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
