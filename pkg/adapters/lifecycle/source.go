// Package lifecycle exposes repository change events as a lifecycle.Source.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/questvault/pkg/core"
)

type eventSource struct {
	events <-chan core.Event
	keep   func(core.Event) bool
	out    chan lifecycle.Event
}

// NewSource bridges a repository event channel to lifecycle.Source.
// Events for which keep returns false are dropped; a nil keep forwards all.
func NewSource(events <-chan core.Event, keep func(core.Event) bool) lifecycle.Source {
	if keep == nil {
		keep = func(core.Event) bool { return true }
	}
	return &eventSource{
		events: events,
		keep:   keep,
		out:    make(chan lifecycle.Event),
	}
}

// SkipDeletes keeps create and modify events.
func SkipDeletes(e core.Event) bool {
	return e.Type != core.EventDelete
}

func (s *eventSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events until ctx is done or the input channel closes,
// then closes Events.
func (s *eventSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if !s.keep(e) {
					continue
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
