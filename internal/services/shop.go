package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pixelmart/internal/domain"
	applog "pixelmart/internal/log"
)

type StateSaver interface {
	Save(ctx context.Context, st *domain.State) error
}

// Shop owns the storefront state. Every mutation runs to completion under one
// lock and is followed by a single full persist.
type Shop struct {
	mu    sync.Mutex
	state *domain.State
	saver StateSaver

	// Now is the clock used for timestamps and session expiry.
	Now func() time.Time
	// Durable makes Update fail when the state cannot be persisted, leaving
	// the previous state in place. Off for the server, which keeps running
	// in memory; on for one-shot tools whose only effect is the write.
	Durable bool
}

func NewShop(st *domain.State, saver StateSaver) *Shop {
	if st == nil {
		st = &domain.State{}
	}
	return &Shop{state: st, saver: saver, Now: func() time.Time { return time.Now().UTC() }}
}

// Update applies fn to a copy of the state. If fn fails nothing changes;
// otherwise the copy is persisted and becomes the state. A failed persist is
// logged and, unless the shop is Durable, the in-memory state is kept.
func (s *Shop) Update(ctx context.Context, fn func(st *domain.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if s.saver != nil {
		if err := s.saver.Save(ctx, next); err != nil {
			applog.Error(nil, "state.persist.fail", err, nil)
			if s.Durable {
				return fmt.Errorf("persist state: %w", err)
			}
		}
	}
	s.state = next
	return nil
}

// View gives fn read access to the live state; fn must not retain or mutate it.
func (s *Shop) View(fn func(st *domain.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

func (s *Shop) Snapshot() *domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Shop) timestamp() string { return s.Now().Format(time.RFC3339) }
