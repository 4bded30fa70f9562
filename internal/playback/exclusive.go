package playback

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Exclusive shares one Player between several machines so that at most one
// playback session is active at a time. Starting a session stops the
// previous one and notifies its owner.
type Exclusive struct {
	mu     sync.Mutex
	player Player
	active *Session
}

// NewExclusive wraps player.
func NewExclusive(player Player) *Exclusive {
	return &Exclusive{player: player}
}

// Session returns a Player bound to this arbiter. onPreempt, if not nil, runs
// on its own goroutine when another session takes over the player. It
// receives the epoch the session was preempted at; a callback whose epoch no
// longer matches Epoch() arrived after the session started playing again.
func (e *Exclusive) Session(onPreempt func(epoch uint64)) *Session {
	return &Session{owner: e, onPreempt: onPreempt}
}

// Active reports whether s currently owns the player.
func (e *Exclusive) Active(s *Session) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active == s
}

// Session is one owner's handle on an Exclusive player.
type Session struct {
	owner     *Exclusive
	onPreempt func(epoch uint64)
	epoch     uint64 // successful Play calls, guarded by owner.mu
}

// Epoch counts the successful Play calls of s.
func (s *Session) Epoch() uint64 {
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()
	return s.epoch
}

// Play stops any other active session and starts playback for s. If the
// other session cannot be stopped it keeps the player and Play fails.
func (s *Session) Play(ctx context.Context, path string) error {
	e := s.owner
	e.mu.Lock()
	var preempted *Session
	var preemptedEpoch uint64
	if e.active != nil && e.active != s {
		if err := e.player.Stop(); err != nil {
			e.mu.Unlock()
			return fmt.Errorf("stop preempted session: %w", err)
		}
		preempted, preemptedEpoch = e.active, e.active.epoch
		e.active = nil
	}
	err := e.player.Play(ctx, path)
	if err == nil {
		e.active = s
		s.epoch++
	}
	e.mu.Unlock()

	if preempted != nil && preempted.onPreempt != nil {
		go preempted.onPreempt(preemptedEpoch)
	}
	return err
}

// Stop stops playback if s still owns the player; otherwise it is a no-op.
func (s *Session) Stop() error {
	e := s.owner
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active != s {
		return nil
	}
	e.active = nil
	return e.player.Stop()
}

// Duration delegates to the shared player.
func (s *Session) Duration(path string) (time.Duration, error) {
	return s.owner.player.Duration(path)
}

// Release drops ownership without stopping the player; used when playback
// completed on its own.
func (s *Session) Release() {
	e := s.owner
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == s {
		e.active = nil
	}
}
