// Package playback drives an external audio player through a two-state
// machine. The machine owns the state; the player is only a side-effect
// target.
package playback

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_player.go -package=mocks recordream/internal/playback Player

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNoVoice is returned when playback is requested for a record without a
// recording.
var ErrNoVoice = errors.New("playback: record has no voice recording")

// State is the playback state shared by every content pane of a record.
type State int

const (
	// Stopped is the initial state.
	Stopped State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "PLAYING"
	}
	return "STOPPED"
}

// Toggle is the transition function: a strict flip.
func Toggle(s State) State {
	if s == Playing {
		return Stopped
	}
	return Playing
}

// Player is the audio output the machine drives.
type Player interface {
	// Play starts playing the file at path.
	Play(ctx context.Context, path string) error
	// Stop stops the current playback, if any.
	Stop() error
	// Duration reports the length of the file at path.
	Duration(path string) (time.Duration, error)
}

// Machine is the playback state machine for one detail record. It is not
// safe for concurrent use; the detail store serialises access.
type Machine struct {
	player  Player
	state   State
	running time.Duration
}

// NewMachine returns a machine in the Stopped state.
func NewMachine(player Player) *Machine {
	return &Machine{player: player}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// RunningTime returns the duration recorded on the last transition to
// Playing.
func (m *Machine) RunningTime() time.Duration {
	return m.running
}

// Toggle flips the state and drives the player. Entering Playing queries the
// duration first, then starts the player; entering Stopped only stops it.
// Entering Playing without a path fails with ErrNoVoice and leaves the state
// unchanged. A failing Stop still leaves the machine Stopped.
func (m *Machine) Toggle(ctx context.Context, path string) (State, error) {
	switch Toggle(m.state) {
	case Playing:
		if path == "" {
			return m.state, ErrNoVoice
		}
		d, err := m.player.Duration(path)
		if err != nil {
			return m.state, fmt.Errorf("playback: query duration: %w", err)
		}
		m.running = d
		if err := m.player.Play(ctx, path); err != nil {
			return m.state, fmt.Errorf("playback: start: %w", err)
		}
		m.state = Playing
	case Stopped:
		m.state = Stopped
		if err := m.player.Stop(); err != nil {
			return m.state, fmt.Errorf("playback: stop: %w", err)
		}
	}
	return m.state, nil
}

// Finish applies an external completion signal: Playing becomes Stopped
// without calling the player. It reports whether a transition happened.
func (m *Machine) Finish() bool {
	if m.state != Playing {
		return false
	}
	m.state = Stopped
	return true
}

// Reset returns the machine to Stopped, stopping the player if it was
// playing. Used when a new record replaces the current one.
func (m *Machine) Reset() error {
	m.running = 0
	if m.state != Playing {
		return nil
	}
	m.state = Stopped
	if err := m.player.Stop(); err != nil {
		return fmt.Errorf("playback: stop: %w", err)
	}
	return nil
}
