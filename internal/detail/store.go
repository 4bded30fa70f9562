// Package detail holds the observable view state of one dream record and
// orchestrates its fetch, playback and deletion.
package detail

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_source.go -package=mocks recordream/internal/detail Source

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"recordream/internal/content"
	"recordream/internal/contextutil"
	"recordream/internal/diff"
	"recordream/internal/emotion"
	"recordream/internal/playback"
	"recordream/internal/record"
)

var (
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("detail: store closed")
	// ErrNotLoaded is returned by Delete when no record has loaded yet.
	ErrNotLoaded = errors.New("detail: no record loaded")
)

// Source is the remote data source for detail records.
type Source interface {
	FetchDetail(ctx context.Context, id string) (record.DetailRecord, error)
	DeleteDetail(ctx context.Context, id string) error
}

// VoiceResolver turns a voice URL into a path the player can open.
type VoiceResolver interface {
	Resolve(ctx context.Context, url string) (string, error)
}

// Phase is the load lifecycle of a store.
type Phase int

const (
	Empty Phase = iota
	Loading
	Loaded
	LoadFailed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "LOADING"
	case Loaded:
		return "LOADED"
	case LoadFailed:
		return "LOAD_FAILED"
	default:
		return "EMPTY"
	}
}

// State is a snapshot of everything a detail screen displays.
type State struct {
	RecordID    string
	Background  emotion.Asset
	Icon        emotion.Asset
	Date        string
	Title       string
	Tags        []emotion.Tag
	Content     []content.Item
	VoiceURL    string
	Removed     bool
	Playback    playback.State
	RunningTime time.Duration
	Progress    int
	Phase       Phase
	LastError   error

	// TagPlan and ContentPlan describe how Tags and Content changed in the
	// commit that produced this snapshot.
	TagPlan     diff.Plan[int]
	ContentPlan diff.Plan[content.Category]
}

func (s State) clone() State {
	s.Tags = append([]emotion.Tag(nil), s.Tags...)
	s.Content = append([]content.Item(nil), s.Content...)
	return s
}

type observer struct {
	id int
	fn func(State)
}

// Store owns the view state of one detail record. All methods are safe for
// concurrent use; observers are called outside the lock in subscription
// order.
type Store struct {
	mu        sync.Mutex
	source    Source
	resolver  VoiceResolver
	machine   *playback.Machine
	session   *playback.Session
	gen       uint64
	committed uint64 // bumped by every successful load
	closed    bool
	rec       record.DetailRecord
	state     State
	tags      *diff.List[emotion.Tag, int]
	contents  *diff.List[content.Item, content.Category]
	observers []observer
	nextObsID int
}

// NewStore creates a store that drives player directly. resolver may be nil,
// in which case the voice URL is handed to the player as is.
func NewStore(source Source, player playback.Player, resolver VoiceResolver) *Store {
	s := newStore(source, resolver)
	s.machine = playback.NewMachine(player)
	return s
}

// NewSharedStore creates a store whose playback goes through ex, so starting
// playback here stops any other store sharing ex.
func NewSharedStore(source Source, ex *playback.Exclusive, resolver VoiceResolver) *Store {
	s := newStore(source, resolver)
	s.session = ex.Session(s.preempted)
	s.machine = playback.NewMachine(s.session)
	return s
}

func newStore(source Source, resolver VoiceResolver) *Store {
	s := &Store{
		source:   source,
		resolver: resolver,
		tags:     diff.NewList(func(t emotion.Tag) int { return t.Code }, func(a, b emotion.Tag) bool { return a == b }),
		contents: diff.NewList(content.Key, content.Equal),
	}
	s.state.Content = content.Default()
	s.state.ContentPlan = s.contents.Submit(s.state.Content)
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn for every state change and returns a function that
// removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return func() {}
	}
	s.nextObsID++
	id := s.nextObsID
	s.observers = append(s.observers, observer{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// Load fetches id and commits it. Only the most recently issued load may
// commit; a superseded load returns nil without touching state. A failed
// load keeps the displayed fields, moves to LoadFailed and returns the
// error.
func (s *Store) Load(ctx context.Context, id string) error {
	logger := contextutil.LoggerFromContext(ctx)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.gen++
	gen := s.gen
	s.state.Phase = Loading
	s.state.TagPlan, s.state.ContentPlan = diff.Plan[int]{}, diff.Plan[content.Category]{}
	s.unlockAndNotify()

	rec, err := s.source.FetchDetail(ctx, id)

	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		logger.DebugContext(ctx, "discarding stale record load", "record_id", id)
		return nil
	}
	if err != nil {
		s.state.Phase = LoadFailed
		s.state.LastError = err
		s.unlockAndNotify()
		logger.ErrorContext(ctx, "failed to load record", "record_id", id, "error", err)
		return fmt.Errorf("load record %s: %w", id, err)
	}

	if resetErr := s.machine.Reset(); resetErr != nil {
		logger.WarnContext(ctx, "failed to stop previous playback", "error", resetErr)
	}
	s.commitLocked(rec)
	s.unlockAndNotify()

	logger.DebugContext(ctx, "record loaded", "record_id", id, "title", rec.Title)
	return nil
}

func (s *Store) commitLocked(rec record.DetailRecord) {
	s.committed++
	s.rec = rec
	tags := emotion.ResolveTags(rec.Genre)
	items := content.Project(rec, playback.Stopped)

	s.state = State{
		RecordID:    rec.ID,
		Background:  emotion.Background(rec.Emotion),
		Icon:        emotion.Icon(rec.Emotion),
		Date:        record.FormatDate(rec.Date),
		Title:       rec.Title,
		Tags:        tags,
		Content:     items,
		VoiceURL:    rec.VoiceURL(),
		Playback:    playback.Stopped,
		Phase:       Loaded,
		TagPlan:     s.tags.Submit(tags),
		ContentPlan: s.contents.Submit(items),
	}
}

// TogglePlayback flips playback for the loaded record. Both content panes
// are re-projected from the new state. Starting playback without a voice
// recording fails with playback.ErrNoVoice.
func (s *Store) TogglePlayback(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	path := s.state.VoiceURL
	entering := playback.Toggle(s.machine.State())
	if entering == playback.Playing && path != "" && s.resolver != nil {
		gen := s.gen
		url := path
		s.mu.Unlock()

		resolved, err := s.resolver.Resolve(ctx, url)
		if err != nil {
			return fmt.Errorf("resolve voice %s: %w", url, err)
		}

		s.mu.Lock()
		if s.closed || gen != s.gen || s.machine.State() != playback.Stopped {
			s.mu.Unlock()
			return nil
		}
		path = resolved
	}

	state, err := s.machine.Toggle(ctx, path)
	if state == s.state.Playback {
		s.mu.Unlock()
		return err
	}
	s.state.Playback = state
	if state == playback.Playing {
		s.state.RunningTime = s.machine.RunningTime()
		s.state.Progress = 0
	}
	s.reprojectLocked()
	s.unlockAndNotify()
	return err
}

func (s *Store) reprojectLocked() {
	s.state.Content = content.Project(s.rec, s.state.Playback)
	s.state.ContentPlan = s.contents.Submit(s.state.Content)
	s.state.TagPlan = diff.Plan[int]{}
}

// preempted runs when another store took over the shared player. A callback
// from before this store last started playing is ignored.
func (s *Store) preempted(epoch uint64) {
	s.mu.Lock()
	if s.closed || s.session.Epoch() != epoch || !s.machine.Finish() {
		s.mu.Unlock()
		return
	}
	s.state.Playback = playback.Stopped
	s.reprojectLocked()
	s.unlockAndNotify()
}

// Delete marks the displayed record removed, then deletes it remotely. If
// the remote delete fails the flag is rolled back and the error is returned,
// unless a newer load has committed a record in the meantime. Loads that
// are still in flight or that failed do not count as replacing the record.
func (s *Store) Delete(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.committed == 0 || s.state.RecordID == "" {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	committed := s.committed
	id := s.state.RecordID
	s.state.Removed = true
	s.state.TagPlan, s.state.ContentPlan = diff.Plan[int]{}, diff.Plan[content.Category]{}
	s.unlockAndNotify()

	err := s.source.DeleteDetail(ctx, id)

	s.mu.Lock()
	if s.closed || committed != s.committed {
		s.mu.Unlock()
		if err != nil {
			logger.WarnContext(ctx, "stale record delete failed", "record_id", id, "error", err)
		}
		return nil
	}
	if err != nil {
		s.state.Removed = false
		s.state.LastError = err
		s.unlockAndNotify()
		logger.ErrorContext(ctx, "failed to delete record", "record_id", id, "error", err)
		return fmt.Errorf("delete record %s: %w", id, err)
	}

	if resetErr := s.machine.Reset(); resetErr != nil {
		logger.WarnContext(ctx, "failed to stop playback of deleted record", "error", resetErr)
	}
	s.state.Playback = playback.Stopped
	s.reprojectLocked()
	s.unlockAndNotify()
	return nil
}

// RecordRunningTime stores the duration shown next to the progress bar.
func (s *Store) RecordRunningTime(d time.Duration) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.state.RunningTime = d
	s.state.TagPlan, s.state.ContentPlan = diff.Plan[int]{}, diff.Plan[content.Category]{}
	s.unlockAndNotify()
}

// UpdateProgress sets the progress percentage for elapsed playback time.
// Reaching the full running time while playing stops playback as if the
// user had toggled it, without calling the player.
func (s *Store) UpdateProgress(elapsed time.Duration) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	progress := 0
	if s.state.RunningTime > 0 && elapsed > 0 {
		progress = int(elapsed * 100 / s.state.RunningTime)
	}
	progress = min(progress, 100)
	s.state.Progress = progress
	s.state.TagPlan, s.state.ContentPlan = diff.Plan[int]{}, diff.Plan[content.Category]{}

	if progress == 100 && s.machine.Finish() {
		if s.session != nil {
			s.session.Release()
		}
		s.state.Playback = playback.Stopped
		s.reprojectLocked()
	}
	s.unlockAndNotify()
}

// Close detaches every observer and stops playback. Loads and deletes still
// in flight complete without touching state.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.observers = nil
	if err := s.machine.Reset(); err != nil {
		return fmt.Errorf("stop playback on close: %w", err)
	}
	return nil
}

// unlockAndNotify releases s.mu and delivers the current state to every
// observer. Must be called with s.mu held.
func (s *Store) unlockAndNotify() {
	snap := s.state.clone()
	observers := append([]observer(nil), s.observers...)
	s.mu.Unlock()

	for _, o := range observers {
		o.fn(snap)
	}
}
