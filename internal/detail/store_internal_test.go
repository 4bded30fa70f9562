package detail

import (
	"context"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"recordream/internal/playback"
	playbackmocks "recordream/internal/playback/mocks"
	"recordream/internal/record"
)

type staticSource struct {
	rec record.DetailRecord
}

func (s staticSource) FetchDetail(context.Context, string) (record.DetailRecord, error) {
	return s.rec, nil
}

func (s staticSource) DeleteDetail(context.Context, string) error { return nil }

func TestStore_StalePreemptionIsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	player := playbackmocks.NewMockPlayer(ctrl)
	player.EXPECT().Duration("A.wav").Return(time.Second, nil).Times(2)
	player.EXPECT().Play(gomock.Any(), "A.wav").Return(nil).Times(2)
	player.EXPECT().Stop().Return(nil)

	src := staticSource{rec: record.DetailRecord{ID: "A", Voice: &record.Voice{ID: "v", URL: "A.wav"}}}
	s := NewSharedStore(src, playback.NewExclusive(player), nil)
	ctx := context.Background()
	if err := s.Load(ctx, "A"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// play, stop, play again: a preemption from the first round is stale
	for i := 0; i < 3; i++ {
		if err := s.TogglePlayback(ctx); err != nil {
			t.Fatalf("TogglePlayback() #%d error = %v", i+1, err)
		}
	}
	current := s.session.Epoch()
	if current != 2 {
		t.Fatalf("Epoch() = %d, want 2", current)
	}

	s.preempted(current - 1)
	if got := s.Snapshot().Playback; got != playback.Playing {
		t.Errorf("stale preemption moved playback to %v", got)
	}

	s.preempted(current)
	if got := s.Snapshot().Playback; got != playback.Stopped {
		t.Errorf("current preemption left playback %v", got)
	}
}
