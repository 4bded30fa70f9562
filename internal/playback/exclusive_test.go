package playback_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"recordream/internal/playback"
	"recordream/internal/playback/mocks"

	"go.uber.org/mock/gomock"
)

func TestExclusive_StartingSecondSessionStopsFirst(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	player := mocks.NewMockPlayer(ctrl)
	gomock.InOrder(
		player.EXPECT().Play(gomock.Any(), "a.wav").Return(nil),
		player.EXPECT().Stop().Return(nil),
		player.EXPECT().Play(gomock.Any(), "b.wav").Return(nil),
	)

	ex := playback.NewExclusive(player)
	preempted := make(chan struct{}, 1)
	first := ex.Session(func(uint64) { preempted <- struct{}{} })
	second := ex.Session(nil)

	ctx := context.Background()
	if err := first.Play(ctx, "a.wav"); err != nil {
		t.Fatalf("first.Play() error = %v", err)
	}
	if err := second.Play(ctx, "b.wav"); err != nil {
		t.Fatalf("second.Play() error = %v", err)
	}

	select {
	case <-preempted:
	case <-time.After(time.Second):
		t.Fatal("first session was not notified of preemption")
	}
	if ex.Active(first) {
		t.Error("first session still active")
	}
	if !ex.Active(second) {
		t.Error("second session not active")
	}

	// The preempted session no longer owns the player.
	if err := first.Stop(); err != nil {
		t.Errorf("first.Stop() error = %v", err)
	}
}

func TestExclusive_SameSessionReplays(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	player := mocks.NewMockPlayer(ctrl)
	player.EXPECT().Play(gomock.Any(), "a.wav").Return(nil).Times(2)
	player.EXPECT().Stop().Times(0)

	ex := playback.NewExclusive(player)
	s := ex.Session(func(uint64) { t.Error("session preempted by itself") })

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := s.Play(ctx, "a.wav"); err != nil {
			t.Fatalf("Play() error = %v", err)
		}
	}
}

func TestSession_ReleaseAndDuration(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	player := mocks.NewMockPlayer(ctrl)
	player.EXPECT().Play(gomock.Any(), "a.wav").Return(nil)
	player.EXPECT().Duration("a.wav").Return(2*time.Second, nil)

	ex := playback.NewExclusive(player)
	s := ex.Session(nil)
	if err := s.Play(context.Background(), "a.wav"); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	d, err := s.Duration("a.wav")
	if err != nil || d != 2*time.Second {
		t.Errorf("Duration() = %v, %v; want 2s, nil", d, err)
	}
	s.Release()
	if ex.Active(s) {
		t.Error("session still active after Release()")
	}
	// Stop after release must not reach the player.
	if err := s.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestExclusive_StopFailureKeepsPreviousOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	busy := errors.New("device busy")
	player := mocks.NewMockPlayer(ctrl)
	gomock.InOrder(
		player.EXPECT().Play(gomock.Any(), "a.wav").Return(nil),
		player.EXPECT().Stop().Return(busy),
	)

	ex := playback.NewExclusive(player)
	first := ex.Session(func(uint64) { t.Error("owner notified although it kept the player") })
	second := ex.Session(nil)

	ctx := context.Background()
	if err := first.Play(ctx, "a.wav"); err != nil {
		t.Fatalf("first.Play() error = %v", err)
	}
	if err := second.Play(ctx, "b.wav"); !errors.Is(err, busy) {
		t.Fatalf("second.Play() error = %v, want %v", err, busy)
	}

	if !ex.Active(first) {
		t.Error("first session lost the player although it was never stopped")
	}
	if ex.Active(second) {
		t.Error("second session active after a failed takeover")
	}
	if first.Epoch() != 1 || second.Epoch() != 0 {
		t.Errorf("epochs = %d/%d, want 1/0", first.Epoch(), second.Epoch())
	}
}

func TestExclusive_PreemptCarriesEpoch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	player := mocks.NewMockPlayer(ctrl)
	player.EXPECT().Play(gomock.Any(), gomock.Any()).Return(nil).Times(3)
	player.EXPECT().Stop().Return(nil).Times(2)

	ex := playback.NewExclusive(player)
	firstEpochs := make(chan uint64, 1)
	secondEpochs := make(chan uint64, 1)
	first := ex.Session(func(epoch uint64) { firstEpochs <- epoch })
	second := ex.Session(func(epoch uint64) { secondEpochs <- epoch })

	ctx := context.Background()
	for _, step := range []struct {
		s    *playback.Session
		path string
	}{
		{first, "a.wav"},
		{second, "b.wav"},
		{first, "a.wav"},
	} {
		if err := step.s.Play(ctx, step.path); err != nil {
			t.Fatalf("Play(%s) error = %v", step.path, err)
		}
	}

	for name, ch := range map[string]chan uint64{"first": firstEpochs, "second": secondEpochs} {
		select {
		case epoch := <-ch:
			if epoch != 1 {
				t.Errorf("%s preempted at epoch %d, want 1", name, epoch)
			}
		case <-time.After(time.Second):
			t.Fatalf("%s session was not notified", name)
		}
	}
	if got := first.Epoch(); got != 2 {
		t.Errorf("first.Epoch() = %d, want 2", got)
	}
}
