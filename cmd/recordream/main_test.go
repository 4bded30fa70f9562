package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"recordream/internal/detail"
	"recordream/internal/feed"
	"recordream/internal/playback"
	"recordream/internal/record"
)

type fakeSource struct {
	rec record.DetailRecord
}

func (f fakeSource) FetchDetail(context.Context, string) (record.DetailRecord, error) {
	return f.rec, nil
}

func (f fakeSource) DeleteDetail(context.Context, string) error { return nil }

type shortPlayer struct{}

func (shortPlayer) Play(context.Context, string) error     { return nil }
func (shortPlayer) Stop() error                            { return nil }
func (shortPlayer) Duration(string) (time.Duration, error) { return 50 * time.Millisecond, nil }

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"serve", "show", "feed", "play"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Find(%q) = %v, %v", name, cmd, err)
		}
	}
}

func TestPrintState(t *testing.T) {
	store := detail.NewStore(fakeSource{rec: record.DetailRecord{
		ID:      "r1",
		Title:   "Falling",
		Date:    "2023.05.06 (Sat)",
		Content: "down a well",
		Genre:   []int{6, 99},
		Voice:   &record.Voice{ID: "v", URL: "http://x/v.wav"},
	}}, nil, nil)
	defer func() {
		_ = store.Close()
	}()
	if err := store.Load(context.Background(), "r1"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	var buf bytes.Buffer
	printState(&buf, store.Snapshot())

	out := buf.String()
	for _, want := range []string{"2023.05.06 Sat", "Falling", "HORROR, ETC", "voice: http://x/v.wav (stopped)", "[My dream record]", "down a well", "[Note]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWaitForFinish(t *testing.T) {
	store := detail.NewStore(fakeSource{rec: record.DetailRecord{
		ID:    "r1",
		Voice: &record.Voice{ID: "v", URL: "/tmp/v.wav"},
	}}, shortPlayer{}, nil)
	defer func() {
		_ = store.Close()
	}()

	ctx := context.Background()
	if err := store.Load(ctx, "r1"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := store.TogglePlayback(ctx); err != nil {
		t.Fatalf("TogglePlayback() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var last int
	if err := waitForFinish(ctx, store, func(p int) { last = p }); err != nil {
		t.Fatalf("waitForFinish() error = %v", err)
	}
	if last != 100 {
		t.Errorf("last progress = %d, want 100", last)
	}
	if store.Snapshot().Playback != playback.Stopped {
		t.Error("playback should have finished")
	}
}

func TestPrintCards(t *testing.T) {
	cards := []feed.Card{
		feed.Project(record.HomeRecord{ID: "r1", Title: "Flying", Date: "2023.01.02", Emotion: 1, Genre: []int{1, 2}}),
		feed.Project(record.HomeRecord{ID: "r2", Title: "Lost", Date: "2023.01.03", Genre: []int{0}}),
	}

	var buf bytes.Buffer
	printCards(&buf, cards)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[0], "BACKGROUND") {
		t.Errorf("header = %q", lines[0])
	}
	for _, want := range []string{"r1", "Flying", "#COMEDY #ROMANCE", string(cards[0].Background)} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("row 1 missing %q: %q", want, lines[1])
		}
	}
	if !strings.Contains(lines[2], "#ALL") {
		t.Errorf("row 2 = %q, want #ALL tag", lines[2])
	}
}
