package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"recordream/internal/record"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func TestRecordRepo_InsertAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	voice, err := NewVoiceRepo(db).Create(ctx, "https://cdn.example.com/v/1.wav")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	repo := NewRecordRepo(db)

	tests := []struct {
		name  string
		input record.NewRecord
		check func(*testing.T, *record.DetailRecord)
	}{
		{
			name: "with voice and genres",
			input: record.NewRecord{
				Title:   "flying",
				Date:    "(2024-01-01)",
				Content: "over the sea",
				Note:    "calm",
				Emotion: 1,
				Genre:   []int{3, 1, 3},
				VoiceID: voice.ID,
			},
			check: func(t *testing.T, got *record.DetailRecord) {
				if got.Voice == nil || got.Voice.URL != "https://cdn.example.com/v/1.wav" {
					t.Errorf("Voice = %+v", got.Voice)
				}
				if !reflect.DeepEqual(got.Genre, []int{3, 1, 3}) {
					t.Errorf("Genre = %v, want order and duplicates kept", got.Genre)
				}
				if got.Date != "(2024-01-01)" {
					t.Errorf("Date = %q, want raw value", got.Date)
				}
			},
		},
		{
			name:  "without voice or genres",
			input: record.NewRecord{Title: "quiet", Date: "2024-02-02"},
			check: func(t *testing.T, got *record.DetailRecord) {
				if got.HasVoice() {
					t.Errorf("Voice = %+v, want nil", got.Voice)
				}
				if len(got.Genre) != 0 || got.Content != "" || got.Emotion != 0 {
					t.Errorf("Get() = %+v", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := repo.Insert(ctx, tt.input)
			if err != nil {
				t.Fatalf("Insert() error = %v", err)
			}
			if id == "" {
				t.Fatal("Insert() returned empty id")
			}

			got, err := repo.Get(ctx, id)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.ID != id || got.Title != tt.input.Title {
				t.Errorf("Get() = %+v", got)
			}
			tt.check(t, got)
		})
	}
}

func TestRecordRepo_InsertUnknownVoice(t *testing.T) {
	repo := NewRecordRepo(newTestDB(t))
	if _, err := repo.Insert(context.Background(), record.NewRecord{Title: "x", Date: "d", VoiceID: "missing"}); err == nil {
		t.Error("Insert() with unknown voice should fail the foreign key")
	}
}

func TestRecordRepo_GetNotFound(t *testing.T) {
	repo := NewRecordRepo(newTestDB(t))
	got, err := repo.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	if got != nil {
		t.Errorf("Get() = %+v, want nil", got)
	}
}

func TestRecordRepo_List(t *testing.T) {
	repo := NewRecordRepo(newTestDB(t))
	ctx := context.Background()

	first, err := repo.Insert(ctx, record.NewRecord{Title: "first", Date: "d1", Genre: []int{1, 2}})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	second, err := repo.Insert(ctx, record.NewRecord{Title: "second", Date: "d2", Content: "c", Emotion: 4})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	cards, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("List() returned %d cards, want 2", len(cards))
	}
	if cards[0].ID != second || cards[1].ID != first {
		t.Errorf("List() order = %s,%s; want newest first", cards[0].ID, cards[1].ID)
	}
	if !reflect.DeepEqual(cards[1].Genre, []int{1, 2}) || len(cards[0].Genre) != 0 {
		t.Errorf("List() genres = %v / %v", cards[0].Genre, cards[1].Genre)
	}
	if cards[0].Emotion != 4 || cards[0].Content != "c" {
		t.Errorf("List() card = %+v", cards[0])
	}
}

func TestRecordRepo_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecordRepo(db)
	ctx := context.Background()

	id, err := repo.Insert(ctx, record.NewRecord{Title: "gone", Date: "d", Genre: []int{5}})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete() error = %v, want ErrNotFound", err)
	}

	var genres int
	if err := db.QueryRow("SELECT COUNT(*) FROM record_genres WHERE record_id = ?", id).Scan(&genres); err != nil {
		t.Fatalf("count genres: %v", err)
	}
	if genres != 0 {
		t.Errorf("Delete() left %d genre rows", genres)
	}

	if err := repo.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
