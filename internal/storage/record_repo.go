package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"recordream/internal/record"
)

var (
	// ErrNotFound is returned when a row is not found.
	ErrNotFound = errors.New("record not found")
)

// RecordRepo provides methods for dream record operations.
// It implements service.RecordStore.
type RecordRepo struct {
	db *sql.DB
}

// NewRecordRepo creates a new RecordRepo.
func NewRecordRepo(db *sql.DB) *RecordRepo {
	return &RecordRepo{db: db}
}

// Get gets a record with its genres and voice.
// Returns nil and ErrNotFound if not found.
func (r *RecordRepo) Get(ctx context.Context, id string) (*record.DetailRecord, error) {
	var (
		rec               record.DetailRecord
		content, note     sql.NullString
		voiceID, voiceURL sql.NullString
	)

	err := r.db.QueryRowContext(ctx,
		`SELECT r.id, r.title, r.date, r.content, r.note, r.emotion, v.id, v.url
		 FROM records r LEFT JOIN voices v ON v.id = r.voice_id
		 WHERE r.id = ?`,
		id,
	).Scan(&rec.ID, &rec.Title, &rec.Date, &content, &note, &rec.Emotion, &voiceID, &voiceURL)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}

	rec.Content = content.String
	rec.Note = note.String
	if voiceID.Valid {
		rec.Voice = &record.Voice{ID: voiceID.String, URL: voiceURL.String}
	}

	genres, err := r.genres(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Genre = genres

	return &rec, nil
}

func (r *RecordRepo) genres(ctx context.Context, id string) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT code FROM record_genres WHERE record_id = ? ORDER BY position",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	genres := []int{}
	for rows.Next() {
		var code int
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, code)
	}
	return genres, rows.Err()
}

// List returns every record as a home card, newest first.
func (r *RecordRepo) List(ctx context.Context) ([]record.HomeRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, emotion, date, title, content FROM records ORDER BY created_at DESC, rowid DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	cards := []record.HomeRecord{}
	index := make(map[string]int)
	for rows.Next() {
		var card record.HomeRecord
		var content sql.NullString
		if err := rows.Scan(&card.ID, &card.Emotion, &card.Date, &card.Title, &content); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		card.Content = content.String
		card.Genre = []int{}
		index[card.ID] = len(cards)
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	genreRows, err := r.db.QueryContext(ctx,
		"SELECT record_id, code FROM record_genres ORDER BY record_id, position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	defer func() {
		_ = genreRows.Close()
	}()

	for genreRows.Next() {
		var id string
		var code int
		if err := genreRows.Scan(&id, &code); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		if i, ok := index[id]; ok {
			cards[i].Genre = append(cards[i].Genre, code)
		}
	}
	if err := genreRows.Err(); err != nil {
		return nil, err
	}

	return cards, nil
}

// Insert stores a new record and returns its generated ID.
func (r *RecordRepo) Insert(ctx context.Context, rec record.NewRecord) (string, error) {
	id := uuid.New().String()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var voiceID any
	if rec.VoiceID != "" {
		voiceID = rec.VoiceID
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO records (id, title, date, content, note, emotion, voice_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, rec.Title, rec.Date, rec.Content, rec.Note, rec.Emotion, voiceID,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert record: %w", err)
	}

	for pos, code := range rec.Genre {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO record_genres (record_id, position, code) VALUES (?, ?, ?)",
			id, pos, code,
		); err != nil {
			return "", fmt.Errorf("failed to insert genre: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit record: %w", err)
	}
	return id, nil
}

// Delete removes a record and its genres. Returns ErrNotFound if the record
// does not exist.
func (r *RecordRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM record_genres WHERE record_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete genres: %w", err)
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}
