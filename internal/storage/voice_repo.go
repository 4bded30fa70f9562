package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// VoiceRepo provides methods for voice recording operations.
type VoiceRepo struct {
	db *sql.DB
}

// NewVoiceRepo creates a new VoiceRepo.
func NewVoiceRepo(db *sql.DB) *VoiceRepo {
	return &VoiceRepo{db: db}
}

// Create registers a recording available at url.
func (r *VoiceRepo) Create(ctx context.Context, url string) (VoiceRow, error) {
	id := uuid.New().String()
	if _, err := r.db.ExecContext(ctx, "INSERT INTO voices (id, url) VALUES (?, ?)", id, url); err != nil {
		return VoiceRow{}, fmt.Errorf("failed to insert voice: %w", err)
	}

	voice, err := r.Get(ctx, id)
	if err != nil {
		return VoiceRow{}, err
	}
	return *voice, nil
}

// Get gets a voice by ID. Returns nil and ErrNotFound if not found.
func (r *VoiceRepo) Get(ctx context.Context, id string) (*VoiceRow, error) {
	var voice VoiceRow
	err := r.db.QueryRowContext(ctx,
		"SELECT id, url, created_at FROM voices WHERE id = ?",
		id,
	).Scan(&voice.ID, &voice.URL, &voice.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query voice: %w", err)
	}
	return &voice, nil
}
