package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_stores.go -package=mocks recordream/internal/service RecordStore,VoiceStore

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"

	"recordream/internal/contextutil"
	"recordream/internal/emotion"
	"recordream/internal/record"
	"recordream/internal/storage"
)

const (
	maxTitleLength = 25
	maxGenres      = 3
	maxGenreCode   = 10
)

// RecordStore persists dream records.
// This interface is defined from the service layer's perspective (consumer-first).
type RecordStore interface {
	Get(ctx context.Context, id string) (*record.DetailRecord, error)
	List(ctx context.Context) ([]record.HomeRecord, error)
	Insert(ctx context.Context, rec record.NewRecord) (string, error)
	Delete(ctx context.Context, id string) error
}

// VoiceStore persists uploaded voice recordings.
type VoiceStore interface {
	Get(ctx context.Context, id string) (*storage.VoiceRow, error)
	Create(ctx context.Context, url string) (storage.VoiceRow, error)
}

// RecordService is the business layer of the record API.
type RecordService struct {
	records RecordStore
	voices  VoiceStore
}

// NewRecordService creates a new RecordService.
func NewRecordService(records RecordStore, voices VoiceStore) *RecordService {
	return &RecordService{records: records, voices: voices}
}

// Get returns one record.
func (s *RecordService) Get(ctx context.Context, id string) (record.DetailRecord, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(id) == "" {
		return record.DetailRecord{}, &ValidationError{Field: "id", Message: "cannot be empty"}
	}

	rec, err := s.records.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return record.DetailRecord{}, WrapError(ErrNotFound, "record "+id)
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to get record", "record_id", id, "error", err)
		return record.DetailRecord{}, WrapError(err, "failed to get record")
	}
	return *rec, nil
}

// List returns the home feed, newest first.
func (s *RecordService) List(ctx context.Context) ([]record.HomeRecord, error) {
	logger := contextutil.LoggerFromContext(ctx)

	cards, err := s.records.List(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list records", "error", err)
		return nil, WrapError(err, "failed to list records")
	}
	return cards, nil
}

// Create validates and stores a new record, returning its ID.
func (s *RecordService) Create(ctx context.Context, rec record.NewRecord) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	rec.Title = strings.TrimSpace(rec.Title)
	if err := validateNewRecord(rec); err != nil {
		logger.WarnContext(ctx, "invalid record", "error", err)
		return "", err
	}

	if rec.VoiceID != "" {
		_, err := s.voices.Get(ctx, rec.VoiceID)
		if errors.Is(err, storage.ErrNotFound) {
			return "", &ValidationError{Field: "voice", Message: "unknown voice " + rec.VoiceID}
		}
		if err != nil {
			logger.ErrorContext(ctx, "failed to look up voice", "voice_id", rec.VoiceID, "error", err)
			return "", WrapError(err, "failed to look up voice")
		}
	}

	id, err := s.records.Insert(ctx, rec)
	if err != nil {
		logger.ErrorContext(ctx, "failed to insert record", "error", err)
		return "", WrapError(err, "failed to create record")
	}

	logger.InfoContext(ctx, "record created", "record_id", id, "genres", len(rec.Genre), "has_voice", rec.VoiceID != "")
	return id, nil
}

func validateNewRecord(rec record.NewRecord) error {
	if rec.Title == "" {
		return &ValidationError{Field: "title", Message: "cannot be empty"}
	}
	if utf8.RuneCountInString(rec.Title) > maxTitleLength {
		return &ValidationError{Field: "title", Message: "must be at most 25 characters"}
	}
	if strings.TrimSpace(rec.Date) == "" {
		return &ValidationError{Field: "date", Message: "cannot be empty"}
	}
	if rec.Emotion < 0 || rec.Emotion > 5 {
		return &ValidationError{Field: "emotion", Message: "must be between 0 and 5"}
	}
	if len(rec.Genre) > maxGenres {
		return &ValidationError{Field: "genre", Message: "at most 3 genres"}
	}
	for _, code := range rec.Genre {
		if code < emotion.AllGenresCode || code > maxGenreCode {
			return &ValidationError{Field: "genre", Message: "unknown genre code"}
		}
	}
	return nil
}

// Delete removes a record.
func (s *RecordService) Delete(ctx context.Context, id string) error {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(id) == "" {
		return &ValidationError{Field: "id", Message: "cannot be empty"}
	}

	err := s.records.Delete(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return WrapError(ErrNotFound, "record "+id)
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to delete record", "record_id", id, "error", err)
		return WrapError(err, "failed to delete record")
	}

	logger.InfoContext(ctx, "record deleted", "record_id", id)
	return nil
}

// RegisterVoice stores the location of an uploaded recording.
func (s *RecordService) RegisterVoice(ctx context.Context, rawURL string) (record.Voice, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return record.Voice{}, &ValidationError{Field: "url", Message: "must be an absolute http(s) URL"}
	}

	voice, err := s.voices.Create(ctx, rawURL)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to register voice", "error", err)
		return record.Voice{}, WrapError(err, "failed to register voice")
	}
	return record.Voice{ID: voice.ID, URL: voice.URL}, nil
}
