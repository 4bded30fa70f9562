package handlers

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_record_service.go -package=mocks recordream/internal/handlers RecordService

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"recordream/internal/contextutil"
	"recordream/internal/record"
	"recordream/internal/service"
)

// RecordService is the business layer the record endpoints call.
type RecordService interface {
	Get(ctx context.Context, id string) (record.DetailRecord, error)
	List(ctx context.Context) ([]record.HomeRecord, error)
	Create(ctx context.Context, rec record.NewRecord) (string, error)
	Delete(ctx context.Context, id string) error
	RegisterVoice(ctx context.Context, url string) (record.Voice, error)
}

// RecordHandler serves the record JSON API.
type RecordHandler struct {
	records RecordService
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(records RecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// VoiceRequest is the body of POST /voice.
type VoiceRequest struct {
	URL string `json:"url"`
}

// Get handles GET /record/{id}.
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rec, err := h.records.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to get record")
		return
	}
	writeData(w, ctx, http.StatusOK, "record found", record.DetailFromDomain(rec))
}

// List handles GET /record/storage.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cards, err := h.records.List(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list records")
		return
	}

	data := record.HomeDTO{Records: make([]record.HomeCardDTO, 0, len(cards))}
	for _, card := range cards {
		data.Records = append(data.Records, record.HomeCardFromDomain(card))
	}
	writeData(w, ctx, http.StatusOK, "records found", data)
}

// Create handles POST /record.
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req record.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.records.Create(ctx, req.ToDomain())
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to create record")
		return
	}
	writeData(w, ctx, http.StatusCreated, "record created", record.CreatedDTO{ID: id})
}

// Delete handles DELETE /record/{id}.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.records.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, ctx, err, "Failed to delete record")
		return
	}
	writeData[any](w, ctx, http.StatusOK, "record deleted", nil)
}

// CreateVoice handles POST /voice.
func (h *RecordHandler) CreateVoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req VoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	voice, err := h.records.RegisterVoice(ctx, req.URL)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to register voice")
		return
	}
	writeData(w, ctx, http.StatusCreated, "voice registered", record.VoiceDTO{ID: voice.ID, URL: voice.URL})
}

// handleServiceError maps service errors to appropriate HTTP status codes and responses.
func handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "service error", "error", err)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
		return
	}

	if errors.Is(err, service.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if errors.Is(err, service.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}

	if errors.Is(err, service.ErrExternalService) {
		writeError(w, http.StatusBadGateway, "External service error")
		return
	}

	writeError(w, http.StatusInternalServerError, defaultMsg)
}

func writeData[T any](w http.ResponseWriter, ctx context.Context, status int, message string, data T) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(record.Envelope[T]{
		Status:  status,
		Success: true,
		Message: message,
		Data:    data,
	})
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error envelope.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(record.Envelope[any]{
		Status:  statusCode,
		Success: false,
		Message: message,
	})
}
