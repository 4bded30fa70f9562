package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"recordream/internal/contextutil"
	"recordream/internal/record"
)

// ErrNotFound is returned when the service has no record for an id.
var ErrNotFound = errors.New("remote: record not found")

// Client talks to the record service over HTTP.
type Client struct {
	BaseURL string
	Token   string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a record service client. ratePerSec <= 0 disables
// throttling.
func NewClient(baseURL, token string, ratePerSec float64, timeout time.Duration) *Client {
	limit := rate.Inf
	if ratePerSec > 0 {
		limit = rate.Limit(ratePerSec)
	}
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// FetchDetail fetches one record.
func (c *Client) FetchDetail(ctx context.Context, id string) (record.DetailRecord, error) {
	var env record.Envelope[record.DetailDTO]
	if err := c.do(ctx, http.MethodGet, "/record/"+url.PathEscape(id), nil, &env); err != nil {
		return record.DetailRecord{}, fmt.Errorf("fetch record %s: %w", id, err)
	}
	return env.Data.ToDomain(), nil
}

// DeleteDetail deletes one record.
func (c *Client) DeleteDetail(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/record/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	return nil
}

// FetchHome fetches the home feed cards.
func (c *Client) FetchHome(ctx context.Context) ([]record.HomeRecord, error) {
	var env record.Envelope[record.HomeDTO]
	if err := c.do(ctx, http.MethodGet, "/record/storage", nil, &env); err != nil {
		return nil, fmt.Errorf("fetch home: %w", err)
	}
	cards := make([]record.HomeRecord, 0, len(env.Data.Records))
	for _, dto := range env.Data.Records {
		cards = append(cards, dto.ToDomain())
	}
	return cards, nil
}

// CreateRecord creates a record and returns its id.
func (c *Client) CreateRecord(ctx context.Context, rec record.NewRecord) (string, error) {
	payload := record.CreateDTO{
		Title:   rec.Title,
		Date:    rec.Date,
		Content: rec.Content,
		Note:    rec.Note,
		Emotion: rec.Emotion,
		Genre:   rec.Genre,
		Voice:   rec.VoiceID,
	}
	var env record.Envelope[record.CreatedDTO]
	if err := c.do(ctx, http.MethodPost, "/record", payload, &env); err != nil {
		return "", fmt.Errorf("create record: %w", err)
	}
	return env.Data.ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	logger := contextutil.LoggerFromContext(ctx)

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.Token))
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		logger.DebugContext(ctx, "record service error", "method", method, "path", path, "status", resp.StatusCode)
		return fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
