// Package feed projects the home feed cards and reconciles them between
// refreshes.
package feed

import (
	"context"
	"fmt"

	"recordream/internal/contextutil"
	"recordream/internal/diff"
	"recordream/internal/emotion"
	"recordream/internal/record"
)

// MaxCardTags is the number of genre labels a card has room for.
const MaxCardTags = 3

// Source supplies the home feed.
type Source interface {
	FetchHome(ctx context.Context) ([]record.HomeRecord, error)
}

// Card is the display form of one home feed record.
type Card struct {
	ID         string
	Title      string
	Date       string
	Content    string
	Background emotion.Asset
	Icon       emotion.Asset
	Tags       []string
}

// Project builds the card for rec.
func Project(rec record.HomeRecord) Card {
	tags := emotion.ResolveTags(rec.Genre)
	if len(tags) > MaxCardTags {
		tags = tags[:MaxCardTags]
	}
	labels := make([]string, 0, len(tags))
	for _, tag := range tags {
		labels = append(labels, "#"+tag.Label)
	}
	return Card{
		ID:         rec.ID,
		Title:      rec.Title,
		Date:       rec.Date,
		Content:    rec.Content,
		Background: emotion.CardBackground(rec.Emotion),
		Icon:       emotion.Icon(rec.Emotion),
		Tags:       labels,
	}
}

// Update is the result of one refresh.
type Update struct {
	Cards []Card
	Plan  diff.Plan[string]
}

// Feed keeps the last rendered card list.
type Feed struct {
	source Source
	list   *diff.List[record.HomeRecord, string]
}

// New creates an empty feed.
func New(source Source) *Feed {
	return &Feed{
		source: source,
		list: diff.NewList(
			func(r record.HomeRecord) string { return r.ID },
			func(a, b record.HomeRecord) bool { return a.Equal(b) },
		),
	}
}

// Refresh fetches the feed and returns the cards with the plan against the
// previous refresh. On error the previous snapshot is kept.
func (f *Feed) Refresh(ctx context.Context) (Update, error) {
	logger := contextutil.LoggerFromContext(ctx)

	records, err := f.source.FetchHome(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to refresh home feed", "error", err)
		return Update{}, fmt.Errorf("refresh feed: %w", err)
	}

	plan := f.list.Submit(records)
	cards := make([]Card, 0, len(records))
	for _, rec := range records {
		cards = append(cards, Project(rec))
	}

	logger.DebugContext(ctx, "home feed refreshed",
		"cards", len(cards),
		"inserted", len(plan.Inserted),
		"removed", len(plan.Removed),
		"changed", len(plan.Changed),
		"moved", len(plan.Moved))
	return Update{Cards: cards, Plan: plan}, nil
}

// Cards returns the cards of the last successful refresh.
func (f *Feed) Cards() []Card {
	records := f.list.Items()
	cards := make([]Card, 0, len(records))
	for _, rec := range records {
		cards = append(cards, Project(rec))
	}
	return cards
}
