// Package content builds the two content panes of a detail record.
package content

import (
	"recordream/internal/playback"
	"recordream/internal/record"
)

// Category identifies a content pane.
type Category int

const (
	DreamRecord Category = iota
	Note
)

// Label is the pane title shown in the tab strip.
func (c Category) Label() string {
	if c == Note {
		return "Note"
	}
	return "My dream record"
}

func (c Category) String() string {
	if c == Note {
		return "NOTE"
	}
	return "DREAM_RECORD"
}

// Item is one content pane.
type Item struct {
	Category Category
	Text     string
	HasVoice bool
	Playback playback.State
}

// Project derives the panes of rec. It always returns the dream record pane
// followed by the note pane, both carrying state, so the panes cannot
// disagree about playback.
func Project(rec record.DetailRecord, state playback.State) []Item {
	hasVoice := rec.HasVoice()
	return []Item{
		{Category: DreamRecord, Text: rec.Content, HasVoice: hasVoice, Playback: state},
		{Category: Note, Text: rec.Note, HasVoice: hasVoice, Playback: state},
	}
}

// Default is the projection shown before any record has loaded.
func Default() []Item {
	return Project(record.DetailRecord{}, playback.Stopped)
}

// Key is the pager identity of an item.
func Key(it Item) Category {
	return it.Category
}

// Equal is full value equality for pager reconciliation.
func Equal(a, b Item) bool {
	return a == b
}
