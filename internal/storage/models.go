package storage

import "time"

// VoiceRow is an uploaded voice recording.
type VoiceRow struct {
	ID        string // UUID
	URL       string // where clients download the recording from
	CreatedAt time.Time
}
