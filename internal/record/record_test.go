package record

import (
	"encoding/json"
	"testing"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "wrapped", raw: "(2024-01-01)", want: "2024-01-01"},
		{name: "weekday suffix", raw: "2023/01/15 (SUN)", want: "2023/01/15 SUN"},
		{name: "nested", raw: "((a)b)", want: "ab"},
		{name: "no parens", raw: "2024-01-01", want: "2024-01-01"},
		{name: "empty", raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDate(tt.raw); got != tt.want {
				t.Errorf("FormatDate(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDetailDTO_ToDomain(t *testing.T) {
	payload := `{"_id":"r1","title":"flying","date":"(2024-01-01)","content":null,"note":"n","genre":[1,2],"voice":{"_id":"v1","url":"http://x/v1.wav"}}`

	var dto DetailDTO
	if err := json.Unmarshal([]byte(payload), &dto); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	rec := dto.ToDomain()

	if rec.Content != "" {
		t.Errorf("Content = %q, want empty", rec.Content)
	}
	if rec.Emotion != 0 {
		t.Errorf("Emotion = %d, want 0 for missing emotion", rec.Emotion)
	}
	if rec.Note != "n" {
		t.Errorf("Note = %q, want n", rec.Note)
	}
	if !rec.HasVoice() || rec.VoiceURL() != "http://x/v1.wav" {
		t.Errorf("Voice = %+v, want url http://x/v1.wav", rec.Voice)
	}
	if len(rec.Genre) != 2 || rec.Genre[0] != 1 || rec.Genre[1] != 2 {
		t.Errorf("Genre = %v, want [1 2]", rec.Genre)
	}
}

func TestDetailRecord_NoVoice(t *testing.T) {
	rec := DetailRecord{ID: "r1"}
	if rec.HasVoice() {
		t.Error("HasVoice() = true, want false")
	}
	if rec.VoiceURL() != "" {
		t.Errorf("VoiceURL() = %q, want empty", rec.VoiceURL())
	}
}

func TestHomeRecord_Equal(t *testing.T) {
	base := HomeRecord{ID: "1", Emotion: 2, Title: "t", Genre: []int{1, 3}}

	same := base
	same.Genre = []int{1, 3}
	if !base.Equal(same) {
		t.Error("Equal() = false for identical values")
	}

	changed := base
	changed.Genre = []int{1, 4}
	if base.Equal(changed) {
		t.Error("Equal() = true for different genre")
	}

	retitled := base
	retitled.Title = "other"
	if base.Equal(retitled) {
		t.Error("Equal() = true for different title")
	}
}
