package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// wavBytes builds a 16-bit PCM file, optionally with a LIST chunk before
// the data chunk.
func wavBytes(sampleRate, channels int, samples []int16, withList bool) []byte {
	var buf bytes.Buffer
	dataSize := len(samples) * 2

	var list []byte
	if withList {
		list = append([]byte("LIST"), 0, 0, 0, 0)
		binary.LittleEndian.PutUint32(list[4:8], 3)
		list = append(list, 'a', 'b', 'c', 0)
	}

	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+len(list)+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*channels*2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels*2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.Write(list)

	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	_ = binary.Write(&buf, binary.LittleEndian, samples)
	return buf.Bytes()
}

func TestReadWAV(t *testing.T) {
	samples := make([]int16, 8000)
	for i := range samples {
		samples[i] = int16(i)
	}

	tests := []struct {
		name    string
		input   []byte
		wantDur time.Duration
		wantErr bool
	}{
		{name: "mono one second", input: wavBytes(8000, 1, samples, false), wantDur: time.Second},
		{name: "stereo half second", input: wavBytes(8000, 2, samples, false), wantDur: 500 * time.Millisecond},
		{name: "skips extra chunks", input: wavBytes(8000, 1, samples, true), wantDur: time.Second},
		{name: "not riff", input: []byte("RIFX0000WAVEjunkjunk"), wantErr: true},
		{name: "truncated", input: []byte("RIFF"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ReadWAV(bytes.NewReader(tt.input), true)
			if tt.wantErr {
				if err == nil {
					t.Error("ReadWAV() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadWAV() error = %v", err)
			}
			if got := w.Duration(); got != tt.wantDur {
				t.Errorf("Duration() = %v, want %v", got, tt.wantDur)
			}
			if len(w.Samples) != len(samples) || w.Samples[42] != 42 {
				t.Errorf("Samples decoded incorrectly (len %d)", len(w.Samples))
			}
		})
	}
}

func TestReadWAV_NotWAV(t *testing.T) {
	_, err := ReadWAV(bytes.NewReader([]byte("RIFF\x00\x00\x00\x00AVI LIST")), false)
	if !errors.Is(err, ErrNotWAV) {
		t.Errorf("ReadWAV() error = %v, want ErrNotWAV", err)
	}
}

func TestDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v.wav")
	if err := os.WriteFile(path, wavBytes(4000, 1, make([]int16, 10000), false), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Duration(path)
	if err != nil {
		t.Fatalf("Duration() error = %v", err)
	}
	if got != 2500*time.Millisecond {
		t.Errorf("Duration() = %v, want 2.5s", got)
	}

	if _, err := Duration(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("Duration() of missing file expected error")
	}
}

func TestCache_Resolve(t *testing.T) {
	body := wavBytes(8000, 1, make([]int16, 800), false)
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write(body)
	}))
	defer server.Close()

	cache := NewCache(filepath.Join(t.TempDir(), "audio"), time.Second)
	ctx := context.Background()
	url := server.URL + "/voice/1.wav"

	var wg sync.WaitGroup
	paths := make([]string, 4)
	for i := range paths {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := cache.Resolve(ctx, url)
			if err != nil {
				t.Errorf("Resolve() error = %v", err)
			}
			paths[i] = p
		}(i)
	}
	wg.Wait()

	for _, p := range paths {
		if p != cache.Path(url) {
			t.Errorf("Resolve() = %q, want %q", p, cache.Path(url))
		}
	}
	if _, err := cache.Resolve(ctx, url); err != nil {
		t.Fatalf("cached Resolve() error = %v", err)
	}
	if got := hits.Load(); got < 1 || got > int32(len(paths)) {
		t.Errorf("server hits = %d", got)
	}
	before := hits.Load()
	if _, err := cache.Resolve(ctx, url); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if hits.Load() != before {
		t.Error("Resolve() downloaded a cached file again")
	}

	got, err := os.ReadFile(cache.Path(url))
	if err != nil {
		t.Fatalf("read cached file: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Error("cached file differs from served body")
	}
}

func TestCache_ResolveLocalPath(t *testing.T) {
	cache := NewCache(t.TempDir(), time.Second)
	got, err := cache.Resolve(context.Background(), "/tmp/local.wav")
	if err != nil || got != "/tmp/local.wav" {
		t.Errorf("Resolve() = %q, %v; want passthrough", got, err)
	}
}

func TestCache_ResolveBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cache := NewCache(t.TempDir(), time.Second)
	url := server.URL + "/gone.wav"
	if _, err := cache.Resolve(context.Background(), url); err == nil {
		t.Error("Resolve() expected error for 404")
	}
	if _, err := os.Stat(cache.Path(url)); !os.IsNotExist(err) {
		t.Error("failed download left a cached file")
	}
}
