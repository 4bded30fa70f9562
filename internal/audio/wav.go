// Package audio reads voice recordings and keeps local copies of remote
// ones.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// ErrNotWAV is returned for input that is not a PCM RIFF/WAVE file.
var ErrNotWAV = errors.New("audio: not a valid WAV file")

// WAV is a decoded 16-bit PCM recording.
type WAV struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	Samples       []int16
	dataSize      int64
}

// Duration is the play time of the recording.
func (w WAV) Duration() time.Duration {
	bytesPerSec := int64(w.SampleRate) * int64(w.Channels) * int64(w.BitsPerSample) / 8
	if bytesPerSec == 0 {
		return 0
	}
	return time.Duration(w.dataSize * int64(time.Second) / bytesPerSec)
}

// ReadWAV decodes a WAV stream. Chunks other than "fmt " and "data" are
// skipped. When withSamples is false only the header is parsed.
func ReadWAV(r io.Reader, withSamples bool) (WAV, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return WAV{}, fmt.Errorf("read RIFF header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return WAV{}, ErrNotWAV
	}

	var w WAV
	haveFmt := false
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			return WAV{}, fmt.Errorf("read chunk header: %w", err)
		}
		id := string(chunk[0:4])
		size := int64(binary.LittleEndian.Uint32(chunk[4:8]))

		switch id {
		case "fmt ":
			if size < 16 {
				return WAV{}, ErrNotWAV
			}
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return WAV{}, fmt.Errorf("read fmt chunk: %w", err)
			}
			w.Channels = int(binary.LittleEndian.Uint16(body[2:4]))
			w.SampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			w.BitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))
			haveFmt = true
		case "data":
			if !haveFmt {
				return WAV{}, ErrNotWAV
			}
			w.dataSize = size
			if !withSamples {
				return w, nil
			}
			if w.BitsPerSample != 16 {
				return WAV{}, fmt.Errorf("audio: unsupported bit depth %d", w.BitsPerSample)
			}
			raw := make([]byte, size)
			if _, err := io.ReadFull(r, raw); err != nil {
				return WAV{}, fmt.Errorf("read data chunk: %w", err)
			}
			w.Samples = make([]int16, len(raw)/2)
			for i := range w.Samples {
				w.Samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
			}
			return w, nil
		default:
			// chunks are padded to an even size
			if _, err := io.CopyN(io.Discard, r, size+size%2); err != nil {
				return WAV{}, fmt.Errorf("skip %q chunk: %w", id, err)
			}
		}
	}
}

// OpenWAV decodes the file at path.
func OpenWAV(path string, withSamples bool) (WAV, error) {
	file, err := os.Open(path)
	if err != nil {
		return WAV{}, err
	}
	defer func() {
		_ = file.Close()
	}()
	return ReadWAV(file, withSamples)
}

// Duration reports the play time of the WAV file at path without reading
// its samples.
func Duration(path string) (time.Duration, error) {
	w, err := OpenWAV(path, false)
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", path, err)
	}
	return w.Duration(), nil
}
