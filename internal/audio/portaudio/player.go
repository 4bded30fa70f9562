// Package portaudio plays WAV voice recordings on the default output device.
package portaudio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"recordream/internal/audio"
	"recordream/internal/contextutil"
)

// Player plays one recording at a time. It must be closed to release the
// audio host.
type Player struct {
	mu     sync.Mutex
	stream *portaudio.Stream

	// buffer state is shared with the audio callback
	bufMu   sync.Mutex
	samples []int16
	pos     int
	volume  float64
}

// Open initializes the audio host.
func Open(volume float64) (*Player, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	if volume <= 0 {
		volume = 1
	}
	return &Player{volume: volume}, nil
}

// Duration reports the length of the WAV file at path.
func (p *Player) Duration(path string) (time.Duration, error) {
	return audio.Duration(path)
}

// Play starts playing the WAV file at path, replacing any current playback.
func (p *Player) Play(ctx context.Context, path string) error {
	logger := contextutil.LoggerFromContext(ctx)

	w, err := audio.OpenWAV(path, true)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.stopLocked(); err != nil {
		logger.WarnContext(ctx, "failed to stop previous stream", "error", err)
	}

	out, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return fmt.Errorf("no output device: %w", err)
	}

	params := portaudio.HighLatencyParameters(nil, out)
	params.SampleRate = float64(w.SampleRate)
	params.Output.Channels = w.Channels
	params.FramesPerBuffer = 1024

	p.bufMu.Lock()
	p.samples = w.Samples
	p.pos = 0
	p.bufMu.Unlock()

	stream, err := portaudio.OpenStream(params, p.fill)
	if err != nil {
		return fmt.Errorf("open playback stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return fmt.Errorf("start playback: %w", err)
	}
	p.stream = stream

	logger.InfoContext(ctx, "playback started", "path", path, "sample_rate", w.SampleRate, "channels", w.Channels)
	return nil
}

// Stop stops the current playback, if any.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopLocked()
}

func (p *Player) stopLocked() error {
	if p.stream == nil {
		return nil
	}
	stream := p.stream
	p.stream = nil
	if err := stream.Stop(); err != nil {
		_ = stream.Close()
		return fmt.Errorf("stop playback stream: %w", err)
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("close playback stream: %w", err)
	}
	return nil
}

// Close stops playback and terminates the audio host.
func (p *Player) Close() error {
	stopErr := p.Stop()
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("terminate portaudio: %w", err)
	}
	return stopErr
}

// fill is the output callback; past the end of the recording it writes
// silence.
func (p *Player) fill(out []int16) {
	p.bufMu.Lock()
	defer p.bufMu.Unlock()

	for i := range out {
		if p.pos >= len(p.samples) {
			out[i] = 0
			continue
		}
		sample := float64(p.samples[p.pos]) * p.volume
		if sample > 32767 {
			sample = 32767
		} else if sample < -32768 {
			sample = -32768
		}
		out[i] = int16(sample)
		p.pos++
	}
}
