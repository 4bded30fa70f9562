package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"recordream/internal/audio"
	"recordream/internal/audio/portaudio"
	"recordream/internal/detail"
	"recordream/internal/playback"
)

const progressInterval = 250 * time.Millisecond

func (a *app) playCommand() *cobra.Command {
	var volume float64

	cmd := &cobra.Command{
		Use:   "play <id>",
		Short: "Play the voice recording attached to a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.play(cmd, args[0], volume)
		},
	}
	cmd.Flags().Float64Var(&volume, "volume", 1, "playback gain")
	return cmd
}

func (a *app) play(cmd *cobra.Command, id string, volume float64) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	player, err := portaudio.Open(volume)
	if err != nil {
		return err
	}
	defer func() {
		_ = player.Close()
	}()

	cache := audio.NewCache(a.cfg.AudioDir, a.cfg.RequestTimeout)
	store := detail.NewStore(a.remoteClient(), player, cache)
	defer func() {
		_ = store.Close()
	}()

	if err := store.Load(ctx, id); err != nil {
		return err
	}
	if err := store.TogglePlayback(ctx); err != nil {
		return err
	}

	st := store.Snapshot()
	fmt.Fprintf(out, "playing %q (%s)\n", st.Title, st.RunningTime.Round(time.Second))

	return waitForFinish(ctx, store, func(progress int) {
		fmt.Fprintf(out, "\r%3d%%", progress)
	})
}

// waitForFinish drives the progress of store until playback stops or ctx is
// done.
func waitForFinish(ctx context.Context, store *detail.Store, report func(int)) error {
	start := time.Now()
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			store.UpdateProgress(time.Since(start))
			st := store.Snapshot()
			report(st.Progress)
			if st.Playback == playback.Stopped {
				return nil
			}
		}
	}
}
