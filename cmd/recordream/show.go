package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"recordream/internal/detail"
)

func (a *app) showCommand() *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Load a record through the detail store and print its view state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store := detail.NewStore(a.remoteClient(), nil, nil)
			defer func() {
				_ = store.Close()
			}()

			if err := store.Load(ctx, args[0]); err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), store.Snapshot())

			if remove {
				if err := store.Delete(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\ndeleted %s\n", args[0])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&remove, "delete", false, "delete the record after showing it")
	return cmd
}

func printState(w io.Writer, st detail.State) {
	labels := make([]string, 0, len(st.Tags))
	for _, tag := range st.Tags {
		labels = append(labels, tag.Label)
	}

	fmt.Fprintf(w, "%s\n%s\n", st.Date, st.Title)
	fmt.Fprintf(w, "background: %s  icon: %s\n", st.Background, st.Icon)
	fmt.Fprintf(w, "tags: %s\n", strings.Join(labels, ", "))
	if st.VoiceURL != "" {
		fmt.Fprintf(w, "voice: %s (%s)\n", st.VoiceURL, strings.ToLower(st.Playback.String()))
	}
	for _, item := range st.Content {
		fmt.Fprintf(w, "\n[%s]\n%s\n", item.Category.Label(), item.Text)
	}
}
