package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"recordream/internal/feed"
)

func (a *app) feedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "feed",
		Short: "Print the home feed cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := feed.New(a.remoteClient())
			update, err := f.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			printCards(cmd.OutOrStdout(), update.Cards)
			return nil
		},
	}
}

func printCards(w io.Writer, cards []feed.Card) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40

	tbl.AddRow("ID", "DATE", "TITLE", "TAGS", "BACKGROUND")
	for _, card := range cards {
		tbl.AddRow(card.ID, card.Date, card.Title, strings.Join(card.Tags, " "), card.Background)
	}
	_, _ = fmt.Fprintln(w, tbl)
}
