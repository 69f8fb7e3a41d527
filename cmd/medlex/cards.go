package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/medlex/medlex-api/internal/flashcard"
)

func (c *cli) cardsCmd() *cobra.Command {
	var filter filterFlags

	cmd := &cobra.Command{
		Use:   "cards",
		Short: "List flashcards built from your terms and phrases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := c.catalog(cmd)
			if err != nil {
				return err
			}
			cards, err := filter.apply(catalog)
			if err != nil {
				return err
			}

			basket := c.basket(cmd)
			printCards(cmd.OutOrStdout(), cards, basket.Contains)
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d cards\n", len(cards), len(catalog.Cards))
			return nil
		},
	}
	filter.register(cmd)
	return cmd
}

// printCards writes one row per card. inBasket, when set, marks basket cards with '*'.
func printCards(w io.Writer, cards []flashcard.Item, inBasket func(id string) bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, " \tID\tTYPE\tFRONT\tBACK\tCATEGORIES")
	for _, card := range cards {
		mark := " "
		if inBasket != nil && inBasket(card.ID) {
			mark = "*"
		}
		names := make([]string, 0, len(card.Categories))
		for _, cat := range card.Categories {
			names = append(names, cat.Name)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			mark, card.ID, card.Type, card.Front, truncate(card.Back, 48), strings.Join(names, ", "))
	}
	_ = tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
