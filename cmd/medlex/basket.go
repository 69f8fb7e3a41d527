package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/medlex/medlex-api/internal/flashcard"
)

func (c *cli) basketCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "basket",
		Short: "Manage the review basket",
		Long: `The review basket is a hand-picked set of cards kept in the local
database. Study it with "medlex study --basket".`,
	}
	cmd.AddCommand(
		c.basketListCmd(),
		c.basketAddCmd(),
		c.basketRemoveCmd(),
		c.basketAddAllCmd(),
		c.basketClearCmd(),
	)
	return cmd
}

func (c *cli) basketListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the cards in the basket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items := c.basket(cmd).Items()
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Basket is empty")
				return nil
			}
			printCards(cmd.OutOrStdout(), items, nil)
			fmt.Fprintf(cmd.OutOrStdout(), "%d cards in basket\n", len(items))
			return nil
		},
	}
}

func (c *cli) basketAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <card-id>...",
		Short: "Add cards to the basket by ID",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := c.catalog(cmd)
			if err != nil {
				return err
			}
			byID := make(map[string]flashcard.Item, len(catalog.Cards))
			for _, card := range catalog.Cards {
				byID[card.ID] = card
			}

			basket := c.basket(cmd)
			added := 0
			for _, id := range args {
				card, ok := byID[id]
				if !ok {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: no card with ID %s\n", id)
					continue
				}
				if basket.Add(cmd.Context(), card) {
					added++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d cards (%d in basket)\n", added, basket.Len())
			return nil
		},
	}
}

func (c *cli) basketRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <card-id>...",
		Short: "Remove cards from the basket by ID",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			basket := c.basket(cmd)
			removed := 0
			for _, id := range args {
				if basket.Remove(cmd.Context(), id) {
					removed++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cards (%d in basket)\n", removed, basket.Len())
			return nil
		},
	}
}

func (c *cli) basketAddAllCmd() *cobra.Command {
	var filter filterFlags

	cmd := &cobra.Command{
		Use:   "add-all",
		Short: "Add every card matching the filters to the basket",
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
			added := basket.AddAll(cmd.Context(), cards)
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d cards (%d in basket)\n", added, basket.Len())
			return nil
		},
	}
	filter.register(cmd)
	return cmd
}

func (c *cli) basketClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the basket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.basket(cmd).Clear(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Basket cleared")
			return nil
		},
	}
}
