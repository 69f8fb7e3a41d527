package main

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/medlex/medlex-api/internal/flashcard"
	"github.com/medlex/medlex-api/internal/tui"
)

func (c *cli) studyCmd() *cobra.Command {
	var (
		filter     filterFlags
		fromBasket bool
		delay      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "study",
		Short: "Study cards in a full-screen session",
		Long: `Study every card matching the filters, or the review basket with --basket.
Cards you did not know come back at the end of the queue until each one
has been answered correctly once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cards []flashcard.Item
			if fromBasket {
				cards = c.basket(cmd).Items()
			} else {
				catalog, err := c.catalog(cmd)
				if err != nil {
					return err
				}
				if cards, err = filter.apply(catalog); err != nil {
					return err
				}
			}

			engine := flashcard.NewEngine(
				flashcard.WithTransitionDelay(delay),
				flashcard.WithEmitter(c.emitter),
				flashcard.WithLogger(c.logger),
			)

			snap, err := tui.Run(cmd.Context(), engine, cards,
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if errors.Is(err, flashcard.ErrEmptyCardSet) {
				return errors.New("nothing to study: no cards match")
			}
			if err != nil {
				return err
			}

			learned := len(snap.AllCards) - len(snap.RemainingCards)
			if snap.State == flashcard.Complete {
				fmt.Fprintf(cmd.OutOrStdout(), "Session complete: %d cards in %d reviews\n",
					len(snap.AllCards), snap.TotalReviews)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Session ended: %d of %d cards learned in %d reviews\n",
					learned, len(snap.AllCards), snap.TotalReviews)
			}
			return nil
		},
	}

	filter.register(cmd)
	cmd.Flags().BoolVarP(&fromBasket, "basket", "b", false, "study the review basket instead of the catalog")
	cmd.Flags().DurationVar(&delay, "delay", flashcard.DefaultTransitionDelay, "pause after grading before the next card")
	return cmd
}
