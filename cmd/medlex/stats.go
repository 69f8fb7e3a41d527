package main

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/medlex/medlex-api/internal/client"
	"github.com/medlex/medlex-api/internal/domain"
)

// recentLimit is how many of the newest records stats lists per collection.
const recentLimit = 5

func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show how many terms, phrases and categories you have, and the newest of each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				terms      []domain.Term
				phrases    []domain.Phrase
				categories []domain.Category
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() (err error) {
				terms, err = c.client.FetchTerms(ctx)
				return err
			})
			g.Go(func() (err error) {
				phrases, err = c.client.FetchPhrases(ctx)
				return err
			})
			g.Go(func() (err error) {
				categories, err = c.client.FetchCategories(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				if errors.Is(err, client.ErrUnauthorized) {
					return errors.New("not logged in or session expired; run `medlex login`")
				}
				return fmt.Errorf("cannot reach the server: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Terms:\t%d\n", len(terms))
			fmt.Fprintf(w, "Phrases:\t%d\n", len(phrases))
			fmt.Fprintf(w, "Categories:\t%d\n", len(categories))

			printRecent(w, "terms", terms, func(t domain.Term) (string, string, time.Time) {
				return t.Term, t.Meaning, t.CreatedAt
			})
			printRecent(w, "phrases", phrases, func(p domain.Phrase) (string, string, time.Time) {
				return p.Phrase, p.Explanation, p.CreatedAt
			})
			printRecent(w, "categories", categories, func(cat domain.Category) (string, string, time.Time) {
				return cat.Name, cat.Description, cat.CreatedAt
			})
			return w.Flush()
		},
	}
}

// printRecent lists the recentLimit newest records, newest first.
func printRecent[T any](w io.Writer, title string, records []T, fields func(T) (name, detail string, created time.Time)) {
	if len(records) == 0 {
		return
	}
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b T) int {
		_, _, ta := fields(a)
		_, _, tb := fields(b)
		return cmp.Compare(tb.UnixNano(), ta.UnixNano())
	})

	fmt.Fprintf(w, "\nRecent %s\n", title)
	for _, r := range sorted[:min(recentLimit, len(sorted))] {
		name, detail, _ := fields(r)
		fmt.Fprintf(w, "  %s\t%s\n", name, truncate(detail, 48))
	}
}
