package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/medlex/medlex-api/internal/client"
	"github.com/medlex/medlex-api/internal/config"
	"github.com/medlex/medlex-api/internal/events"
	"github.com/medlex/medlex-api/internal/flashcard"
	"github.com/medlex/medlex-api/internal/platform/localslot"
	"github.com/medlex/medlex-api/internal/platform/logger"
)

const defaultServerURL = "http://localhost:8080"

// Viper keys. With the MEDLEX_ prefix they read MEDLEX_SERVER_URL,
// MEDLEX_DATA_DIR and MEDLEX_VERBOSE.
const (
	keyServerURL = "server_url"
	keyDataDir   = "data_dir"
	keyVerbose   = "verbose"
)

// cli holds what every command shares. setup fills it before a command runs.
type cli struct {
	v       *viper.Viper
	logger  *slog.Logger
	emitter *events.InMemoryEventEmitter
	slot    *localslot.Store
	client  *client.Client
	session *session
}

func newCLI() *cli {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.AutomaticEnv()
	return &cli{v: v, logger: slog.Default()}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "medlex",
		Short: "Study medical terminology from a medlex server",
		Long: `medlex talks to a medlex API server. Log in once; the token and your
review basket are kept in a local database under the data directory.

Configuration comes from flags, then MEDLEX_* environment variables
(a .env file in the working directory is loaded first).`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	flags := root.PersistentFlags()
	flags.String("server", defaultServerURL, "medlex server URL (env MEDLEX_SERVER_URL)")
	flags.String("data-dir", "", "directory holding the local database (env MEDLEX_DATA_DIR)")
	flags.BoolP("verbose", "v", false, "log debug output to stderr")
	_ = c.v.BindPFlag(keyServerURL, flags.Lookup("server"))
	_ = c.v.BindPFlag(keyDataDir, flags.Lookup("data-dir"))
	_ = c.v.BindPFlag(keyVerbose, flags.Lookup("verbose"))

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.cardsCmd(),
		c.statsCmd(),
		c.basketCmd(),
		c.studyCmd(),
		c.importCmd(),
	)
	return root
}

// setup loads the environment, then opens the local database and builds
// the API client with any saved token.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	level := "warn"
	if c.v.GetBool(keyVerbose) {
		level = "debug"
	}
	l, err := logger.Setup(logger.LoggerConfig{Level: level, Format: "text", Output: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	c.logger = l

	c.emitter = events.NewInMemoryEventEmitter(l)
	c.emitter.RegisterHandler(events.NewLogHandler(l))

	dataDir := c.v.GetString(keyDataDir)
	if dataDir == "" {
		if dataDir, err = defaultDataDir(); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	c.slot, err = localslot.Open(ctx, filepath.Join(dataDir, localslot.DefaultFileName))
	if err != nil {
		return err
	}

	c.session, err = loadSession(ctx, c.slot)
	if err != nil {
		l.Warn("ignoring unreadable saved session", slog.String("error", err.Error()))
		c.session = nil
	}

	opts := []client.Option{client.WithLogger(l)}
	if c.session != nil {
		opts = append(opts, client.WithToken(c.session.Token))
	}
	c.client, err = client.New(c.v.GetString(keyServerURL), opts...)
	return err
}

func (c *cli) close() {
	if c.slot != nil {
		if err := c.slot.Close(); err != nil {
			c.logger.Error("failed to close local database", slog.String("error", err.Error()))
		}
	}
}

func defaultDataDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot find a data directory, set --data-dir or MEDLEX_DATA_DIR: %w", err)
	}
	return filepath.Join(dir, "medlex"), nil
}

// basket loads the review basket from the local database.
func (c *cli) basket(cmd *cobra.Command) *flashcard.Basket {
	return flashcard.LoadBasket(cmd.Context(), flashcard.NewSlotBasketStore(c.slot), c.emitter, c.logger)
}

// catalog fetches every card from the server. Unavailable collections are
// reported on stderr; when nothing could be fetched the first failure is
// returned.
func (c *cli) catalog(cmd *cobra.Command) (flashcard.Catalog, error) {
	catalog := flashcard.FetchCatalog(cmd.Context(), c.client)

	if len(catalog.Failures) == 3 {
		err := catalog.Failures[0].Err
		if errors.Is(err, client.ErrUnauthorized) {
			return catalog, errors.New("not logged in or session expired; run `medlex login`")
		}
		return catalog, fmt.Errorf("cannot reach the server: %w", err)
	}
	for _, f := range catalog.Failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s unavailable: %v\n", f.Source, f.Err)
	}
	return catalog, nil
}

// filterFlags are the card selection flags shared by cards, basket add-all and study.
type filterFlags struct {
	search     string
	categories []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "only cards whose front or back contains this text")
	cmd.Flags().StringSliceVarP(&f.categories, "category", "c", nil,
		"only cards in this category, by name or ID (repeatable)")
}

// apply filters cards, resolving category names against the catalog. When
// the categories could not be fetched, unmatched values are taken as IDs.
func (f *filterFlags) apply(catalog flashcard.Catalog) ([]flashcard.Item, error) {
	rawIDs := catalog.Failed(flashcard.SourceCategories)
	ids := make([]string, 0, len(f.categories))
	for _, want := range f.categories {
		want = strings.TrimSpace(want)
		id, found := "", false
		for _, cat := range catalog.Categories {
			if strings.EqualFold(cat.Name, want) || cat.ID.String() == want {
				id, found = cat.ID.String(), true
				break
			}
		}
		switch {
		case found:
			ids = append(ids, id)
		case rawIDs:
			ids = append(ids, want)
		default:
			return nil, fmt.Errorf("unknown category %q", want)
		}
	}
	return flashcard.Filter(catalog.Cards, flashcard.FilterOptions{Search: f.search, CategoryIDs: ids}), nil
}
