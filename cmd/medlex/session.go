package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/medlex/medlex-api/internal/client"
	"github.com/medlex/medlex-api/internal/platform/localslot"
)

// sessionSlotKey is the local slot holding the saved login.
const sessionSlotKey = "auth-session"

// session is the login remembered between runs.
type session struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	ExpiresAt string `json:"expires_at"`
}

func loadSession(ctx context.Context, slot *localslot.Store) (*session, error) {
	raw, found, err := slot.Get(ctx, sessionSlotKey)
	if err != nil || !found {
		return nil, err
	}
	var s session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("malformed session data: %w", err)
	}
	if s.Token == "" {
		return nil, nil
	}
	return &s, nil
}

func saveSession(ctx context.Context, slot *localslot.Store, s session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return slot.Put(ctx, sessionSlotKey, raw)
}

func (c *cli) loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the access token",
		Long: `Log in to the server. Without --password the password is read from the
first line of standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				var err error
				if password, err = readLine(cmd.InOrStdin()); err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
			}
			if password == "" {
				return errors.New("password is required")
			}

			resp, err := c.client.Login(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			err = saveSession(cmd.Context(), c.slot, session{
				Token:     resp.AccessToken,
				Username:  resp.User.Username,
				ExpiresAt: resp.ExpiresAt,
			})
			if err != nil {
				return fmt.Errorf("logged in but could not save the session: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", resp.User.Username, resp.User.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (read from stdin when omitted)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.session != nil {
				// The server only clears its cookie; failing to reach it is harmless.
				if err := c.client.Logout(cmd.Context()); err != nil {
					c.logger.Debug("server logout failed", slog.String("error", err.Error()))
				}
			}
			if err := c.slot.Delete(cmd.Context(), sessionSlotKey); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user and where local data is kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if c.client.Token() == "" {
				fmt.Fprintln(out, "Not logged in")
				fmt.Fprintf(out, "Local data: %s\n", c.slot.Path())
				return nil
			}

			user, err := c.client.Me(cmd.Context())
			if errors.Is(err, client.ErrUnauthorized) {
				return errors.New("session expired; run `medlex login`")
			}
			if err != nil {
				return fmt.Errorf("cannot reach the server: %w", err)
			}

			fmt.Fprintf(out, "Logged in as %s (%s) on %s\n", user.Username, user.Role, c.v.GetString(keyServerURL))
			if user.Email != "" {
				fmt.Fprintf(out, "Email: %s\n", user.Email)
			}
			fmt.Fprintf(out, "Local data: %s\n", c.slot.Path())
			return nil
		},
	}
}
