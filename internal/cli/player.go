package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as an operator and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"username": user,
				"password": pass,
			}
			var result AuthResult

			if err := client.Post("/api/v1/auth/login", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Operator name (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player identity and history commands",
	}

	cmd.AddCommand(newPlayerCreateCmd())
	cmd.AddCommand(newPlayerGetCmd())
	cmd.AddCommand(newPlayerDeleteCmd())
	cmd.AddCommand(newPlayerNamesCmd())
	cmd.AddCommand(newPlayerSeenCmd())
	cmd.AddCommand(newPlayerSessionCmd())
	cmd.AddCommand(newPlayerActionsCmd())
	cmd.AddCommand(newPlayerPenaltiesCmd())

	return cmd
}

func newPlayerCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <steam_id>",
		Short: "Get or create a player identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player
			if err := client.Put(playerPath(args[0]), nil, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newPlayerGetCmd() *cobra.Command {
	var sessions int

	cmd := &cobra.Command{
		Use:   "get <steam_id>",
		Short: "Show the full profile of a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if sessions > 0 {
				query.Set("sessions", strconv.Itoa(sessions))
			}
			var result Snapshot
			if err := client.Get(withQuery(playerPath(args[0]), query), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&sessions, "sessions", 0, "Number of recent sessions to include (server default when 0)")

	return cmd
}

func newPlayerDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <steam_id>",
		Short: "Delete a player and all of their history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(playerPath(args[0])); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage("Player deleted")
			return nil
		},
	}
}

func newPlayerNamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "names <steam_id>",
		Short: "List the names a player has used, most recent first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result NameList
			if err := client.Get(playerPath(args[0], "names"), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newPlayerSeenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seen <steam_id> <name>",
		Short: "Record that a player was seen using a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": args[1]}
			if err := client.Post(playerPath(args[0], "names"), req, nil); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage("Name recorded")
			return nil
		},
	}
}

func newPlayerSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Player session commands",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list <steam_id>",
		Short: "List recent sessions with playtime totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if limit > 0 {
				query.Set("limit", strconv.Itoa(limit))
			}
			var result SessionList
			if err := client.Get(withQuery(playerPath(args[0], "sessions"), query), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 0, "Maximum sessions to show")

	start := &cobra.Command{
		Use:   "start <steam_id>",
		Short: "Record a connect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result map[string]any
			if err := client.Post(playerPath(args[0], "sessions", "start"), map[string]any{}, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	end := &cobra.Command{
		Use:   "end <steam_id>",
		Short: "Record a disconnect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(playerPath(args[0], "sessions", "end"), map[string]any{}, nil); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage("Session ended")
			return nil
		},
	}

	cmd.AddCommand(list, start, end)
	return cmd
}

func newPlayerActionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actions <steam_id>",
		Short: "List moderation actions a player received",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ActionList
			if err := client.Get(playerPath(args[0], "actions"), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newPlayerPenaltiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "penalties <steam_id>",
		Short: "Show penalty counts by category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PenaltyCounts
			if err := client.Get(playerPath(args[0], "penalties"), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
