package cli

import (
	"github.com/spf13/cobra"
)

func newModerationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mod",
		Short: "Moderation actions, lists and flags",
	}

	cmd.AddCommand(newModActionCmd())
	cmd.AddCommand(newModBlacklistCmd())
	cmd.AddCommand(newModWatchlistCmd())
	cmd.AddCommand(newModFlagCmd())

	return cmd
}

func newModActionCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "action <steam_id> <type>",
		Short: "Record an action (KICK, PUNISH, TEMPBAN, PERMABAN, MESSAGE...)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"action_type": args[1],
				"reason":      reason,
			}
			var result Action
			if err := client.Post(playerPath(args[0], "actions"), req, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Reason shown in the record")

	return cmd
}

func newModBlacklistCmd() *cobra.Command {
	var reason string
	var remove bool

	cmd := &cobra.Command{
		Use:   "blacklist <steam_id>",
		Short: "Blacklist a player, or lift it with --remove",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"is_blacklisted": !remove,
				"reason":         reason,
			}
			var result map[string]any
			if err := client.Put(playerPath(args[0], "blacklist"), req, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Reason for the blacklist")
	cmd.Flags().BoolVar(&remove, "remove", false, "Lift the blacklist")

	return cmd
}

func newModWatchlistCmd() *cobra.Command {
	var reason, comment string
	var remove bool

	cmd := &cobra.Command{
		Use:   "watch <steam_id>",
		Short: "Put a player on the watchlist, or take them off with --remove",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"is_watched": !remove,
				"reason":     reason,
				"comment":    comment,
			}
			var result map[string]any
			if err := client.Put(playerPath(args[0], "watchlist"), req, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Reason for watching")
	cmd.Flags().StringVar(&comment, "comment", "", "Free-form comment")
	cmd.Flags().BoolVar(&remove, "remove", false, "Stop watching")

	return cmd
}

func newModFlagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flag",
		Short: "Add or remove player flags",
	}

	var comment string
	add := &cobra.Command{
		Use:   "add <steam_id> <flag>",
		Short: "Add a flag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"flag": args[1], "comment": comment}
			var result map[string]any
			if err := client.Post(playerPath(args[0], "flags"), req, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
	add.Flags().StringVar(&comment, "comment", "", "Comment stored with the flag")

	remove := &cobra.Command{
		Use:   "remove <steam_id> <flag>",
		Short: "Remove a flag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(playerPath(args[0], "flags", args[1])); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage("Flag removed")
			return nil
		},
	}

	cmd.AddCommand(add, remove)
	return cmd
}
