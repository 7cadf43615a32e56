package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newAuditCmd() *cobra.Command {
	var user string
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the operator audit trail",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("username", user)
			if limit > 0 {
				query.Set("limit", strconv.Itoa(limit))
			}
			var result []AuditEntry
			if err := client.Get(withQuery("/api/v1/audit", query), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(AuditList(result))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Only show entries for this operator")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum entries to show")

	return cmd
}

func newMapsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maps",
		Short: "Map rotation history",
	}

	var server, limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent maps, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if cmd.Flags().Changed("server") {
				query.Set("server", strconv.Itoa(server))
			}
			if limit > 0 {
				query.Set("limit", strconv.Itoa(limit))
			}
			var result []MapRecord
			if err := client.Get(withQuery("/api/v1/maps", query), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(MapList(result))
			return nil
		},
	}
	list.Flags().IntVar(&server, "server", 0, "Only show this server")
	list.Flags().IntVar(&limit, "limit", 0, "Maximum maps to show")

	var startServer int
	start := &cobra.Command{
		Use:   "start <map_name>",
		Short: "Record a map start",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"server": startServer, "map_name": args[0]}
			var result MapRecord
			if err := client.Post("/api/v1/maps/start", req, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
	start.Flags().IntVar(&startServer, "server", 0, "Server number")

	var endServer int
	end := &cobra.Command{
		Use:   "end",
		Short: "Record the end of the current map",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"server": endServer}
			if err := client.Post("/api/v1/maps/end", req, nil); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("Map ended on server %d", endServer))
			return nil
		},
	}
	end.Flags().IntVar(&endServer, "server", 0, "Server number")

	cmd.AddCommand(list, start, end)
	return cmd
}

func newLogsCmd() *cobra.Command {
	var steamID, eventType, server, since string
	var limit int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Query stored game log lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("steam_id", steamID)
			query.Set("type", eventType)
			query.Set("server", server)
			query.Set("since", since)
			if limit > 0 {
				query.Set("limit", strconv.Itoa(limit))
			}
			var result []json.RawMessage
			if err := client.Get(withQuery("/api/v1/logs", query), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&steamID, "steam-id", "", "Lines involving this player")
	cmd.Flags().StringVar(&eventType, "type", "", "Event type, e.g. KILL or CHAT")
	cmd.Flags().StringVar(&server, "server", "", "Server identifier")
	cmd.Flags().StringVar(&since, "since", "", "RFC3339 lower bound on event time")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum lines to show")

	return cmd
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and write server settings",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show every setting",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result map[string]json.RawMessage
			if err := client.Get("/api/v1/settings", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Show one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result json.RawMessage
			if err := client.Get("/api/v1/settings/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <json>",
		Short: "Replace a setting with a JSON value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !json.Valid([]byte(args[1])) {
				return fmt.Errorf("value is not valid JSON")
			}
			var result json.RawMessage
			if err := client.Put("/api/v1/settings/"+url.PathEscape(args[0]), json.RawMessage(args[1]), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.AddCommand(list, get, set)
	return cmd
}
