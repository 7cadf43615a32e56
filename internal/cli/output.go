package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case Snapshot:
		o.printSnapshot(v)
	case NameList:
		o.printNames(v.Names)
	case SessionList:
		o.printSessions(v)
	case ActionList:
		o.printActions(v.ReceivedActions)
	case Action:
		o.printActions([]Action{v})
	case PenaltyCounts:
		o.printPenalties(v.PenaltyCount)
	case AuditList:
		o.printAudit(v)
	case MapRecord:
		o.printMaps([]MapRecord{v})
	case MapList:
		o.printMaps(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID        int64     `json:"id"`
	SteamID64 string    `json:"steam_id_64"`
	Created   time.Time `json:"created"`
}

// AuthResult is the login response
type AuthResult struct {
	Operator     string    `json:"operator"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Name response type
type Name struct {
	Name     string     `json:"name"`
	Created  time.Time  `json:"created"`
	LastSeen *time.Time `json:"last_seen"`
}

// NameList response type
type NameList struct {
	Names []Name `json:"names"`
}

// Session response type
type Session struct {
	ID    int64      `json:"id"`
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// SessionList response type
type SessionList struct {
	Sessions               []Session `json:"sessions"`
	SessionsCount          int       `json:"sessions_count"`
	TotalPlaytimeSeconds   int64     `json:"total_playtime_seconds"`
	CurrentPlaytimeSeconds int64     `json:"current_playtime_seconds"`
}

// Action response type
type Action struct {
	ActionType string    `json:"action_type"`
	Reason     string    `json:"reason"`
	By         string    `json:"by"`
	Time       time.Time `json:"time"`
}

// ActionList response type
type ActionList struct {
	ReceivedActions []Action `json:"received_actions"`
}

// PenaltyCounts response type
type PenaltyCounts struct {
	PenaltyCount map[string]int `json:"penalty_count"`
}

// Snapshot is the full player profile
type Snapshot struct {
	Player
	Names                  []Name          `json:"names"`
	Sessions               []Session       `json:"sessions"`
	SessionsCount          int             `json:"sessions_count"`
	TotalPlaytimeSeconds   int64           `json:"total_playtime_seconds"`
	CurrentPlaytimeSeconds int64           `json:"current_playtime_seconds"`
	ReceivedActions        []Action        `json:"received_actions"`
	PenaltyCount           map[string]int  `json:"penalty_count"`
	Blacklist              json.RawMessage `json:"blacklist"`
	Flags                  json.RawMessage `json:"flags"`
	Watchlist              json.RawMessage `json:"watchlist"`
	SteamInfo              json.RawMessage `json:"steaminfo"`
}

// AuditEntry response type
type AuditEntry struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	CreationTime time.Time `json:"creation_time"`
	Command      string    `json:"command"`
	Arguments    string    `json:"command_arguments"`
	Result       string    `json:"command_result"`
}

// AuditList response type
type AuditList []AuditEntry

// MapRecord response type
type MapRecord struct {
	ID           int64      `json:"id"`
	ServerNumber int        `json:"server_number"`
	MapName      string     `json:"map_name"`
	Start        time.Time  `json:"start"`
	End          *time.Time `json:"end"`
}

// MapList response type
type MapList []MapRecord

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

const timeFormat = "2006-01-02 15:04:05"

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(timeFormat)
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (id %d)\n", p.SteamID64, p.ID)
	fmt.Printf("Created: %s\n", formatTime(&p.Created))
}

func (o *Output) printAuthResult(a AuthResult) {
	fmt.Printf("Logged in as: %s\n", a.Operator)
	fmt.Printf("Expires: %s\n", formatTime(&a.ExpiresAt))
}

func (o *Output) printSnapshot(s Snapshot) {
	o.printPlayer(s.Player)
	fmt.Printf("Playtime: %s total, %s current\n",
		time.Duration(s.TotalPlaytimeSeconds)*time.Second,
		time.Duration(s.CurrentPlaytimeSeconds)*time.Second)

	if len(s.Names) > 0 {
		fmt.Println("\nNames:")
		o.printNames(s.Names)
	}

	fmt.Printf("\nSessions (%d total):\n", s.SessionsCount)
	for _, sess := range s.Sessions {
		fmt.Printf("  %s -> %s\n", formatTime(sess.Start), formatTime(sess.End))
	}

	if len(s.ReceivedActions) > 0 {
		fmt.Println("\nActions:")
		o.printActions(s.ReceivedActions)
	}
	o.printPenalties(s.PenaltyCount)

	for _, att := range []struct {
		label string
		raw   json.RawMessage
	}{
		{"Blacklist", s.Blacklist},
		{"Watchlist", s.Watchlist},
		{"Flags", s.Flags},
	} {
		if len(att.raw) > 0 && string(att.raw) != "null" && string(att.raw) != "[]" {
			fmt.Printf("%s: %s\n", att.label, string(att.raw))
		}
	}
}

func (o *Output) printNames(names []Name) {
	for _, n := range names {
		fmt.Printf("  - %s (last seen %s)\n", n.Name, formatTime(n.LastSeen))
	}
}

func (o *Output) printSessions(s SessionList) {
	fmt.Printf("Sessions: %d\n", s.SessionsCount)
	fmt.Printf("Total playtime: %s\n", time.Duration(s.TotalPlaytimeSeconds)*time.Second)
	if s.CurrentPlaytimeSeconds > 0 {
		fmt.Printf("Online for: %s\n", time.Duration(s.CurrentPlaytimeSeconds)*time.Second)
	}
	for _, sess := range s.Sessions {
		fmt.Printf("  %s -> %s\n", formatTime(sess.Start), formatTime(sess.End))
	}
}

func (o *Output) printActions(actions []Action) {
	for _, a := range actions {
		reason := a.Reason
		if reason == "" {
			reason = "no reason"
		}
		fmt.Printf("  [%s] %s by %s: %s\n", formatTime(&a.Time), a.ActionType, a.By, reason)
	}
}

func (o *Output) printPenalties(counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	parts := make([]string, 0, len(counts))
	for _, category := range []string{"KICK", "PUNISH", "TEMPBAN", "PERMABAN"} {
		parts = append(parts, fmt.Sprintf("%s=%d", category, counts[category]))
	}
	fmt.Printf("Penalties: %s\n", strings.Join(parts, " "))
}

func (o *Output) printAudit(entries AuditList) {
	for _, e := range entries {
		fmt.Printf("[%s] %s %s -> %s\n", formatTime(&e.CreationTime), e.Username, e.Command, e.Result)
	}
}

func (o *Output) printMaps(maps []MapRecord) {
	for _, m := range maps {
		fmt.Printf("  server %d: %s (%s -> %s)\n", m.ServerNumber, m.MapName, formatTime(&m.Start), formatTime(m.End))
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
