// Package events describes player state changes and delivers them to
// interested consumers (message broker, live streams).
package events

import (
	"context"
	"errors"
	"time"

	"github.com/mcoot/rconstore/internal/model"
)

// Type names a kind of event. It is also the AMQP routing suffix and the SSE event name.
type Type string

const (
	TypePlayerCreated    Type = "player.created"
	TypePlayerDeleted    Type = "player.deleted"
	TypeNameObserved     Type = "name.observed"
	TypeSessionStarted   Type = "session.started"
	TypeSessionEnded     Type = "session.ended"
	TypeActionRecorded   Type = "action.recorded"
	TypeBlacklistChanged Type = "blacklist.changed"
	TypeWatchlistChanged Type = "watchlist.changed"
	TypeFlagChanged      Type = "flag.changed"
	TypeMapStarted       Type = "map.started"
	TypeMapEnded         Type = "map.ended"
)

// Event is one state change
type Event struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	SteamID64 string         `json:"steam_id_64,omitempty"`
	PlayerID  model.PlayerID `json:"player_id,omitempty"`
	Actor     string         `json:"actor,omitempty"`
	Time      time.Time      `json:"time"`
	Data      map[string]any `json:"data,omitempty"`
}

// ForPlayer builds an event about one identity
func ForPlayer(id string, t Type, player *model.Player, at time.Time, data map[string]any) Event {
	return Event{
		ID:        id,
		Type:      t,
		SteamID64: player.SteamID64,
		PlayerID:  player.ID,
		Time:      at.UTC(),
		Data:      data,
	}
}

// Publisher delivers events. Publishing happens after the change is
// stored, so failures are reported but never undo the change.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event
type Nop struct{}

func (Nop) Publish(ctx context.Context, e Event) error {
	return nil
}

// Multi fans an event out to every publisher, joining their errors
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
