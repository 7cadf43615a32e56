package model

import (
	"strings"
	"time"
)

// LogLine is one parsed game event. (EventTime, Raw) is unique.
type LogLine struct {
	ID          int64
	Version     int
	CreatedAt   time.Time
	EventTime   time.Time
	Type        string
	Player1Name string
	Player1ID   *PlayerID
	Player2Name string
	Player2ID   *PlayerID
	Raw         string
	Content     string
	Server      string
}

// Weapon extracts the weapon from kill lines, which end in "with <weapon>"
func (l LogLine) Weapon() string {
	switch strings.ToUpper(l.Type) {
	case "KILL", "TEAM KILL":
	default:
		return ""
	}
	idx := strings.LastIndex(l.Raw, " with ")
	if idx < 0 {
		return ""
	}
	return l.Raw[idx+len(" with "):]
}

// LogLineFilter narrows a log line query
type LogLineFilter struct {
	PlayerID *PlayerID // matches either player slot
	Type     string
	Server   string
	Since    time.Time
	Limit    int
}
