package model

import "time"

// MapRecord is one map played on a server
type MapRecord struct {
	ID           int64
	CreatedAt    time.Time
	Start        time.Time
	End          *time.Time
	ServerNumber int
	MapName      string
}
