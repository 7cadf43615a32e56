package model

import "time"

// AuditEntry records one administrative command and its outcome
type AuditEntry struct {
	ID        int64
	Username  string
	CreatedAt time.Time
	Command   string
	Arguments string
	Result    string
}

// AuditFilter narrows an audit log listing
type AuditFilter struct {
	Username string // empty matches everyone
	Limit    int    // 0 means no limit
}
