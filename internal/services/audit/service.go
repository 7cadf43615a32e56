package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mcoot/rconstore/internal/dependencies/clock"
	"github.com/mcoot/rconstore/internal/model"
	"github.com/mcoot/rconstore/internal/storage"
)

// Service keeps the trail of administrative commands
type Service struct {
	storage storage.AuditStore
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new audit service
func New(storage storage.AuditStore, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("service", "audit")),
	}
}

// Record appends one entry. Arguments are stored as JSON; strings are kept verbatim.
func (s *Service) Record(ctx context.Context, username, command string, args any, result string) (*model.AuditEntry, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, errors.New("audit entry needs a command")
	}

	var arguments string
	switch v := args.(type) {
	case nil:
	case string:
		arguments = v
	case json.RawMessage:
		arguments = string(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding audit arguments: %w", err)
		}
		arguments = string(data)
	}

	entry := &model.AuditEntry{
		Username:  username,
		CreatedAt: s.clock.Now(),
		Command:   command,
		Arguments: arguments,
		Result:    result,
	}
	if err := s.storage.InsertAuditEntry(ctx, entry); err != nil {
		return nil, err
	}
	s.logger.Debug("audit recorded", slog.String("username", username), slog.String("command", command))
	return entry, nil
}

// List returns entries newest first
func (s *Service) List(ctx context.Context, filter model.AuditFilter) ([]model.AuditEntry, error) {
	return s.storage.ListAuditEntries(ctx, filter)
}
