package settings

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mcoot/rconstore/internal/storage"
)

// Service reads and writes the typed configuration registry
type Service struct {
	storage storage.ConfigStore
	logger  *slog.Logger
}

// New creates a new settings service
func New(storage storage.ConfigStore, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("service", "settings")),
	}
}

// Get returns the stored value, or the default when nothing has been stored
func (s *Service) Get(ctx context.Context, key string) (json.RawMessage, error) {
	k, err := ParseKey(key)
	if err != nil {
		return nil, err
	}
	v, err := s.storage.GetConfig(ctx, string(k))
	if err != nil {
		return nil, err
	}
	if v == nil {
		if IsExtension(k) {
			return json.RawMessage("null"), nil
		}
		return Default(k), nil
	}
	return v, nil
}

// Put validates and stores the value
func (s *Service) Put(ctx context.Context, key string, value json.RawMessage) error {
	k, err := ParseKey(key)
	if err != nil {
		return err
	}
	if err := Validate(k, value); err != nil {
		return err
	}
	if err := s.storage.PutConfig(ctx, string(k), value); err != nil {
		return err
	}
	s.logger.Info("setting changed", slog.String("key", string(k)))
	return nil
}

// List returns every registered key (stored or default) plus stored extension keys
func (s *Service) List(ctx context.Context) (map[string]json.RawMessage, error) {
	stored, err := s.storage.ListConfig(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]json.RawMessage, len(stored)+len(registry))
	for _, k := range Keys() {
		out[string(k)] = Default(k)
	}
	for k, v := range stored {
		if _, ok := registry[Key(k)]; !ok && !IsExtension(Key(k)) {
			s.logger.Warn("ignoring unregistered setting", slog.String("key", k))
			continue
		}
		out[k] = v
	}
	return out, nil
}

// Decode reads a registered key into its typed value
func Decode[T any](ctx context.Context, s *Service, key Key) (T, error) {
	var v T
	raw, err := s.Get(ctx, string(key))
	if err != nil {
		return v, err
	}
	err = json.Unmarshal(raw, &v)
	return v, err
}
