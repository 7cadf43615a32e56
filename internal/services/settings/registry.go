package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mcoot/rconstore/internal/model"
)

// Key names a configuration value
type Key string

const (
	KeyAutoBroadcast      Key = "auto_broadcast"
	KeyVotekick           Key = "votekick"
	KeyCameraNotification Key = "camera_notification"
	KeyNameKickReasons    Key = "name_kick_reasons"
	KeyWelcomeMessage     Key = "welcome_message"
	KeyStandardMessages   Key = "standard_messages"
)

// ExtensionPrefix marks keys outside the registry. Their values only need to be valid JSON.
const ExtensionPrefix = "x-"

// AutoBroadcast rotates server broadcast messages
type AutoBroadcast struct {
	Enabled   bool     `json:"enabled"`
	Randomize bool     `json:"randomize"`
	Messages  []string `json:"messages"`
}

// Votekick controls the in-game vote kick
type Votekick struct {
	Enabled             bool `json:"enabled"`
	ThresholdPercentage int  `json:"threshold_percentage"`
}

// CameraNotification announces admin camera use
type CameraNotification struct {
	Broadcast bool `json:"broadcast"`
	Welcome   bool `json:"welcome"`
}

// StandardMessages are canned texts by category (punishments, welcome, broadcasts)
type StandardMessages map[string][]string

type entry struct {
	defaultValue any
	validate     func(raw json.RawMessage) error
}

var registry = map[Key]entry{
	KeyAutoBroadcast: {
		defaultValue: AutoBroadcast{Messages: []string{}},
		validate:     strictly[AutoBroadcast](nil),
	},
	KeyVotekick: {
		defaultValue: Votekick{},
		validate: strictly(func(v Votekick) error {
			if v.ThresholdPercentage < 0 || v.ThresholdPercentage > 100 {
				return errors.New("threshold_percentage must be between 0 and 100")
			}
			return nil
		}),
	},
	KeyCameraNotification: {
		defaultValue: CameraNotification{},
		validate:     strictly[CameraNotification](nil),
	},
	KeyNameKickReasons: {
		defaultValue: []string{},
		validate:     strictly[[]string](nil),
	},
	KeyWelcomeMessage: {
		defaultValue: "",
		validate:     strictly[string](nil),
	},
	KeyStandardMessages: {
		defaultValue: StandardMessages{},
		validate:     strictly[StandardMessages](nil),
	},
}

// Keys lists every registered key
func Keys() []Key {
	return []Key{
		KeyAutoBroadcast,
		KeyVotekick,
		KeyCameraNotification,
		KeyNameKickReasons,
		KeyWelcomeMessage,
		KeyStandardMessages,
	}
}

// ParseKey accepts a registered key or an extension key
func ParseKey(s string) (Key, error) {
	s = strings.TrimSpace(s)
	if _, ok := registry[Key(s)]; ok {
		return Key(s), nil
	}
	if IsExtension(Key(s)) {
		return Key(s), nil
	}
	return "", fmt.Errorf("%w: %q", model.ErrUnknownSetting, s)
}

// IsExtension reports whether the key is outside the registry
func IsExtension(k Key) bool {
	return strings.HasPrefix(string(k), ExtensionPrefix) && len(k) > len(ExtensionPrefix)
}

// Validate checks the value shape for the key
func Validate(k Key, raw json.RawMessage) error {
	if !json.Valid(raw) {
		return fmt.Errorf("%w: not valid JSON", model.ErrInvalidSettingValue)
	}
	e, ok := registry[k]
	if !ok {
		if IsExtension(k) {
			return nil
		}
		return fmt.Errorf("%w: %q", model.ErrUnknownSetting, k)
	}
	if err := e.validate(raw); err != nil {
		return fmt.Errorf("%w: %s: %v", model.ErrInvalidSettingValue, k, err)
	}
	return nil
}

// Default returns the encoded default for a registered key, nil for extensions
func Default(k Key) json.RawMessage {
	e, ok := registry[k]
	if !ok {
		return nil
	}
	data, _ := json.Marshal(e.defaultValue)
	return data
}

// strictly decodes into T rejecting unknown fields, then runs check if set
func strictly[T any](check func(T) error) func(json.RawMessage) error {
	return func(raw json.RawMessage) error {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return errors.New("value must not be null")
		}
		var v T
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&v); err != nil {
			return err
		}
		if check != nil {
			return check(v)
		}
		return nil
	}
}
