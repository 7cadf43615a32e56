package model

import "errors"

// Common errors used across the application
var (
	// Identity errors
	ErrUnknownIdentity = errors.New("unknown player identity")
	ErrInvalidSteamID  = errors.New("invalid steam id")
	ErrInvalidName     = errors.New("invalid player name")

	// Session errors
	ErrNoOpenSession     = errors.New("no open session")
	ErrSessionOutOfOrder = errors.New("session time precedes the newest session")

	// Action errors
	ErrInvalidActionType = errors.New("invalid action type")

	// Flag errors
	ErrFlagNotFound = errors.New("flag not found")
	ErrInvalidFlag  = errors.New("invalid flag")

	// Map history errors
	ErrNoOpenMap      = errors.New("no map in progress on server")
	ErrInvalidMapName = errors.New("invalid map name")

	// Log line errors
	ErrDuplicateLogLine = errors.New("log line already recorded")

	// Setting errors
	ErrUnknownSetting      = errors.New("unknown setting")
	ErrInvalidSettingValue = errors.New("invalid setting value")
)
