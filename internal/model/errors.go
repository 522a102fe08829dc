package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrRoomNotFound       = errors.New("room not found")
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrNameTaken          = errors.New("that name is already in use")
	ErrNotAuthorized      = errors.New("only the host can perform this action")
	ErrNoPlayers          = errors.New("no players have joined yet")

	// Player errors
	ErrNotAMember = errors.New("connection is not a member of this session")
)
