package websocket

import "errors"

var (
	errSpectator      = errors.New("spectators cannot play")
	errUnknownMessage = errors.New("unknown message type")
)
