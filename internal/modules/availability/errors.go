package availability

import "errors"

var (
	ErrValidation   = errors.New("validation error")
	ErrRoomNotFound = errors.New("room not found")
)
