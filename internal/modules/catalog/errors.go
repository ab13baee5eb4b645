package catalog

import "errors"

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrRoomOccupied = errors.New("room still has active segments")
	ErrRoomInUse    = errors.New("room is a component of a virtual room")
)
