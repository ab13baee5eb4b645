package reservation

import (
	"errors"
	"fmt"
	"strings"

	"hotelpms/internal/repository"
)

var (
	ErrNotFound                = errors.New("reservation not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

// ValidationError carries every structural and consecutiveness violation
// found, not just the first, so callers can render actionable errors.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// ConflictError reports the active segments that block the requested
// rooms, naming the owning reservation and client.
type ConflictError struct {
	Conflicts []repository.SegmentConflict
}

func (e *ConflictError) Error() string {
	if len(e.Conflicts) == 0 {
		return "room is not available for the requested dates"
	}
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("%s room %d is taken by reservation %d (%s) for [%s, %s)",
			c.RoomKind, c.RoomID, c.ReservationID, c.ClientName,
			c.StartDate.Format("2006-01-02"), c.EndDate.Format("2006-01-02")))
	}
	return strings.Join(parts, "; ")
}
