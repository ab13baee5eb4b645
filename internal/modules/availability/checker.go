package availability

import (
	"context"
	"time"

	"hotelpms/internal/domain"
	"hotelpms/internal/repository"
)

// ConflictSource is the slice of the segment store the checker needs.
// Both the plain store and a transaction-bound store satisfy it, so the
// same propagation logic serves unlocked reads and in-transaction
// re-validation.
type ConflictSource interface {
	FindConflicts(ctx context.Context, kind domain.RoomKind, roomID int64, start, end time.Time, excludeReservationID int64) ([]repository.SegmentConflict, error)
	ComponentRoomIDs(ctx context.Context, virtualRoomID int64) ([]int64, error)
	VirtualRoomIDsContaining(ctx context.Context, roomID int64) ([]int64, error)
}

// Checker answers "is room R free for [start, end)?" for physical and
// virtual rooms. Occupancy of a component blocks both the physical room
// and every virtual room containing it, and vice versa.
type Checker struct {
	src ConflictSource
}

func NewChecker(src ConflictSource) *Checker {
	return &Checker{src: src}
}

// Conflicts collects every active segment blocking the room over
// [start, end), after propagating through virtual room composition.
func (c *Checker) Conflicts(ctx context.Context, kind domain.RoomKind, roomID int64, start, end time.Time, excludeReservationID int64) ([]repository.SegmentConflict, error) {
	if kind == domain.RoomKindVirtual {
		return c.virtualConflicts(ctx, roomID, start, end, excludeReservationID)
	}
	return c.physicalConflicts(ctx, roomID, start, end, excludeReservationID)
}

// physicalConflicts checks the room's own segments plus direct segments
// on every virtual room the physical room is a component of.
func (c *Checker) physicalConflicts(ctx context.Context, roomID int64, start, end time.Time, excludeReservationID int64) ([]repository.SegmentConflict, error) {
	out, err := c.src.FindConflicts(ctx, domain.RoomKindPhysical, roomID, start, end, excludeReservationID)
	if err != nil {
		return nil, err
	}

	virtualIDs, err := c.src.VirtualRoomIDsContaining(ctx, roomID)
	if err != nil {
		return nil, err
	}
	for _, vid := range virtualIDs {
		direct, err := c.src.FindConflicts(ctx, domain.RoomKindVirtual, vid, start, end, excludeReservationID)
		if err != nil {
			return nil, err
		}
		out = append(out, direct...)
	}
	return out, nil
}

// virtualConflicts checks direct segments on the virtual room itself and
// then every component physical room; a single blocked component makes
// the whole composite unavailable.
func (c *Checker) virtualConflicts(ctx context.Context, virtualRoomID int64, start, end time.Time, excludeReservationID int64) ([]repository.SegmentConflict, error) {
	out, err := c.src.FindConflicts(ctx, domain.RoomKindVirtual, virtualRoomID, start, end, excludeReservationID)
	if err != nil {
		return nil, err
	}

	componentIDs, err := c.src.ComponentRoomIDs(ctx, virtualRoomID)
	if err != nil {
		return nil, err
	}
	seen := map[int64]struct{}{}
	for _, cf := range out {
		seen[cf.SegmentID] = struct{}{}
	}
	for _, rid := range componentIDs {
		conflicts, err := c.physicalConflicts(ctx, rid, start, end, excludeReservationID)
		if err != nil {
			return nil, err
		}
		for _, cf := range conflicts {
			// Components can share virtual rooms; report each segment once.
			if _, ok := seen[cf.SegmentID]; ok {
				continue
			}
			seen[cf.SegmentID] = struct{}{}
			out = append(out, cf)
		}
	}
	return out, nil
}

// IsRoomAvailable is the boolean form of Conflicts.
func (c *Checker) IsRoomAvailable(ctx context.Context, kind domain.RoomKind, roomID int64, start, end time.Time, excludeReservationID int64) (bool, error) {
	conflicts, err := c.Conflicts(ctx, kind, roomID, start, end, excludeReservationID)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}
