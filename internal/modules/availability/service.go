package availability

import (
	"context"
	"time"

	"hotelpms/internal/domain"
	"hotelpms/internal/repository"
)

// Store is what the availability service needs from persistence.
type Store interface {
	ConflictSource
	RoomExists(ctx context.Context, kind domain.RoomKind, roomID int64) (bool, error)
	SegmentsForRoomRange(ctx context.Context, kind domain.RoomKind, roomID int64, from, to time.Time) ([]domain.ReservationSegment, error)
}

type RoomAvailability struct {
	RoomKind  domain.RoomKind              `json:"room_kind"`
	RoomID    int64                        `json:"room_id"`
	StartDate time.Time                    `json:"start_date"`
	EndDate   time.Time                    `json:"end_date"`
	Available bool                         `json:"available"`
	Conflicts []repository.SegmentConflict `json:"conflicts"`
}

// BusyInterval is one merged occupied stretch on a room's calendar.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Service struct {
	checker *Checker
	store   Store
}

func NewService(store Store) *Service {
	return &Service{checker: NewChecker(store), store: store}
}

// CheckRoomAvailability reports whether the room is free for the
// half-open day range and, when it is not, which segments block it.
func (s *Service) CheckRoomAvailability(ctx context.Context, kind domain.RoomKind, roomID int64, start, end time.Time, excludeReservationID int64) (*RoomAvailability, error) {
	start, end = domain.Day(start), domain.Day(end)
	if !start.Before(end) {
		return nil, ErrValidation
	}

	exists, err := s.store.RoomExists(ctx, kind, roomID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrRoomNotFound
	}

	conflicts, err := s.checker.Conflicts(ctx, kind, roomID, start, end, excludeReservationID)
	if err != nil {
		return nil, err
	}
	return &RoomAvailability{
		RoomKind:  kind,
		RoomID:    roomID,
		StartDate: start,
		EndDate:   end,
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}

func (s *Service) IsRoomAvailable(ctx context.Context, kind domain.RoomKind, roomID int64, start, end time.Time, excludeReservationID int64) (bool, error) {
	res, err := s.CheckRoomAvailability(ctx, kind, roomID, start, end, excludeReservationID)
	if err != nil {
		return false, err
	}
	return res.Available, nil
}

// RoomCalendar returns the merged busy intervals on a room over
// [from, to). Direct occupancy only; use CheckRoomAvailability for the
// composed view.
func (s *Service) RoomCalendar(ctx context.Context, kind domain.RoomKind, roomID int64, from, to time.Time) ([]BusyInterval, error) {
	from, to = domain.Day(from), domain.Day(to)
	if !from.Before(to) {
		return nil, ErrValidation
	}

	exists, err := s.store.RoomExists(ctx, kind, roomID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrRoomNotFound
	}

	segs, err := s.store.SegmentsForRoomRange(ctx, kind, roomID, from, to)
	if err != nil {
		return nil, err
	}

	// Segments arrive sorted by start date; clamp to the window and
	// merge abutting or overlapping stretches.
	merged := make([]BusyInterval, 0, len(segs))
	for _, seg := range segs {
		iv := BusyInterval{Start: seg.StartDate, End: seg.EndDate}
		if iv.Start.Before(from) {
			iv.Start = from
		}
		if iv.End.After(to) {
			iv.End = to
		}
		if !iv.End.After(iv.Start) {
			continue
		}
		if n := len(merged); n > 0 && !iv.Start.After(merged[n-1].End) {
			if iv.End.After(merged[n-1].End) {
				merged[n-1].End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged, nil
}
