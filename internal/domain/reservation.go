package domain

import (
	"sort"
	"time"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationActive    ReservationStatus = "active"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

// CanTransitionTo implements the reservation state machine:
// active -> confirmed -> (cancelled | completed); pending -> (active | cancelled).
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	switch s {
	case ReservationPending:
		return next == ReservationActive || next == ReservationCancelled
	case ReservationActive:
		return next == ReservationConfirmed || next == ReservationCancelled
	case ReservationConfirmed:
		return next == ReservationCancelled || next == ReservationCompleted
	}
	return false
}

// Reservation has no room or date range of its own; both are derived by
// folding over its active segments. Children linked via
// ParentReservationID form one logical multi-room booking.
type Reservation struct {
	ID                  int64             `json:"id"`
	MainClientID        int64             `json:"main_client_id" validate:"required"`
	Status              ReservationStatus `json:"status"`
	IsMultiRoom         bool              `json:"is_multi_room"`
	ParentReservationID *int64            `json:"parent_reservation_id,omitempty"`
	Notes               string            `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
	CancelledAt         *time.Time        `json:"cancelled_at,omitempty"`

	Client   *Client              `json:"client,omitempty" gorm:"foreignKey:MainClientID"`
	Segments []ReservationSegment `json:"segments,omitempty" gorm:"foreignKey:ReservationID"`
	Children []Reservation        `json:"children,omitempty" gorm:"foreignKey:ParentReservationID"`
}

// ActiveSegments returns the active segments sorted by start date.
func (r *Reservation) ActiveSegments() []ReservationSegment {
	out := make([]ReservationSegment, 0, len(r.Segments))
	for _, s := range r.Segments {
		if s.IsActive {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out
}

// CheckIn is the earliest active segment start; zero when unsegmented.
func (r *Reservation) CheckIn() time.Time {
	segs := r.ActiveSegments()
	if len(segs) == 0 {
		return time.Time{}
	}
	return segs[0].StartDate
}

// CheckOut is the latest active segment end; zero when unsegmented.
func (r *Reservation) CheckOut() time.Time {
	var out time.Time
	for _, s := range r.ActiveSegments() {
		if s.EndDate.After(out) {
			out = s.EndDate
		}
	}
	return out
}

func (r *Reservation) Nights() int {
	n := 0
	for _, s := range r.ActiveSegments() {
		seg := s
		n += seg.Nights()
	}
	return n
}

// Total folds per-segment totals over the reservation and all children.
func (r *Reservation) Total() float64 {
	total := 0.0
	for _, s := range r.ActiveSegments() {
		seg := s
		total += seg.Total()
	}
	for i := range r.Children {
		total += r.Children[i].Total()
	}
	return total
}

// DistinctRooms counts the distinct rooms referenced by the active
// segments of the reservation and its children.
func (r *Reservation) DistinctRooms() int {
	type roomRef struct {
		kind RoomKind
		id   int64
	}
	seen := map[roomRef]struct{}{}
	var walk func(res *Reservation)
	walk = func(res *Reservation) {
		for _, s := range res.ActiveSegments() {
			seen[roomRef{s.RoomKind, s.RoomID}] = struct{}{}
		}
		for i := range res.Children {
			walk(&res.Children[i])
		}
	}
	walk(r)
	return len(seen)
}
