package reservation

import (
	"time"

	"hotelpms/internal/domain"
)

// SegmentInput is one requested segment. Dates are calendar days,
// end-exclusive; room_type defaults to physical.
type SegmentInput struct {
	RoomID          int64                   `json:"room_id" binding:"required"`
	RoomType        string                  `json:"room_type"`
	StartDate       string                  `json:"start_date" binding:"required"`
	EndDate         string                  `json:"end_date" binding:"required"`
	GuestCount      int                     `json:"guest_count" binding:"required"`
	BaseRate        float64                 `json:"base_rate" binding:"required"`
	Services        []string                `json:"services"`
	RateAdjustments []domain.RateAdjustment `json:"rate_adjustments"`
	Reason          string                  `json:"reason"`
}

type CreateReservationRequest struct {
	MainClientID        int64          `json:"main_client_id" binding:"required"`
	ParentReservationID *int64         `json:"parent_reservation_id"`
	Status              string         `json:"status"`
	Segments            []SegmentInput `json:"segments" binding:"required"`
	Notes               string         `json:"notes"`
}

// UpdateReservationRequest replaces the segment set wholesale when
// Segments is present; partial edits are resubmitted as the full list.
type UpdateReservationRequest struct {
	Segments []SegmentInput `json:"segments"`
	Status   *string        `json:"status"`
	Notes    *string        `json:"notes"`
}

type SplitRequest struct {
	SplitPoints []string `json:"split_points" binding:"required"`
}

// ReservationView adds the fields derived by folding over active
// segments: earliest start, latest end, night count and total amount.
type ReservationView struct {
	domain.Reservation
	CheckIn  *string           `json:"check_in,omitempty"`
	CheckOut *string           `json:"check_out,omitempty"`
	Nights   int               `json:"nights"`
	Total    float64           `json:"total"`
	Children []ReservationView `json:"children,omitempty"`
}

func NewReservationView(r *domain.Reservation) ReservationView {
	v := ReservationView{
		Reservation: *r,
		Nights:      r.Nights(),
		Total:       r.Total(),
	}
	if in := r.CheckIn(); !in.IsZero() {
		s := in.Format(time.DateOnly)
		v.CheckIn = &s
	}
	if out := r.CheckOut(); !out.IsZero() {
		s := out.Format(time.DateOnly)
		v.CheckOut = &s
	}
	for i := range r.Children {
		v.Children = append(v.Children, NewReservationView(&r.Children[i]))
	}
	v.Reservation.Children = nil
	return v
}
