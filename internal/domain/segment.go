package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// RoomKind tags which catalog a segment's room id points into.
type RoomKind string

const (
	RoomKindPhysical RoomKind = "physical"
	RoomKindVirtual  RoomKind = "virtual"
)

func (k RoomKind) Valid() bool {
	return k == RoomKindPhysical || k == RoomKindVirtual
}

// ServiceCode is an enum-backed service (meal plan etc.) attached to a
// segment for its sub-period.
type ServiceCode string

const (
	ServiceBreakfast    ServiceCode = "breakfast"
	ServiceHalfBoard    ServiceCode = "half_board"
	ServiceFullBoard    ServiceCode = "full_board"
	ServiceAllInclusive ServiceCode = "all_inclusive"
	ServiceParking      ServiceCode = "parking"
	ServiceSpa          ServiceCode = "spa"
)

func (s ServiceCode) Valid() bool {
	switch s {
	case ServiceBreakfast, ServiceHalfBoard, ServiceFullBoard, ServiceAllInclusive, ServiceParking, ServiceSpa:
		return true
	}
	return false
}

// ServiceList is stored as a JSON array of service codes.
type ServiceList []ServiceCode

func (l ServiceList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *ServiceList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

func (ServiceList) GormDataType() string { return "text" }

type AdjustmentKind string

const (
	AdjustmentDiscount  AdjustmentKind = "discount"
	AdjustmentSurcharge AdjustmentKind = "surcharge"
)

// RateAdjustment is a flat per-segment amount applied on top of the
// nightly base rate total.
type RateAdjustment struct {
	Kind   AdjustmentKind `json:"kind"`
	Amount float64        `json:"amount"`
	Reason string         `json:"reason,omitempty"`
}

type AdjustmentList []RateAdjustment

func (l AdjustmentList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *AdjustmentList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

func (AdjustmentList) GormDataType() string { return "text" }

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
}

// ReservationSegment binds one reservation to one room for the half-open
// day range [StartDate, EndDate). Segments are never deleted, only
// deactivated, so historical occupancy stays reconstructable.
type ReservationSegment struct {
	ID              int64          `json:"id"`
	ReservationID   int64          `json:"reservation_id"`
	RoomKind        RoomKind       `json:"room_kind"`
	RoomID          int64          `json:"room_id" validate:"required"`
	StartDate       time.Time      `json:"start_date" gorm:"type:date"`
	EndDate         time.Time      `json:"end_date" gorm:"type:date"`
	GuestCount      int            `json:"guest_count" validate:"required,gt=0"`
	BaseRate        float64        `json:"base_rate" validate:"required,gt=0"`
	Services        ServiceList    `json:"services"`
	RateAdjustments AdjustmentList `json:"rate_adjustments,omitempty"`
	IsActive        bool           `json:"is_active"`
	Reason          string         `json:"reason,omitempty" gorm:"type:text"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Nights is the number of occupied nights; checkout day is free.
func (s *ReservationSegment) Nights() int {
	return int(s.EndDate.Sub(s.StartDate).Hours() / 24)
}

// Total is nights times the base rate plus flat adjustments.
func (s *ReservationSegment) Total() float64 {
	total := float64(s.Nights()) * s.BaseRate
	for _, a := range s.RateAdjustments {
		switch a.Kind {
		case AdjustmentSurcharge:
			total += a.Amount
		case AdjustmentDiscount:
			total -= a.Amount
		}
	}
	return total
}

// Overlaps reports whether two half-open date ranges intersect.
// Abutting ranges (end == start) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Day truncates a timestamp to calendar-day granularity in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
