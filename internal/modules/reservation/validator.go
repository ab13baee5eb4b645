package reservation

import (
	"fmt"
	"sort"
	"time"

	"hotelpms/internal/domain"
)

// parseSegments converts raw segment inputs into normalized domain
// segments, collecting every parse-level violation instead of stopping
// at the first.
func parseSegments(inputs []SegmentInput) ([]domain.ReservationSegment, []string) {
	segs := make([]domain.ReservationSegment, 0, len(inputs))
	var violations []string

	for i, in := range inputs {
		seg := domain.ReservationSegment{
			RoomID:          in.RoomID,
			GuestCount:      in.GuestCount,
			BaseRate:        in.BaseRate,
			RateAdjustments: in.RateAdjustments,
			Reason:          in.Reason,
			IsActive:        true,
		}

		kind := domain.RoomKindPhysical
		if in.RoomType != "" {
			kind = domain.RoomKind(in.RoomType)
		}
		if !kind.Valid() {
			violations = append(violations, fmt.Sprintf("segment %d: room_type must be physical or virtual", i))
		}
		seg.RoomKind = kind

		start, err := time.Parse(time.DateOnly, in.StartDate)
		if err != nil {
			violations = append(violations, fmt.Sprintf("segment %d: start_date must be a YYYY-MM-DD date", i))
		}
		end, err := time.Parse(time.DateOnly, in.EndDate)
		if err != nil {
			violations = append(violations, fmt.Sprintf("segment %d: end_date must be a YYYY-MM-DD date", i))
		}
		seg.StartDate = domain.Day(start)
		seg.EndDate = domain.Day(end)

		for _, svc := range in.Services {
			code := domain.ServiceCode(svc)
			if !code.Valid() {
				violations = append(violations, fmt.Sprintf("segment %d: unknown service %q", i, svc))
				continue
			}
			seg.Services = append(seg.Services, code)
		}
		for _, adj := range in.RateAdjustments {
			if adj.Kind != domain.AdjustmentDiscount && adj.Kind != domain.AdjustmentSurcharge {
				violations = append(violations, fmt.Sprintf("segment %d: adjustment kind must be discount or surcharge", i))
			}
			if adj.Amount < 0 {
				violations = append(violations, fmt.Sprintf("segment %d: adjustment amount must not be negative", i))
			}
		}

		segs = append(segs, seg)
	}
	return segs, violations
}

// structuralViolations checks each segment in isolation: room reference,
// strict date ordering, no past start, positive rate and guest count.
func structuralViolations(segs []domain.ReservationSegment, today time.Time) []string {
	var violations []string
	if len(segs) == 0 {
		return []string{"at least one segment is required"}
	}
	for i, s := range segs {
		if s.RoomID <= 0 {
			violations = append(violations, fmt.Sprintf("segment %d: room is required", i))
		}
		if !s.StartDate.IsZero() && !s.EndDate.IsZero() && !s.StartDate.Before(s.EndDate) {
			violations = append(violations, fmt.Sprintf("segment %d: start date %s must be before end date %s",
				i, s.StartDate.Format(time.DateOnly), s.EndDate.Format(time.DateOnly)))
		}
		if !s.StartDate.IsZero() && s.StartDate.Before(today) {
			violations = append(violations, fmt.Sprintf("segment %d: start date %s is in the past",
				i, s.StartDate.Format(time.DateOnly)))
		}
		if s.BaseRate <= 0 {
			violations = append(violations, fmt.Sprintf("segment %d: base rate must be positive", i))
		}
		if s.GuestCount <= 0 {
			violations = append(violations, fmt.Sprintf("segment %d: guest count must be positive", i))
		}
	}
	return violations
}

// sortedByStart returns a copy sorted by start date.
func sortedByStart(segs []domain.ReservationSegment) []domain.ReservationSegment {
	out := make([]domain.ReservationSegment, len(segs))
	copy(out, segs)
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out
}

// AreConsecutive reports whether the segments chain with no gap or
// overlap once sorted by start date. A single segment is trivially
// consecutive.
func AreConsecutive(segs []domain.ReservationSegment) bool {
	sorted := sortedByStart(segs)
	for i := 0; i+1 < len(sorted); i++ {
		if !sorted[i].EndDate.Equal(sorted[i+1].StartDate) {
			return false
		}
	}
	return true
}

// consecutivenessViolations names each adjacent pair that breaks the
// chain, with the offending dates.
func consecutivenessViolations(segs []domain.ReservationSegment) []string {
	sorted := sortedByStart(segs)
	var violations []string
	for i := 0; i+1 < len(sorted); i++ {
		if sorted[i].EndDate.Equal(sorted[i+1].StartDate) {
			continue
		}
		kind := "gap"
		if sorted[i].EndDate.After(sorted[i+1].StartDate) {
			kind = "overlap"
		}
		violations = append(violations, fmt.Sprintf(
			"segments %d and %d: %s between end %s and next start %s",
			i, i+1, kind,
			sorted[i].EndDate.Format(time.DateOnly),
			sorted[i+1].StartDate.Format(time.DateOnly)))
	}
	return violations
}

// ValidateSegments aggregates the structural checks and the
// consecutiveness invariant, returning every violation found.
func ValidateSegments(segs []domain.ReservationSegment, today time.Time) []string {
	violations := structuralViolations(segs, today)
	violations = append(violations, consecutivenessViolations(segs)...)
	return violations
}
