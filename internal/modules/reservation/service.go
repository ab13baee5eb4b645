package reservation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"hotelpms/internal/domain"
	"hotelpms/internal/modules/availability"
	"hotelpms/internal/repository"
)

// Service is the reservation lifecycle manager. Every multi-step
// mutation runs inside one store transaction: availability is
// re-validated next to the writes so two concurrent bookers cannot both
// pass the check and double-book a room.
type Service struct {
	store *repository.ReservationStore
}

func NewService(store *repository.ReservationStore) *Service {
	return &Service{store: store}
}

func distinctRooms(segs []domain.ReservationSegment) int {
	type roomRef struct {
		kind domain.RoomKind
		id   int64
	}
	seen := map[roomRef]struct{}{}
	for _, s := range segs {
		seen[roomRef{s.RoomKind, s.RoomID}] = struct{}{}
	}
	return len(seen)
}

// validateRooms appends a violation for every segment whose room does
// not exist in the respective catalog.
func (s *Service) validateRooms(ctx context.Context, segs []domain.ReservationSegment, violations []string) ([]string, error) {
	for i, seg := range segs {
		if seg.RoomID <= 0 || !seg.RoomKind.Valid() {
			continue
		}
		exists, err := s.store.RoomExists(ctx, seg.RoomKind, seg.RoomID)
		if err != nil {
			return nil, err
		}
		if !exists {
			violations = append(violations, fmt.Sprintf("segment %d: %s room %d does not exist", i, seg.RoomKind, seg.RoomID))
		}
	}
	return violations, nil
}

// CreateReservation validates the whole segment set, then persists the
// reservation and all its segments as one atomic unit.
func (s *Service) CreateReservation(ctx context.Context, req CreateReservationRequest) (*domain.Reservation, error) {
	segs, violations := parseSegments(req.Segments)
	violations = append(violations, ValidateSegments(segs, domain.Day(time.Now()))...)

	status := domain.ReservationActive
	if req.Status != "" {
		status = domain.ReservationStatus(req.Status)
		if status != domain.ReservationActive && status != domain.ReservationPending {
			violations = append(violations, "status must be active or pending when creating a reservation")
		}
	}

	clientOK, err := s.store.ClientExists(ctx, req.MainClientID)
	if err != nil {
		return nil, err
	}
	if !clientOK {
		violations = append(violations, fmt.Sprintf("client %d does not exist", req.MainClientID))
	}

	violations, err = s.validateRooms(ctx, segs, violations)
	if err != nil {
		return nil, err
	}

	var parent *domain.Reservation
	if req.ParentReservationID != nil {
		parent, err = s.GetReservation(ctx, *req.ParentReservationID)
		if err != nil {
			return nil, err
		}
		// Parent/child linkage is a shallow tree, never a chain.
		if parent.ParentReservationID != nil {
			violations = append(violations, "parent reservation is itself a child booking")
		}
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	res := &domain.Reservation{
		MainClientID:        req.MainClientID,
		Status:              status,
		ParentReservationID: req.ParentReservationID,
		Notes:               req.Notes,
	}

	err = s.store.Transact(ctx, func(st *repository.ReservationStore) error {
		checker := availability.NewChecker(st)
		var conflicts []repository.SegmentConflict
		for _, seg := range segs {
			found, err := checker.Conflicts(ctx, seg.RoomKind, seg.RoomID, seg.StartDate, seg.EndDate, 0)
			if err != nil {
				return err
			}
			conflicts = append(conflicts, found...)
		}
		if len(conflicts) > 0 {
			return &ConflictError{Conflicts: conflicts}
		}

		if err := st.CreateReservation(ctx, res); err != nil {
			return err
		}
		for i := range segs {
			segs[i].ReservationID = res.ID
		}
		if err := st.CreateSegments(ctx, segs); err != nil {
			return err
		}

		if len(segs) > 1 || distinctRooms(segs) > 1 {
			if err := st.SetMultiRoom(ctx, res.ID, true); err != nil {
				return err
			}
		}
		if parent != nil {
			if err := st.SetMultiRoom(ctx, parent.ID, true); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if repository.IsOverlapViolation(err) {
			return nil, &ConflictError{}
		}
		return nil, err
	}

	return s.GetReservation(ctx, res.ID)
}

func (s *Service) GetReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	r, err := s.store.GetReservation(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) ListReservations(ctx context.Context, limit, offset int) ([]domain.Reservation, int64, error) {
	return s.store.ListReservations(ctx, limit, offset)
}

// UpdateReservation is replace-wholesale for segments: the current
// active set is deactivated and the replacement set validated against
// everyone else's segments before activation. Status and notes ride
// along in the same transaction.
func (s *Service) UpdateReservation(ctx context.Context, id int64, req UpdateReservationRequest) (*domain.Reservation, error) {
	current, err := s.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	var targetStatus *domain.ReservationStatus
	if req.Status != nil {
		st := domain.ReservationStatus(*req.Status)
		switch st {
		case domain.ReservationPending, domain.ReservationActive, domain.ReservationConfirmed,
			domain.ReservationCancelled, domain.ReservationCompleted:
			targetStatus = &st
		default:
			return nil, &ValidationError{Violations: []string{fmt.Sprintf("unknown status %q", *req.Status)}}
		}
	}

	var newSegs []domain.ReservationSegment
	if req.Segments != nil {
		var violations []string
		newSegs, violations = parseSegments(req.Segments)
		violations = append(violations, ValidateSegments(newSegs, domain.Day(time.Now()))...)
		violations, err = s.validateRooms(ctx, newSegs, violations)
		if err != nil {
			return nil, err
		}
		if len(violations) > 0 {
			return nil, &ValidationError{Violations: violations}
		}
	}

	err = s.store.Transact(ctx, func(st *repository.ReservationStore) error {
		if newSegs != nil {
			// Deactivate first so the replacement set only competes with
			// other reservations; the exclude filter is the second guard.
			if err := st.DeactivateSegments(ctx, id, "replaced by update"); err != nil {
				return err
			}

			checker := availability.NewChecker(st)
			var conflicts []repository.SegmentConflict
			for _, seg := range newSegs {
				found, err := checker.Conflicts(ctx, seg.RoomKind, seg.RoomID, seg.StartDate, seg.EndDate, id)
				if err != nil {
					return err
				}
				conflicts = append(conflicts, found...)
			}
			if len(conflicts) > 0 {
				return &ConflictError{Conflicts: conflicts}
			}

			for i := range newSegs {
				newSegs[i].ReservationID = id
			}
			if err := st.CreateSegments(ctx, newSegs); err != nil {
				return err
			}

			multi := len(newSegs) > 1 || distinctRooms(newSegs) > 1 || len(current.Children) > 0
			if err := st.SetMultiRoom(ctx, id, multi); err != nil {
				return err
			}
		}

		if req.Notes != nil {
			if err := st.SetReservationNotes(ctx, id, *req.Notes); err != nil {
				return err
			}
		}

		if targetStatus != nil {
			return s.applyStatus(ctx, st, current, *targetStatus)
		}
		return nil
	})
	if err != nil {
		if repository.IsOverlapViolation(err) {
			return nil, &ConflictError{}
		}
		return nil, err
	}

	return s.GetReservation(ctx, id)
}

// applyStatus runs the state machine and cascades the change to child
// reservations. Setting the current status again is a no-op.
func (s *Service) applyStatus(ctx context.Context, st *repository.ReservationStore, r *domain.Reservation, next domain.ReservationStatus) error {
	if next == r.Status {
		return nil
	}
	if next == domain.ReservationCancelled {
		return s.cancelTree(ctx, st, r)
	}
	if !r.Status.CanTransitionTo(next) {
		return ErrInvalidStatusTransition
	}
	if err := st.UpdateReservationStatus(ctx, r.ID, next, nil); err != nil {
		return err
	}
	childIDs, err := st.ChildReservationIDs(ctx, r.ID)
	if err != nil {
		return err
	}
	for _, childID := range childIDs {
		if err := st.UpdateReservationStatus(ctx, childID, next, nil); err != nil {
			return err
		}
	}
	return nil
}

// cancelTree cancels the reservation and all children, deactivating
// every segment so the rooms free up while audit rows remain.
func (s *Service) cancelTree(ctx context.Context, st *repository.ReservationStore, r *domain.Reservation) error {
	if !r.Status.CanTransitionTo(domain.ReservationCancelled) {
		return ErrInvalidStatusTransition
	}
	now := time.Now()
	ids := []int64{r.ID}
	childIDs, err := st.ChildReservationIDs(ctx, r.ID)
	if err != nil {
		return err
	}
	ids = append(ids, childIDs...)
	for _, id := range ids {
		if err := st.UpdateReservationStatus(ctx, id, domain.ReservationCancelled, &now); err != nil {
			return err
		}
		if err := st.DeactivateSegments(ctx, id, "reservation cancelled"); err != nil {
			return err
		}
	}
	return nil
}

// CancelReservation is idempotent: cancelling an already-cancelled
// reservation changes nothing and returns no error.
func (s *Service) CancelReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	current, err := s.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.ReservationCancelled {
		return current, nil
	}

	err = s.store.Transact(ctx, func(st *repository.ReservationStore) error {
		return s.cancelTree(ctx, st, current)
	})
	if err != nil {
		return nil, err
	}
	return s.GetReservation(ctx, id)
}

// DeleteReservation hard-deletes the reservation, its children and
// every segment of the tree. Cancel is the soft path; this one is for
// administrative cleanup.
func (s *Service) DeleteReservation(ctx context.Context, id int64) error {
	if _, err := s.GetReservation(ctx, id); err != nil {
		return err
	}
	return s.store.Transact(ctx, func(st *repository.ReservationStore) error {
		return st.DeleteReservationCascade(ctx, id)
	})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AutoSplit partitions a single-segment reservation at the supplied
// boundary dates into consecutive segments on the same room, each
// carrying an even share of the original total.
func (s *Service) AutoSplit(ctx context.Context, id int64, req SplitRequest) ([]domain.ReservationSegment, error) {
	current, err := s.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	actives := current.ActiveSegments()
	if len(actives) == 0 {
		return nil, &ValidationError{Violations: []string{"reservation has no active segment to split"}}
	}
	if len(actives) > 1 {
		return nil, &ValidationError{Violations: []string{
			fmt.Sprintf("reservation already has %d active segments; splitting is ambiguous", len(actives)),
		}}
	}
	orig := actives[0]

	var violations []string
	points := make([]time.Time, 0, len(req.SplitPoints))
	for i, raw := range req.SplitPoints {
		p, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			violations = append(violations, fmt.Sprintf("split point %d: must be a YYYY-MM-DD date", i))
			continue
		}
		points = append(points, domain.Day(p))
	}
	if len(points) == 0 && len(violations) == 0 {
		violations = append(violations, "at least one split point is required")
	}
	for i, p := range points {
		if !p.After(orig.StartDate) || !p.Before(orig.EndDate) {
			violations = append(violations, fmt.Sprintf("split point %d: %s is outside (%s, %s)",
				i, p.Format(time.DateOnly),
				orig.StartDate.Format(time.DateOnly), orig.EndDate.Format(time.DateOnly)))
		}
		if i > 0 && !points[i-1].Before(p) {
			violations = append(violations, fmt.Sprintf("split point %d: boundaries must be strictly increasing", i))
		}
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	boundaries := append(append([]time.Time{orig.StartDate}, points...), orig.EndDate)
	n := len(boundaries) - 1
	total := float64(orig.Nights()) * orig.BaseRate
	share := total / float64(n)

	newSegs := make([]domain.ReservationSegment, 0, n)
	var allocated float64
	for i := 0; i < n; i++ {
		seg := domain.ReservationSegment{
			ReservationID: id,
			RoomKind:      orig.RoomKind,
			RoomID:        orig.RoomID,
			StartDate:     boundaries[i],
			EndDate:       boundaries[i+1],
			GuestCount:    orig.GuestCount,
			Services:      orig.Services,
			IsActive:      true,
		}
		nights := float64(seg.Nights())
		if i < n-1 {
			seg.BaseRate = round2(share / nights)
			allocated += nights * seg.BaseRate
		} else {
			// Last slice absorbs the rounding remainder so the
			// reservation total is preserved.
			seg.BaseRate = round2((total - allocated) / nights)
		}
		if i == 0 {
			seg.RateAdjustments = orig.RateAdjustments
		}
		newSegs = append(newSegs, seg)
	}

	err = s.store.Transact(ctx, func(st *repository.ReservationStore) error {
		if err := st.DeactivateSegments(ctx, id, fmt.Sprintf("split into %d segments", n)); err != nil {
			return err
		}
		return st.CreateSegments(ctx, newSegs)
	})
	if err != nil {
		return nil, err
	}
	return newSegs, nil
}
