package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotelpms/internal/domain"
)

// ReservationStore persists reservations and their segments. All
// multi-step mutations go through Transact so validation reads and the
// subsequent writes are atomic with respect to concurrent bookers.
type ReservationStore struct {
	db *gorm.DB
}

func NewReservationStore(db *gorm.DB) *ReservationStore {
	return &ReservationStore{db: db}
}

// SegmentConflict describes an existing active segment that intersects a
// candidate range, carrying enough context for a human-readable
// explanation ("room X is taken by reservation Y for client Z").
type SegmentConflict struct {
	SegmentID         int64                    `json:"segment_id"`
	ReservationID     int64                    `json:"reservation_id"`
	RoomKind          domain.RoomKind          `json:"room_kind"`
	RoomID            int64                    `json:"room_id"`
	StartDate         time.Time                `json:"start_date"`
	EndDate           time.Time                `json:"end_date"`
	ReservationStatus domain.ReservationStatus `json:"reservation_status"`
	ClientID          int64                    `json:"client_id"`
	ClientName        string                   `json:"client_name"`
}

type conflictRow struct {
	SegmentID         int64
	ReservationID     int64
	RoomKind          string
	RoomID            int64
	StartDate         time.Time
	EndDate           time.Time
	ReservationStatus string
	ClientID          int64
	FirstName         string
	LastName          string
}

func toConflict(r conflictRow) SegmentConflict {
	return SegmentConflict{
		SegmentID:         r.SegmentID,
		ReservationID:     r.ReservationID,
		RoomKind:          domain.RoomKind(r.RoomKind),
		RoomID:            r.RoomID,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		ReservationStatus: domain.ReservationStatus(r.ReservationStatus),
		ClientID:          r.ClientID,
		ClientName:        strings.TrimSpace(r.FirstName + " " + r.LastName),
	}
}

// Transact runs fn inside one transaction, serializable on PostgreSQL.
// SQLite is left on its driver default, which is already serializable.
// A transient serialization conflict is retried once.
func (s *ReservationStore) Transact(ctx context.Context, fn func(store *ReservationStore) error) error {
	run := func() error {
		var opts []*sql.TxOptions
		if s.db.Dialector.Name() == "postgres" {
			opts = append(opts, &sql.TxOptions{Isolation: sql.LevelSerializable})
		}
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&ReservationStore{db: tx})
		}, opts...)
	}

	err := run()
	if err != nil && IsRetryable(err) {
		err = run()
	}
	return err
}

func (s *ReservationStore) CreateReservation(ctx context.Context, r *domain.Reservation) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(r).Error
}

func (s *ReservationStore) CreateSegments(ctx context.Context, segs []domain.ReservationSegment) error {
	if len(segs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&segs).Error
}

func (s *ReservationStore) GetReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	var r domain.Reservation
	tx := s.db.WithContext(ctx).
		Preload("Client").
		Preload("Segments").
		Preload("Children").
		Preload("Children.Client").
		Preload("Children.Segments").
		First(&r, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &r, nil
}

// ListReservations returns top-level reservations (children ride along
// on their parent) newest first.
func (s *ReservationStore) ListReservations(ctx context.Context, limit, offset int) ([]domain.Reservation, int64, error) {
	var total int64
	base := s.db.WithContext(ctx).Model(&domain.Reservation{}).Where("parent_reservation_id IS NULL")
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Reservation
	tx := s.db.WithContext(ctx).
		Preload("Client").
		Preload("Segments").
		Preload("Children").
		Preload("Children.Segments").
		Where("parent_reservation_id IS NULL").
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&out)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}
	return out, total, nil
}

func (s *ReservationStore) UpdateReservationStatus(ctx context.Context, id int64, status domain.ReservationStatus, cancelledAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if cancelledAt != nil {
		updates["cancelled_at"] = cancelledAt
	}
	return s.db.WithContext(ctx).Model(&domain.Reservation{}).Where("id = ?", id).Updates(updates).Error
}

func (s *ReservationStore) SetReservationNotes(ctx context.Context, id int64, notes string) error {
	return s.db.WithContext(ctx).Model(&domain.Reservation{}).Where("id = ?", id).Update("notes", notes).Error
}

func (s *ReservationStore) SetMultiRoom(ctx context.Context, id int64, multi bool) error {
	return s.db.WithContext(ctx).Model(&domain.Reservation{}).Where("id = ?", id).Update("is_multi_room", multi).Error
}

// DeactivateSegments soft-deletes every active segment of a reservation.
// Rows stay behind for occupancy history.
func (s *ReservationStore) DeactivateSegments(ctx context.Context, reservationID int64, reason string) error {
	updates := map[string]interface{}{"is_active": false}
	if reason != "" {
		updates["reason"] = reason
	}
	return s.db.WithContext(ctx).
		Model(&domain.ReservationSegment{}).
		Where("reservation_id = ? AND is_active = ?", reservationID, true).
		Updates(updates).Error
}

func (s *ReservationStore) ActiveSegments(ctx context.Context, reservationID int64) ([]domain.ReservationSegment, error) {
	var out []domain.ReservationSegment
	tx := s.db.WithContext(ctx).
		Where("reservation_id = ? AND is_active = ?", reservationID, true).
		Order("start_date").
		Find(&out)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return out, nil
}

func (s *ReservationStore) ChildReservationIDs(ctx context.Context, parentID int64) ([]int64, error) {
	var ids []int64
	tx := s.db.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("parent_reservation_id = ?", parentID).
		Order("id").
		Pluck("id", &ids)
	return ids, tx.Error
}

// DeleteReservationCascade hard-deletes a reservation together with its
// children and every segment of the tree. Caller wraps it in Transact.
func (s *ReservationStore) DeleteReservationCascade(ctx context.Context, id int64) error {
	childIDs, err := s.ChildReservationIDs(ctx, id)
	if err != nil {
		return err
	}
	ids := append(childIDs, id)

	if err := s.db.WithContext(ctx).
		Where("reservation_id IN ?", ids).
		Delete(&domain.ReservationSegment{}).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.Reservation{}).Error
}

// FindConflicts returns every active segment on the given room that
// intersects [start, end), excluding segments owned by
// excludeReservationID when it is non-zero. Abutting segments do not
// intersect: half-open ranges keep checkout day free.
func (s *ReservationStore) FindConflicts(ctx context.Context, kind domain.RoomKind, roomID int64, start, end time.Time, excludeReservationID int64) ([]SegmentConflict, error) {
	q := s.db.WithContext(ctx).
		Table("reservation_segments AS s").
		Select(`s.id AS segment_id, s.reservation_id, s.room_kind, s.room_id,
			s.start_date, s.end_date, r.status AS reservation_status,
			r.main_client_id AS client_id, c.first_name, c.last_name`).
		Joins("JOIN reservations r ON r.id = s.reservation_id").
		Joins("LEFT JOIN clients c ON c.id = r.main_client_id").
		Where("s.room_kind = ? AND s.room_id = ?", kind, roomID).
		Where("s.is_active = ?", true).
		Where("r.status <> ?", domain.ReservationCancelled).
		Where("s.start_date < ? AND s.end_date > ?", end, start).
		Order("s.start_date")
	if excludeReservationID > 0 {
		q = q.Where("s.reservation_id <> ?", excludeReservationID)
	}

	var rows []conflictRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]SegmentConflict, 0, len(rows))
	for _, r := range rows {
		out = append(out, toConflict(r))
	}
	return out, nil
}

// SegmentsForRoomRange lists active segments on a room intersecting
// [from, to), for occupancy calendars.
func (s *ReservationStore) SegmentsForRoomRange(ctx context.Context, kind domain.RoomKind, roomID int64, from, to time.Time) ([]domain.ReservationSegment, error) {
	var out []domain.ReservationSegment
	tx := s.db.WithContext(ctx).
		Where("room_kind = ? AND room_id = ?", kind, roomID).
		Where("is_active = ?", true).
		Where("start_date < ? AND end_date > ?", to, from).
		Order("start_date").
		Find(&out)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return out, nil
}

// ComponentRoomIDs returns the physical rooms of a virtual room in
// component order.
func (s *ReservationStore) ComponentRoomIDs(ctx context.Context, virtualRoomID int64) ([]int64, error) {
	var ids []int64
	tx := s.db.WithContext(ctx).
		Model(&domain.VirtualRoomComponent{}).
		Where("virtual_room_id = ?", virtualRoomID).
		Order("position").
		Pluck("room_id", &ids)
	return ids, tx.Error
}

// VirtualRoomIDsContaining returns every virtual room that uses the
// physical room as a component.
func (s *ReservationStore) VirtualRoomIDsContaining(ctx context.Context, roomID int64) ([]int64, error) {
	var ids []int64
	tx := s.db.WithContext(ctx).
		Model(&domain.VirtualRoomComponent{}).
		Where("room_id = ?", roomID).
		Distinct().
		Pluck("virtual_room_id", &ids)
	return ids, tx.Error
}

func (s *ReservationStore) RoomExists(ctx context.Context, kind domain.RoomKind, roomID int64) (bool, error) {
	var cnt int64
	q := s.db.WithContext(ctx)
	if kind == domain.RoomKindVirtual {
		q = q.Model(&domain.VirtualRoom{}).Where("id = ?", roomID)
	} else {
		q = q.Model(&domain.Room{}).Where("id = ?", roomID)
	}
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (s *ReservationStore) ClientExists(ctx context.Context, clientID int64) (bool, error) {
	var cnt int64
	if err := s.db.WithContext(ctx).Model(&domain.Client{}).Where("id = ?", clientID).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}
