package repository

import (
	"context"

	"gorm.io/gorm"

	"hotelpms/internal/domain"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var room domain.Room
	tx := r.db.WithContext(ctx).First(&room, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &room, nil
}

func (r *RoomRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Room, error) {
	var rooms []domain.Room
	tx := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rooms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rooms, nil
}

func (r *RoomRepository) List(ctx context.Context, status domain.RoomStatus, limit, offset int) ([]domain.Room, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Room{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rooms []domain.Room
	if err := q.Order("number").Limit(limit).Offset(offset).Find(&rooms).Error; err != nil {
		return nil, 0, err
	}
	return rooms, total, nil
}

func (r *RoomRepository) Update(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Room{}, id).Error
}

// HasActiveSegments reports whether any active segment still points at
// the room, either directly or through a virtual room it belongs to.
func (r *RoomRepository) HasActiveSegments(ctx context.Context, kind domain.RoomKind, roomID int64) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).
		Model(&domain.ReservationSegment{}).
		Where("room_kind = ? AND room_id = ? AND is_active = ?", kind, roomID, true).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

// InVirtualRoom reports whether the physical room is a component of any
// virtual room.
func (r *RoomRepository) InVirtualRoom(ctx context.Context, roomID int64) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).
		Model(&domain.VirtualRoomComponent{}).
		Where("room_id = ?", roomID).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}
