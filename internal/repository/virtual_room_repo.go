package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotelpms/internal/domain"
)

type VirtualRoomRepository struct {
	db *gorm.DB
}

func NewVirtualRoomRepository(db *gorm.DB) *VirtualRoomRepository {
	return &VirtualRoomRepository{db: db}
}

// CreateWithComponents inserts the virtual room and its component rows
// in one transaction.
func (r *VirtualRoomRepository) CreateWithComponents(ctx context.Context, vr *domain.VirtualRoom) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		components := vr.Components
		vr.Components = nil
		if err := tx.Omit(clause.Associations).Create(vr).Error; err != nil {
			return err
		}
		for i := range components {
			components[i].VirtualRoomID = vr.ID
		}
		if err := tx.Create(&components).Error; err != nil {
			return err
		}
		vr.Components = components
		return nil
	})
}

// UpdateWithComponents replaces the component set wholesale and saves
// the recomputed capacity.
func (r *VirtualRoomRepository) UpdateWithComponents(ctx context.Context, vr *domain.VirtualRoom) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		components := vr.Components
		vr.Components = nil
		if err := tx.Omit(clause.Associations).Save(vr).Error; err != nil {
			return err
		}
		if err := tx.Where("virtual_room_id = ?", vr.ID).
			Delete(&domain.VirtualRoomComponent{}).Error; err != nil {
			return err
		}
		for i := range components {
			components[i].ID = 0
			components[i].VirtualRoomID = vr.ID
		}
		if err := tx.Create(&components).Error; err != nil {
			return err
		}
		vr.Components = components
		return nil
	})
}

func (r *VirtualRoomRepository) GetByID(ctx context.Context, id int64) (*domain.VirtualRoom, error) {
	var vr domain.VirtualRoom
	tx := r.db.WithContext(ctx).
		Preload("Components", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Components.Room").
		First(&vr, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &vr, nil
}

func (r *VirtualRoomRepository) List(ctx context.Context, limit, offset int) ([]domain.VirtualRoom, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.VirtualRoom{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.VirtualRoom
	tx := r.db.WithContext(ctx).
		Preload("Components", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Components.Room").
		Order("id").
		Limit(limit).Offset(offset).
		Find(&out)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}
	return out, total, nil
}

func (r *VirtualRoomRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("virtual_room_id = ?", id).
			Delete(&domain.VirtualRoomComponent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.VirtualRoom{}, id).Error
	})
}

// HasActiveSegments reports whether the virtual room still carries a
// directly booked active segment.
func (r *VirtualRoomRepository) HasActiveSegments(ctx context.Context, id int64) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).
		Model(&domain.ReservationSegment{}).
		Where("room_kind = ? AND room_id = ? AND is_active = ?", domain.RoomKindVirtual, id, true).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}
