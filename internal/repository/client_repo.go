package repository

import (
	"context"

	"gorm.io/gorm"

	"hotelpms/internal/domain"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	var c domain.Client
	tx := r.db.WithContext(ctx).First(&c, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &c, nil
}

func (r *ClientRepository) List(ctx context.Context, limit, offset int) ([]domain.Client, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Client{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Client
	tx := r.db.WithContext(ctx).Order("last_name, first_name").Limit(limit).Offset(offset).Find(&out)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}
	return out, total, nil
}

func (r *ClientRepository) Update(ctx context.Context, c *domain.Client) error {
	return r.db.WithContext(ctx).Save(c).Error
}
