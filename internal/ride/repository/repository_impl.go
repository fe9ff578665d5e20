package repository

import (
	"context"

	"github.com/smallbiznis/rides/internal/ride/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, ride *domain.Ride) error {
	return db.WithContext(ctx).Create(ride).Error
}

func (r *repo) ListActive(ctx context.Context, db *gorm.DB) ([]domain.Ride, error) {
	rides := make([]domain.Ride, 0)
	err := db.WithContext(ctx).
		Model(&domain.Ride{}).
		Where("active = ?", true).
		Find(&rides).Error
	if err != nil {
		return nil, err
	}
	return rides, nil
}

func (r *repo) Ping(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Exec("SELECT 1").Error
}
