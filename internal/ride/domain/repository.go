package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, ride *Ride) error
	ListActive(ctx context.Context, db *gorm.DB) ([]Ride, error)
	Ping(ctx context.Context, db *gorm.DB) error
}
