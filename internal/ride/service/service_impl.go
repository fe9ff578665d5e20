package service

import (
	"context"
	"errors"
	"fmt"

	obslogger "github.com/smallbiznis/rides/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/rides/internal/observability/metrics"
	"github.com/smallbiznis/rides/internal/ride/domain"
	"github.com/smallbiznis/rides/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    domain.Repository
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	metrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("ride.service"),
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRideRequest) (domain.Ride, error) {
	ride := domain.Ride{
		Type:              req.Type,
		Datetime:          req.Datetime.UTC(),
		UserID:            req.UserID,
		DriverID:          req.DriverID,
		CityCode:          req.CityCode,
		PickupLocationID:  req.PickupLocationID,
		DropoffLocationID: req.DropoffLocationID,
		PassengerCount:    req.PassengerCount,
		TripDistance:      req.TripDistance,
		FareAmount:        req.FareAmount,
		ExtraAmount:       req.ExtraAmount,
		TipAmount:         req.TipAmount,
		TotalAmount:       req.TotalAmount,
		PaymentType:       req.PaymentType,
		CurrencyCode:      req.CurrencyCode,
		Active:            true,
	}

	if err := s.repo.Insert(ctx, s.db, &ride); err != nil {
		err = classify(err)
		s.metrics.RecordRideRejected(ctx, reason(err))
		return domain.Ride{}, fmt.Errorf("insert ride: %w", err)
	}

	s.metrics.RecordRideCreated(ctx)
	return ride, nil
}

func (s *Service) ListActive(ctx context.Context) ([]domain.Ride, error) {
	rides, err := s.repo.ListActive(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("list active rides: %w", classify(err))
	}
	if rides == nil {
		rides = []domain.Ride{}
	}

	s.metrics.RecordActiveRidesListed(ctx, len(rides))
	return rides, nil
}

func (s *Service) Healthy(ctx context.Context) bool {
	if err := s.repo.Ping(ctx, s.db); err != nil {
		obslogger.WithContext(ctx, s.log).Warn("database health check failed", zap.Error(err))
		return false
	}
	return true
}

// classify tags a store error with its taxonomy sentinel while keeping the
// driver error in the chain.
func classify(err error) error {
	switch {
	case db.IsConnectionErr(err):
		return fmt.Errorf("%w: %w", domain.ErrConnection, err)
	case db.IsConstraintErr(err):
		return fmt.Errorf("%w: %w", domain.ErrConstraintViolation, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
}

func reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrConnection):
		return domain.ErrConnection.Error()
	case errors.Is(err, domain.ErrConstraintViolation):
		return domain.ErrConstraintViolation.Error()
	default:
		return domain.ErrStore.Error()
	}
}
