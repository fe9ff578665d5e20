package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/smallbiznis/rides/internal/ride/domain"
	"github.com/smallbiznis/rides/internal/ride/repository"
	"github.com/smallbiznis/rides/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// -- Mocks --

type repoMock struct {
	mock.Mock
}

func (m *repoMock) Insert(ctx context.Context, conn *gorm.DB, ride *domain.Ride) error {
	args := m.Called(ctx, conn, ride)
	return args.Error(0)
}

func (m *repoMock) ListActive(ctx context.Context, conn *gorm.DB) ([]domain.Ride, error) {
	args := m.Called(ctx, conn)
	rides, _ := args.Get(0).([]domain.Ride)
	return rides, args.Error(1)
}

func (m *repoMock) Ping(ctx context.Context, conn *gorm.DB) error {
	args := m.Called(ctx, conn)
	return args.Error(0)
}

// -- Helpers --

func newSQLiteService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	conn, err := db.NewTest(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })
	require.NoError(t, conn.AutoMigrate(&domain.Ride{}))

	return New(Params{
		DB:   conn,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	}), conn
}

func nycRequest() domain.CreateRideRequest {
	return domain.CreateRideRequest{
		Type:              "standard",
		Datetime:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UserID:            1,
		DriverID:          2,
		CityCode:          "NYC",
		PickupLocationID:  10,
		DropoffLocationID: 20,
		PassengerCount:    1,
		TripDistance:      3.2,
		FareAmount:        12.5,
		ExtraAmount:       0,
		TipAmount:         2,
		TotalAmount:       14.5,
		PaymentType:       1,
		CurrencyCode:      "USD",
	}
}

// -- Tests --

func TestCreateThenListActive(t *testing.T) {
	svc, _ := newSQLiteService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, nycRequest())
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.True(t, created.Active)

	rides, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, rides, 1)
	assert.Equal(t, created.ID, rides[0].ID)
	assert.Equal(t, "standard", rides[0].Type)
	assert.Equal(t, int32(1), rides[0].PaymentType)
}

func TestCreateNormalizesDatetimeToUTC(t *testing.T) {
	svc, _ := newSQLiteService(t)

	req := nycRequest()
	req.Datetime = time.Date(2024, 1, 1, 7, 0, 0, 0, time.FixedZone("UTC+7", 7*3600))

	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, created.Datetime.Location())
	assert.Equal(t, 0, created.Datetime.Hour())
}

func TestListActiveEmptyReturnsEmptySlice(t *testing.T) {
	svc, _ := newSQLiteService(t)

	rides, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rides)
	assert.Empty(t, rides)
}

func TestCreateClassifiesStoreErrors(t *testing.T) {
	tests := []struct {
		name     string
		storeErr error
		want     error
	}{
		{
			name:     "constraint violation",
			storeErr: &pgconn.PgError{Code: "23502", Message: "null value in column"},
			want:     domain.ErrConstraintViolation,
		},
		{
			name:     "connection lost",
			storeErr: &pgconn.PgError{Code: "08006"},
			want:     domain.ErrConnection,
		},
		{
			name:     "unclassified",
			storeErr: errors.New("boom"),
			want:     domain.ErrStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &repoMock{}
			repo.On("Insert", mock.Anything, mock.Anything, mock.AnythingOfType("*domain.Ride")).Return(tt.storeErr)

			svc := New(Params{Log: zap.NewNop(), Repo: repo})
			_, err := svc.Create(context.Background(), nycRequest())

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.storeErr)
			repo.AssertExpectations(t)
		})
	}
}

func TestCreateAlwaysInsertsActiveRide(t *testing.T) {
	repo := &repoMock{}
	repo.On("Insert", mock.Anything, mock.Anything, mock.MatchedBy(func(r *domain.Ride) bool {
		return r.Active && r.ID == 0
	})).Run(func(args mock.Arguments) {
		args.Get(2).(*domain.Ride).ID = 7
	}).Return(nil)

	svc := New(Params{Log: zap.NewNop(), Repo: repo})
	ride, err := svc.Create(context.Background(), nycRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(7), ride.ID)
	repo.AssertExpectations(t)
}

func TestListActiveWrapsConnectionError(t *testing.T) {
	repo := &repoMock{}
	repo.On("ListActive", mock.Anything, mock.Anything).Return(nil, errors.New("sql: database is closed"))

	svc := New(Params{Log: zap.NewNop(), Repo: repo})
	rides, err := svc.ListActive(context.Background())

	assert.Nil(t, rides)
	assert.ErrorIs(t, err, domain.ErrConnection)
}

func TestHealthy(t *testing.T) {
	svc, conn := newSQLiteService(t)

	assert.True(t, svc.Healthy(context.Background()))

	require.NoError(t, db.Close(conn))
	assert.False(t, svc.Healthy(context.Background()))
}
