package repository

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/rides/internal/ride/domain"
	"github.com/smallbiznis/rides/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := db.NewTest(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })

	require.NoError(t, conn.AutoMigrate(&domain.Ride{}))
	return conn
}

func sampleRide() domain.Ride {
	return domain.Ride{
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
		Active:            true,
	}
}

func TestInsertAssignsIncreasingIDs(t *testing.T) {
	conn := newTestDB(t)
	r := Provide()
	ctx := context.Background()

	first := sampleRide()
	require.NoError(t, r.Insert(ctx, conn, &first))
	second := sampleRide()
	require.NoError(t, r.Insert(ctx, conn, &second))

	assert.Positive(t, first.ID)
	assert.Greater(t, second.ID, first.ID)
}

func TestListActiveFiltersInactiveRows(t *testing.T) {
	conn := newTestDB(t)
	r := Provide()
	ctx := context.Background()

	active := sampleRide()
	require.NoError(t, r.Insert(ctx, conn, &active))
	retired := sampleRide()
	retired.CityCode = "SFO"
	require.NoError(t, r.Insert(ctx, conn, &retired))
	require.NoError(t, conn.Model(&domain.Ride{}).Where("id = ?", retired.ID).Update("active", false).Error)

	rides, err := r.ListActive(ctx, conn)
	require.NoError(t, err)
	require.Len(t, rides, 1)

	got := rides[0]
	assert.Equal(t, active.ID, got.ID)
	assert.Equal(t, "NYC", got.CityCode)
	assert.True(t, got.Datetime.Equal(active.Datetime))
	assert.Equal(t, 14.5, got.TotalAmount)
	assert.True(t, got.Active)
}

func TestListActiveEmptyStore(t *testing.T) {
	conn := newTestDB(t)

	rides, err := Provide().ListActive(context.Background(), conn)
	require.NoError(t, err)
	assert.NotNil(t, rides)
	assert.Empty(t, rides)
}

func TestPing(t *testing.T) {
	conn := newTestDB(t)
	r := Provide()

	assert.NoError(t, r.Ping(context.Background(), conn))

	require.NoError(t, db.Close(conn))
	assert.Error(t, r.Ping(context.Background(), conn))
}
