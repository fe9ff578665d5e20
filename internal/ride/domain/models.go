package domain

import "time"

// Ride is one recorded trip. Rows are written once and never updated.
type Ride struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Type              string    `gorm:"type:varchar(255);not null" json:"type"`
	Datetime          time.Time `gorm:"not null" json:"datetime"`
	UserID            int64     `gorm:"not null" json:"user_id"`
	DriverID          int64     `gorm:"not null" json:"driver_id"`
	CityCode          string    `gorm:"type:varchar(50);not null" json:"city_code"`
	PickupLocationID  int64     `gorm:"not null" json:"pickup_location_id"`
	DropoffLocationID int64     `gorm:"not null" json:"dropoff_location_id"`
	PassengerCount    int64     `gorm:"not null" json:"passenger_count"`
	TripDistance      float64   `gorm:"not null" json:"trip_distance"`
	FareAmount        float64   `gorm:"not null" json:"fare_amount"`
	ExtraAmount       float64   `gorm:"not null" json:"extra_amount"`
	TipAmount         float64   `gorm:"not null" json:"tip_amount"`
	TotalAmount       float64   `gorm:"not null" json:"total_amount"`
	PaymentType       int32     `gorm:"type:integer;not null" json:"payment_type"`
	CurrencyCode      string    `gorm:"type:varchar(10);not null" json:"currency_code"`
	Active            bool      `gorm:"default:true;index:idx_rides_active" json:"active"`
}

func (Ride) TableName() string {
	return "rides"
}
