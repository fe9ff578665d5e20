package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

type CreateRideRequest struct {
	Type              string
	Datetime          time.Time
	UserID            int64
	DriverID          int64
	CityCode          string
	PickupLocationID  int64
	DropoffLocationID int64
	PassengerCount    int64
	TripDistance      float64
	FareAmount        float64
	ExtraAmount       float64
	TipAmount         float64
	TotalAmount       float64
	PaymentType       int32
	CurrencyCode      string
}

type Service interface {
	Create(context.Context, CreateRideRequest) (Ride, error)
	ListActive(context.Context) ([]Ride, error)
	// Healthy reports whether the store answers a trivial query.
	Healthy(context.Context) bool
}

// RequiredFields lists the keys a ride payload must carry, in response order.
var RequiredFields = []string{
	"Type",
	"Datetime",
	"UserID",
	"DriverID",
	"CityCode",
	"PickupLocationID",
	"DropoffLocationID",
	"PassengerCount",
	"TripDistance",
	"FareAmount",
	"ExtraAmount",
	"TipAmount",
	"TotalAmount",
	"PaymentType",
	"CurrencyCode",
}

var (
	ErrConstraintViolation = errors.New("constraint_violation")
	ErrConnection          = errors.New("store_unavailable")
	ErrStore               = errors.New("store_error")
)

// MissingFieldsError is returned before any store call when a payload lacks
// one or more required fields.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "Missing required fields: " + strings.Join(e.Fields, ", ")
}
