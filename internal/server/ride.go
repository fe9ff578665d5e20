package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	ridedomain "github.com/smallbiznis/rides/internal/ride/domain"
)

const (
	msgRideCreated       = "Ride created successfully"
	msgFailedSaveRide    = "Failed to save ride"
	msgFailedFetchActive = "Failed to fetch active rides"
)

var errNullValue = errors.New("null value")

type createRideResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// CreateRide handles POST /rides.
func (s *Server) CreateRide(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := c.GetRawData()
	if err != nil {
		AbortWithError(c, invalidRequestError(err))
		return
	}

	fields, err := parseRideFields(body)
	if err != nil {
		AbortWithError(c, invalidRequestError(err))
		return
	}

	if missing := missingRideFields(fields); len(missing) > 0 {
		s.obsMetrics.RecordRideRejected(ctx, "missing_fields")
		AbortWithError(c, &ridedomain.MissingFieldsError{Fields: missing})
		return
	}

	req, err := decodeRideRequest(fields)
	if err != nil {
		s.obsMetrics.RecordRideRejected(ctx, ridedomain.ErrConstraintViolation.Error())
		AbortWithError(c, internalError(msgFailedSaveRide, err))
		return
	}

	ride, err := s.rideSvc.Create(ctx, req)
	if err != nil {
		AbortWithError(c, internalError(msgFailedSaveRide, err))
		return
	}

	c.JSON(http.StatusCreated, createRideResponse{
		Message: msgRideCreated,
		ID:      ride.ID,
	})
}

// ListActiveRides handles GET /active.
func (s *Server) ListActiveRides(c *gin.Context) {
	rides, err := s.rideSvc.ListActive(c.Request.Context())
	if err != nil {
		AbortWithError(c, internalError(msgFailedFetchActive, err))
		return
	}
	if rides == nil {
		rides = []ridedomain.Ride{}
	}

	c.JSON(http.StatusOK, rides)
}

// parseRideFields splits a JSON object body into its raw members. An empty
// body reads as an empty object.
func parseRideFields(body []byte) (map[string]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	if body[0] != '{' {
		return nil, ErrInvalidRequest
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return fields, nil
}

func missingRideFields(fields map[string]json.RawMessage) []string {
	var missing []string
	for _, name := range ridedomain.RequiredFields {
		if _, ok := fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// decodeRideRequest converts present members the way the columns take text
// input: numbers and booleans stand in for strings, numeric strings stand in
// for numbers. A null or a value the column cannot hold is a constraint
// violation.
func decodeRideRequest(fields map[string]json.RawMessage) (ridedomain.CreateRideRequest, error) {
	var req ridedomain.CreateRideRequest

	values := make(map[string]any, len(ridedomain.RequiredFields))
	for _, name := range ridedomain.RequiredFields {
		var v any
		if err := json.Unmarshal(fields[name], &v); err != nil {
			return req, fieldError(name, err)
		}
		if v == nil {
			return req, fieldError(name, errNullValue)
		}
		values[name] = v
	}

	var err error
	textFields := []struct {
		name string
		dst  *string
	}{
		{"Type", &req.Type},
		{"CityCode", &req.CityCode},
		{"CurrencyCode", &req.CurrencyCode},
	}
	for _, f := range textFields {
		if *f.dst, err = textValue(values[f.name]); err != nil {
			return req, fieldError(f.name, err)
		}
	}

	intFields := []struct {
		name string
		dst  *int64
	}{
		{"UserID", &req.UserID},
		{"DriverID", &req.DriverID},
		{"PickupLocationID", &req.PickupLocationID},
		{"DropoffLocationID", &req.DropoffLocationID},
		{"PassengerCount", &req.PassengerCount},
	}
	for _, f := range intFields {
		if *f.dst, err = intValue(values[f.name], 64); err != nil {
			return req, fieldError(f.name, err)
		}
	}

	paymentType, err := intValue(values["PaymentType"], 32)
	if err != nil {
		return req, fieldError("PaymentType", err)
	}
	req.PaymentType = int32(paymentType)

	floatFields := []struct {
		name string
		dst  *float64
	}{
		{"TripDistance", &req.TripDistance},
		{"FareAmount", &req.FareAmount},
		{"ExtraAmount", &req.ExtraAmount},
		{"TipAmount", &req.TipAmount},
		{"TotalAmount", &req.TotalAmount},
	}
	for _, f := range floatFields {
		if *f.dst, err = floatValue(values[f.name]); err != nil {
			return req, fieldError(f.name, err)
		}
	}

	if req.Datetime, err = timestampValue(values["Datetime"]); err != nil {
		return req, fieldError("Datetime", err)
	}

	return req, nil
}

func fieldError(name string, err error) error {
	return fmt.Errorf("%w: %s: %w", ridedomain.ErrConstraintViolation, name, err)
}
