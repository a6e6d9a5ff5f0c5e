package delivery

import (
	"errors"
	"strings"

	deliveryModel "delivery-backend/models/delivery"
)

// Coordinate is a latitude/longitude pair with an optional display
// address.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

func (c *Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return errors.New("latitude out of range")
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return errors.New("longitude out of range")
	}
	if c.Latitude == 0 && c.Longitude == 0 {
		return errors.New("coordinates are required")
	}
	return nil
}

// Map converts the coordinate into the jsonb shape stored on the row.
func (c *Coordinate) Map() deliveryModel.JSONMap {
	m := deliveryModel.JSONMap{
		"latitude":  c.Latitude,
		"longitude": c.Longitude,
	}
	if c.Address != "" {
		m["address"] = c.Address
	}
	return m
}

// CreateDeliveryRequest opens a new delivery. Clients create for
// themselves; admins must name the client and may supply a pre-agreed
// distance and price instead of quoting.
type CreateDeliveryRequest struct {
	Mode          string                 `json:"mode"`
	From          Coordinate             `json:"from"`
	To            Coordinate             `json:"to"`
	PickUpNumber  string                 `json:"pick_up_number"`
	DropOffNumber string                 `json:"drop_off_number"`
	Payment       map[string]interface{} `json:"payment,omitempty"`
	Schedule      map[string]interface{} `json:"schedule,omitempty"`
	Note          string                 `json:"note,omitempty"`
	Coupons       []uint                 `json:"coupons,omitempty"`

	// Admin-only fields.
	ClientID uint    `json:"client_id,omitempty"`
	Distance float64 `json:"distance,omitempty"`
	Price    float64 `json:"price,omitempty"`
}

func (r *CreateDeliveryRequest) Validate() error {
	if !deliveryModel.Mode(r.Mode).IsValid() {
		return errors.New("invalid transport mode")
	}
	if err := r.From.Validate(); err != nil {
		return errors.New("from: " + err.Error())
	}
	if err := r.To.Validate(); err != nil {
		return errors.New("to: " + err.Error())
	}
	if strings.TrimSpace(r.PickUpNumber) == "" {
		return errors.New("pick_up_number is required")
	}
	if strings.TrimSpace(r.DropOffNumber) == "" {
		return errors.New("drop_off_number is required")
	}
	if r.Distance < 0 || r.Price < 0 {
		return errors.New("distance and price cannot be negative")
	}
	return nil
}

// HasManualPricing reports whether the caller supplied a pre-agreed
// distance/price pair, skipping the quote collaborator.
func (r *CreateDeliveryRequest) HasManualPricing() bool {
	return r.Distance > 0 && r.Price > 0
}

// QuoteRequest prices a prospective delivery without creating it.
type QuoteRequest struct {
	Mode    string     `json:"mode"`
	From    Coordinate `json:"from"`
	To      Coordinate `json:"to"`
	Coupons []uint     `json:"coupons,omitempty"`
}

func (r *QuoteRequest) Validate() error {
	if !deliveryModel.Mode(r.Mode).IsValid() {
		return errors.New("invalid transport mode")
	}
	if err := r.From.Validate(); err != nil {
		return errors.New("from: " + err.Error())
	}
	if err := r.To.Validate(); err != nil {
		return errors.New("to: " + err.Error())
	}
	return nil
}

// AssignRequest attaches a driver to a delivery. Reassign must be set
// explicitly when a driver is already attached.
type AssignRequest struct {
	DeliveryID uint `json:"delivery_id"`
	DriverID   uint `json:"driver_id"`
	Reassign   bool `json:"reassign,omitempty"`
}

func (r *AssignRequest) Validate() error {
	if r.DeliveryID == 0 {
		return errors.New("delivery_id is required")
	}
	if r.DriverID == 0 {
		return errors.New("driver_id is required")
	}
	return nil
}

// CancelRequest cancels an active delivery. A client may attach a
// low rating explaining the cancellation; zero means no review.
type CancelRequest struct {
	Rating int    `json:"rating,omitempty"`
	Remark string `json:"remark,omitempty"`
}

func (r *CancelRequest) Validate() error {
	if r.Rating != 0 && (r.Rating < 1 || r.Rating > 5) {
		return errors.New("rating must be between 1 and 5")
	}
	return nil
}

// ReviewRequest rates the driver of a finished delivery.
type ReviewRequest struct {
	Rating int    `json:"rating"`
	Remark string `json:"remark,omitempty"`
}

func (r *ReviewRequest) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}
	return nil
}

// LocationUpdateRequest reports a driver's live position.
type LocationUpdateRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Heading   float64 `json:"heading"`
}

func (r *LocationUpdateRequest) Validate() error {
	if r.Latitude < -90 || r.Latitude > 90 {
		return errors.New("latitude out of range")
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return errors.New("longitude out of range")
	}
	if r.Latitude == 0 && r.Longitude == 0 {
		return errors.New("coordinates are required")
	}
	if r.Heading < 0 || r.Heading >= 360 {
		return errors.New("heading must be within [0, 360)")
	}
	return nil
}
