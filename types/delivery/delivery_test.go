package delivery

import (
	"testing"
)

func validCreateRequest() CreateDeliveryRequest {
	return CreateDeliveryRequest{
		Mode:          "Motorcycle",
		From:          Coordinate{Latitude: 23.81, Longitude: 90.41},
		To:            Coordinate{Latitude: 23.75, Longitude: 90.39},
		PickUpNumber:  "01712345678",
		DropOffNumber: "01787654321",
	}
}

func TestCreateDeliveryRequestValid(t *testing.T) {
	req := validCreateRequest()
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateDeliveryRequestRejectsBadMode(t *testing.T) {
	req := validCreateRequest()
	req.Mode = "Bicycle"
	if err := req.Validate(); err == nil {
		t.Error("expected error for unknown mode")
	}

	req.Mode = "motorcycle" // case sensitive on purpose
	if err := req.Validate(); err == nil {
		t.Error("expected error for lowercase mode")
	}
}

func TestCreateDeliveryRequestRejectsMissingCoordinates(t *testing.T) {
	req := validCreateRequest()
	req.From = Coordinate{}
	if err := req.Validate(); err == nil {
		t.Error("expected error for zero coordinates")
	}

	req = validCreateRequest()
	req.To.Latitude = 91
	if err := req.Validate(); err == nil {
		t.Error("expected error for out-of-range latitude")
	}
}

func TestCreateDeliveryRequestRequiresContactNumbers(t *testing.T) {
	req := validCreateRequest()
	req.PickUpNumber = " "
	if err := req.Validate(); err == nil {
		t.Error("expected error for blank pick up number")
	}
}

func TestHasManualPricing(t *testing.T) {
	req := validCreateRequest()
	if req.HasManualPricing() {
		t.Error("no manual pricing expected by default")
	}
	req.Distance = 12
	if req.HasManualPricing() {
		t.Error("distance alone is not manual pricing")
	}
	req.Price = 900
	if !req.HasManualPricing() {
		t.Error("distance+price should be manual pricing")
	}
}

func TestCoordinateMapIncludesAddressOnlyWhenSet(t *testing.T) {
	c := Coordinate{Latitude: 1, Longitude: 2}
	m := c.Map()
	if _, ok := m["address"]; ok {
		t.Error("address should be omitted when empty")
	}

	c.Address = "Gulshan 1"
	if m := c.Map(); m["address"] != "Gulshan 1" {
		t.Errorf("address = %v", m["address"])
	}
}

func TestCancelRequestRatingOptional(t *testing.T) {
	req := CancelRequest{}
	if err := req.Validate(); err != nil {
		t.Fatalf("zero rating should be allowed: %v", err)
	}

	req.Rating = 6
	if err := req.Validate(); err == nil {
		t.Error("expected error for rating 6")
	}

	req.Rating = 1
	if err := req.Validate(); err != nil {
		t.Fatalf("rating 1 should be allowed: %v", err)
	}
}

func TestReviewRequestRatingRequired(t *testing.T) {
	req := ReviewRequest{}
	if err := req.Validate(); err == nil {
		t.Error("expected error for missing rating")
	}

	req.Rating = 5
	if err := req.Validate(); err != nil {
		t.Fatalf("rating 5 should be allowed: %v", err)
	}
}

func TestLocationUpdateRequestHeadingRange(t *testing.T) {
	req := LocationUpdateRequest{Latitude: 23.8, Longitude: 90.4, Heading: 359.9}
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req.Heading = 360
	if err := req.Validate(); err == nil {
		t.Error("expected error for heading 360")
	}

	req.Heading = -1
	if err := req.Validate(); err == nil {
		t.Error("expected error for negative heading")
	}
}
