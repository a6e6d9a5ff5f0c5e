package routing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	deliveryTypes "delivery-backend/types/delivery"
)

const matrixResponse = `{
	"status": "OK",
	"rows": [{
		"elements": [{
			"status": "OK",
			"distance": {"text": "7.2 km", "value": 7200},
			"duration": {"text": "18 mins", "value": 1080}
		}]
	}]
}`

func TestDistanceParsesMatrixResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("origins"); got == "" {
			t.Error("origins query parameter missing")
		}
		if got := r.URL.Query().Get("destinations"); got == "" {
			t.Error("destinations query parameter missing")
		}
		w.Write([]byte(matrixResponse))
	}))
	defer server.Close()

	t.Setenv("MATRIX_API_URL", server.URL)
	client := NewClient()

	result, err := client.Distance(
		deliveryTypes.Coordinate{Latitude: 23.81, Longitude: 90.41},
		deliveryTypes.Coordinate{Latitude: 23.75, Longitude: 90.39},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.DistanceMeters != 7200 {
		t.Errorf("DistanceMeters = %d, want 7200", result.DistanceMeters)
	}
	if result.DistanceKm() != 7.2 {
		t.Errorf("DistanceKm = %v, want 7.2", result.DistanceKm())
	}
	if result.Duration != "18 mins" {
		t.Errorf("Duration = %q", result.Duration)
	}
}

func TestDistanceRejectsEmptyRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "OK", "rows": []}`))
	}))
	defer server.Close()

	t.Setenv("MATRIX_API_URL", server.URL)
	client := NewClient()

	_, err := client.Distance(deliveryTypes.Coordinate{Latitude: 1, Longitude: 1}, deliveryTypes.Coordinate{Latitude: 2, Longitude: 2})
	if err == nil {
		t.Fatal("expected error for empty rows")
	}
}

func TestDistanceRejectsFailedElement(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rows": [{"elements": [{"status": "ZERO_RESULTS"}]}]}`))
	}))
	defer server.Close()

	t.Setenv("MATRIX_API_URL", server.URL)
	client := NewClient()

	_, err := client.Distance(deliveryTypes.Coordinate{Latitude: 1, Longitude: 1}, deliveryTypes.Coordinate{Latitude: 2, Longitude: 2})
	if err == nil {
		t.Fatal("expected error for ZERO_RESULTS element")
	}
}

func TestDistanceRejectsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	t.Setenv("MATRIX_API_URL", server.URL)
	client := NewClient()

	_, err := client.Distance(deliveryTypes.Coordinate{Latitude: 1, Longitude: 1}, deliveryTypes.Coordinate{Latitude: 2, Longitude: 2})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
}
