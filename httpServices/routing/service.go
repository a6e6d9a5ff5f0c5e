package routing

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	deliveryTypes "delivery-backend/types/delivery"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/distancematrix/json"

// Client calls the distance matrix API to measure a prospective route.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a routing client from MATRIX_API_URL / MATRIX_API_KEY.
func NewClient() *Client {
	baseURL := os.Getenv("MATRIX_API_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  os.Getenv("MATRIX_API_KEY"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// MatrixResult is the measured route between two coordinates.
type MatrixResult struct {
	Distance        string `json:"distance"`
	DistanceMeters  int    `json:"distance_value"`
	Duration        string `json:"duration"`
	DurationSeconds int    `json:"duration_value"`
}

// DistanceKm converts the measured distance to kilometres.
func (r *MatrixResult) DistanceKm() float64 {
	return float64(r.DistanceMeters) / 1000.0
}

// Distance measures the route between from and to.
func (c *Client) Distance(from, to deliveryTypes.Coordinate) (*MatrixResult, error) {
	query := url.Values{}
	query.Set("origins", fmt.Sprintf("%f,%f", from.Latitude, from.Longitude))
	query.Set("destinations", fmt.Sprintf("%f,%f", to.Latitude, to.Longitude))
	query.Set("key", c.apiKey)

	resp, err := c.httpClient.Get(c.baseURL + "?" + query.Encode())
	if err != nil {
		return nil, fmt.Errorf("distance matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("distance matrix returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read distance matrix response: %w", err)
	}

	var body struct {
		Rows []struct {
			Elements []struct {
				Status   string `json:"status"`
				Distance struct {
					Text  string `json:"text"`
					Value int    `json:"value"`
				} `json:"distance"`
				Duration struct {
					Text  string `json:"text"`
					Value int    `json:"value"`
				} `json:"duration"`
			} `json:"elements"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("failed to parse distance matrix response: %w", err)
	}

	if len(body.Rows) == 0 || len(body.Rows[0].Elements) == 0 {
		return nil, fmt.Errorf("distance matrix returned no route")
	}
	element := body.Rows[0].Elements[0]
	if element.Status != "" && element.Status != "OK" {
		return nil, fmt.Errorf("distance matrix element status: %s", element.Status)
	}

	return &MatrixResult{
		Distance:        element.Distance.Text,
		DistanceMeters:  element.Distance.Value,
		Duration:        element.Duration.Text,
		DurationSeconds: element.Duration.Value,
	}, nil
}
