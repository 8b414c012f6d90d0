package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"helpnet/utils"
)

const unknownLocation = "Unknown location"

// GeocodingService resolves coordinates to addresses via the Nominatim
// reverse-geocode API.
type GeocodingService struct {
	baseURL    string
	httpClient *http.Client
}

func NewGeocodingService(baseURL string, timeout time.Duration) *GeocodingService {
	return &GeocodingService{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
}

// ReverseGeocode returns the display name for the given coordinates. Callers
// are expected to fall back to "Unknown location" on error; the resolver
// never blocks emergency creation.
func (gs *GeocodingService) ReverseGeocode(ctx context.Context, lng, lat float64) (string, error) {
	url := fmt.Sprintf("%s/reverse?format=json&lat=%f&lon=%f", gs.baseURL, lat, lng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", utils.NewExternalServiceError("geocoding", err)
	}
	req.Header.Set("User-Agent", "helpnet/1.0")

	resp, err := gs.httpClient.Do(req)
	if err != nil {
		return "", utils.NewExternalServiceError("geocoding", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", utils.NewExternalServiceError("geocoding", fmt.Errorf("status %d", resp.StatusCode))
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", utils.NewExternalServiceError("geocoding", err)
	}
	if body.DisplayName == "" {
		logrus.Debugf("Reverse geocode returned no display name for %f,%f", lat, lng)
		return unknownLocation, nil
	}

	return body.DisplayName, nil
}
