package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"helpnet/utils"
)

// RoutingService estimates driving durations via the OSRM route API.
type RoutingService struct {
	baseURL    string
	httpClient *http.Client
}

func NewRoutingService(baseURL string, timeout time.Duration) *RoutingService {
	return &RoutingService{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Duration float64 `json:"duration"`
		Distance float64 `json:"distance"`
	} `json:"routes"`
}

func (rs *RoutingService) EstimateDuration(ctx context.Context, fromLng, fromLat, toLng, toLat float64) (time.Duration, error) {
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=false",
		rs.baseURL, fromLng, fromLat, toLng, toLat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, utils.NewExternalServiceError("routing", err)
	}

	resp, err := rs.httpClient.Do(req)
	if err != nil {
		return 0, utils.NewExternalServiceError("routing", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, utils.NewExternalServiceError("routing", fmt.Errorf("status %d", resp.StatusCode))
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, utils.NewExternalServiceError("routing", err)
	}
	if body.Code != "Ok" || len(body.Routes) == 0 {
		return 0, utils.NewExternalServiceError("routing", fmt.Errorf("no route found"))
	}

	return time.Duration(body.Routes[0].Duration * float64(time.Second)), nil
}
