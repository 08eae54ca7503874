package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"placeshare/internal/httperr"
	"placeshare/internal/models"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Client resolves free-text addresses to coordinates through the Google
// Geocoding API. Each call is independent: no retries, no caching.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// New constructs a Client. A nil httpClient gets a 10 second timeout default.
func New(apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: httpClient,
	}
}

// NewWithBaseURL is New with an overridden endpoint, for tests.
func NewWithBaseURL(apiKey, baseURL string, httpClient *http.Client) *Client {
	c := New(apiKey, httpClient)
	c.baseURL = baseURL
	return c
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location models.Location `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Resolve looks up the address and returns its coordinates. A zero-results
// status or an empty payload surfaces as a NotFound error; transport and
// provider failures surface as Internal.
func (c *Client) Resolve(ctx context.Context, address string) (models.Location, error) {
	endpoint := fmt.Sprintf("%s?address=%s&key=%s", c.baseURL, url.QueryEscape(address), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.Location{}, httperr.Internal("Geocoding request failed")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Println("[GEO] [ERROR] geocoding call failed:", err)
		return models.Location{}, httperr.Internal("Geocoding request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Println("[GEO] [ERROR] geocoding provider status:", resp.StatusCode)
		return models.Location{}, httperr.Internal("Geocoding request failed")
	}

	var payload geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Println("[GEO] [ERROR] geocoding payload decode failed:", err)
		return models.Location{}, httperr.NotFound("Could not find location coordinates")
	}

	if payload.Status == "ZERO_RESULTS" || len(payload.Results) == 0 {
		return models.Location{}, httperr.NotFound("Could not find location coordinates")
	}

	return payload.Results[0].Geometry.Location, nil
}
