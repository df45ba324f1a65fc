// internal/clients/city_client.go
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const cityNameField = "שם_ישוב"

// CityClient loads the locality list from the open-data datastore API.
type CityClient struct {
	baseURL    string
	resourceID string
	limit      int
	client     *http.Client
}

func NewCityClient(baseURL, resourceID string, limit int) *CityClient {
	return &CityClient{
		baseURL:    baseURL,
		resourceID: resourceID,
		limit:      limit,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

type datastoreResponse struct {
	Result struct {
		Records []map[string]any `json:"records"`
	} `json:"result"`
}

// Cities returns the trimmed locality names in the order the API lists them.
func (c *CityClient) Cities(ctx context.Context) ([]string, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "CityClient.Cities")
	defer span.End()

	q := url.Values{}
	q.Set("resource_id", c.resourceID)
	q.Set("limit", strconv.Itoa(c.limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload datastoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode cities: %w", err)
	}

	cities := make([]string, 0, len(payload.Result.Records))
	for _, rec := range payload.Result.Records {
		name, _ := rec[cityNameField].(string)
		if name = strings.TrimSpace(name); name != "" {
			cities = append(cities, name)
		}
	}
	span.SetAttributes(attribute.Int("cities.count", len(cities)))
	return cities, nil
}
