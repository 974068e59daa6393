package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/salescope/salescope/pkg/config"
	"github.com/salescope/salescope/pkg/metrics"
)

// NominatimClient reverse-geocodes through the OpenStreetMap Nominatim API.
// Responses are requested in English to keep country/city values stable
// across deployments.
type NominatimClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewNominatimClient creates a client against the given base URL (the public
// endpoint when empty). Nominatim's usage policy requires an identifying
// User-Agent.
func NewNominatimClient(baseURL, userAgent string) *NominatimClient {
	if baseURL == "" {
		baseURL = config.DefaultNominatimURL
	}
	if userAgent == "" {
		userAgent = config.GeocodeUserAgent
	}
	return &NominatimClient{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: config.GeocodeTimeout},
	}
}

// nominatimResponse carries only the address breakdown this service reads.
type nominatimResponse struct {
	Address struct {
		Country string `json:"country"`
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		County  string `json:"county"`
		State   string `json:"state"`
	} `json:"address"`
}

// ReverseGeocode resolves (lat, lon) to a Place. The city falls back through
// town, village, county and state, first present wins.
func (c *NominatimClient) ReverseGeocode(ctx context.Context, lat, lon float64) (Place, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("accept-language", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return Place{}, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	metrics.GeocodeRequestsTotal.Inc()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.GeocodeFailuresTotal.Inc()
		return Place{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.GeocodeFailuresTotal.Inc()
		return Place{}, fmt.Errorf("nominatim status %d", resp.StatusCode)
	}

	var r nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		metrics.GeocodeFailuresTotal.Inc()
		return Place{}, err
	}

	var place Place
	if r.Address.Country != "" {
		country := r.Address.Country
		place.Country = &country
	}
	for _, candidate := range []string{r.Address.City, r.Address.Town, r.Address.Village, r.Address.County, r.Address.State} {
		if candidate != "" {
			city := candidate
			place.City = &city
			break
		}
	}
	return place, nil
}
