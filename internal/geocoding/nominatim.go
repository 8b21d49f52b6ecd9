package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/MStartsev/postcard/internal/domain"
	"github.com/MStartsev/postcard/pkg/log"
)

// Config holds Nominatim client configuration.
type Config struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// NominatimClient talks to a Nominatim-compatible geocoding service.
// The service returns coordinates as JSON strings, not numbers.
type NominatimClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewNominatimClient creates a geocoding client.
func NewNominatimClient(cfg Config) *NominatimClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "postcard/1.0"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &NominatimClient{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type reverseResult struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		Village string `json:"village"`
		Town    string `json:"town"`
		City    string `json:"city"`
		County  string `json:"county"`
		Country string `json:"country"`
	} `json:"address"`
}

// Resolve looks up a free-text place name and maps the first match into
// local coordinate form.
func (n *NominatimClient) Resolve(ctx context.Context, placeName string) (*domain.LocationData, error) {
	l := log.Ctx(ctx)

	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=1",
		n.baseURL, url.QueryEscape(placeName))

	var results []searchResult
	if err := n.getJSON(ctx, endpoint, &results); err != nil {
		l.Warn().Err(err).Str("query", placeName).Msg("geocoding request failed")
		return nil, err
	}

	if len(results) == 0 {
		return nil, ErrNoMatch
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err)
	}

	loc := &domain.LocationData{
		Latitude:  lat,
		Longitude: lon,
		Title:     results[0].DisplayName,
	}
	if !loc.Valid() {
		return nil, fmt.Errorf("coordinates out of range: %f, %f", lat, lon)
	}

	return loc, nil
}

// ReverseResolve turns coordinates into a short place name of the form
// "settlement, country" when the address permits, falling back to the
// service's display name.
func (n *NominatimClient) ReverseResolve(ctx context.Context, lat, lon float64) (string, error) {
	l := log.Ctx(ctx)

	endpoint := fmt.Sprintf("%s/reverse?lat=%f&lon=%f&format=json", n.baseURL, lat, lon)

	var result reverseResult
	if err := n.getJSON(ctx, endpoint, &result); err != nil {
		l.Warn().Err(err).Float64("lat", lat).Float64("lon", lon).Msg("reverse geocoding request failed")
		return "", err
	}

	settlement := firstNonEmpty(
		result.Address.Village,
		result.Address.Town,
		result.Address.City,
		result.Address.County,
	)
	if settlement != "" && result.Address.Country != "" {
		return settlement + ", " + result.Address.Country, nil
	}
	if result.DisplayName != "" {
		return result.DisplayName, nil
	}
	return "", ErrNoMatch
}

func (n *NominatimClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoding service returned %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var _ Geocoder = (*NominatimClient)(nil)
