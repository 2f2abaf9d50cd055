package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Place is a resolved location from the geocoding provider.
type Place struct {
	DisplayName string
	City        string
	State       string
	Latitude    float64
	Longitude   float64
	// RadiusM estimates the granularity of a forward-geocoded result,
	// derived from the provider's bounding box.
	RadiusM float64
}

// Geocoder wraps a Nominatim-compatible HTTP provider. The provider is
// rate-limited; callers are expected to call sparingly and cache results.
type Geocoder struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

func NewGeocoder(baseURL string) *Geocoder {
	return &Geocoder{
		BaseURL:   baseURL,
		UserAgent: "crewtrack/1.0",
		HTTPClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// helper: build full URL with query params
func (g *Geocoder) buildURL(path string, query map[string]string) string {
	u, _ := url.Parse(g.BaseURL + path)
	q := u.Query()
	for k, v := range query {
		q.Set(k, v)
	}
	q.Set("format", "jsonv2")
	u.RawQuery = q.Encode()
	return u.String()
}

func (g *Geocoder) get(ctx context.Context, path string, query map[string]string, out any) error {
	fullURL := g.buildURL(path, query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", g.UserAgent)

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s failed with status code %d: %s", path, resp.StatusCode, string(b))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

type nominatimResult struct {
	DisplayName string   `json:"display_name"`
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	BoundingBox []string `json:"boundingbox"`
	Address     struct {
		City  string `json:"city"`
		Town  string `json:"town"`
		State string `json:"state"`
	} `json:"address"`
}

func (r *nominatimResult) toPlace() *Place {
	lat, _ := strconv.ParseFloat(r.Lat, 64)
	lng, _ := strconv.ParseFloat(r.Lon, 64)

	city := r.Address.City
	if city == "" {
		city = r.Address.Town
	}

	place := &Place{
		DisplayName: r.DisplayName,
		City:        city,
		State:       r.Address.State,
		Latitude:    lat,
		Longitude:   lng,
	}

	// boundingbox is [south, north, west, east]; half the diagonal gives a
	// usable radius estimate for the result's granularity.
	if len(r.BoundingBox) == 4 {
		south, err1 := strconv.ParseFloat(r.BoundingBox[0], 64)
		north, err2 := strconv.ParseFloat(r.BoundingBox[1], 64)
		west, err3 := strconv.ParseFloat(r.BoundingBox[2], 64)
		east, err4 := strconv.ParseFloat(r.BoundingBox[3], 64)
		if err1 == nil && err2 == nil && err3 == nil && err4 == nil {
			place.RadiusM = Haversine(south, west, north, east) / 2
		}
	}

	return place
}

// Reverse resolves coordinates to a place.
func (g *Geocoder) Reverse(ctx context.Context, lat, lng float64) (*Place, error) {
	var result nominatimResult
	err := g.get(ctx, "/reverse", map[string]string{
		"lat": strconv.FormatFloat(lat, 'f', 6, 64),
		"lon": strconv.FormatFloat(lng, 'f', 6, 64),
	}, &result)
	if err != nil {
		return nil, err
	}
	if result.DisplayName == "" {
		return nil, fmt.Errorf("no result for %.6f, %.6f", lat, lng)
	}
	return result.toPlace(), nil
}

// Forward resolves free text to coordinates plus a granularity estimate.
func (g *Geocoder) Forward(ctx context.Context, query string) (*Place, error) {
	var results []nominatimResult
	err := g.get(ctx, "/search", map[string]string{
		"q":     query,
		"limit": "1",
	}, &results)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no result for %q", query)
	}
	return results[0].toPlace(), nil
}

// ResolveLocationName reverse-geocodes best-effort: failures are logged and
// degrade to formatted coordinates, never propagated. No retries.
func (g *Geocoder) ResolveLocationName(ctx context.Context, lat, lng float64) string {
	if g == nil || g.BaseURL == "" {
		return FormatCoordinates(lat, lng)
	}

	place, err := g.Reverse(ctx, lat, lng)
	if err != nil {
		log.Printf("reverse geocode failed, falling back to coordinates: %v", err)
		return FormatCoordinates(lat, lng)
	}
	return place.DisplayName
}
