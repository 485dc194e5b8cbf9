package geo

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"googlemaps.github.io/maps"
)

// GoogleResolver reverse-geocodes through the Google Maps Geocoding API.
type GoogleResolver struct {
	client   *maps.Client
	language string
	region   string
}

// NewGoogleResolver builds a resolver for apiKey. baseURL overrides the
// API host and may be empty.
func NewGoogleResolver(apiKey, baseURL, language, region string, timeout time.Duration) (*GoogleResolver, error) {
	options := []maps.ClientOption{
		maps.WithAPIKey(apiKey),
		maps.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if baseURL != "" {
		options = append(options, maps.WithBaseURL(baseURL))
	}
	client, err := maps.NewClient(options...)
	if err != nil {
		return nil, fmt.Errorf("geo: maps client: %w", err)
	}
	return &GoogleResolver{client: client, language: language, region: region}, nil
}

// Reverse returns the first formatted address for the point. No match is
// an empty address, not an error.
func (g *GoogleResolver) Reverse(ctx context.Context, latitude, longitude float64) (string, error) {
	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: latitude, Lng: longitude},
		Language: g.language,
		Region:   g.region,
	})
	if err != nil {
		if strings.Contains(err.Error(), "ZERO_RESULTS") {
			return "", nil
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(results) == 0 {
		return "", nil
	}
	return results[0].FormattedAddress, nil
}
