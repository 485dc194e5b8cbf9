// Package geo turns clock-event coordinates into a readable address.
//
// Resolution is best effort. Locate never fails: missing coordinates and
// resolver errors degrade to fixed fallback text so a clock event is never
// blocked by the geocoder.
package geo

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

const (
	UnknownLocation     = "Unknown Location"
	UnavailableLocation = "Location unavailable"
)

var ErrUnavailable = errors.New("geolocation unavailable")

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Zero reports whether either axis is exactly 0, which clients send when
// they have no fix.
func (c Coordinates) Zero() bool {
	return c.Latitude == 0 || c.Longitude == 0
}

type Resolver interface {
	Reverse(ctx context.Context, latitude, longitude float64) (string, error)
}

// Locate resolves coords with r and applies the fallback policy. r may be
// nil when no geocoder is configured.
func Locate(ctx context.Context, r Resolver, coords *Coordinates, logger *slog.Logger) string {
	if coords == nil || coords.Zero() {
		return UnknownLocation
	}
	if r == nil {
		return UnknownLocation
	}

	address, err := r.Reverse(ctx, coords.Latitude, coords.Longitude)
	if err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "reverse geocode failed, using fallback location",
				"condition", "GeolocationUnavailable",
				"error", err,
			)
		}
		return UnavailableLocation
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return UnknownLocation
	}
	return address
}
