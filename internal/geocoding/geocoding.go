package geocoding

import (
	"context"
	"errors"

	"github.com/MStartsev/postcard/internal/domain"
)

// ErrNoMatch is returned when the geocoding service yields zero results.
// Callers treat it as "not found", distinct from transport failures.
var ErrNoMatch = errors.New("no geocoding match")

// Geocoder resolves free-text place names and raw coordinates.
type Geocoder interface {
	// Resolve looks up a place name and returns the highest-confidence
	// match, or ErrNoMatch.
	Resolve(ctx context.Context, placeName string) (*domain.LocationData, error)

	// ReverseResolve turns coordinates into a human-readable place name,
	// or ErrNoMatch when the position cannot be named.
	ReverseResolve(ctx context.Context, lat, lon float64) (string, error)
}
