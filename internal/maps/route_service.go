package maps

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"googlemaps.github.io/maps"

	"medmatch/internal/types"
)

var ErrNoRoute = errors.New("no route found")

// TravelEstimate is the driving leg between a supplier and a hospital.
type TravelEstimate struct {
	DistanceMeters  int    `json:"distanceMeters"`
	DistanceText    string `json:"distanceText"`
	DurationSeconds int    `json:"durationSeconds"`
}

// RouteService handles interactions with Google Maps API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API Key. Extra
// options are passed through to the client (tests point it at a fake server).
func NewRouteService(apiKey string, opts ...maps.ClientOption) (*RouteService, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// Estimate returns the driving distance and duration from origin to destination.
func (s *RouteService) Estimate(ctx context.Context, origin, destination types.Point) (*TravelEstimate, error) {
	r := &maps.DirectionsRequest{
		Origin:      latLng(origin),
		Destination: latLng(destination),
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return nil, ErrNoRoute
	}

	leg := routes[0].Legs[0]
	return &TravelEstimate{
		DistanceMeters:  leg.Distance.Meters,
		DistanceText:    leg.Distance.HumanReadable,
		DurationSeconds: int(leg.Duration.Seconds()),
	}, nil
}

func latLng(p types.Point) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}
