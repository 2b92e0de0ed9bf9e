// Package store holds the application state aggregate and the reducer that
// derives each new aggregate from a named action.
package store

import (
	"github.com/fireflight/fireflight/internal/core/domain"
)

// DefaultPublicRadius is the radius, in the configured unit, used for
// address searches when the caller does not supply one.
const DefaultPublicRadius = 500

// StateError is the visible record of the last failed coordinator call.
type StateError struct {
	Op      string           `json:"op"`
	Kind    domain.ErrorKind `json:"kind"`
	Message string           `json:"message"`
}

// State is the single client-visible aggregate. A *State handed out by the
// Store is never modified afterwards; every action produces a new one.
type State struct {
	UserLocations             []domain.SavedLocation `json:"userLocations"`
	PublicCoordinates         *domain.Coordinate     `json:"publicCoordinates"`
	PublicCoordinatesMarker   *domain.Marker         `json:"publicCoordinatesMarker"`
	PublicRadius              float64                `json:"publicRadius"`
	PublicMapViewport         domain.Viewport        `json:"publicMapViewport"`
	PrivateMapViewport        domain.Viewport        `json:"privateMapViewport"`
	TriggerRegistrationButton bool                   `json:"triggerRegistrationButton"`
	AllFires                  []domain.Incident      `json:"allFires"`
	AllFireMarkers            []domain.Marker        `json:"allFireMarkers"`
	LocalFires                []domain.Incident      `json:"localFires"`
	LocalFireMarkers          []domain.Marker        `json:"localFireMarkers"`
	SelectedMarker            *domain.SelectedMarker `json:"selectedMarker"`
	UserLocationMarkers       []domain.Marker        `json:"userLocationMarkers"`
	UserLocalFires            []domain.Incident      `json:"userLocalFires"`
	UserLocalFireMarkers      []domain.Marker        `json:"userLocalFireMarkers"`
	LastError                 *StateError            `json:"lastError"`
	Version                   uint64                 `json:"version"`
}

// InitialState returns the aggregate a fresh session starts from.
// narrow selects the compact height of the private map.
func InitialState(narrow bool) *State {
	privateHeight := "500"
	if narrow {
		privateHeight = "350"
	}

	return &State{
		UserLocations:    []domain.SavedLocation{},
		PublicRadius:     DefaultPublicRadius,
		AllFires:         []domain.Incident{},
		AllFireMarkers:   []domain.Marker{},
		LocalFires:       []domain.Incident{},
		LocalFireMarkers: []domain.Marker{},
		PublicMapViewport: domain.Viewport{
			Width:     "100%",
			Height:    "100vh",
			Latitude:  39.8283,
			Longitude: -98.5795,
			Zoom:      3.3,
		},
		PrivateMapViewport: domain.Viewport{
			Width:     "100%",
			Height:    privateHeight,
			Latitude:  37.7749,
			Longitude: -122.4194,
			Zoom:      7,
		},
		UserLocationMarkers:  []domain.Marker{},
		UserLocalFires:       []domain.Incident{},
		UserLocalFireMarkers: []domain.Marker{},
	}
}
