package domain

import (
	"time"
)

// Incident is an active fire reported by the fire-data API.
type Incident struct {
	Index    int        `json:"index"`
	Location Coordinate `json:"location"`
}

// SavedLocation is a user-owned watch location persisted by the backend.
type SavedLocation struct {
	ID        int     `json:"id,omitempty"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"`
}

// Coordinate returns the location's position.
func (l SavedLocation) Coordinate() Coordinate {
	return Coordinate{Latitude: l.Latitude, Longitude: l.Longitude}
}

// MarkerKind identifies where a selection came from.
type MarkerKind string

const (
	MarkerFireLocation  MarkerKind = "fireLocation"
	MarkerTempLocation  MarkerKind = "tempLocation"
	MarkerSavedLocation MarkerKind = "savedLocation"
)

// SelectedMarker is the user's current map selection.
// Address and Radius are nil for fire selections.
type SelectedMarker struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Address   *string    `json:"address"`
	Radius    *float64   `json:"radius"`
	Kind      MarkerKind `json:"kind"`
}

// Icon names the image a marker is drawn with.
type Icon string

const (
	IconFire          Icon = "fire"
	IconExclamation   Icon = "exclamation"
	IconLocation      Icon = "location"
	IconLocationGreen Icon = "location-green"
)

// Marker is the display representation of a point on a map.
// Select holds the selection a click on the marker produces; nil means
// the marker is not clickable.
type Marker struct {
	Key       string          `json:"key"`
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	Icon      Icon            `json:"icon"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	ZIndex    int             `json:"z_index"`
	OffsetX   float64         `json:"offset_x"`
	OffsetY   float64         `json:"offset_y"`
	Select    *SelectedMarker `json:"select,omitempty"`
}

// Credentials are sent to the auth endpoints.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// User is the profile returned by the session endpoint.
type User struct {
	ID       int    `json:"id,omitempty"`
	Username string `json:"username"`
}

// NearbyAlert reports the fires found within a saved location's radius.
type NearbyAlert struct {
	Location   SavedLocation `json:"location"`
	Incidents  []Incident    `json:"incidents"`
	Unit       DistanceUnit  `json:"unit"`
	DetectedAt time.Time     `json:"detected_at"`
}

// StateChange is broadcast after every recognized state action.
type StateChange struct {
	Action  string    `json:"action"`
	Version uint64    `json:"version"`
	At      time.Time `json:"at"`
}
