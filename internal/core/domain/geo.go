package domain

import "fmt"

// Coordinate is a geographic point in degrees. Values are not range-checked.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistanceUnit selects the earth radius used for great-circle distances.
type DistanceUnit string

const (
	Kilometers DistanceUnit = "km"
	Miles      DistanceUnit = "mi"
)

// ParseDistanceUnit accepts "km" or "mi".
func ParseDistanceUnit(s string) (DistanceUnit, error) {
	switch s {
	case "km", "kilometers":
		return Kilometers, nil
	case "mi", "miles":
		return Miles, nil
	default:
		return "", fmt.Errorf("invalid distance unit: %s (must be km or mi)", s)
	}
}

// InMiles reports whether the unit selects the miles radius.
func (u DistanceUnit) InMiles() bool {
	return u == Miles
}

// Viewport describes the visible window of a map view.
type Viewport struct {
	Width     string  `json:"width"`
	Height    string  `json:"height"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      float64 `json:"zoom"`
}
