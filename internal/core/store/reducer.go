package store

import (
	"slices"

	"github.com/fireflight/fireflight/internal/core/domain"
)

// Reduce derives the next state from prev and a. prev is never modified.
// Recognized actions bump Version; any other action yields a field-wise
// identical copy.
func Reduce(prev *State, a Action) *State {
	next := *prev

	switch act := a.(type) {
	case SetAllFires:
		next.AllFires = slices.Clone(act.Incidents)
		next.AllFireMarkers = slices.Clone(act.Markers)
	case GetPublicCoordinates:
		center := act.Center
		marker := act.Marker
		next.PublicCoordinates = &center
		next.PublicCoordinatesMarker = &marker
		next.LocalFires = slices.Clone(act.NearbyFires)
		next.LocalFireMarkers = slices.Clone(act.NearbyMarkers)
	case SetSelectedMarker:
		next.SelectedMarker = cloneSelection(act.Marker)
	case SetSavedLocation:
		next.UserLocationMarkers = slices.Clone(act.Markers)
		next.SelectedMarker = nil
	case DeleteLocationMarker:
		next.PublicCoordinatesMarker = nil
		next.SelectedMarker = nil
	case SetUserLocations:
		next.UserLocationMarkers = slices.Clone(act.SavedMarkers)
		next.UserLocalFires = slices.Clone(act.NearbyFires)
		next.UserLocalFireMarkers = slices.Clone(act.NearbyMarkers)
	case GetUserLocations:
		next.UserLocations = slices.Clone(act.Locations)
	case SetPublicViewport:
		next.PublicMapViewport = act.Viewport
	case SetTriggerRegistrationButton:
		next.TriggerRegistrationButton = act.Value
	case SetError:
		next.LastError = &StateError{Op: act.Op, Kind: act.Kind, Message: act.Message}
	case ClearError:
		next.LastError = nil
	default:
		return &next
	}

	next.Version++
	return &next
}

// Recognized reports whether Reduce handles a.
func Recognized(a Action) bool {
	switch a.(type) {
	case SetAllFires, GetPublicCoordinates, SetSelectedMarker, SetSavedLocation,
		DeleteLocationMarker, SetUserLocations, GetUserLocations, SetPublicViewport,
		SetTriggerRegistrationButton, SetError, ClearError:
		return true
	}
	return false
}

func cloneSelection(m *domain.SelectedMarker) *domain.SelectedMarker {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}
