package store

import (
	"github.com/fireflight/fireflight/internal/core/domain"
)

// ActionType names an action for logging and event publishing.
type ActionType string

const (
	ActionSetAllFires                  ActionType = "SET_ALL_FIRES"
	ActionGetPublicCoordinates         ActionType = "GET_PUBLIC_COORDINATES"
	ActionSetSelectedMarker            ActionType = "SET_SELECTED_MARKER"
	ActionSetSavedLocation             ActionType = "SET_SAVED_LOCATION"
	ActionDeleteLocationMarker         ActionType = "DELETE_LOCATION_MARKER"
	ActionSetUserLocations             ActionType = "SET_USER_LOCATIONS"
	ActionGetUserLocations             ActionType = "GET_USER_LOCATIONS"
	ActionSetPublicViewport            ActionType = "SET_PUBLIC_VIEWPORT"
	ActionSetTriggerRegistrationButton ActionType = "SET_TRIGGER_REGISTRATION_BUTTON"
	ActionSetError                     ActionType = "SET_ERROR"
	ActionClearError                   ActionType = "CLEAR_ERROR"
)

// Action is a request to change the state. The reducer recognizes the
// concrete types declared in this file; any other implementation is a no-op.
type Action interface {
	Type() ActionType
}

// SetAllFires replaces the incident list and its markers.
type SetAllFires struct {
	Incidents []domain.Incident
	Markers   []domain.Marker
}

// GetPublicCoordinates replaces the public search result in one update.
type GetPublicCoordinates struct {
	Center        domain.Coordinate
	Marker        domain.Marker
	NearbyFires   []domain.Incident
	NearbyMarkers []domain.Marker
}

// SetSelectedMarker replaces the selection; a nil Marker clears it.
type SetSelectedMarker struct {
	Marker *domain.SelectedMarker
}

// SetSavedLocation replaces the saved-location markers and clears the selection.
type SetSavedLocation struct {
	Markers []domain.Marker
}

// DeleteLocationMarker clears the public search marker and the selection.
type DeleteLocationMarker struct{}

// SetUserLocations replaces the signed-in user's derived lists.
type SetUserLocations struct {
	SavedMarkers  []domain.Marker
	NearbyFires   []domain.Incident
	NearbyMarkers []domain.Marker
}

// GetUserLocations replaces the raw saved-location list.
type GetUserLocations struct {
	Locations []domain.SavedLocation
}

// SetPublicViewport replaces the public map viewport.
type SetPublicViewport struct {
	Viewport domain.Viewport
}

// SetTriggerRegistrationButton toggles the registration prompt.
type SetTriggerRegistrationButton struct {
	Value bool
}

// SetError records a failed coordinator call.
type SetError struct {
	Op      string
	Kind    domain.ErrorKind
	Message string
}

// ClearError removes the recorded failure.
type ClearError struct{}

func (SetAllFires) Type() ActionType                  { return ActionSetAllFires }
func (GetPublicCoordinates) Type() ActionType         { return ActionGetPublicCoordinates }
func (SetSelectedMarker) Type() ActionType            { return ActionSetSelectedMarker }
func (SetSavedLocation) Type() ActionType             { return ActionSetSavedLocation }
func (DeleteLocationMarker) Type() ActionType         { return ActionDeleteLocationMarker }
func (SetUserLocations) Type() ActionType             { return ActionSetUserLocations }
func (GetUserLocations) Type() ActionType             { return ActionGetUserLocations }
func (SetPublicViewport) Type() ActionType            { return ActionSetPublicViewport }
func (SetTriggerRegistrationButton) Type() ActionType { return ActionSetTriggerRegistrationButton }
func (SetError) Type() ActionType                     { return ActionSetError }
func (ClearError) Type() ActionType                   { return ActionClearError }
