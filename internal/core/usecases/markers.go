package usecases

import (
	"fmt"

	"github.com/fireflight/fireflight/internal/core/domain"
)

// Marker geometry. Offsets anchor the bottom-center of each icon on its point.
const (
	fireIconSize = 35

	exclamationWidth  = 35
	exclamationHeight = 25

	pinWidth  = 20
	pinHeight = 35

	fireZIndex = 3
	pinZIndex  = 5
)

// FireMarkers builds the clickable marker for every incident. Clicking one
// selects the fire.
func FireMarkers(incidents []domain.Incident) []domain.Marker {
	markers := make([]domain.Marker, 0, len(incidents))
	for _, inc := range incidents {
		markers = append(markers, domain.Marker{
			Key:       fmt.Sprintf("fire%d", inc.Index),
			Latitude:  inc.Location.Latitude,
			Longitude: inc.Location.Longitude,
			Icon:      domain.IconFire,
			Width:     fireIconSize,
			Height:    fireIconSize,
			ZIndex:    fireZIndex,
			OffsetX:   -17.5,
			OffsetY:   -35,
			Select: &domain.SelectedMarker{
				Latitude:  inc.Location.Latitude,
				Longitude: inc.Location.Longitude,
				Kind:      domain.MarkerFireLocation,
			},
		})
	}
	return markers
}

// NearbyMarkers builds the non-clickable warning markers for fires found near
// a searched or saved location.
func NearbyMarkers(incidents []domain.Incident) []domain.Marker {
	markers := make([]domain.Marker, 0, len(incidents))
	for _, inc := range incidents {
		markers = append(markers, domain.Marker{
			Key:       fmt.Sprintf("localMarker%d", inc.Index),
			Latitude:  inc.Location.Latitude,
			Longitude: inc.Location.Longitude,
			Icon:      domain.IconExclamation,
			Width:     exclamationWidth,
			Height:    exclamationHeight,
			ZIndex:    fireZIndex,
			OffsetX:   -17.5,
			OffsetY:   -52,
		})
	}
	return markers
}

// SearchMarker is the pin for a public address search. Clicking it selects a
// temporary location carrying the searched address and radius.
func SearchMarker(center domain.Coordinate, address string, radius float64) domain.Marker {
	return pin("searchMarker", domain.IconLocation, &domain.SelectedMarker{
		Latitude:  center.Latitude,
		Longitude: center.Longitude,
		Address:   &address,
		Radius:    &radius,
		Kind:      domain.MarkerTempLocation,
	})
}

// SavedMarker is the green pin added after a selection is saved.
func SavedMarker(sel domain.SelectedMarker) domain.Marker {
	saved := sel
	saved.Kind = domain.MarkerSavedLocation
	return pin(fmt.Sprintf("greenMarker%v", sel.Latitude), domain.IconLocationGreen, &saved)
}

// SavedLocationMarkers builds the green pins for a user's saved locations.
func SavedLocationMarkers(locs []domain.SavedLocation) []domain.Marker {
	markers := make([]domain.Marker, 0, len(locs))
	for i, loc := range locs {
		address, radius := loc.Address, loc.Radius
		markers = append(markers, pin(fmt.Sprintf("greenMarker%d%v", i, loc.Latitude), domain.IconLocationGreen, &domain.SelectedMarker{
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
			Address:   &address,
			Radius:    &radius,
			Kind:      domain.MarkerSavedLocation,
		}))
	}
	return markers
}

func pin(key string, icon domain.Icon, sel *domain.SelectedMarker) domain.Marker {
	return domain.Marker{
		Key:       key,
		Latitude:  sel.Latitude,
		Longitude: sel.Longitude,
		Icon:      icon,
		Width:     pinWidth,
		Height:    pinHeight,
		ZIndex:    pinZIndex,
		OffsetX:   -17.5,
		OffsetY:   -35,
		Select:    sel,
	}
}
