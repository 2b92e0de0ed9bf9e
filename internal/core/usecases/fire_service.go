package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fireflight/fireflight/internal/core/domain"
	"github.com/fireflight/fireflight/internal/core/ports"
	"github.com/fireflight/fireflight/internal/core/store"
	"github.com/fireflight/fireflight/internal/pkg/geospatial"
	"github.com/fireflight/fireflight/internal/pkg/metrics"
)

const allFiresCacheKey = "fires:all"

// FireServiceConfig tunes a FireService.
type FireServiceConfig struct {
	Unit              domain.DistanceUnit
	CacheTTL          int // seconds
	RegistrationDelay time.Duration
}

// FireService performs the I/O behind each user interaction and dispatches
// exactly one state action with the result. Failures are dispatched as
// SetError and returned.
type FireService struct {
	state    *store.Store
	fires    ports.FireSource
	geocoder ports.Geocoder
	session  ports.SessionClient
	cache    ports.CacheService
	events   ports.EventPublisher
	cfg      FireServiceConfig

	mu     sync.Mutex
	prompt *time.Timer
}

// NewFireService creates a new FireService. cache and events may be nil.
func NewFireService(
	state *store.Store,
	fires ports.FireSource,
	geocoder ports.Geocoder,
	session ports.SessionClient,
	cache ports.CacheService,
	events ports.EventPublisher,
	cfg FireServiceConfig,
) *FireService {
	if cfg.Unit == "" {
		cfg.Unit = domain.Miles
	}
	return &FireService{
		state:    state,
		fires:    fires,
		geocoder: geocoder,
		session:  session,
		cache:    cache,
		events:   events,
		cfg:      cfg,
	}
}

// State returns the current snapshot.
func (s *FireService) State() *store.State {
	return s.state.State()
}

// Unit returns the distance unit radii are expressed in.
func (s *FireService) Unit() domain.DistanceUnit {
	return s.cfg.Unit
}

// LoadAllFires refreshes the incident list and its markers.
func (s *FireService) LoadAllFires(ctx context.Context) ([]domain.Incident, error) {
	const op = "load all fires"

	incidents, err := s.allFires(ctx)
	if err != nil {
		return nil, s.fail(op, err)
	}

	metrics.IncidentsLoaded.Set(float64(len(incidents)))
	s.state.Dispatch(store.SetAllFires{Incidents: incidents, Markers: FireMarkers(incidents)})
	s.succeed()
	return incidents, nil
}

func (s *FireService) allFires(ctx context.Context) ([]domain.Incident, error) {
	// Try cache
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, allFiresCacheKey); err == nil {
			var incidents []domain.Incident
			if err := json.Unmarshal(data, &incidents); err == nil {
				metrics.CacheHits.WithLabelValues("all_fires").Inc()
				return incidents, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("all_fires").Inc()
	}

	incidents, err := s.fires.AllFires(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.cfg.CacheTTL > 0 {
		if data, err := json.Marshal(incidents); err == nil {
			if err := s.cache.Set(ctx, allFiresCacheKey, data, s.cfg.CacheTTL); err != nil {
				slog.Warn("cache incidents failed", "error", err)
			}
		}
	}
	return incidents, nil
}

// Refresh drops the cached incident list, reloads it and, when a user is
// signed in, rebuilds their map. It backs each poller cycle.
func (s *FireService) Refresh(ctx context.Context) ([]domain.NearbyAlert, error) {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, allFiresCacheKey); err != nil {
			slog.Warn("drop cached incidents failed", "error", err)
		}
	}
	if _, err := s.LoadAllFires(ctx); err != nil {
		return nil, err
	}
	if !s.session.IsAuthenticated() {
		return nil, nil
	}
	return s.SyncUserLocations(ctx)
}

// SearchAddress geocodes address and collects the known incidents within
// radius of it. An empty address is a no-op; a radius of zero or less uses
// the public default.
func (s *FireService) SearchAddress(ctx context.Context, address string, radius float64) (*store.State, error) {
	const op = "search address"

	address = strings.TrimSpace(address)
	if address == "" {
		return s.state.State(), nil
	}
	if radius <= 0 {
		radius = s.state.State().PublicRadius
	}

	center, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, s.fail(op, err)
	}

	nearby := s.within(s.state.State().AllFires, center, radius)
	next := s.state.Dispatch(store.GetPublicCoordinates{
		Center:        center,
		Marker:        SearchMarker(center, address, radius),
		NearbyFires:   nearby,
		NearbyMarkers: NearbyMarkers(nearby),
	})
	s.succeed()
	return next, nil
}

// SelectMarker replaces the current selection.
func (s *FireService) SelectMarker(sel domain.SelectedMarker) (*store.State, error) {
	switch sel.Kind {
	case domain.MarkerFireLocation, domain.MarkerTempLocation, domain.MarkerSavedLocation:
	default:
		return nil, &domain.Error{Kind: domain.KindInvalidInput, Op: "select marker", Message: fmt.Sprintf("unknown marker kind %q", sel.Kind)}
	}
	return s.state.Dispatch(store.SetSelectedMarker{Marker: &sel}), nil
}

// ClearSelection empties the current selection.
func (s *FireService) ClearSelection() *store.State {
	return s.state.Dispatch(store.SetSelectedMarker{})
}

// DeleteLocationMarker removes the public search pin and the selection.
func (s *FireService) DeleteLocationMarker() *store.State {
	return s.state.Dispatch(store.DeleteLocationMarker{})
}

// SaveSelectedLocation persists the selected fire or searched location as a
// watch location of the signed-in user.
func (s *FireService) SaveSelectedLocation(ctx context.Context) (*domain.SavedLocation, error) {
	const op = "save location"

	if !s.session.IsAuthenticated() {
		return nil, s.fail(op, &domain.Error{Kind: domain.KindNotAuthenticated, Op: op, Message: "Please log in to save a location."})
	}

	current := s.state.State()
	sel := current.SelectedMarker
	if sel == nil {
		return nil, s.fail(op, &domain.Error{Kind: domain.KindInvalidInput, Op: op, Message: "no location selected"})
	}
	if sel.Kind == domain.MarkerSavedLocation {
		return nil, s.fail(op, &domain.Error{Kind: domain.KindInvalidInput, Op: op, Message: "location already saved"})
	}

	toSave := *sel
	address := fmt.Sprintf("%.4f, %.4f", sel.Latitude, sel.Longitude)
	if sel.Address != nil && *sel.Address != "" {
		address = *sel.Address
	}
	radius := current.PublicRadius
	if sel.Radius != nil {
		radius = *sel.Radius
	}
	toSave.Address, toSave.Radius = &address, &radius

	saved, err := s.session.SaveLocation(ctx, address, radius)
	if err != nil {
		return nil, s.fail(op, err)
	}

	markers := append(slices.Clone(s.state.State().UserLocationMarkers), SavedMarker(toSave))
	s.state.Dispatch(store.SetSavedLocation{Markers: markers})
	s.succeed()
	return saved, nil
}

// LoadUserLocations replaces the raw saved-location list.
func (s *FireService) LoadUserLocations(ctx context.Context) ([]domain.SavedLocation, error) {
	const op = "load user locations"

	locs, err := s.session.FetchLocations(ctx)
	if err != nil {
		return nil, s.fail(op, err)
	}
	s.state.Dispatch(store.GetUserLocations{Locations: locs})
	s.succeed()
	return locs, nil
}

// SyncUserLocations rebuilds the signed-in user's map: a pin per saved
// location and a warning per known incident inside any location's radius.
// One alert per location with nearby fires is returned and published.
func (s *FireService) SyncUserLocations(ctx context.Context) ([]domain.NearbyAlert, error) {
	const op = "sync user locations"

	locs, err := s.session.FetchLocations(ctx)
	if err != nil {
		return nil, s.fail(op, err)
	}

	fires := s.state.State().AllFires
	now := time.Now().UTC()
	seen := make(map[int]bool)
	var nearby []domain.Incident
	var alerts []domain.NearbyAlert

	for _, loc := range locs {
		found := s.within(fires, loc.Coordinate(), loc.Radius)
		if len(found) == 0 {
			continue
		}
		alerts = append(alerts, domain.NearbyAlert{Location: loc, Incidents: found, Unit: s.cfg.Unit, DetectedAt: now})
		for _, inc := range found {
			if !seen[inc.Index] {
				seen[inc.Index] = true
				nearby = append(nearby, inc)
			}
		}
	}

	s.state.Dispatch(store.SetUserLocations{
		SavedMarkers:  SavedLocationMarkers(locs),
		NearbyFires:   nearby,
		NearbyMarkers: NearbyMarkers(nearby),
	})
	s.succeed()

	s.publishAlerts(ctx, alerts)
	return alerts, nil
}

func (s *FireService) publishAlerts(ctx context.Context, alerts []domain.NearbyAlert) {
	if s.events == nil {
		return
	}
	for i := range alerts {
		if err := s.events.PublishNearbyAlert(ctx, &alerts[i]); err != nil {
			slog.Warn("publish nearby alert failed", "address", alerts[i].Location.Address, "error", err)
			continue
		}
		metrics.NearbyAlerts.Inc()
	}
}

// SetPublicViewport replaces the public map viewport.
func (s *FireService) SetPublicViewport(v domain.Viewport) *store.State {
	return s.state.Dispatch(store.SetPublicViewport{Viewport: v})
}

// PromptRegistration schedules the registration prompt for an anonymous
// visitor. It reports whether a prompt was scheduled.
func (s *FireService) PromptRegistration() bool {
	if s.session.IsAuthenticated() || s.state.State().TriggerRegistrationButton {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prompt != nil {
		return false
	}
	s.prompt = time.AfterFunc(s.cfg.RegistrationDelay, func() {
		if !s.session.IsAuthenticated() {
			s.state.Dispatch(store.SetTriggerRegistrationButton{Value: true})
		}
		s.mu.Lock()
		s.prompt = nil
		s.mu.Unlock()
	})
	return true
}

// Close cancels a pending registration prompt.
func (s *FireService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prompt != nil {
		s.prompt.Stop()
		s.prompt = nil
	}
}

func (s *FireService) within(fires []domain.Incident, center domain.Coordinate, radius float64) []domain.Incident {
	return geospatial.Within(fires, center.Latitude, center.Longitude, radius, s.cfg.Unit.InMiles(), incidentPosition)
}

// Distance is the great-circle distance from a to b in unit.
func Distance(a, b domain.Coordinate, unit domain.DistanceUnit) float64 {
	return geospatial.Haversine(a.Latitude, a.Longitude, b.Latitude, b.Longitude, unit.InMiles())
}

func incidentPosition(inc domain.Incident) (float64, float64) {
	return inc.Location.Latitude, inc.Location.Longitude
}

// fail logs err, records it in the state and returns it.
func (s *FireService) fail(op string, err error) error {
	slog.Error(op+" failed", "error", err)
	s.state.Dispatch(store.SetError{Op: op, Kind: domain.KindOf(err), Message: err.Error()})
	return err
}

func (s *FireService) succeed() {
	if s.state.State().LastError != nil {
		s.state.Dispatch(store.ClearError{})
	}
}
