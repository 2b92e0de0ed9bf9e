package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fireflight/fireflight/internal/core/domain"
)

// searchRequest is the body of POST /v1/search. A zero radius uses the
// public default.
type searchRequest struct {
	Address string  `json:"address"`
	Radius  float64 `json:"radius"`
}

// GetStateHandler returns the current state snapshot.
func GetStateHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := deps.Fires.State()
		if notModified(c, st.Version) {
			return nil
		}
		return ok(c, st)
	}
}

// RefreshFiresHandler reloads the incident list.
func RefreshFiresHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		incidents, err := deps.Fires.LoadAllFires(c.UserContext())
		if err != nil {
			return errFrom(c, err)
		}
		return ok(c, fiber.Map{
			"count":     len(incidents),
			"incidents": incidents,
		})
	}
}

// SearchHandler geocodes an address and collects nearby incidents.
func SearchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req searchRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Radius < 0 {
			return errBadRequest(c, "radius must not be negative")
		}

		st, err := deps.Fires.SearchAddress(c.UserContext(), req.Address, req.Radius)
		if err != nil {
			return errFrom(c, err)
		}
		return ok(c, st)
	}
}

// DeleteSearchMarkerHandler removes the public search pin.
func DeleteSearchMarkerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return ok(c, deps.Fires.DeleteLocationMarker())
	}
}

// SelectMarkerHandler replaces the current selection.
func SelectMarkerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sel domain.SelectedMarker
		if err := c.BodyParser(&sel); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		st, err := deps.Fires.SelectMarker(sel)
		if err != nil {
			return errFrom(c, err)
		}
		return ok(c, st)
	}
}

// ClearSelectionHandler empties the current selection.
func ClearSelectionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return ok(c, deps.Fires.ClearSelection())
	}
}

// SaveSelectionHandler saves the selection as a watch location.
func SaveSelectionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		saved, err := deps.Fires.SaveSelectedLocation(c.UserContext())
		if err != nil {
			return errFrom(c, err)
		}
		return created(c, saved)
	}
}

// ListLocationsHandler returns the signed-in user's saved locations.
func ListLocationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		locs, err := deps.Fires.LoadUserLocations(c.UserContext())
		if err != nil {
			return errFrom(c, err)
		}
		if locs == nil {
			locs = []domain.SavedLocation{}
		}
		return ok(c, locs)
	}
}

// SyncLocationsHandler rebuilds the private map and returns the alerts.
func SyncLocationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		alerts, err := deps.Fires.SyncUserLocations(c.UserContext())
		if err != nil {
			return errFrom(c, err)
		}
		if alerts == nil {
			alerts = []domain.NearbyAlert{}
		}
		return ok(c, fiber.Map{
			"alerts": alerts,
			"unit":   deps.Fires.Unit(),
		})
	}
}

// SetPublicViewportHandler replaces the public map viewport.
func SetPublicViewportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var v domain.Viewport
		if err := c.BodyParser(&v); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		return ok(c, deps.Fires.SetPublicViewport(v))
	}
}

// RegistrationPromptHandler schedules the registration prompt.
func RegistrationPromptHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheduled := deps.Fires.PromptRegistration()
		status := fiber.StatusOK
		if scheduled {
			status = fiber.StatusAccepted
		}
		return c.Status(status).JSON(Result{OK: true, Data: fiber.Map{"scheduled": scheduled}})
	}
}

// LoginHandler signs in.
func LoginHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var creds domain.Credentials
		if err := c.BodyParser(&creds); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		user, err := deps.Auth.Login(c.UserContext(), creds)
		if err != nil {
			return errFrom(c, err)
		}
		return ok(c, user)
	}
}

// RegisterHandler creates an account and signs in.
func RegisterHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var creds domain.Credentials
		if err := c.BodyParser(&creds); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		user, err := deps.Auth.Register(c.UserContext(), creds)
		if err != nil {
			return errFrom(c, err)
		}
		return created(c, user)
	}
}

// LogoutHandler drops the session.
func LogoutHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Auth.Logout(c.UserContext()); err != nil {
			return errFrom(c, err)
		}
		return ok(c, nil)
	}
}

// SessionHandler returns the signed-in user.
func SessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := deps.Auth.Session(c.UserContext())
		if err != nil {
			return errFrom(c, err)
		}
		return ok(c, user)
	}
}
