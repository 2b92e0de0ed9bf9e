package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/fireflight/fireflight/internal/core/store"
)

// buildSchema creates the read-only GraphQL schema over the state.
// Field names follow the JSON names so the default resolver applies.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	coordinateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Coordinate",
		Fields: graphql.Fields{
			"latitude":  &graphql.Field{Type: graphql.Float},
			"longitude": &graphql.Field{Type: graphql.Float},
		},
	})

	viewportType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Viewport",
		Fields: graphql.Fields{
			"width":     &graphql.Field{Type: graphql.String},
			"height":    &graphql.Field{Type: graphql.String},
			"latitude":  &graphql.Field{Type: graphql.Float},
			"longitude": &graphql.Field{Type: graphql.Float},
			"zoom":      &graphql.Field{Type: graphql.Float},
		},
	})

	incidentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Incident",
		Fields: graphql.Fields{
			"index":    &graphql.Field{Type: graphql.Int},
			"location": &graphql.Field{Type: coordinateType},
		},
	})

	selectionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SelectedMarker",
		Fields: graphql.Fields{
			"latitude":  &graphql.Field{Type: graphql.Float},
			"longitude": &graphql.Field{Type: graphql.Float},
			"address":   &graphql.Field{Type: graphql.String},
			"radius":    &graphql.Field{Type: graphql.Float},
			"kind":      &graphql.Field{Type: graphql.String},
		},
	})

	markerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Marker",
		Fields: graphql.Fields{
			"key":       &graphql.Field{Type: graphql.String},
			"latitude":  &graphql.Field{Type: graphql.Float},
			"longitude": &graphql.Field{Type: graphql.Float},
			"icon":      &graphql.Field{Type: graphql.String},
			"width":     &graphql.Field{Type: graphql.Int},
			"height":    &graphql.Field{Type: graphql.Int},
			"z_index":   &graphql.Field{Type: graphql.Int},
			"offset_x":  &graphql.Field{Type: graphql.Float},
			"offset_y":  &graphql.Field{Type: graphql.Float},
			"select":    &graphql.Field{Type: selectionType},
		},
	})

	savedLocationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SavedLocation",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.Int},
			"address":   &graphql.Field{Type: graphql.String},
			"latitude":  &graphql.Field{Type: graphql.Float},
			"longitude": &graphql.Field{Type: graphql.Float},
			"radius":    &graphql.Field{Type: graphql.Float},
		},
	})

	stateErrorType := graphql.NewObject(graphql.ObjectConfig{
		Name: "StateError",
		Fields: graphql.Fields{
			"op":      &graphql.Field{Type: graphql.String},
			"kind":    &graphql.Field{Type: graphql.String},
			"message": &graphql.Field{Type: graphql.String},
		},
	})

	stateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "State",
		Fields: graphql.Fields{
			"version": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return int(p.Source.(*store.State).Version), nil
				},
			},
			"userLocations":             &graphql.Field{Type: graphql.NewList(savedLocationType)},
			"publicCoordinates":         &graphql.Field{Type: coordinateType},
			"publicCoordinatesMarker":   &graphql.Field{Type: markerType},
			"publicRadius":              &graphql.Field{Type: graphql.Float},
			"publicMapViewport":         &graphql.Field{Type: viewportType},
			"privateMapViewport":        &graphql.Field{Type: viewportType},
			"triggerRegistrationButton": &graphql.Field{Type: graphql.Boolean},
			"allFires":                  &graphql.Field{Type: graphql.NewList(incidentType)},
			"allFireMarkers":            &graphql.Field{Type: graphql.NewList(markerType)},
			"localFires":                &graphql.Field{Type: graphql.NewList(incidentType)},
			"localFireMarkers":          &graphql.Field{Type: graphql.NewList(markerType)},
			"selectedMarker":            &graphql.Field{Type: selectionType},
			"userLocationMarkers":       &graphql.Field{Type: graphql.NewList(markerType)},
			"userLocalFires":            &graphql.Field{Type: graphql.NewList(incidentType)},
			"userLocalFireMarkers":      &graphql.Field{Type: graphql.NewList(markerType)},
			"lastError":                 &graphql.Field{Type: stateErrorType},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"state": &graphql.Field{
				Type:        stateType,
				Description: "Current state snapshot",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Fires.State(), nil
				},
			},
			"unit": &graphql.Field{
				Type:        graphql.String,
				Description: "Distance unit of every radius",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return string(deps.Fires.Unit()), nil
				},
			},
			"authenticated": &graphql.Field{
				Type:        graphql.Boolean,
				Description: "Whether a session is held",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Auth.IsAuthenticated(), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(Result{OK: !result.HasErrors(), Data: result})
	}
}
