package telemetry

// Span attribute keys shared by the outbound adapters.
const (
	AttrTarget     = "fireflight.target"
	AttrStatusCode = "http.status_code"
	AttrIncidents  = "fireflight.incidents"
)
