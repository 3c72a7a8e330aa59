package race_api_client

const (
	// API Endpoints
	SessionsEndpoint       = "/v1/sessions"
	PartiesEndpoint        = "/v1/parties"
	RacesEndpoint          = "/v1/races"
	BookOfTheMonthEndpoint = "/v1/books/current"

	// Headers
	APIKeyHeader = "X-API-Key"
)
