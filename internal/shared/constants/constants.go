package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderAccessToken   = "x-access-token"
	HeaderXRequestID    = "X-Request-ID"

	ContentTypeJSON = "application/json"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableUsers           = "users"
	TableServiceRequests = "service_requests"
	TableTickets         = "tickets"
	TableTicketMessages  = "ticket_messages"
	TableCredentials     = "credentials"

	// BrandName appears in email copy and provider embeds.
	BrandName = "FixMy.Site"
)
