package constants

const (
	// AuthTokenCookieName is read by the auth middleware when no bearer token is sent.
	AuthTokenCookieName = "auth_token"

	ContextUserID    = "user_id"
	ContextEmail     = "email"
	ContextRole      = "role"
	ContextPlan      = "plan"
	ContextRequestID = "request_id"
)
