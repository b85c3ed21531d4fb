package constants

// Session and context keys
const (
	SessionCookieName     = "contact_session"
	ContextKeyUserID      = "user_id"
	SessionKeyWorkspaceID = "current_workspace_id"
)

// Pagination limits
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Authentication
const (
	MinPasswordLength = 8
)
