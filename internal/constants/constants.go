package constants

import "time"

const (
	// ContextKeyUser is the gin context key holding the authenticated user model.
	ContextKeyUser = "user"

	// SessionCookieName is the name of the portal session cookie.
	SessionCookieName = "portal_session"

	// SessionKeyToken is the session key holding the auth token key.
	SessionKeyToken = "auth_token"

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8

	// ResetRequestValidDuration is how long a password reset request stays usable.
	ResetRequestValidDuration = time.Hour

	// ResetRequestPruneInterval is how often unusable reset requests are swept.
	ResetRequestPruneInterval = time.Hour
)
