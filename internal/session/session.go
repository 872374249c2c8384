// ABOUTME: Authenticated session model and access requirements
// ABOUTME: A session binds an API location and media location to a login token

package session

import (
	"strings"
	"time"

	"github.com/markalston/cooking-codex/internal/client"
)

// StorageKey is the single key the session is persisted under
const StorageKey = "login-details"

// Session is the authenticated context for the current user
type Session struct {
	APIURL   string            `json:"apiUrl"`
	MediaURL string            `json:"mediaUrl"`
	Token    client.LoginToken `json:"token"`
}

// Expired reports whether the token expiry has passed. It is informational;
// an expired token is only rejected when the API answers 401.
func (s Session) Expired(now time.Time) bool {
	return !s.Token.Expiry.IsZero() && now.After(s.Token.Expiry)
}

// ImageURL returns the URL of a stored recipe image
func (s Session) ImageURL(imageID string) string {
	return strings.TrimSuffix(s.MediaURL, "/") + "/recipe-image/" + imageID
}

// Requirement is the session presence a screen or command needs
type Requirement int

const (
	// RequireSession means a login is needed
	RequireSession Requirement = iota
	// RequireNoSession means the user must be logged out (login/signup)
	RequireNoSession
)

// Satisfied reports whether the current presence meets the requirement
func (r Requirement) Satisfied(hasSession bool) bool {
	if r == RequireSession {
		return hasSession
	}
	return !hasSession
}

func (r Requirement) String() string {
	if r == RequireSession {
		return "session required"
	}
	return "no session required"
}
