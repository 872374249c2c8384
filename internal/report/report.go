// ABOUTME: Converts API failures into user notifications
// ABOUTME: A 401 response additionally forces a logout

package report

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/markalston/cooking-codex/internal/client"
	"github.com/markalston/cooking-codex/internal/toast"
)

// Notifier receives user-visible messages
type Notifier interface {
	Push(message string) toast.Notification
}

// SessionClearer is the logout half of the session store
type SessionClearer interface {
	Clear() error
}

// Message renders err as a notification message for the action described by when
func Message(err error, when string) string {
	var apiErr *client.Error
	if !errors.As(err, &apiErr) {
		return fmt.Sprintf("Internal error occurred; action failed, when %s", when)
	}

	switch apiErr.Kind {
	case client.KindConnection:
		return fmt.Sprintf("Action failed as could not connect to server, when %s", when)
	case client.KindResponse:
		if apiErr.StatusCode == http.StatusNotFound {
			return fmt.Sprintf("Action failed as resource was not found, when %s", when)
		}
		return fmt.Sprintf("Action failed received status code '%d', when %s", apiErr.StatusCode, when)
	default:
		return fmt.Sprintf("Internal error occurred; action failed, when %s", when)
	}
}

// Failure pushes the message for err and clears the session on 401.
// Internal failures are logged since the toast hides their cause.
func Failure(err error, when string, notifier Notifier, sessions SessionClearer) {
	if err == nil {
		return
	}

	var apiErr *client.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != client.KindConnection && apiErr.Internal() {
		slog.Error("Action failed", "when", when, "error", err)
	}

	if notifier != nil {
		notifier.Push(Message(err, when))
	}

	if client.IsUnauthorized(err) && sessions != nil {
		slog.Info("Credential rejected, logging out", "when", when)
		if clearErr := sessions.Clear(); clearErr != nil {
			slog.Error("Failed to clear session", "error", clearErr)
		}
	}
}
