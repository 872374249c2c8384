// ABOUTME: Tests for failure reporting
// ABOUTME: Checks message wording and the 401 logout rule

package report

import (
	"errors"
	"testing"

	"github.com/markalston/cooking-codex/internal/client"
	"github.com/markalston/cooking-codex/internal/toast"
)

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) Push(message string) toast.Notification {
	r.messages = append(r.messages, message)
	return toast.Notification{Message: message}
}

type countingClearer struct {
	calls int
}

func (c *countingClearer) Clear() error {
	c.calls++
	return nil
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "connection",
			err:  &client.Error{Kind: client.KindConnection},
			want: "Action failed as could not connect to server, when saving recipe title",
		},
		{
			name: "deserialization",
			err:  &client.Error{Kind: client.KindDeserialization},
			want: "Internal error occurred; action failed, when saving recipe title",
		},
		{
			name: "generic",
			err:  &client.Error{Kind: client.KindGeneric},
			want: "Internal error occurred; action failed, when saving recipe title",
		},
		{
			name: "not found",
			err:  &client.Error{Kind: client.KindResponse, StatusCode: 404},
			want: "Action failed as resource was not found, when saving recipe title",
		},
		{
			name: "server error",
			err:  &client.Error{Kind: client.KindResponse, StatusCode: 500},
			want: "Action failed received status code '500', when saving recipe title",
		},
		{
			name: "wrapped",
			err:  errors.Join(errors.New("outer"), &client.Error{Kind: client.KindResponse, StatusCode: 401}),
			want: "Action failed received status code '401', when saving recipe title",
		},
		{
			name: "non api error",
			err:  errors.New("boom"),
			want: "Internal error occurred; action failed, when saving recipe title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err, "saving recipe title"); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFailure_UnauthorizedClearsSession(t *testing.T) {
	notifier := &recordingNotifier{}
	sessions := &countingClearer{}

	Failure(&client.Error{Kind: client.KindResponse, StatusCode: 401}, "saving recipe steps", notifier, sessions)

	if sessions.calls != 1 {
		t.Errorf("expected session to be cleared once, got %d", sessions.calls)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("expected one notification, got %v", notifier.messages)
	}
	if notifier.messages[0] != "Action failed received status code '401', when saving recipe steps" {
		t.Errorf("unexpected message %q", notifier.messages[0])
	}
}

func TestFailure_OtherErrorsKeepSession(t *testing.T) {
	errs := []error{
		&client.Error{Kind: client.KindResponse, StatusCode: 403},
		&client.Error{Kind: client.KindResponse, StatusCode: 404},
		&client.Error{Kind: client.KindConnection},
		errors.New("boom"),
	}
	for _, err := range errs {
		notifier := &recordingNotifier{}
		sessions := &countingClearer{}
		Failure(err, "creating new recipe", notifier, sessions)
		if sessions.calls != 0 {
			t.Errorf("%v: expected session kept", err)
		}
		if len(notifier.messages) != 1 {
			t.Errorf("%v: expected one notification, got %d", err, len(notifier.messages))
		}
	}
}

func TestFailure_NilErrorDoesNothing(t *testing.T) {
	notifier := &recordingNotifier{}
	Failure(nil, "anything", notifier, nil)
	if len(notifier.messages) != 0 {
		t.Errorf("expected no notification, got %v", notifier.messages)
	}
}
