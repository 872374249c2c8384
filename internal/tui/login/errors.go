// ABOUTME: Validation errors for the login form
// ABOUTME: Messages are shown inline under the offending field

package login

import (
	"errors"
	"fmt"
	"strings"
)

var errInvalidURL = errors.New("enter an http:// or https:// address")

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
