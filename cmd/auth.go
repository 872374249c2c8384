// ABOUTME: Account commands for cooking-codex CLI
// ABOUTME: Login, signup, logout, and inspecting the stored session

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/markalston/cooking-codex/internal/app"
	"github.com/markalston/cooking-codex/internal/session"
)

var (
	username string
	password string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and remember the session",
	Long:  `Exchange a username and password for an access token. Prompts for anything not given as a flag.`,
	Run: withApp(func(a *app.App) int {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if err := promptCredentials(&username, &password); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		return runLogin(ctx, a, os.Stdout, username, password)
	}),
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Run: withApp(func(a *app.App) int {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if err := promptCredentials(&username, &password); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		return runSignup(ctx, a, os.Stdout, username, password)
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Run: withApp(func(a *app.App) int {
		return runLogout(a, os.Stdout)
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the stored session",
	Run: withApp(func(a *app.App) int {
		return runWhoami(a, os.Stdout, time.Now())
	}),
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, signupCmd} {
		c.Flags().StringVarP(&username, "username", "u", "", "Username")
		c.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	}
	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd)
}

// promptCredentials asks for whichever of username and password is empty
func promptCredentials(user, pass *string) error {
	var fields []huh.Field
	if *user == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(user).
			Validate(requireText("username")))
	}
	if *pass == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(pass).
			Validate(requireText("password")))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeBase()).Run()
}

func requireText(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

// runLogin logs in against the configured API and returns exit code
func runLogin(ctx context.Context, a *app.App, w io.Writer, user, pass string) int {
	s, err := a.Login(ctx, "", user, pass)
	if err != nil {
		return fail(a, w, err, "logging in")
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatSessionJSON(*s, time.Now()))
	} else {
		fmt.Fprintf(w, "Logged in to %s as %s\n", s.APIURL, user)
	}
	return 0
}

// runSignup creates an account and returns exit code
func runSignup(ctx context.Context, a *app.App, w io.Writer, user, pass string) int {
	u, err := a.Signup(ctx, "", user, pass)
	if err != nil {
		return fail(a, w, err, "creating account")
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(u, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "Created account %s; run 'cooking-codex login' to sign in\n", u.Username)
	}
	return 0
}

// runLogout clears the stored session and returns exit code
func runLogout(a *app.App, w io.Writer) int {
	if !a.Sessions.HasSession() {
		fmt.Fprintln(w, "Not logged in")
		return 0
	}
	if err := a.Logout(); err != nil {
		fmt.Fprintf(w, "Error: logged out but could not remove stored session: %v\n", err)
		return 1
	}
	fmt.Fprintln(w, "Logged out")
	return 0
}

// runWhoami prints the stored session and returns exit code
func runWhoami(a *app.App, w io.Writer, now time.Time) int {
	s, ok := a.Sessions.Session()
	if !ok {
		fmt.Fprintf(w, "Error: %v\n", app.ErrNotLoggedIn)
		return 1
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatSessionJSON(s, now))
	} else {
		fmt.Fprintln(w, formatSessionHuman(s, now))
	}
	return 0
}

// formatSessionHuman formats a session for human readability
func formatSessionHuman(s session.Session, now time.Time) string {
	expiry := "never"
	if !s.Token.Expiry.IsZero() {
		expiry = s.Token.Expiry.Local().Format(time.RFC1123)
		if s.Expired(now) {
			expiry += " (expired)"
		}
	}
	return fmt.Sprintf(`API:        %s
Media:      %s
Token type: %s
Expires:    %s`, s.APIURL, s.MediaURL, s.Token.Type, expiry)
}

// formatSessionJSON formats a session as JSON without the token secret
func formatSessionJSON(s session.Session, now time.Time) string {
	output := map[string]interface{}{
		"api_url":    s.APIURL,
		"media_url":  s.MediaURL,
		"token_type": s.Token.Type,
		"expired":    s.Expired(now),
	}
	if !s.Token.Expiry.IsZero() {
		output["expiry"] = s.Token.Expiry
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
