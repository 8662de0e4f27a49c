package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	"github.com/target/recruit-admin/internal/guard"
)

func newLoginCmd(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the admin token",
		Long: `Exchange admin credentials for a token and store it in the cookie file.

Missing credentials are prompted for; the password is never echoed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.promptCredentials(cmd.Context(), &username, &password); err != nil {
				return err
			}
			sess, err := a.openSession()
			if err != nil {
				return err
			}
			defer sess.Close()

			res := sess.manager.Login(cmd.Context(), username, password)
			if !res.Success {
				return fieldsError(res.Message, res.FieldErrors)
			}
			p := sess.manager.Snapshot().Principal
			a.done(fmt.Sprintf("Logged in as %s (%s)", p.DisplayName(), p.Role))
			if a.output != formatTable {
				return a.render(p, nil)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password (prompted when omitted)")
	return cmd
}

// promptCredentials asks for whatever the flags left blank.
func (a *app) promptCredentials(ctx context.Context, username, password *string) error {
	*username = strings.TrimSpace(*username)
	if *username != "" && *password != "" {
		return nil
	}
	if !a.interactive {
		return errors.New("username and password are required")
	}

	var fields []huh.Field
	if *username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(username).
			Validate(required("Username is required")))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password).
			Validate(required("Password is required")))
	}
	form := huh.NewForm(huh.NewGroup(fields...)).WithInput(a.in).WithOutput(a.errOut)
	if err := form.RunWithContext(ctx); err != nil {
		return fmt.Errorf("read credentials: %w", err)
	}
	*username = strings.TrimSpace(*username)
	return nil
}

func required(msg string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}

// fieldsError folds per-field messages into one line after msg.
func fieldsError(msg string, fields map[string]string) error {
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if v != msg {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return errors.New(msg)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fields[k])
	}
	return fmt.Errorf("%s: %s", strings.TrimSuffix(msg, "."), strings.Join(parts, "; "))
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored admin token",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			sess, err := a.openSession()
			if err != nil {
				return err
			}
			defer sess.Close()

			sess.manager.Logout()
			a.done("Logged out")
			return nil
		},
	}
}

// whoami is the machine-readable shape of the whoami command.
type whoami struct {
	domainauth.Principal `yaml:",inline"`
	TokenExpiresAt       *time.Time `json:"token_expires_at,omitempty" yaml:"token_expires_at,omitempty"`
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), guard.Requirement{}, func(sess *cliSession, p domainauth.Principal) error {
				info := whoami{Principal: p, TokenExpiresAt: tokenExpiry(sess.manager.Snapshot().Credential)}
				return a.render(info, func(w io.Writer) error {
					fmt.Fprintln(w, headingStyle.Render(p.DisplayName())+"  "+roleBadge(p.Role))
					writeRow(w, "Username:", p.Username)
					writeRow(w, "Email:", orDash(p.Email))
					writeRow(w, "Last login:", formatTime(p.LastLogin))
					writeRow(w, "Token expires:", formatTime(info.TokenExpiresAt))
					return nil
				})
			})
		},
	}
}

// tokenExpiry reads the exp claim without verifying the signature; the backend remains
// the authority on whether the token is still accepted.
func tokenExpiry(token string) *time.Time {
	if token == "" {
		return nil
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return nil
	}
	t := claims.ExpiresAt.Time
	return &t
}
