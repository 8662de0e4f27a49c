package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	"github.com/target/recruit-admin/internal/domain/model"
	"github.com/target/recruit-admin/internal/guard"
	"github.com/target/recruit-admin/internal/service"
)

// superAdminOnly is the guard requirement shared by every admins subcommand.
var superAdminOnly = guard.Requirement{RequireSuperAdmin: true}

func newAdminsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admins",
		Short: "Manage admin accounts (super admin only)",
	}
	cmd.AddCommand(
		newAdminsListCmd(a),
		newAdminsCreateCmd(a),
		newAdminsRoleCmd(a),
		newAdminsActiveCmd(a, true),
		newAdminsActiveCmd(a, false),
	)
	return cmd
}

func (a *app) adminService(sess *cliSession) *service.AdminService {
	return service.NewAdminService(service.AdminServiceOptions{API: sess.backend, Logger: a.logger})
}

func newAdminsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List admin accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), superAdminOnly, func(sess *cliSession, me domainauth.Principal) error {
				admins, err := a.adminService(sess).List(cmd.Context())
				if err != nil {
					return err
				}
				return a.render(admins, func(w io.Writer) error {
					writeRow(w, "ID", "USERNAME", "NAME", "EMAIL", "ROLE", "ACTIVE", "LAST LOGIN")
					for _, adm := range admins {
						username := adm.Username
						if adm.ID == me.ID {
							username += " (you)"
						}
						writeRow(w, adm.ID, username, orDash(adm.FullName), orDash(adm.Email),
							roleBadge(adm.Role), yesNo(adm.IsActive), formatTime(adm.LastLogin))
					}
					return nil
				})
			})
		},
	}
}

func newAdminsCreateCmd(a *app) *cobra.Command {
	var (
		req  model.CreateAdminRequest
		role string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := domainauth.ParseRole(role)
			if err != nil {
				return err
			}
			req.Role = parsed
			if err := a.promptNewPassword(cmd.Context(), &req); err != nil {
				return err
			}
			return a.withSession(cmd.Context(), superAdminOnly, func(sess *cliSession, _ domainauth.Principal) error {
				if err := a.adminService(sess).Create(cmd.Context(), req); err != nil {
					return err
				}
				a.done("Admin created successfully!")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "", "login name")
	cmd.Flags().StringVar(&req.FullName, "full-name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "initial password (prompted when omitted)")
	cmd.Flags().StringVar(&role, "role", string(domainauth.RoleAdmin), "admin or superadmin")
	return cmd
}

// promptNewPassword asks for the password twice when it was not given as a flag.
// A password given as a flag is taken as already confirmed.
func (a *app) promptNewPassword(ctx context.Context, req *model.CreateAdminRequest) error {
	if req.Password != "" {
		req.ConfirmPassword = req.Password
		return nil
	}
	if !a.interactive {
		return errors.New("password is required")
	}
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&req.Password),
		huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&req.ConfirmPassword),
	)).WithInput(a.in).WithOutput(a.errOut)
	if err := form.RunWithContext(ctx); err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	return nil
}

func newAdminsRoleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "role <id> <admin|superadmin>",
		Short: "Change another admin's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := domainauth.ParseRole(args[1])
			if err != nil {
				return err
			}
			return a.withSession(cmd.Context(), superAdminOnly, func(sess *cliSession, me domainauth.Principal) error {
				if err := a.adminService(sess).SetRole(cmd.Context(), me, args[0], role); err != nil {
					return err
				}
				a.done("Admin role updated successfully")
				return nil
			})
		},
	}
}

func newAdminsActiveCmd(a *app, active bool) *cobra.Command {
	use, short, msg := "deactivate <id>", "Deactivate another admin", "Admin deactivated successfully"
	if active {
		use, short, msg = "activate <id>", "Reactivate another admin", "Admin activated successfully"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), superAdminOnly, func(sess *cliSession, me domainauth.Principal) error {
				if err := a.adminService(sess).SetActive(cmd.Context(), me, args[0], active); err != nil {
					return err
				}
				a.done(msg)
				return nil
			})
		},
	}
}
