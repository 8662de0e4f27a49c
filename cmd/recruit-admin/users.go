package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	"github.com/target/recruit-admin/internal/domain/model"
	"github.com/target/recruit-admin/internal/guard"
	"github.com/target/recruit-admin/internal/service"
)

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage applicant accounts",
	}
	cmd.AddCommand(newUsersListCmd(a), newUsersDeleteCmd(a), newUsersVerifyCmd(a))
	return cmd
}

func (a *app) userService(sess *cliSession) *service.UserService {
	return service.NewUserService(service.UserServiceOptions{API: sess.backend, Logger: a.logger})
}

func newUsersListCmd(a *app) *cobra.Command {
	var opts model.UserListOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applicants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), guard.Requirement{}, func(sess *cliSession, _ domainauth.Principal) error {
				list, err := a.userService(sess).List(cmd.Context(), opts)
				if err != nil {
					return err
				}
				return a.render(list, func(w io.Writer) error {
					writeRow(w, "ID", "NAME", "EMAIL", "PHONE", "VERIFIED", "JOINED")
					for _, u := range list.Users {
						writeRow(w, u.ID, orDash(u.Name), u.Email, orDash(u.Phone), yesNo(u.IsVerified), formatTime(u.CreatedAt))
					}
					pageFooter(w, list.Pagination)
					return nil
				})
			})
		},
	}
	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.Limit, "limit", model.DefaultPageLimit, "results per page")
	cmd.Flags().StringVar(&opts.Verified, "verified", model.FilterAll, "filter by verification: all, true or false")
	cmd.Flags().StringVar(&opts.Search, "search", "", "match name, email or phone")
	cmd.Flags().StringVar(&opts.SortBy, "sort", "", "sort field, e.g. created_at")
	cmd.Flags().StringVar(&opts.SortOrder, "order", "", "sort order: asc or desc")
	return cmd
}

func newUsersDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete one or more applicants",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), guard.Requirement{}, func(sess *cliSession, _ domainauth.Principal) error {
				users := a.userService(sess)
				if len(args) == 1 {
					if err := users.Delete(cmd.Context(), args[0]); err != nil {
						return err
					}
					a.done("User deleted successfully")
					return nil
				}
				res, err := users.BulkDelete(cmd.Context(), args)
				if err != nil {
					return err
				}
				if a.output != formatTable {
					return a.render(res, nil)
				}
				a.done(fmt.Sprintf("%d users deleted successfully", res.DeletedCount))
				return nil
			})
		},
	}
}

func newUsersVerifyCmd(a *app) *cobra.Command {
	var unverify bool
	cmd := &cobra.Command{
		Use:   "verify <id>",
		Short: "Mark an applicant verified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), guard.Requirement{}, func(sess *cliSession, _ domainauth.Principal) error {
				if err := a.userService(sess).SetVerified(cmd.Context(), args[0], !unverify); err != nil {
					return err
				}
				if unverify {
					a.done("User unverified successfully")
				} else {
					a.done("User verified successfully")
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&unverify, "unverify", false, "clear the verified flag instead")
	return cmd
}
