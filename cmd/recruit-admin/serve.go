package main

import (
	"github.com/spf13/cobra"

	"github.com/target/recruit-admin/internal/bootstrap"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web console",
		Long: `Run the web console on HTTP_ADDR.

Every request rebuilds the admin session from the admin_token cookie and
talks to the backend at API_URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := bootstrap.InitLogger(a.cfg.IsDev)
			return bootstrap.RunConsole(cmd.Context(), &a.cfg, logger)
		},
	}
}

func newDevAPICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "devapi",
		Short: "Run the in-memory development backend",
		Long: `Run an in-memory backend on DEVAPI_ADDR for local development.

It seeds a super admin (DEVAPI_SEED_USERNAME / DEVAPI_SEED_PASSWORD) and
DEVAPI_SEED_APPLICANTS demo applicants. Data is lost on exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := bootstrap.InitLogger(a.cfg.IsDev)
			return bootstrap.RunDevAPI(cmd.Context(), &a.cfg, logger)
		},
	}
}
