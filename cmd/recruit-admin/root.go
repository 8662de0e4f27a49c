package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/target/recruit-admin/config"
	"github.com/target/recruit-admin/internal/bootstrap"
)

// app carries configuration and I/O shared by every command.
type app struct {
	cfg    config.AppConfig
	logger *slog.Logger
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// loadConfig is replaced in tests.
	loadConfig func() (config.AppConfig, error)
	// interactive reports whether missing credentials may be prompted for.
	interactive bool

	apiURL    string
	tokenFile string
	output    string
	verbose   bool
}

func newApp() *app {
	return &app{
		in:          os.Stdin,
		out:         os.Stdout,
		errOut:      os.Stderr,
		loadConfig:  bootstrap.LoadConfig,
		interactive: true,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "recruit-admin",
		Short:         "Recruitment admin console and tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.apiURL, "api-url", "", "backend base URL (overrides API_URL)")
	flags.StringVar(&a.tokenFile, "token-file", "", "cookie file holding the admin token (overrides SESSION_COOKIE_FILE)")
	flags.StringVarP(&a.output, "output", "o", formatTable, "output format: table, json or yaml")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log backend calls to stderr")

	root.AddCommand(
		newServeCmd(a),
		newDevAPICmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newApplicationsCmd(a),
		newUsersCmd(a),
		newAdminsCmd(a),
	)
	return root
}

// setup loads configuration and applies flag overrides.
func (a *app) setup() error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if u := strings.TrimSpace(a.apiURL); u != "" {
		cfg.Backend.URL = strings.TrimRight(u, "/")
	}
	if f := strings.TrimSpace(a.tokenFile); f != "" {
		cfg.Session.CookieFile = f
	}
	a.cfg = cfg

	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))
	return validateFormat(a.output)
}
