// Package cli implements the order-wizard command line.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	appkg "github.com/xenking/evdealer-wizard/internal/app"
	"github.com/xenking/evdealer-wizard/internal/console"
)

var (
	version = "dev"
	commit  = "none"
)

// Options carries the process-level dependencies of the commands.
type Options struct {
	Logger    *zap.Logger
	Telemetry *app.Telemetry
	In        io.Reader
	Out       io.Writer
}

// globalFlags override values loaded from the environment and config file.
type globalFlags struct {
	configFile string
	backendURL string
	token      string
	dealerID   int64
	timeout    time.Duration
}

type env struct {
	opts  Options
	flags globalFlags
}

// NewRootCmd builds the command tree.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	e := &env{opts: opts}

	cmd := &cobra.Command{
		Use:   "order-wizard",
		Short: "Create dealer vehicle orders step by step",
		Long: "order-wizard walks dealer staff through customer details, vehicle selection, " +
			"promotion and payment, then submits the order to the dealer backend.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.runWizard(cmd)
		},
	}
	if opts.In != nil {
		cmd.SetIn(opts.In)
	}
	if opts.Out != nil {
		cmd.SetOut(opts.Out)
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&e.flags.configFile, "config", "", "Path to a YAML config file")
	pf.StringVar(&e.flags.backendURL, "backend-url", "", "Dealer backend base URL")
	pf.StringVar(&e.flags.token, "token", "", "Bearer token obtained at login")
	pf.Int64Var(&e.flags.dealerID, "dealer-id", 0, "Dealer the staff member works for")
	pf.DurationVar(&e.flags.timeout, "timeout", 0, "Timeout of a single backend request")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newNewCmd(e))
	cmd.AddCommand(newCustomersCmd(e))
	cmd.AddCommand(newCatalogCmd(e))
	cmd.AddCommand(newPromotionsCmd(e))
	cmd.AddCommand(newSummaryCmd(e))
	return cmd
}

// Execute runs the command line with args.
func Execute(ctx context.Context, lg *zap.Logger, m *app.Telemetry, args []string) error {
	cmd := NewRootCmd(Options{Logger: lg, Telemetry: m})
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// config loads the configuration and applies the flags that were set.
func (e *env) config(cmd *cobra.Command) (*appkg.Config, error) {
	var files []string
	if e.flags.configFile != "" {
		files = append(files, e.flags.configFile)
	}
	cfg, err := appkg.LoadConfig(files...)
	if err != nil {
		return nil, err
	}

	pf := cmd.Flags()
	if pf.Changed("backend-url") {
		cfg.Backend.URL = e.flags.backendURL
	}
	if pf.Changed("token") {
		cfg.Session.Token = e.flags.token
	}
	if pf.Changed("dealer-id") {
		cfg.Session.DealerID = e.flags.dealerID
	}
	if pf.Changed("timeout") {
		cfg.Backend.Timeout = e.flags.timeout
	}
	return cfg, nil
}

func (e *env) backend(cmd *cobra.Command) (*appkg.Config, *appkg.Backend, error) {
	cfg, err := e.config(cmd)
	if err != nil {
		return nil, nil, err
	}
	b, err := appkg.NewBackend(cfg, e.opts.Telemetry)
	if err != nil {
		return nil, nil, err
	}
	return cfg, b, nil
}

func (e *env) runWizard(cmd *cobra.Command) error {
	cfg, b, err := e.backend(cmd)
	if err != nil {
		return err
	}
	lg := e.opts.Logger
	w, err := appkg.NewWizard(lg, e.opts.Telemetry, cfg, b)
	if err != nil {
		return err
	}

	s := b.Client.Session()
	lg.Info("Starting order wizard",
		zap.String("backend", cfg.Backend.URL),
		zap.Int64("dealer_id", s.DealerID),
		zap.String("user", s.Username),
	)
	c := console.New(w, cmd.InOrStdin(), cmd.OutOrStdout(), lg.Named("console"))
	if err := c.Run(cmd.Context()); err != nil {
		return errors.Wrap(err, "wizard")
	}
	return nil
}

func newNewCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start the interactive order wizard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.runWizard(cmd)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show order-wizard version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), "order-wizard "+version+" ("+commit+")\n")
			return err
		},
	}
}
