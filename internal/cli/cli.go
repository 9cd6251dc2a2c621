package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wolfman30/vicidial-admin/internal/admin"
	"github.com/wolfman30/vicidial-admin/internal/app/bootstrap"
	"github.com/wolfman30/vicidial-admin/internal/config"
	"github.com/wolfman30/vicidial-admin/internal/observability/metrics"
	"github.com/wolfman30/vicidial-admin/internal/vicidial"
	"github.com/wolfman30/vicidial-admin/pkg/logging"
)

// Exit codes returned through ExitError.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: ExitUsage, Message: fmt.Sprintf(format, args...)}
}

// ServiceFactory builds the workflow service once configuration is loaded.
type ServiceFactory func(cfg *config.Config, logger *logging.Logger, m *metrics.AdminMetrics) (*admin.Service, error)

type globalOptions struct {
	envFile     string
	logLevel    string
	logFormat   string
	metricsFile string
}

// session is the state shared by the commands of one invocation.
type session struct {
	out        io.Writer
	errOut     io.Writer
	opts       globalOptions
	newService ServiceFactory

	cfg     *config.Config
	logger  *logging.Logger
	metrics *metrics.AdminMetrics
	service *admin.Service
}

// Execute runs the command line in args and returns an *ExitError for any
// failure. Results go to out, logs to errOut.
func Execute(ctx context.Context, out, errOut io.Writer, args []string) error {
	return execute(ctx, out, errOut, args, bootstrap.BuildAdminService)
}

func execute(ctx context.Context, out, errOut io.Writer, args []string, factory ServiceFactory) error {
	s := &session{out: out, errOut: errOut, newService: factory}
	root := s.rootCommand()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if s.logger != nil {
		sum := s.metrics.Summary()
		s.logger.Debug("run finished", "requests", sum.Total, "failed_requests", sum.Failed, "request_seconds", sum.Seconds)
	}
	if flushErr := s.flushMetrics(); flushErr != nil && s.logger != nil {
		s.logger.Warn("metrics textfile not written", "path", s.metricsPath(), "error", flushErr)
	}
	if err == nil {
		return nil
	}
	return toExitError(err)
}

func (s *session) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "vicidial-admin",
		Short:         "Administrative tasks for a Vicidial call center",
		Long:          "vicidial-admin lists campaigns, inspects and duplicates leads, manages agent credentials and cleans up inbound DIDs through the Vicidial non-agent API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.setup(cmd)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError("%v", err)
	})

	flags := root.PersistentFlags()
	flags.StringVar(&s.opts.envFile, "env-file", config.DefaultEnvFile, "optional file with KEY=value overrides")
	flags.StringVar(&s.opts.logLevel, "log-level", "", "log level: debug, info, warn or error (default from LOG_LEVEL)")
	flags.StringVar(&s.opts.logFormat, "log-format", "", "log format: text or json (default from LOG_FORMAT)")
	flags.StringVar(&s.opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit (default from METRICS_FILE)")

	root.AddCommand(
		s.campaignsCommand(),
		s.leadDetailsCommand(),
		s.duplicateInListCommand(),
		s.createCredsCommand(),
		s.updateCredCommand(),
		s.deleteDIDsCommand(),
	)
	return root
}

func (s *session) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(s.opts.envFile)
	if err != nil {
		return err
	}
	if s.opts.logLevel != "" {
		cfg.LogLevel = s.opts.logLevel
	}
	if s.opts.logFormat != "" {
		cfg.LogFormat = strings.ToLower(s.opts.logFormat)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return usageError("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	if s.opts.metricsFile != "" {
		cfg.MetricsFile = s.opts.metricsFile
	}
	s.cfg = cfg

	s.logger = logging.NewWithOptions(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Writer: s.errOut,
	}).With("invocation_id", uuid.NewString(), "command", cmd.Name())
	s.metrics = metrics.NewAdminMetrics()

	service, err := s.newService(cfg, s.logger, s.metrics)
	if err != nil {
		return err
	}
	s.service = service
	cmd.SetContext(logging.WithContext(cmd.Context(), s.logger))
	return nil
}

func (s *session) metricsPath() string {
	if s.cfg == nil {
		return ""
	}
	return s.cfg.MetricsFile
}

func (s *session) flushMetrics() error {
	path := s.metricsPath()
	if path == "" || s.metrics == nil {
		return nil
	}
	return s.metrics.WriteTextfile(path)
}

// exactArgs reports a wrong argument count as a usage error.
func exactArgs(names ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		switch {
		case len(args) == len(names):
			return nil
		case len(names) == 0:
			return usageError("%s takes no arguments, got %q", cmd.Name(), args)
		default:
			return usageError("%s expects %d argument(s): %s", cmd.Name(), len(names), strings.Join(names, " "))
		}
	}
}

func toExitError(err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	switch {
	case errors.Is(err, admin.ErrValidation):
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	case errors.Is(err, config.ErrMissingCredentials):
		return &ExitError{Code: ExitFailure, Message: "configuration error: " + err.Error()}
	case errors.Is(err, vicidial.ErrInterrupted), errors.Is(err, context.Canceled):
		return &ExitError{Code: ExitFailure, Message: "the request was interrupted"}
	case errors.Is(err, vicidial.ErrNetwork), errors.Is(err, vicidial.ErrAPI):
		return &ExitError{Code: ExitFailure, Message: "API or network error: " + err.Error()}
	}
	if strings.HasPrefix(err.Error(), "unknown command") {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return &ExitError{Code: ExitFailure, Message: err.Error()}
}
