package bootstrap

import (
	"fmt"

	"github.com/wolfman30/vicidial-admin/internal/admin"
	appconfig "github.com/wolfman30/vicidial-admin/internal/config"
	"github.com/wolfman30/vicidial-admin/internal/observability/metrics"
	"github.com/wolfman30/vicidial-admin/internal/vicidial"
	"github.com/wolfman30/vicidial-admin/pkg/logging"
)

// BuildGateway wires the Vicidial client from validated configuration.
func BuildGateway(cfg *appconfig.Config, logger *logging.Logger, m *metrics.AdminMetrics) (*vicidial.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Default()
	}

	client, err := vicidial.New(vicidial.Config{
		BaseURL:        cfg.BaseURL,
		User:           cfg.APIUser,
		Password:       cfg.APIPassword,
		Source:         cfg.Source,
		ServerIP:       cfg.ServerIP,
		TemplateID:     cfg.TemplateID,
		ConnectTimeout: cfg.ConnectTimeout,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
		Metrics:        m,
	})
	if err != nil {
		return nil, fmt.Errorf("bootstrap: vicidial client: %w", err)
	}
	if cfg.ServerIP == "" {
		logger.Debug("SERVER_IP not set; phone workflows are unavailable")
	}
	return client, nil
}

// BuildAdminService returns the workflow service on top of a fresh gateway.
func BuildAdminService(cfg *appconfig.Config, logger *logging.Logger, m *metrics.AdminMetrics) (*admin.Service, error) {
	gateway, err := BuildGateway(cfg, logger, m)
	if err != nil {
		return nil, err
	}
	opts := []admin.Option{
		admin.WithLogger(logger),
		admin.WithMetrics(m),
		admin.WithDIDsPageURL(cfg.DIDsPageURL),
	}
	if cfg.ProtectedDIDID > 0 {
		opts = append(opts, admin.WithProtectedDIDID(cfg.ProtectedDIDID))
	}
	return admin.NewService(gateway, opts...), nil
}
