// Package admin implements the administrative workflows run against a
// Vicidial server: campaign listing, lead lookup and duplication, credential
// pair management and DID clean-up.
package admin

import (
	"context"

	"github.com/wolfman30/vicidial-admin/internal/observability/metrics"
	"github.com/wolfman30/vicidial-admin/internal/vicidial"
	"github.com/wolfman30/vicidial-admin/internal/wire"
	"github.com/wolfman30/vicidial-admin/pkg/logging"
)

// API function names used by the workflows.
const (
	FnCampaignsList = "campaigns_list"
	FnLeadAllInfo   = "lead_all_info"
	FnAddLead       = "add_lead"
	FnAddUser       = "add_user"
	FnUpdateUser    = "update_user"
	FnAddPhone      = "add_phone"
	FnUpdatePhone   = "update_phone"
)

// DefaultProtectedDIDID is the id of the system default DID.
const DefaultProtectedDIDID = 1

// Gateway is the remote surface the workflows need.
type Gateway interface {
	Call(ctx context.Context, function string, params wire.Params) (string, error)
	FetchAdminPage(ctx context.Context, pageURL string) (string, error)
	PhoneSettings() vicidial.PhoneSettings
}

// Service runs the workflows. Calls are issued one at a time.
type Service struct {
	gateway        Gateway
	didsPageURL    string
	protectedDIDID int
	logger         *logging.Logger
	metrics        *metrics.AdminMetrics
}

// Option is a functional option for configuring the Service.
type Option func(*Service)

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records workflow outcomes on m.
func WithMetrics(m *metrics.AdminMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithDIDsPageURL sets the admin page listing the inbound DIDs.
func WithDIDsPageURL(pageURL string) Option {
	return func(s *Service) {
		s.didsPageURL = pageURL
	}
}

// WithProtectedDIDID overrides the id of the DID that is never removed.
func WithProtectedDIDID(id int) Option {
	return func(s *Service) {
		s.protectedDIDID = id
	}
}

// NewService creates a Service on top of gateway.
func NewService(gateway Gateway, opts ...Option) *Service {
	s := &Service{
		gateway:        gateway,
		protectedDIDID: DefaultProtectedDIDID,
		logger:         logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
