package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/vicidial-admin/internal/wire"
)

// ListCampaigns returns every campaign in the order the API lists them.
func (s *Service) ListCampaigns(ctx context.Context) ([]wire.Campaign, error) {
	body, err := s.gateway.Call(ctx, FnCampaignsList, nil)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	campaigns, err := wire.DecodeCampaigns(body)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	s.logger.Debug("campaigns listed", "count", len(campaigns))
	return campaigns, nil
}

// GetLead fetches a lead by id.
func (s *Service) GetLead(ctx context.Context, leadID string) (wire.Lead, error) {
	if err := required("lead id", leadID); err != nil {
		return wire.Lead{}, err
	}
	return s.fetchLead(ctx, strings.TrimSpace(leadID))
}

func (s *Service) fetchLead(ctx context.Context, leadID string) (wire.Lead, error) {
	body, err := s.gateway.Call(ctx, FnLeadAllInfo, wire.Params{}.Add("lead_id", leadID))
	if err != nil {
		return wire.Lead{}, fmt.Errorf("fetch lead %s: %w", leadID, err)
	}
	if strings.TrimSpace(body) == "" {
		return wire.Lead{}, fmt.Errorf("%w: %s", ErrLeadNotFound, leadID)
	}
	return wire.DecodeLead(body), nil
}

// DuplicateLeadRequest describes a copy of an existing lead into a list.
// Blank Comments or Email keep the source lead's values.
type DuplicateLeadRequest struct {
	LeadID   string
	ListID   string
	Comments string
	Email    string
}

// DuplicateLeadResult identifies the lead created by DuplicateLead.
type DuplicateLeadResult struct {
	SourceLeadID string
	ListID       string
	NewLeadID    string
}

// DuplicateLead copies a lead into another list, optionally replacing its
// comments and email.
func (s *Service) DuplicateLead(ctx context.Context, req DuplicateLeadRequest) (*DuplicateLeadResult, error) {
	if err := required("lead id", req.LeadID); err != nil {
		return nil, err
	}
	if err := required("list id", req.ListID); err != nil {
		return nil, err
	}
	leadID := strings.TrimSpace(req.LeadID)
	listID := strings.TrimSpace(req.ListID)

	lead, err := s.fetchLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("lead found", "lead_id", leadID)

	if strings.TrimSpace(req.Comments) != "" {
		lead.Comments = req.Comments
	}
	if strings.TrimSpace(req.Email) != "" {
		lead.Email = strings.TrimSpace(req.Email)
	}

	body, err := s.gateway.Call(ctx, FnAddLead, wire.EncodeLeadForCreate(lead, listID))
	if err != nil {
		return nil, fmt.Errorf("create lead in list %s: %w", listID, err)
	}
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("create lead in list %s: %w", listID, ErrLeadExists)
	}
	newID, err := wire.DecodeAddLeadResponse(body)
	if err != nil {
		return nil, fmt.Errorf("create lead in list %s: %w", listID, err)
	}

	s.logger.Info("lead duplicated", "source_lead_id", leadID, "list_id", listID, "new_lead_id", newID)
	return &DuplicateLeadResult{SourceLeadID: leadID, ListID: listID, NewLeadID: newID}, nil
}
