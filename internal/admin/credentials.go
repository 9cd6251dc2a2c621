package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/vicidial-admin/internal/wire"
)

// Fixed values applied to every credential pair.
const (
	agentUserLevel     = "1"
	hotkeysActive      = "1"
	defaultBlended     = "1"
	phoneProtocol      = "SIP"
	phoneLocalGMT      = "-5.00"
	phoneOutboundCID   = "0000000000"
	phoneIsWebphone    = "Y"
	phoneWebAutoAnswer = "Y"
)

// CreateCredentialsRequest describes a user and the phone it logs into.
// A blank Name defaults to ID + "1". OnlyPhase, when set, runs that single
// step so a pair left half-created can be completed.
type CreateCredentialsRequest struct {
	ID        string
	Password  string
	UserGroup string
	Name      string
	OnlyPhase Phase
}

// UpdateCredentialsRequest changes the display name and/or password of a
// pair. At least one of Name and Password must be set.
type UpdateCredentialsRequest struct {
	ID       string
	Name     string
	Password string
}

// CredentialResult lists the steps that were applied remotely.
type CredentialResult struct {
	ID        string
	Name      string
	Completed []Phase
}

// CreateCredentials creates the user, then the phone. There is no rollback:
// when the phone step fails the returned *PhaseError says the user exists.
func (s *Service) CreateCredentials(ctx context.Context, req CreateCredentialsRequest) (*CredentialResult, error) {
	for _, check := range []struct{ field, value string }{
		{"id", req.ID}, {"password", req.Password}, {"user group", req.UserGroup},
	} {
		if err := required(check.field, check.value); err != nil {
			return nil, err
		}
	}
	runUser, runPhone, err := selectPhases(req.OnlyPhase)
	if err != nil {
		return nil, err
	}
	phone := s.gateway.PhoneSettings()
	if runPhone && phone.ServerIP == "" {
		return nil, &ValidationError{Field: "server ip", Reason: "SERVER_IP must be configured to create phones"}
	}

	id := strings.TrimSpace(req.ID)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = id + "1"
	}
	result := &CredentialResult{ID: id, Name: name}

	if runUser {
		params := wire.Params{}.
			Add("agent_user", id).
			Add("agent_pass", req.Password).
			Add("agent_user_level", agentUserLevel).
			Add("agent_full_name", name).
			Add("agent_user_group", strings.TrimSpace(req.UserGroup)).
			Add("hotkeys_active", hotkeysActive).
			Add("closer_default_blended", defaultBlended)
		if _, err := s.gateway.Call(ctx, FnAddUser, params); err != nil {
			return result, &PhaseError{Phase: PhaseUser, Err: err}
		}
		result.Completed = append(result.Completed, PhaseUser)
		s.logger.Info("user created", "agent_user", id)
	}

	if runPhone {
		params := wire.Params{}.
			Add("extension", id).
			Add("dialplan_number", id).
			Add("voicemail_id", id).
			Add("phone_login", id).
			Add("phone_pass", req.Password).
			Add("server_ip", phone.ServerIP).
			Add("protocol", phoneProtocol).
			Add("registration_password", req.Password).
			Add("phone_full_name", name).
			Add("local_gmt", phoneLocalGMT).
			Add("outbound_cid", phoneOutboundCID).
			Add("is_webphone", phoneIsWebphone).
			Add("webphone_auto_answer", phoneWebAutoAnswer)
		if phone.TemplateID != "" {
			params = params.Add("template_id", phone.TemplateID)
		}
		if _, err := s.gateway.Call(ctx, FnAddPhone, params); err != nil {
			return result, &PhaseError{Phase: PhasePhone, Completed: result.Completed, Err: err}
		}
		result.Completed = append(result.Completed, PhasePhone)
		s.logger.Info("phone created", "extension", id)
	}
	return result, nil
}

// UpdateCredentials updates the user and, when a password is given, the
// phone. Name-only updates never touch the phone.
func (s *Service) UpdateCredentials(ctx context.Context, req UpdateCredentialsRequest) (*CredentialResult, error) {
	if err := required("id", req.ID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" && req.Password == "" {
		return nil, &ValidationError{Field: "update", Reason: "provide a name, a password or both"}
	}
	phone := s.gateway.PhoneSettings()
	if req.Password != "" && phone.ServerIP == "" {
		return nil, &ValidationError{Field: "server ip", Reason: "SERVER_IP must be configured to update phones"}
	}

	id := strings.TrimSpace(req.ID)
	result := &CredentialResult{ID: id, Name: name}

	params := wire.Params{}.Add("agent_user", id)
	if name != "" {
		params = params.Add("agent_full_name", name)
	}
	if req.Password != "" {
		params = params.Add("agent_pass", req.Password)
	}
	if _, err := s.gateway.Call(ctx, FnUpdateUser, params); err != nil {
		return result, &PhaseError{Phase: PhaseUser, Err: err}
	}
	result.Completed = append(result.Completed, PhaseUser)
	s.logger.Info("user updated", "agent_user", id, "name_changed", name != "", "password_changed", req.Password != "")

	if req.Password == "" {
		return result, nil
	}

	params = wire.Params{}.
		Add("extension", id).
		Add("server_ip", phone.ServerIP).
		Add("phone_pass", req.Password)
	if _, err := s.gateway.Call(ctx, FnUpdatePhone, params); err != nil {
		return result, &PhaseError{Phase: PhasePhone, Completed: result.Completed, Err: err}
	}
	result.Completed = append(result.Completed, PhasePhone)
	s.logger.Info("phone password updated", "extension", id)
	return result, nil
}

func selectPhases(only Phase) (user, phone bool, err error) {
	switch Phase(strings.ToLower(strings.TrimSpace(string(only)))) {
	case "":
		return true, true, nil
	case PhaseUser:
		return true, false, nil
	case PhasePhone:
		return false, true, nil
	default:
		return false, false, &ValidationError{Field: "phase", Value: string(only), Reason: fmt.Sprintf("must be %q or %q", PhaseUser, PhasePhone)}
	}
}
