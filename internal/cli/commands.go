package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wolfman30/vicidial-admin/internal/admin"
)

func (s *session) campaignsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "campaigns",
		Short: "List every campaign with its active flag",
		Args:  exactArgs(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(s.out, "Searching campaigns...")
			campaigns, err := s.service.ListCampaigns(cmd.Context())
			if err != nil {
				return err
			}
			renderCampaigns(s.out, campaigns)
			return nil
		},
	}
}

func (s *session) leadDetailsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "leadDetails <leadId>",
		Short:   "Show every field of a lead",
		Example: "  vicidial-admin leadDetails 1125",
		Args:    exactArgs("leadId"),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(s.out, "Searching lead details for ID: %s...\n", args[0])
			lead, err := s.service.GetLead(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderLead(s.out, lead)
			return nil
		},
	}
}

func (s *session) duplicateInListCommand() *cobra.Command {
	var req admin.DuplicateLeadRequest
	cmd := &cobra.Command{
		Use:     "duplicateInList <leadId> <listId>",
		Short:   "Copy a lead into another list",
		Example: "  vicidial-admin duplicateInList 1125 999 -c \"call back\" -e ana@example.com",
		Args:    exactArgs("leadId", "listId"),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.LeadID, req.ListID = args[0], args[1]
			fmt.Fprintf(s.out, "Duplicating lead %s into list %s...\n", req.LeadID, req.ListID)
			result, err := s.service.DuplicateLead(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "✅ Lead %s created in list %s from lead %s.\n", result.NewLeadID, result.ListID, result.SourceLeadID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Comments, "comments", "c", "", "agent notes replacing the lead's comments")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "email replacing the lead's email")
	return cmd
}

func (s *session) createCredsCommand() *cobra.Command {
	var req admin.CreateCredentialsRequest
	var phase string
	cmd := &cobra.Command{
		Use:     "createCreds <id> <password> <userGroupId>",
		Short:   "Create an agent user and its web phone",
		Example: "  vicidial-admin createCreds 8001 s3cret AGENTS -n \"Front Desk\"",
		Args:    exactArgs("id", "password", "userGroupId"),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.ID, req.Password, req.UserGroup = args[0], args[1], args[2]
			req.OnlyPhase = admin.Phase(phase)
			fmt.Fprintln(s.out, "Creating credentials...")
			result, err := s.service.CreateCredentials(cmd.Context(), req)
			renderCompleted(s.out, result, "created")
			if err != nil {
				return withRetryHint(err, "createCreds", args)
			}
			fmt.Fprintln(s.out, "✅ Credentials successfully created.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Name, "name", "n", "", "display name shown in reports (default <id>1)")
	cmd.Flags().StringVar(&phase, "phase", "", "run only one step: user or phone")
	return cmd
}

func (s *session) updateCredCommand() *cobra.Command {
	var req admin.UpdateCredentialsRequest
	cmd := &cobra.Command{
		Use:     "updateCred <id>",
		Short:   "Change the name and/or password of an agent",
		Example: "  vicidial-admin updateCred 8001 -p n3w",
		Args:    exactArgs("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.ID = args[0]
			fmt.Fprintf(s.out, "Updating credentials for: %s...\n", req.ID)
			result, err := s.service.UpdateCredentials(cmd.Context(), req)
			renderCompleted(s.out, result, "updated")
			if err != nil {
				return err
			}
			fmt.Fprintln(s.out, "✅ The credentials have been successfully updated.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Name, "name", "n", "", "new display name")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "new password for the user and the phone")
	return cmd
}

func (s *session) deleteDIDsCommand() *cobra.Command {
	var req admin.DeleteDIDsRequest
	var mode string
	cmd := &cobra.Command{
		Use:   "deleteDIDs",
		Short: "Remove inbound DIDs by number, list file or group",
		Long: `Remove inbound DIDs. Modes:
  SINGLE   - remove the DID matching --did
  MULTIPLE - remove the DIDs listed one per line in --list
  GROUP    - remove every DID routed to --group
The default DID is never removed.`,
		Example: `  vicidial-admin deleteDIDs --did 15551234567
  vicidial-admin deleteDIDs -m MULTIPLE -l dids.txt
  vicidial-admin deleteDIDs -m GROUP -g SALES`,
		Args: exactArgs(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := admin.ParseDeleteMode(mode)
			if err != nil {
				return err
			}
			req.Mode = parsed
			report, err := s.service.DeleteDIDs(cmd.Context(), req)
			if report != nil {
				renderDeleteReport(s.out, report)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", string(admin.ModeSingle), "SINGLE, MULTIPLE or GROUP")
	cmd.Flags().StringVar(&req.DID, "did", "", "number to remove in SINGLE mode, e.g. 15551234567")
	cmd.Flags().StringVarP(&req.ListPath, "list", "l", "", "file with one number per line for MULTIPLE mode")
	cmd.Flags().StringVarP(&req.Group, "group", "g", "", "group name for GROUP mode")
	return cmd
}

// withRetryHint tells the operator how to finish a pair whose user step
// already succeeded.
func withRetryHint(err error, command string, args []string) error {
	var phaseErr *admin.PhaseError
	if !errors.As(err, &phaseErr) || len(phaseErr.Completed) == 0 {
		return err
	}
	return fmt.Errorf("%w; rerun with: vicidial-admin %s %s %s %s --phase %s",
		err, command, args[0], "<password>", args[2], phaseErr.Phase)
}
