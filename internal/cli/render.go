package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/wolfman30/vicidial-admin/internal/admin"
	"github.com/wolfman30/vicidial-admin/internal/wire"
)

var separator = strings.Repeat("-", 57)

func renderCampaigns(w io.Writer, campaigns []wire.Campaign) {
	fmt.Fprintln(w, "Campaigns:")
	fmt.Fprintln(w, separator)
	for _, c := range campaigns {
		fmt.Fprintf(w, "%s ID: %s | Description: %s\n", activeMark(c.Active), c.ID, c.Description)
	}
	fmt.Fprintln(w, separator)
}

func activeMark(active bool) string {
	if active {
		return "✅"
	}
	return "❌"
}

func renderLead(w io.Writer, lead wire.Lead) {
	fmt.Fprintln(w, "Lead details:")
	fmt.Fprintln(w, separator)
	for _, f := range lead.Fields() {
		fmt.Fprintf(w, "%s: %s\n", f.Name, f.Value)
	}
	fmt.Fprintln(w, separator)
}

func renderCompleted(w io.Writer, result *admin.CredentialResult, verb string) {
	if result == nil {
		return
	}
	for _, p := range result.Completed {
		label := "User"
		if p == admin.PhasePhone {
			label = "Phone"
		}
		fmt.Fprintf(w, "☑️ %s has been %s: %s\n", label, verb, result.ID)
	}
}

func renderDeleteReport(w io.Writer, report *admin.DeleteReport) {
	fmt.Fprintf(w, "Total of %d DIDs found.\n", report.Found)
	if report.Dropped > 0 {
		fmt.Fprintf(w, "%d incomplete rows skipped.\n", report.Dropped)
	}
	if report.Mode == admin.ModeGroup {
		fmt.Fprintf(w, "Total of %d DIDs found in group %s.\n", report.Matched, report.Group)
	}
	for _, o := range report.Outcomes {
		switch o.Status {
		case admin.DIDRemoved:
			fmt.Fprintf(w, "✅ ID: %d DID: %s removed successfully.\n", o.DID.ID, o.DID.CallerID)
		case admin.DIDProtected:
			fmt.Fprintf(w, "❌ Can't remove default DID (ID: %d).\n", o.DID.ID)
		case admin.DIDNotFound:
			fmt.Fprintf(w, "❌ Phone not found in Vicidial: %s\n", o.Input)
		case admin.DIDInvalid:
			fmt.Fprintf(w, "❌ Invalid phone number: %s\n", o.Input)
		}
	}
	if report.Mode != admin.ModeSingle {
		fmt.Fprintf(w, "Removed %d of %d.\n", report.Removed(), len(report.Outcomes))
	}
}
