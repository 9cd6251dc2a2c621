package admin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/vicidial-admin/internal/observability/metrics"
	"github.com/wolfman30/vicidial-admin/internal/vicidial"
)

func didRow(id, callerID, group string) string {
	return fmt.Sprintf(`<tr class="records_list_x"><td>%s</td><td>%s</td><td>desc</td><td>TELNYX</td><td>Y</td><td>%s</td><td>IN_GROUP</td><td>N</td><td>MODIFY</td></tr>`, id, callerID, group)
}

func didPage(rows ...string) string {
	return "<html><body><table>" + strings.Join(rows, "\n") + "</table></body></html>"
}

var standardDIDPage = didPage(
	didRow("1", "15550000001", "SALES"),
	didRow("42", "15551234567", "SALES"),
	didRow("43", "15557654321", "SUPPORT"),
	didRow("44", "15559876543", "SALES"),
	`<tr class="records_list_y"><td>45</td><td>15550000045</td></tr>`,
)

func writeList(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dids.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o600))
	return path
}

func TestValidateDIDFormat(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"15551234567", true},
		{"1abcdefghij", true},
		{"", false},
		{"   ", false},
		{"1555123456", false},
		{"155512345678", false},
		{"25551234567", false},
		{" 5551234567", false},
	}
	for _, tt := range tests {
		err := ValidateDIDFormat(tt.in)
		if tt.ok {
			assert.NoError(t, err, tt.in)
			continue
		}
		assert.True(t, errors.Is(err, ErrValidation), tt.in)
	}
}

func TestParseDeleteMode(t *testing.T) {
	for in, want := range map[string]DeleteMode{"": ModeSingle, "single": ModeSingle, "Multiple": ModeMultiple, " GROUP ": ModeGroup} {
		got, err := ParseDeleteMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDeleteMode("ALL")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestDeleteDIDsSingle(t *testing.T) {
	gw := newFakeGateway()
	gw.page = standardDIDPage
	m := metrics.NewAdminMetrics()

	report, err := newTestService(gw, WithMetrics(m)).DeleteDIDs(context.Background(), DeleteDIDsRequest{Mode: ModeSingle, DID: "15551234567"})
	require.NoError(t, err)
	assert.Equal(t, 4, report.Found)
	assert.Equal(t, 1, report.Dropped)
	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, DIDRemoved, report.Outcomes[0].Status)
	assert.Equal(t, 42, report.Outcomes[0].DID.ID)
	assert.Equal(t, 1, report.Removed())
	assert.Equal(t, []string{"https://pbx.example/vicidial/admin.php?ADD=1300"}, gw.pageFetches)
	assert.Empty(t, gw.calls, "removal never issues API calls")
}

func TestDeleteDIDsSingleErrors(t *testing.T) {
	tests := []struct {
		name      string
		did       string
		wantErr   error
		wantFetch bool
	}{
		{name: "blank", did: " ", wantErr: ErrValidation},
		{name: "bad format", did: "5551234567", wantErr: ErrValidation},
		{name: "unknown", did: "15550009999", wantErr: ErrDIDNotFound, wantFetch: true},
		{name: "protected default", did: "15550000001", wantErr: ErrProtectedDID, wantFetch: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newFakeGateway()
			gw.page = standardDIDPage

			report, err := newTestService(gw).DeleteDIDs(context.Background(), DeleteDIDsRequest{Mode: ModeSingle, DID: tt.did})
			require.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Equal(t, tt.wantFetch, len(gw.pageFetches) == 1)
			if report != nil {
				assert.Zero(t, report.Removed())
			}
		})
	}
}

func TestDeleteDIDsMultiple(t *testing.T) {
	gw := newFakeGateway()
	gw.page = standardDIDPage
	path := writeList(t, "15551234567", " 15557654321 ", "", "15551234567", "12345", "15550009999", "15550000001")

	report, err := newTestService(gw).DeleteDIDs(context.Background(), DeleteDIDsRequest{Mode: ModeMultiple, ListPath: path})
	require.NoError(t, err)

	statuses := make([]DIDStatus, len(report.Outcomes))
	inputs := make([]string, len(report.Outcomes))
	for i, o := range report.Outcomes {
		statuses[i] = o.Status
		inputs[i] = o.Input
	}
	assert.Equal(t, []string{"15551234567", "15557654321", "12345", "15550009999", "15550000001"}, inputs)
	assert.Equal(t, []DIDStatus{DIDRemoved, DIDRemoved, DIDInvalid, DIDNotFound, DIDProtected}, statuses)
	assert.Equal(t, 2, report.Removed())
	assert.True(t, errors.Is(report.Outcomes[2].Err, ErrValidation))
	assert.True(t, errors.Is(report.Outcomes[3].Err, ErrDIDNotFound))
}

func TestDeleteDIDsMultipleInvalidPath(t *testing.T) {
	gw := newFakeGateway()
	gw.page = standardDIDPage

	_, err := newTestService(gw).DeleteDIDs(context.Background(), DeleteDIDsRequest{Mode: ModeMultiple, ListPath: filepath.Join(t.TempDir(), "missing.txt")})
	require.True(t, errors.Is(err, ErrValidation))

	_, err = newTestService(gw).DeleteDIDs(context.Background(), DeleteDIDsRequest{Mode: ModeMultiple, ListPath: t.TempDir()})
	require.True(t, errors.Is(err, ErrValidation))

	_, err = newTestService(gw).DeleteDIDs(context.Background(), DeleteDIDsRequest{Mode: ModeMultiple})
	require.True(t, errors.Is(err, ErrValidation))
	assert.Empty(t, gw.pageFetches, "list problems are reported before fetching")
}

func TestDeleteDIDsGroup(t *testing.T) {
	gw := newFakeGateway()
	gw.page = standardDIDPage

	report, err := newTestService(gw).DeleteDIDs(context.Background(), DeleteDIDsRequest{Mode: ModeGroup, Group: "SALES"})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Matched)
	require.Len(t, report.Outcomes, 3)
	assert.Equal(t, DIDProtected, report.Outcomes[0].Status)
	assert.Equal(t, DIDRemoved, report.Outcomes[1].Status)
	assert.Equal(t, DIDRemoved, report.Outcomes[2].Status)
	assert.Equal(t, 2, report.Removed())
}

func TestDeleteDIDsGroupNoMatch(t *testing.T) {
	gw := newFakeGateway()
	gw.page = standardDIDPage

	report, err := newTestService(gw).DeleteDIDs(context.Background(), DeleteDIDsRequest{Mode: ModeGroup, Group: "sales"})
	require.NoError(t, err)
	assert.Zero(t, report.Matched)
	assert.Empty(t, report.Outcomes)
}

func TestDeleteDIDsNeverRemovesProtectedID(t *testing.T) {
	page := didPage(didRow("7", "15550000007", "OPS"), didRow("8", "15550000008", "OPS"))
	requests := []DeleteDIDsRequest{
		{Mode: ModeSingle, DID: "15550000007"},
		{Mode: ModeMultiple, ListPath: writeList(t, "15550000007", "15550000008")},
		{Mode: ModeGroup, Group: "OPS"},
	}
	for _, req := range requests {
		t.Run(string(req.Mode), func(t *testing.T) {
			gw := newFakeGateway()
			gw.page = page

			report, _ := newTestService(gw, WithProtectedDIDID(7)).DeleteDIDs(context.Background(), req)
			require.NotNil(t, report)
			for _, o := range report.Outcomes {
				if o.DID != nil && o.DID.ID == 7 {
					assert.Equal(t, DIDProtected, o.Status)
				}
			}
		})
	}
}

func TestDeleteDIDsFetchFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.pageErr = &vicidial.APIError{Function: "admin_page", StatusCode: 401, Message: "Unauthorized"}

	_, err := newTestService(gw).DeleteDIDs(context.Background(), DeleteDIDsRequest{Mode: ModeGroup, Group: "SALES"})
	require.True(t, errors.Is(err, vicidial.ErrAPI))
}

func TestDeleteDIDsRequiresPageURL(t *testing.T) {
	gw := newFakeGateway()
	s := NewService(gw, WithLogger(nil))

	_, err := s.DeleteDIDs(context.Background(), DeleteDIDsRequest{Mode: ModeGroup, Group: "SALES"})
	require.True(t, errors.Is(err, ErrValidation))
	assert.Empty(t, gw.pageFetches)
}

func TestDeleteDIDsRecordsMetrics(t *testing.T) {
	gw := newFakeGateway()
	gw.page = standardDIDPage
	m := metrics.NewAdminMetrics()

	_, err := newTestService(gw, WithMetrics(m)).DeleteDIDs(context.Background(), DeleteDIDsRequest{Mode: ModeGroup, Group: "SALES"})
	require.NoError(t, err)

	families, err := m.Gatherer().Gather()
	require.NoError(t, err)
	counts := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			key := f.GetName()
			for _, lp := range metric.GetLabel() {
				key += "," + lp.GetName() + "=" + lp.GetValue()
			}
			counts[key] = metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 1.0, counts["vicidial_scrape_dropped_rows_total"])
	assert.Equal(t, 2.0, counts["vicidial_dids_delete_outcomes_total,mode=GROUP,status=removed"])
	assert.Equal(t, 1.0, counts["vicidial_dids_delete_outcomes_total,mode=GROUP,status=protected"])
}

func TestDeleteDIDsCanceledMidList(t *testing.T) {
	gw := newFakeGateway()
	gw.page = standardDIDPage
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := newTestService(gw).DeleteDIDs(ctx, DeleteDIDsRequest{Mode: ModeMultiple, ListPath: writeList(t, "15551234567")})
	require.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, report.Outcomes)
}
