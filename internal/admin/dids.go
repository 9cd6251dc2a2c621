package admin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/wolfman30/vicidial-admin/internal/scrape"
)

// DeleteMode selects how DIDs are chosen for removal.
type DeleteMode string

const (
	ModeSingle   DeleteMode = "SINGLE"
	ModeMultiple DeleteMode = "MULTIPLE"
	ModeGroup    DeleteMode = "GROUP"
)

// ParseDeleteMode accepts a mode name in any case. Blank means SINGLE.
func ParseDeleteMode(s string) (DeleteMode, error) {
	switch DeleteMode(strings.ToUpper(strings.TrimSpace(s))) {
	case "", ModeSingle:
		return ModeSingle, nil
	case ModeMultiple:
		return ModeMultiple, nil
	case ModeGroup:
		return ModeGroup, nil
	default:
		return "", &ValidationError{Field: "mode", Value: s, Reason: "must be SINGLE, MULTIPLE or GROUP"}
	}
}

// didLength is the length of a valid DID: a leading 1 and ten digits.
const didLength = 11

// ValidateDIDFormat accepts a non-blank number of exactly 11 characters
// starting with '1'.
func ValidateDIDFormat(did string) error {
	switch {
	case strings.TrimSpace(did) == "":
		return &ValidationError{Field: "did", Reason: "value is required"}
	case !strings.HasPrefix(did, "1"):
		return &ValidationError{Field: "did", Value: did, Reason: "must start with 1"}
	case utf8.RuneCountInString(did) != didLength:
		return &ValidationError{Field: "did", Value: did, Reason: fmt.Sprintf("must be %d characters long", didLength)}
	}
	return nil
}

// DeleteDIDsRequest selects DIDs by mode. SINGLE uses DID, MULTIPLE reads
// ListPath (one number per line) and GROUP matches Group exactly.
type DeleteDIDsRequest struct {
	Mode     DeleteMode
	DID      string
	ListPath string
	Group    string
}

// DIDStatus is the result for one selected entry.
type DIDStatus string

const (
	DIDRemoved   DIDStatus = "removed"
	DIDProtected DIDStatus = "protected"
	DIDNotFound  DIDStatus = "not_found"
	DIDInvalid   DIDStatus = "invalid"
)

// DIDOutcome is what happened to one requested number or matched DID.
type DIDOutcome struct {
	Input  string
	DID    *scrape.DID
	Status DIDStatus
	Err    error
}

// DeleteReport summarizes a DeleteDIDs run. Found is the number of DIDs
// listed on the admin page and Dropped the incomplete rows skipped.
type DeleteReport struct {
	Mode     DeleteMode
	Group    string
	Found    int
	Dropped  int
	Matched  int
	Outcomes []DIDOutcome
}

// Removed counts the outcomes reported as removed.
func (r *DeleteReport) Removed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == DIDRemoved {
			n++
		}
	}
	return n
}

// DeleteDIDs lists the DIDs on the admin page and removes the selected ones.
// Removal is reported only; the remote API has no delete call. The protected
// default DID is never removed.
//
// In SINGLE mode an invalid, unknown or protected number is returned as an
// error. MULTIPLE and GROUP record a per-entry outcome and keep going.
func (s *Service) DeleteDIDs(ctx context.Context, req DeleteDIDsRequest) (*DeleteReport, error) {
	mode := req.Mode
	if mode == "" {
		mode = ModeSingle
	}

	var numbers []string
	switch mode {
	case ModeSingle:
		if err := required("did", req.DID); err != nil {
			return nil, err
		}
		if err := ValidateDIDFormat(strings.TrimSpace(req.DID)); err != nil {
			return nil, err
		}
	case ModeMultiple:
		if err := required("list path", req.ListPath); err != nil {
			return nil, err
		}
		list, err := readDIDList(req.ListPath)
		if err != nil {
			return nil, err
		}
		numbers = list
	case ModeGroup:
		if err := required("group", req.Group); err != nil {
			return nil, err
		}
	default:
		return nil, &ValidationError{Field: "mode", Value: string(mode), Reason: "must be SINGLE, MULTIPLE or GROUP"}
	}

	if strings.TrimSpace(s.didsPageURL) == "" {
		return nil, &ValidationError{Field: "dids page url", Reason: "DIDS_PAGE_URL is not configured"}
	}
	page, err := s.gateway.FetchAdminPage(ctx, s.didsPageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch DID listing: %w", err)
	}
	listing := scrape.ParseDIDsString(page)
	s.metrics.ObserveDroppedRows(listing.Dropped)
	if listing.Dropped > 0 {
		s.logger.Warn("incomplete DID rows skipped", "dropped", listing.Dropped)
	}
	s.logger.Info("DIDs listed", "found", len(listing.DIDs))

	report := &DeleteReport{
		Mode:    mode,
		Group:   strings.TrimSpace(req.Group),
		Found:   len(listing.DIDs),
		Dropped: listing.Dropped,
	}

	switch mode {
	case ModeSingle:
		number := strings.TrimSpace(req.DID)
		outcome := s.removeNumber(listing.DIDs, number)
		s.record(report, outcome)
		if outcome.Err != nil {
			return report, outcome.Err
		}
	case ModeMultiple:
		for _, number := range numbers {
			if err := ctx.Err(); err != nil {
				return report, fmt.Errorf("delete DIDs: %w", err)
			}
			s.record(report, s.removeNumber(listing.DIDs, number))
		}
	case ModeGroup:
		for i := range listing.DIDs {
			d := &listing.DIDs[i]
			if d.Group != report.Group {
				continue
			}
			report.Matched++
			s.record(report, s.removeDID(d.CallerID, d))
		}
		s.logger.Info("DIDs matched group", "group", report.Group, "matched", report.Matched)
	}
	return report, nil
}

func (s *Service) record(report *DeleteReport, outcome DIDOutcome) {
	report.Outcomes = append(report.Outcomes, outcome)
	s.metrics.ObserveDIDOutcome(string(report.Mode), string(outcome.Status))
}

func (s *Service) removeNumber(dids []scrape.DID, number string) DIDOutcome {
	if err := ValidateDIDFormat(number); err != nil {
		return DIDOutcome{Input: number, Status: DIDInvalid, Err: err}
	}
	d := matchCallerID(dids, number)
	if d == nil {
		return DIDOutcome{Input: number, Status: DIDNotFound, Err: fmt.Errorf("%w: %s", ErrDIDNotFound, number)}
	}
	return s.removeDID(number, d)
}

func (s *Service) removeDID(input string, d *scrape.DID) DIDOutcome {
	if d.ID == s.protectedDIDID {
		s.logger.Warn("refusing to remove default DID", "id", d.ID, "caller_id", d.CallerID)
		return DIDOutcome{Input: input, DID: d, Status: DIDProtected, Err: fmt.Errorf("%w: id %d", ErrProtectedDID, d.ID)}
	}
	s.logger.Info("DID removed", "id", d.ID, "caller_id", d.CallerID)
	return DIDOutcome{Input: input, DID: d, Status: DIDRemoved}
}

func matchCallerID(dids []scrape.DID, callerID string) *scrape.DID {
	for i := range dids {
		if dids[i].CallerID == callerID {
			return &dids[i]
		}
	}
	return nil
}

// readDIDList reads one number per line, trimmed, skipping blank lines and
// repeats. First-seen order is kept.
func readDIDList(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ValidationError{Field: "list path", Value: path, Reason: "file does not exist"}
		}
		return nil, fmt.Errorf("read DID list: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, &ValidationError{Field: "list path", Value: path, Reason: "not a regular file"}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read DID list: %w", err)
	}
	defer f.Close()

	seen := make(map[string]struct{})
	var numbers []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		numbers = append(numbers, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read DID list: %w", err)
	}
	return numbers, nil
}
