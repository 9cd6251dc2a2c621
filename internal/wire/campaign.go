package wire

import (
	"fmt"
	"regexp"
	"strings"
)

// Campaign is one row of the campaigns_list response.
type Campaign struct {
	ID          string
	Description string
	Active      bool
}

const campaignMinTokens = 3

var lineBreak = regexp.MustCompile(`\r\n|\n|\r`)

// DecodeCampaigns parses one campaign per line. Each line needs at least an
// id, a description and an active flag; extra tokens are ignored. Trailing
// line breaks are not treated as empty rows.
func DecodeCampaigns(raw string) ([]Campaign, error) {
	body := strings.TrimRight(raw, "\r\n")
	if body == "" {
		return nil, nil
	}
	lines := lineBreak.Split(body, -1)
	campaigns := make([]Campaign, 0, len(lines))
	for i, line := range lines {
		tokens := strings.Split(line, fieldSeparator)
		if len(tokens) < campaignMinTokens {
			return nil, &FormatError{
				Line:   i + 1,
				Reason: fmt.Sprintf("campaign row has %d fields, want at least %d", len(tokens), campaignMinTokens),
			}
		}
		campaigns = append(campaigns, Campaign{
			ID:          tokens[0],
			Description: tokens[1],
			Active:      strings.EqualFold(tokens[2], "y"),
		})
	}
	return campaigns, nil
}
