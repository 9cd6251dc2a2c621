package wire

import "strings"

const fieldSeparator = "|"

// Lead is a contact record as returned by the lead_all_info function.
type Lead struct {
	Status            string
	User              string
	VendorLeadCode    string
	SourceID          string
	ListID            string
	GMTOffsetNow      string
	PhoneCode         string
	PhoneNumber       string
	Title             string
	FirstName         string
	MiddleInitial     string
	LastName          string
	Address1          string
	Address2          string
	Address3          string
	City              string
	State             string
	Province          string
	PostalCode        string
	CountryCode       string
	Gender            string
	DateOfBirth       string
	AltPhone          string
	Email             string
	SecurityPhrase    string
	Comments          string
	CalledCount       string
	LastLocalCallTime string
	Rank              string
	Owner             string
	EntryListID       string
	LeadID            string
}

type leadField struct {
	name string
	ref  func(*Lead) *string
}

// leadSchema maps token position i of a lead record to a Lead field.
// Records shorter than the schema leave the trailing fields empty and
// tokens beyond it are ignored; both are expected on this API.
var leadSchema = [...]leadField{
	{"status", func(l *Lead) *string { return &l.Status }},
	{"user", func(l *Lead) *string { return &l.User }},
	{"vendor_lead_code", func(l *Lead) *string { return &l.VendorLeadCode }},
	{"source_id", func(l *Lead) *string { return &l.SourceID }},
	{"list_id", func(l *Lead) *string { return &l.ListID }},
	{"gmt_offset_now", func(l *Lead) *string { return &l.GMTOffsetNow }},
	{"phone_code", func(l *Lead) *string { return &l.PhoneCode }},
	{"phone_number", func(l *Lead) *string { return &l.PhoneNumber }},
	{"title", func(l *Lead) *string { return &l.Title }},
	{"first_name", func(l *Lead) *string { return &l.FirstName }},
	{"middle_initial", func(l *Lead) *string { return &l.MiddleInitial }},
	{"last_name", func(l *Lead) *string { return &l.LastName }},
	{"address1", func(l *Lead) *string { return &l.Address1 }},
	{"address2", func(l *Lead) *string { return &l.Address2 }},
	{"address3", func(l *Lead) *string { return &l.Address3 }},
	{"city", func(l *Lead) *string { return &l.City }},
	{"state", func(l *Lead) *string { return &l.State }},
	{"province", func(l *Lead) *string { return &l.Province }},
	{"postal_code", func(l *Lead) *string { return &l.PostalCode }},
	{"country_code", func(l *Lead) *string { return &l.CountryCode }},
	{"gender", func(l *Lead) *string { return &l.Gender }},
	{"date_of_birth", func(l *Lead) *string { return &l.DateOfBirth }},
	{"alt_phone", func(l *Lead) *string { return &l.AltPhone }},
	{"email", func(l *Lead) *string { return &l.Email }},
	{"security_phrase", func(l *Lead) *string { return &l.SecurityPhrase }},
	{"comments", func(l *Lead) *string { return &l.Comments }},
	{"called_count", func(l *Lead) *string { return &l.CalledCount }},
	{"last_local_call_time", func(l *Lead) *string { return &l.LastLocalCallTime }},
	{"rank", func(l *Lead) *string { return &l.Rank }},
	{"owner", func(l *Lead) *string { return &l.Owner }},
	{"entry_list_id", func(l *Lead) *string { return &l.EntryListID }},
	{"lead_id", func(l *Lead) *string { return &l.LeadID }},
}

// LeadFieldCount is the number of positional fields in a lead record.
const LeadFieldCount = len(leadSchema)

// LeadFieldNames returns the wire names of the lead fields in record order.
func LeadFieldNames() []string {
	names := make([]string, len(leadSchema))
	for i, f := range leadSchema {
		names[i] = f.name
	}
	return names
}

// DecodeLead assigns the pipe-separated tokens of raw to the lead schema by
// position. It accepts any input.
func DecodeLead(raw string) Lead {
	var lead Lead
	tokens := strings.Split(strings.TrimRight(raw, "\r\n"), fieldSeparator)
	for i, token := range tokens {
		if i >= len(leadSchema) {
			break
		}
		*leadSchema[i].ref(&lead) = token
	}
	return lead
}

// NamedValue pairs a lead field name with its value.
type NamedValue struct {
	Name  string
	Value string
}

// Fields lists every lead field with its wire name, in record order.
func (l *Lead) Fields() []NamedValue {
	out := make([]NamedValue, len(leadSchema))
	for i, f := range leadSchema {
		out[i] = NamedValue{Name: f.name, Value: *f.ref(l)}
	}
	return out
}

// EncodeLeadForCreate builds the add_lead parameters that copy lead into
// the list listID. The phone code is always 1.
func EncodeLeadForCreate(lead Lead, listID string) Params {
	return Params{}.
		Add("phone_number", lead.PhoneNumber).
		Add("phone_code", "1").
		Add("list_id", listID).
		Add("first_name", lead.FirstName).
		Add("last_name", lead.LastName).
		Add("address1", lead.Address1).
		Add("address2", lead.Address2).
		Add("address3", lead.Address3).
		Add("city", lead.City).
		Add("state", lead.State).
		Add("alt_phone", lead.AltPhone).
		Add("email", lead.Email).
		Add("comments", lead.Comments)
}

// DecodeAddLeadResponse extracts the id of the created lead, which add_lead
// returns as the third pipe-separated token.
func DecodeAddLeadResponse(raw string) (string, error) {
	tokens := strings.Split(strings.TrimSpace(raw), fieldSeparator)
	if len(tokens) < 3 {
		return "", &FormatError{Reason: "add_lead response has no lead id"}
	}
	id := strings.TrimSpace(tokens[2])
	if id == "" {
		return "", &FormatError{Reason: "add_lead response has an empty lead id"}
	}
	return id, nil
}
