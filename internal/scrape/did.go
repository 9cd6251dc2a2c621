// Package scrape extracts records from the HTML pages of the Vicidial admin UI.
package scrape

import (
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RecordRowMarker is the class fragment the admin UI puts on listing rows.
const RecordRowMarker = "records_list_"

// DID is one row of the inbound DID listing page.
type DID struct {
	ID          int
	CallerID    string
	Description string
	Carrier     string
	Active      rune
	Group       string
	Route       string
	Recording   string
	Modify      string
}

// IsActive reports whether the active column holds Y (any case).
func (d DID) IsActive() bool {
	return d.Active == 'Y' || d.Active == 'y'
}

type didColumn func(d *DID, text string) bool

// didColumns maps cell position to DID attribute. A column returning false
// rejects the row.
var didColumns = [...]didColumn{
	func(d *DID, text string) bool {
		id, err := strconv.Atoi(text)
		d.ID = id
		return err == nil
	},
	func(d *DID, text string) bool { d.CallerID = text; return true },
	func(d *DID, text string) bool { d.Description = text; return true },
	func(d *DID, text string) bool { d.Carrier = text; return true },
	func(d *DID, text string) bool {
		if r, size := utf8.DecodeRuneInString(text); size > 0 {
			d.Active = r
		}
		return true
	},
	func(d *DID, text string) bool { d.Group = text; return true },
	func(d *DID, text string) bool { d.Route = text; return true },
	func(d *DID, text string) bool { d.Recording = text; return true },
	func(d *DID, text string) bool { d.Modify = text; return true },
}

// DIDColumnCount is the number of cells a listing row needs to yield a DID.
const DIDColumnCount = len(didColumns)

// DIDPage is the result of scraping a DID listing page.
type DIDPage struct {
	DIDs []DID
	// Dropped counts marked rows that were skipped, either because they had
	// fewer than DIDColumnCount cells or because the id cell was not numeric.
	Dropped int
}

// ParseDIDs reads the DID listing page. Markup that does not parse, or has
// no listing rows, yields an empty page.
func ParseDIDs(r io.Reader) DIDPage {
	var page DIDPage
	doc, err := html.Parse(r)
	if err != nil {
		return page
	}
	for _, row := range findAll(doc, isRecordRow) {
		cells := findAll(row, func(n *html.Node) bool { return n.DataAtom == atom.Td })
		did, ok := decodeDIDRow(cells)
		if !ok {
			page.Dropped++
			continue
		}
		page.DIDs = append(page.DIDs, did)
	}
	return page
}

// ParseDIDsString is ParseDIDs over an in-memory page.
func ParseDIDsString(page string) DIDPage {
	return ParseDIDs(strings.NewReader(page))
}

func decodeDIDRow(cells []*html.Node) (DID, bool) {
	var did DID
	if len(cells) < len(didColumns) {
		return did, false
	}
	for i, column := range didColumns {
		if !column(&did, nodeText(cells[i])) {
			return did, false
		}
	}
	return did, true
}

func isRecordRow(n *html.Node) bool {
	if n.Type != html.ElementNode || n.DataAtom != atom.Tr {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Key == "class" && strings.Contains(attr.Val, RecordRowMarker) {
			return true
		}
	}
	return false
}

// findAll returns the descendants of root matching pred, in document order.
func findAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if pred(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

// nodeText is the visible text of n with whitespace runs collapsed.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
