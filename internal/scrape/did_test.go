package scrape

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const didListingPage = `<html><body>
<table>
<tr bgcolor="black"><td>ID</td><td>DID</td><td>DESCRIPTION</td><td>CARRIER</td><td>ACTIVE</td><td>GROUP</td><td>ROUTE</td><td>REC</td><td>MODIFY</td></tr>
<tr class="records_list_x"><td>1</td><td>default</td><td>Default DID</td><td></td><td>Y</td><td>---ALL---</td><td>EXTEN</td><td>N</td><td><a href="admin.php?ADD=3311&did_id=1">MODIFY</a></td></tr>
<tr class="records_list_y"><td>42</td><td>15551234567</td><td>Main   line</td><td>TELNYX</td><td>y</td><td>SALES</td><td>IN_GROUP</td><td>Y</td><td><a href="#"> MODIFY </a></td></tr>
<tr class="records_list_x"><td>43</td><td>15557654321</td><td>Support <b>east</b></td><td>TELNYX</td><td>N</td><td>SUPPORT</td><td>IN_GROUP</td><td>N</td><td><a href="#">MODIFY</a></td></tr>
<tr class="records_list_y"><td>44</td><td>15550000000</td><td>short row</td></tr>
<tr class="records_list_x"><td>abc</td><td>15559999999</td><td>bad id</td><td>X</td><td>Y</td><td>SALES</td><td>R</td><td>N</td><td>MODIFY</td></tr>
<tr class="other_row"><td>99</td><td>15551111111</td><td>not a record</td><td>X</td><td>Y</td><td>SALES</td><td>R</td><td>N</td><td>MODIFY</td></tr>
</table>
</body></html>`

func TestParseDIDs(t *testing.T) {
	page := ParseDIDsString(didListingPage)

	require.Len(t, page.DIDs, 3)
	want := DID{
		ID:          42,
		CallerID:    "15551234567",
		Description: "Main line",
		Carrier:     "TELNYX",
		Active:      'y',
		Group:       "SALES",
		Route:       "IN_GROUP",
		Recording:   "Y",
		Modify:      "MODIFY",
	}
	if diff := cmp.Diff(want, page.DIDs[1]); diff != "" {
		t.Fatalf("DID mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, page.DIDs[0].ID)
	assert.Equal(t, "Support east", page.DIDs[2].Description)
	assert.True(t, page.DIDs[1].IsActive())
	assert.False(t, page.DIDs[2].IsActive())
}

func TestParseDIDsCountsDroppedRows(t *testing.T) {
	page := ParseDIDsString(didListingPage)
	assert.Equal(t, 2, page.Dropped, "short row and non-numeric id row")
}

func TestParseDIDsEmptyInput(t *testing.T) {
	for _, in := range []string{"", "<html>", "not html at all", "<table><tr><td>1</td></tr></table>"} {
		page := ParseDIDsString(in)
		assert.Empty(t, page.DIDs, in)
		assert.Zero(t, page.Dropped, in)
	}
}

func TestParseDIDsEmptyActiveCell(t *testing.T) {
	row := `<table><tr class="records_list_x"><td>7</td><td>15551230000</td><td>d</td><td>c</td><td></td><td>g</td><td>r</td><td>n</td><td>m</td></tr></table>`
	page := ParseDIDsString(row)
	require.Len(t, page.DIDs, 1)
	assert.Equal(t, rune(0), page.DIDs[0].Active)
	assert.False(t, page.DIDs[0].IsActive())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestParseDIDsReaderError(t *testing.T) {
	page := ParseDIDs(failingReader{})
	assert.Empty(t, page.DIDs)
}

func TestParseDIDsLargePage(t *testing.T) {
	var b strings.Builder
	b.WriteString("<table>")
	for i := 0; i < 500; i++ {
		b.WriteString(`<tr class="records_list_x"><td>100</td><td>15551234567</td><td>d</td><td>c</td><td>Y</td><td>g</td><td>r</td><td>n</td><td>m</td></tr>`)
	}
	b.WriteString("</table>")
	page := ParseDIDsString(b.String())
	assert.Len(t, page.DIDs, 500)
}
