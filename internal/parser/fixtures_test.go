package parser

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

// tablePage mirrors the CAD calls page: an h5 heading per section followed by
// a table with one value per row. The third table has no heading.
const tablePage = `<!DOCTYPE html>
<html>
<body>
<div class="card">
  <div class="card-header"><h5>NORTH - 2 Calls</h5></div>
  <div class="card-body">
    <table>
      <tr><th>RCVD</th></tr>
      <tr><td>21:09</td></tr>
      <tr><td>C3</td></tr>
      <tr><td>MEDICAL</td></tr>
      <tr><td>3100 BLOCK &amp; NW 156TH ST</td></tr>
      <tr><td> E11 R01 R54 </td></tr>
      <tr><td>21:13</td></tr>
      <tr><td>MEDICAL</td></tr>
      <tr><td>NW 97TH ST / NW 27TH AVE</td></tr>
      <tr><td>R07</td></tr>
    </table>
  </div>
</div>
<div class="card">
  <div class="card-header"><h5>SOUTH - 1 Calls</h5></div>
  <div class="card-body">
    <table>
      <tr><td>21:20</td></tr>
      <tr><td>FIRE</td></tr>
      <tr><td>SW 8TH ST / SW 107TH AVE</td></tr>
      <tr><td>E03</td></tr>
    </table>
  </div>
</div>
<h5>Legend</h5>
<table>
  <tr><td>22:01</td></tr>
  <tr><td>ALARM</td></tr>
  <tr><td>NE 2ND AVE</td></tr>
  <tr><td>R01</td></tr>
</table>
</body>
</html>`

// textPage holds incidents as blank-line separated text blocks inside
// card-body containers.
const textPage = `<!DOCTYPE html>
<html>
<body>
<h5>NORTH - 2 Calls</h5>
<div class="card-body">
21:20
MEDICAL FIRE
NW 97TH ST / NW 27TH AVE
R07
C2

21:37
OTHER
7400 BLOCK &amp; NW 104TH AVE
E69

MEDICAL
E07
</div>
<h5>Station status</h5>
<div class="card-body">
21:45
ALARM
SW 40TH ST
E12
</div>
</body>
</html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := ParseHTML(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}
