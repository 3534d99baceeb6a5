package importer

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"agri/pkg/apperr"
)

func workbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := r
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseXLSXHeaderAliases(t *testing.T) {
	buf := workbook(t,
		[]any{"Crop Code", "Province", "Year", "Avg Price", "Unit"},
		[]any{"WHEAT", "TH-40", 2022, "12.50", "THB/kg"},
		[]any{},
		[]any{"wheat", "", 2566, "1,013.25", "THB/kg"},
	)
	rows, err := ParseXLSX(buf, true)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "WHEAT", rows[0].Crop)
	assert.Equal(t, "TH-40", rows[0].Region)
	assert.Equal(t, 2022, rows[0].Year)
	assert.Equal(t, "12.5", rows[0].AveragePrice.String())
	assert.Equal(t, 2023, rows[1].Year)
	assert.Equal(t, "1013.25", rows[1].AveragePrice.String())
}

func TestParseXLSXReportsBadCells(t *testing.T) {
	buf := workbook(t,
		[]any{"crop", "year", "price"},
		[]any{"RICE", "twenty", "9"},
		[]any{"RICE", 2021, "n/a"},
	)
	_, err := ParseXLSX(buf, true)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, []string{"rows[0].year", "rows[1].average_price"}, ae.Fields())
}

func TestParseXLSXMissingColumns(t *testing.T) {
	buf := workbook(t, []any{"name", "value"}, []any{"x", 1})
	_, err := ParseXLSX(buf, true)
	assert.Equal(t, apperr.ValidationFailed, apperr.CodeOf(err))

	_, err = ParseXLSX(strings.NewReader("not a workbook"), true)
	assert.Equal(t, apperr.ValidationFailed, apperr.CodeOf(err))
}

const bulletin = `<html><body>
<h1>Weekly prices</h1>
<table>
  <tr><th>สินค้า</th><th>ปี</th><th>ราคาเฉลี่ย</th><th>หน่วย</th></tr>
  <tr><td>CASSAVA</td><td>2565</td><td> 2.35 </td><td>บาท/กก.</td></tr>
  <tr><td>RICE</td><td>2023</td><td>15</td><td>บาท/กก.</td></tr>
</table>
<table><tr><td>ignored</td></tr></table>
</body></html>`

func TestParseHTMLTable(t *testing.T) {
	rows, err := ParseHTMLTable([]byte(bulletin), true)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "CASSAVA", rows[0].Crop)
	assert.Equal(t, 2022, rows[0].Year)
	assert.Equal(t, "2.35", rows[0].AveragePrice.String())
	assert.Equal(t, "บาท/กก.", rows[0].Unit)

	_, err = ParseHTMLTable([]byte("<p>no table</p>"), true)
	assert.Equal(t, apperr.ValidationFailed, apperr.CodeOf(err))
}

func TestFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(bulletin))
		case "/json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
		case "/big":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write(bytes.Repeat([]byte("x"), 4096))
		case "/slow":
			time.Sleep(300 * time.Millisecond)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()
	u, _ := url.Parse(srv.URL)

	f := NewFetcher([]string{u.Hostname()}, 1024, 100*time.Millisecond)
	ctx := context.Background()

	body, err := f.Fetch(ctx, srv.URL+"/ok")
	require.NoError(t, err)
	assert.Contains(t, string(body), "CASSAVA")

	_, err = f.Fetch(ctx, srv.URL+"/json")
	assert.Equal(t, apperr.ValidationFailed, apperr.CodeOf(err))
	_, err = f.Fetch(ctx, srv.URL+"/big")
	assert.Equal(t, apperr.ValidationFailed, apperr.CodeOf(err))
	_, err = f.Fetch(ctx, srv.URL+"/down")
	assert.Equal(t, apperr.Infrastructure, apperr.CodeOf(err))
	_, err = f.Fetch(ctx, srv.URL+"/slow")
	assert.Equal(t, apperr.Infrastructure, apperr.CodeOf(err))

	_, err = f.Fetch(ctx, "https://not-allowed.example.com/prices")
	assert.Equal(t, apperr.ValidationFailed, apperr.CodeOf(err))
	_, err = f.Fetch(ctx, "ftp://"+u.Host+"/x")
	assert.Equal(t, apperr.ValidationFailed, apperr.CodeOf(err))
}
