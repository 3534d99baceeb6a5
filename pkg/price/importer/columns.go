// Package importer turns price sheets (xlsx workbooks and HTML tables) into
// import rows.
package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"agri/pkg/apperr"
	"agri/pkg/price/service"
	"agri/pkg/validate"
)

// Build normalized header keys
func norm(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF") // BOM
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

// Accepted aliases per column, English and Thai.
var aliases = map[string][]string{
	"crop":   {"crop", "crop_code", "cropname", "commodity", "product", "พืช", "สินค้า"},
	"region": {"region", "region_code", "province", "จังหวัด", "พื้นที่"},
	"year":   {"year", "yr", "ปี", "พ.ศ."},
	"price":  {"average_price", "avg_price", "price", "averageprice", "ราคาเฉลี่ย", "ราคา"},
	"unit":   {"unit", "หน่วย"},
	"source": {"source", "แหล่งที่มา", "ที่มา"},
}

type columns map[string]int

func mapHeader(head []string) columns {
	hmap := map[string]int{}
	for i, h := range head {
		if _, dup := hmap[norm(h)]; !dup {
			hmap[norm(h)] = i
		}
	}
	cols := columns{}
	for key, keys := range aliases {
		cols[key] = -1
		for _, k := range keys {
			if idx, ok := hmap[norm(k)]; ok {
				cols[key] = idx
				break
			}
		}
	}
	return cols
}

// toRows converts a header plus records into import rows. needCrop controls
// whether the crop column is mandatory. Cell errors are reported as
// rows[i].field, i counting data rows from zero.
func toRows(head []string, records [][]string, needCrop bool) ([]service.ImportRow, error) {
	cols := mapHeader(head)
	missing := validate.New()
	if needCrop && cols["crop"] == -1 {
		missing.Add("file", "missing crop column")
	}
	if cols["year"] == -1 {
		missing.Add("file", "missing year column")
	}
	if cols["price"] == -1 {
		missing.Add("file", "missing price column")
	}
	if err := missing.Err(); err != nil {
		return nil, err
	}

	c := validate.New()
	var out []service.ImportRow
	for _, rec := range records {
		// guard against short rows
		get := func(key string) string {
			idx := cols[key]
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}
		if blank(rec) {
			continue
		}
		i := len(out)
		field := func(name string) string { return fmt.Sprintf("rows[%d].%s", i, name) }

		row := service.ImportRow{
			Crop:   get("crop"),
			Region: get("region"),
			Unit:   get("unit"),
			Source: get("source"),
		}
		year, err := strconv.Atoi(get("year"))
		if err != nil {
			c.Add(field("year"), "must be an integer")
		}
		row.Year = normalizeYear(year)
		price, err := decimal.NewFromString(strings.ReplaceAll(get("price"), ",", ""))
		if err != nil {
			c.Add(field("average_price"), "must be a number")
		}
		row.AveragePrice = price
		out = append(out, row)
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, apperr.Invalid("file", "contains no data rows")
	}
	return out, nil
}

// normalizeYear converts Buddhist-era years (as printed by Thai agencies).
func normalizeYear(y int) int {
	if y > 2400 {
		return y - 543
	}
	return y
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
