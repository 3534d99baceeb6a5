package importer

import (
	"io"

	"github.com/xuri/excelize/v2"

	"agri/pkg/apperr"
	"agri/pkg/price/service"
)

// ParseXLSX reads the first sheet of a workbook. The first non-empty row is
// the header.
func ParseXLSX(r io.Reader, needCrop bool) ([]service.ImportRow, error) {
	x, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperr.Invalid("file", "not a readable xlsx workbook")
	}
	defer x.Close()

	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperr.Invalid("file", "workbook has no sheets")
	}
	rows, err := x.GetRows(sheets[0])
	if err != nil {
		return nil, apperr.Invalid("file", "cannot read the first sheet")
	}
	for len(rows) > 0 && blank(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, apperr.Invalid("file", "first sheet is empty")
	}
	return toRows(rows[0], rows[1:], needCrop)
}
