package extract

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"

	"github.com/probegapp/probeg/internal/domain/protocol"
)

// Sheet-name fragments that mark the results sheet in a multi-sheet
// workbook.
var sheetKeywords = []string{"протокол", "результат", "results", "protocol"}

// XLSX reads a spreadsheet protocol. The sheet is picked explicitly via
// opts.SheetName, else auto-detected by keyword, else the first sheet.
// Cell values come back as trimmed strings; fully blank rows are
// dropped; the retained rows pass the noise filter.
func XLSX(path string, opts Options) ([]protocol.RawRow, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open workbook %s", path)
	}
	defer file.Close()

	sheet := opts.SheetName
	if sheet == "" {
		sheet = PickSheet(file.GetSheetList())
	}
	if sheet == "" {
		return nil, errors.Newf("workbook %s has no sheets", path)
	}

	grid, err := file.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q", sheet)
	}
	if len(grid) <= opts.HeaderRow {
		return nil, nil
	}

	headers := grid[opts.HeaderRow]
	rows := make([]protocol.RawRow, 0, len(grid)-opts.HeaderRow-1)
	for _, cells := range grid[opts.HeaderRow+1:] {
		if row := assembleRow(headers, cells); row != nil {
			rows = append(rows, row)
		}
	}

	return FilterRows(rows), nil
}

// PickSheet prefers a sheet whose name carries a results keyword,
// falling back to the first sheet.
func PickSheet(names []string) string {
	if len(names) == 0 {
		return ""
	}
	for _, name := range names {
		lowered := strings.ToLower(name)
		for _, keyword := range sheetKeywords {
			if strings.Contains(lowered, keyword) {
				return name
			}
		}
	}
	return names[0]
}
