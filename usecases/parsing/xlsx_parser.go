package parsing

import (
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"
)

// XlsxParser reads the first sheet of a spreadsheet. Unlike CSV, the format
// encodes cell types: numeric cells come through as float64 and date cells as
// their formatted string value; everything else stays text.
type XlsxParser struct{}

func (XlsxParser) Parse(r io.Reader, fn RowFunc) ([]string, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not open spreadsheet")
	}
	defer file.Close()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return nil, nil
	}

	rows, err := file.Rows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read sheet %q", sheet)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Error()
	}
	rawHeader, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "could not read header row")
	}

	header, err := checkHeader(rawHeader)
	if err != nil {
		return nil, err
	}

	rowNumber := 0
	sheetRow := 1
	for rows.Next() {
		sheetRow++
		record, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return header, errors.Wrapf(err, "could not read sheet row %d", sheetRow)
		}

		rowNumber++
		row := make(Row, len(header))
		for i, column := range header {
			if i >= len(record) || record[i] == "" {
				row[column] = nil
				continue
			}
			row[column] = typedCellValue(file, sheet, i, sheetRow, record[i])
		}

		if err := fn(rowNumber, row); err != nil {
			return header, err
		}
	}
	if err := rows.Error(); err != nil {
		return header, errors.Wrap(err, "error iterating over sheet rows")
	}
	return header, nil
}

func typedCellValue(file *excelize.File, sheet string, colIndex, sheetRow int, raw string) any {
	cell, err := excelize.CoordinatesToCellName(colIndex+1, sheetRow)
	if err != nil {
		return raw
	}

	cellType, err := file.GetCellType(sheet, cell)
	if err != nil {
		return raw
	}

	switch cellType {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if number, err := strconv.ParseFloat(raw, 64); err == nil {
			return number
		}
	case excelize.CellTypeDate:
		if formatted, err := file.GetCellValue(sheet, cell); err == nil {
			return formatted
		}
	}
	return raw
}
