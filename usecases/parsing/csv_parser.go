package parsing

import (
	"encoding/csv"
	"io"

	"github.com/cockroachdb/errors"
)

// CsvParser reads delimited text. CSV carries no type information, so every
// non-empty cell is a string and empty cells are nil.
type CsvParser struct{}

func (CsvParser) Parse(r io.Reader, fn RowFunc) ([]string, error) {
	reader := csv.NewReader(r)
	// rows narrower or wider than the header are tolerated, the header decides
	reader.FieldsPerRecord = -1

	rawHeader, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not read csv header")
	}

	header, err := checkHeader(rawHeader)
	if err != nil {
		return nil, err
	}

	rowNumber := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return header, nil
		}
		if err != nil {
			return header, errors.Wrapf(err, "could not read csv row %d", rowNumber+1)
		}

		rowNumber++
		row := make(Row, len(header))
		for i, column := range header {
			if i >= len(record) || record[i] == "" {
				row[column] = nil
				continue
			}
			row[column] = record[i]
		}

		if err := fn(rowNumber, row); err != nil {
			return header, err
		}
	}
}
