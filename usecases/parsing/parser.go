package parsing

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/ecomdata/import-backend/models"
)

// Row is one parsed record, keyed by source column name. Values are raw
// scalars: string, float64 where the file format encodes a number, or nil for
// empty cells.
type Row map[string]any

// RowFunc receives rows in file order. rowNumber starts at 1 for the first
// data row (the header is row 0 and is never passed to the callback).
// Returning an error stops the parse and is propagated to the caller.
type RowFunc func(rowNumber int, row Row) error

// Parser turns an uploaded file into an ordered stream of rows. Parsers hold
// no job state: every stage that needs the rows opens a fresh reader and
// parses again.
type Parser interface {
	// Parse streams every data row to fn and returns the header columns.
	// A header-only file returns the columns and zero callback invocations.
	Parse(r io.Reader, fn RowFunc) ([]string, error)
}

// ParserFor picks the parser matching the detected file kind.
func ParserFor(kind models.FileKind) (Parser, error) {
	switch kind {
	case models.FileKindCsv:
		return CsvParser{}, nil
	case models.FileKindXlsx:
		return XlsxParser{}, nil
	}
	return nil, errors.Wrapf(models.ErrUnsupportedFormat, "no parser for file kind %q", kind)
}

// checkHeader validates and cleans the header row: a UTF-8 BOM on the first
// cell is stripped, and duplicate column names are rejected outright rather
// than silently de-duplicated.
func checkHeader(header []string) ([]string, error) {
	if len(header) == 0 {
		return nil, nil
	}

	columns := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, ok := seen[name]; ok {
			return nil, errors.Wrapf(models.ErrDuplicateColumn, "column %q appears more than once", name)
		}
		seen[name] = struct{}{}
		columns[i] = name
	}
	return columns, nil
}
