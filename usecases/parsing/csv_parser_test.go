package parsing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomdata/import-backend/models"
)

func collectRows(t *testing.T, parser Parser, input string) ([]string, []Row) {
	t.Helper()

	var rows []Row
	header, err := parser.Parse(strings.NewReader(input), func(rowNumber int, row Row) error {
		require.Equal(t, len(rows)+1, rowNumber)
		rows = append(rows, row)
		return nil
	})
	require.NoError(t, err)
	return header, rows
}

func TestCsvParserReadsHeaderAndRows(t *testing.T) {
	header, rows := collectRows(t, CsvParser{},
		"order_id,amount,buyer\nA-1,12.50,alice\nA-2,99,bob\n")

	assert.Equal(t, []string{"order_id", "amount", "buyer"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{"order_id": "A-1", "amount": "12.50", "buyer": "alice"}, rows[0])
	assert.Equal(t, Row{"order_id": "A-2", "amount": "99", "buyer": "bob"}, rows[1])
}

func TestCsvParserStripsBom(t *testing.T) {
	header, _ := collectRows(t, CsvParser{}, "\ufefforder_id,amount\nA-1,10\n")
	assert.Equal(t, []string{"order_id", "amount"}, header)
}

func TestCsvParserHeaderOnly(t *testing.T) {
	header, rows := collectRows(t, CsvParser{}, "order_id,amount\n")
	assert.Equal(t, []string{"order_id", "amount"}, header)
	assert.Empty(t, rows)
}

func TestCsvParserEmptyFile(t *testing.T) {
	header, rows := collectRows(t, CsvParser{}, "")
	assert.Nil(t, header)
	assert.Empty(t, rows)
}

func TestCsvParserDuplicateColumn(t *testing.T) {
	_, err := CsvParser{}.Parse(
		strings.NewReader("order_id,amount,order_id\nA-1,10,A-1\n"),
		func(int, Row) error { return nil })

	assert.ErrorIs(t, err, models.ErrDuplicateColumn)
}

func TestCsvParserEmptyCellsAreNil(t *testing.T) {
	_, rows := collectRows(t, CsvParser{}, "order_id,amount\nA-1,\n")
	require.Len(t, rows, 1)
	assert.Equal(t, "A-1", rows[0]["order_id"])
	assert.Nil(t, rows[0]["amount"])
}

func TestCsvParserRaggedRows(t *testing.T) {
	_, rows := collectRows(t, CsvParser{}, "order_id,amount,buyer\nA-1,10\n")
	require.Len(t, rows, 1)
	assert.Equal(t, "10", rows[0]["amount"])
	assert.Nil(t, rows[0]["buyer"])
}

func TestParserForUnknownKind(t *testing.T) {
	_, err := ParserFor(models.FileKindUnknown)
	assert.ErrorIs(t, err, models.ErrUnsupportedFormat)
}

func TestParserStopsOnCallbackError(t *testing.T) {
	calls := 0
	_, err := CsvParser{}.Parse(
		strings.NewReader("id\n1\n2\n3\n"),
		func(int, Row) error {
			calls++
			if calls == 2 {
				return assert.AnError
			}
			return nil
		})

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 2, calls)
}
