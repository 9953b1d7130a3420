package parsing

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows ...[]any) *bytes.Reader {
	t.Helper()

	file := excelize.NewFile()
	sheet := file.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, file.SetSheetRow(sheet, cell, &row))
	}

	buffer, err := file.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buffer.Bytes())
}

func TestXlsxParserPreservesCellTypes(t *testing.T) {
	input := buildWorkbook(t,
		[]any{"order_id", "amount", "note"},
		[]any{"A-1", 12.5, "first"},
		[]any{"A-2", 99, nil},
	)

	var rows []Row
	header, err := XlsxParser{}.Parse(input, func(rowNumber int, row Row) error {
		rows = append(rows, row)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"order_id", "amount", "note"}, header)
	require.Len(t, rows, 2)

	assert.Equal(t, "A-1", rows[0]["order_id"])
	assert.Equal(t, 12.5, rows[0]["amount"])
	assert.Equal(t, "first", rows[0]["note"])

	assert.Equal(t, float64(99), rows[1]["amount"])
	assert.Nil(t, rows[1]["note"])
}

func TestXlsxParserHeaderOnly(t *testing.T) {
	input := buildWorkbook(t, []any{"sku", "price"})

	calls := 0
	header, err := XlsxParser{}.Parse(input, func(int, Row) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"sku", "price"}, header)
	assert.Zero(t, calls)
}
