package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImportStatusTransitions(t *testing.T) {
	assert.True(t, ImportStatusUploaded.CanTransitionTo(ImportStatusParsing))
	assert.True(t, ImportStatusMapped.CanTransitionTo(ImportStatusValidating))
	assert.True(t, ImportStatusValidated.CanTransitionTo(ImportStatusImporting))
	assert.True(t, ImportStatusImporting.CanTransitionTo(ImportStatusCompleted))

	// remapping is allowed until importing starts
	assert.True(t, ImportStatusMapped.CanTransitionTo(ImportStatusMapping))
	assert.True(t, ImportStatusValidated.CanTransitionTo(ImportStatusMapping))
	assert.False(t, ImportStatusImporting.CanTransitionTo(ImportStatusMapping))

	// no skipping stages
	assert.False(t, ImportStatusUploaded.CanTransitionTo(ImportStatusImporting))
	assert.False(t, ImportStatusParsed.CanTransitionTo(ImportStatusValidating))
}

func TestImportStatusCancellation(t *testing.T) {
	for _, status := range []ImportStatus{
		ImportStatusUploaded, ImportStatusParsed, ImportStatusMapped,
		ImportStatusValidated, ImportStatusImporting,
	} {
		assert.True(t, status.CanTransitionTo(ImportStatusCancelled), "from %s", status)
		assert.True(t, status.CanTransitionTo(ImportStatusFailed), "from %s", status)
	}

	for _, status := range []ImportStatus{
		ImportStatusCompleted, ImportStatusFailed, ImportStatusCancelled,
	} {
		assert.True(t, status.IsTerminal())
		assert.False(t, status.CanTransitionTo(ImportStatusCancelled), "from %s", status)
	}
}

func TestFileKindFromName(t *testing.T) {
	assert.Equal(t, FileKindCsv, FileKindFromName("orders.csv"))
	assert.Equal(t, FileKindCsv, FileKindFromName("ORDERS.CSV"))
	assert.Equal(t, FileKindXlsx, FileKindFromName("products.xlsx"))
	assert.Equal(t, FileKindUnknown, FileKindFromName("export.xls"))
	assert.Equal(t, FileKindUnknown, FileKindFromName("noextension"))
}

func TestConfidenceFromScore(t *testing.T) {
	assert.Equal(t, ConfidenceHigh, ConfidenceFromScore(0.92))
	assert.Equal(t, ConfidenceHigh, ConfidenceFromScore(HighConfidenceThreshold))
	assert.Equal(t, ConfidenceMedium, ConfidenceFromScore(0.7))
	assert.Equal(t, ConfidenceLow, ConfidenceFromScore(0.4))
	assert.Equal(t, ConfidenceNone, ConfidenceFromScore(0.2))
}
