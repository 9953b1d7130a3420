package models

import (
	"path/filepath"
	"slices"
	"strings"
	"time"
)

type ImportStatus string

const (
	ImportStatusUploaded   ImportStatus = "uploaded"
	ImportStatusParsing    ImportStatus = "parsing"
	ImportStatusParsed     ImportStatus = "parsed"
	ImportStatusMapping    ImportStatus = "mapping"
	ImportStatusMapped     ImportStatus = "mapped"
	ImportStatusValidating ImportStatus = "validating"
	ImportStatusValidated  ImportStatus = "validated"
	ImportStatusImporting  ImportStatus = "importing"
	ImportStatusCompleted  ImportStatus = "completed"
	ImportStatusFailed     ImportStatus = "failed"
	ImportStatusCancelled  ImportStatus = "cancelled"
	ImportStatusUnknown    ImportStatus = "unknown"
)

func ImportStatusFrom(s string) ImportStatus {
	switch status := ImportStatus(s); status {
	case ImportStatusUploaded, ImportStatusParsing, ImportStatusParsed,
		ImportStatusMapping, ImportStatusMapped, ImportStatusValidating,
		ImportStatusValidated, ImportStatusImporting, ImportStatusCompleted,
		ImportStatusFailed, ImportStatusCancelled:
		return status
	}
	return ImportStatusUnknown
}

func (s ImportStatus) IsTerminal() bool {
	return s == ImportStatusCompleted || s == ImportStatusFailed || s == ImportStatusCancelled
}

// statusTransitions encodes the forward edges of the import lifecycle. Cancellation
// and failure are handled separately: cancelled is reachable from any non-terminal
// status, failed from any in-flight processing stage.
var statusTransitions = map[ImportStatus][]ImportStatus{
	ImportStatusUploaded:   {ImportStatusParsing},
	ImportStatusParsing:    {ImportStatusParsed},
	ImportStatusParsed:     {ImportStatusMapping},
	ImportStatusMapping:    {ImportStatusMapped},
	ImportStatusMapped:     {ImportStatusMapping, ImportStatusValidating},
	ImportStatusValidating: {ImportStatusValidated},
	// re-entering mapping after validation is allowed as long as importing has not started
	ImportStatusValidated: {ImportStatusMapping, ImportStatusImporting},
	ImportStatusImporting: {ImportStatusCompleted},
}

func (s ImportStatus) CanTransitionTo(target ImportStatus) bool {
	switch target {
	case ImportStatusCancelled:
		return !s.IsTerminal()
	case ImportStatusFailed:
		return !s.IsTerminal()
	}
	return slices.Contains(statusTransitions[s], target)
}

type FileKind string

const (
	FileKindCsv     FileKind = "csv"
	FileKindXlsx    FileKind = "xlsx"
	FileKindUnknown FileKind = "unknown"
)

func FileKindFromName(fileName string) FileKind {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return FileKindCsv
	case ".xlsx":
		return FileKindXlsx
	}
	return FileKindUnknown
}

// ImportJob is the aggregate root of one import attempt. The orchestrator is the
// sole writer of Status and the row counters; SourceFields is set exactly once at
// the parsing->parsed transition and never mutated afterwards.
type ImportJob struct {
	Id                string
	OwnerId           string
	DataType          string
	FileName          string
	FilePath          string
	FileSize          int64
	FileKind          FileKind
	Status            ImportStatus
	SourceFields      []string
	Mapping           map[string]string
	ValidationSummary *ValidationSummary
	TotalRows         int
	ProcessedRows     int
	SuccessRows       int
	FailedRows        int
	ErrorMessage      string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type CreateImportJobInput struct {
	Id       string
	OwnerId  string
	DataType string
	FileName string
	FilePath string
	FileSize int64
	FileKind FileKind
}

// UpdateImportJobInput carries a partial update of the durable job record.
// Nil fields are left untouched.
type UpdateImportJobInput struct {
	Id                string
	Status            *ImportStatus
	SourceFields      []string
	Mapping           map[string]string
	ValidationSummary *ValidationSummary
	TotalRows         *int
	ProcessedRows     *int
	SuccessRows       *int
	FailedRows        *int
	ErrorMessage      *string
}

// ImportProgress is the snapshot written to the ephemeral store at every batch
// boundary, and served by getStatus without a database round trip.
type ImportProgress struct {
	JobId         string       `json:"job_id"`
	Status        ImportStatus `json:"status"`
	TotalRows     int          `json:"total_rows"`
	ProcessedRows int          `json:"processed_rows"`
	SuccessRows   int          `json:"success_rows"`
	FailedRows    int          `json:"failed_rows"`
}

// RowError is one entry of the capped per-run error sample.
type RowError struct {
	RowNumber int    `json:"row"`
	Message   string `json:"error"`
}

// ImportResult is returned by confirm once the row loop exits.
type ImportResult struct {
	Total        int
	Success      int
	Failed       int
	SampleErrors []RowError
	Cancelled    bool
}
