package models

type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
)

// ValidationIssue is one rule violation on one row. Issues are never persisted
// individually: only per-field counts and a capped sample survive in the summary.
type ValidationIssue struct {
	RowIndex int                `json:"row_index"`
	Field    string             `json:"field"`
	Severity ValidationSeverity `json:"severity"`
	Message  string             `json:"message"`
}

// ValidationSummary aggregates one validation pass. A row counts as failed when
// it carries at least one error-severity issue; warning-only rows pass.
type ValidationSummary struct {
	TotalRows       int               `json:"total_rows"`
	Passed          int               `json:"passed"`
	Failed          int               `json:"failed"`
	ErrorsByField   map[string]int    `json:"errors_by_field"`
	WarningsByField map[string]int    `json:"warnings_by_field"`
	SampleIssues    []ValidationIssue `json:"sample_issues"`
}

// MaxSampleIssues caps the number of individual issues retained in a summary.
const MaxSampleIssues = 100
