package dto

import (
	"time"

	"github.com/ecomdata/import-backend/models"
	"github.com/ecomdata/import-backend/pure_utils"
)

type ImportJobDto struct {
	Id                string                `json:"id"`
	DataType          string                `json:"data_type"`
	FileName          string                `json:"file_name"`
	FileSize          int64                 `json:"file_size"`
	FileKind          string                `json:"file_kind"`
	Status            string                `json:"status"`
	SourceFields      []string              `json:"source_fields,omitempty"`
	Mapping           map[string]string     `json:"mapping,omitempty"`
	ValidationSummary *ValidationSummaryDto `json:"validation_summary,omitempty"`
	TotalRows         int                   `json:"total_rows"`
	ProcessedRows     int                   `json:"processed_rows"`
	SuccessRows       int                   `json:"success_rows"`
	FailedRows        int                   `json:"failed_rows"`
	ErrorMessage      string                `json:"error_message,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

func AdaptImportJobDto(job models.ImportJob) ImportJobDto {
	dto := ImportJobDto{
		Id:            job.Id,
		DataType:      job.DataType,
		FileName:      job.FileName,
		FileSize:      job.FileSize,
		FileKind:      string(job.FileKind),
		Status:        string(job.Status),
		SourceFields:  job.SourceFields,
		Mapping:       job.Mapping,
		TotalRows:     job.TotalRows,
		ProcessedRows: job.ProcessedRows,
		SuccessRows:   job.SuccessRows,
		FailedRows:    job.FailedRows,
		ErrorMessage:  job.ErrorMessage,
		CreatedAt:     job.CreatedAt,
		UpdatedAt:     job.UpdatedAt,
	}
	if job.ValidationSummary != nil {
		summary := AdaptValidationSummaryDto(*job.ValidationSummary)
		dto.ValidationSummary = &summary
	}
	return dto
}

type FieldMappingDto struct {
	SourceField     string  `json:"source_field"`
	TargetField     string  `json:"target_field,omitempty"`
	Confidence      string  `json:"confidence"`
	Type            string  `json:"type"`
	SimilarityScore float64 `json:"similarity_score"`
}

func AdaptFieldMappingDto(m models.FieldMapping) FieldMappingDto {
	return FieldMappingDto{
		SourceField:     m.SourceField,
		TargetField:     m.TargetField,
		Confidence:      string(m.Confidence),
		Type:            string(m.Type),
		SimilarityScore: m.SimilarityScore,
	}
}

type ValidationIssueDto struct {
	RowIndex int    `json:"row_index"`
	Field    string `json:"field"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type ValidationSummaryDto struct {
	TotalRows       int                  `json:"total_rows"`
	Passed          int                  `json:"passed"`
	Failed          int                  `json:"failed"`
	ErrorsByField   map[string]int       `json:"errors_by_field"`
	WarningsByField map[string]int       `json:"warnings_by_field"`
	SampleIssues    []ValidationIssueDto `json:"sample_issues"`
}

func AdaptValidationSummaryDto(summary models.ValidationSummary) ValidationSummaryDto {
	return ValidationSummaryDto{
		TotalRows:       summary.TotalRows,
		Passed:          summary.Passed,
		Failed:          summary.Failed,
		ErrorsByField:   summary.ErrorsByField,
		WarningsByField: summary.WarningsByField,
		SampleIssues: pure_utils.Map(summary.SampleIssues, func(issue models.ValidationIssue) ValidationIssueDto {
			return ValidationIssueDto{
				RowIndex: issue.RowIndex,
				Field:    issue.Field,
				Severity: string(issue.Severity),
				Message:  issue.Message,
			}
		}),
	}
}

type ImportProgressDto struct {
	JobId         string `json:"job_id"`
	Status        string `json:"status"`
	TotalRows     int    `json:"total_rows"`
	ProcessedRows int    `json:"processed_rows"`
	SuccessRows   int    `json:"success_rows"`
	FailedRows    int    `json:"failed_rows"`
}

func AdaptImportProgressDto(progress models.ImportProgress) ImportProgressDto {
	return ImportProgressDto{
		JobId:         progress.JobId,
		Status:        string(progress.Status),
		TotalRows:     progress.TotalRows,
		ProcessedRows: progress.ProcessedRows,
		SuccessRows:   progress.SuccessRows,
		FailedRows:    progress.FailedRows,
	}
}

type RowErrorDto struct {
	RowNumber int    `json:"row"`
	Message   string `json:"error"`
}

type ImportResultDto struct {
	Total        int           `json:"total"`
	Success      int           `json:"success"`
	Failed       int           `json:"failed"`
	SampleErrors []RowErrorDto `json:"sample_errors"`
	Cancelled    bool          `json:"cancelled"`
}

func AdaptImportResultDto(result models.ImportResult) ImportResultDto {
	return ImportResultDto{
		Total:   result.Total,
		Success: result.Success,
		Failed:  result.Failed,
		SampleErrors: pure_utils.Map(result.SampleErrors, func(rowError models.RowError) RowErrorDto {
			return RowErrorDto{RowNumber: rowError.RowNumber, Message: rowError.Message}
		}),
		Cancelled: result.Cancelled,
	}
}

// SetMappingBody carries the confirmed source-to-target mapping. An empty
// target string explicitly leaves the source column unmapped.
type SetMappingBody struct {
	Mapping map[string]string `json:"mapping" binding:"required"`
}

type PaginationParams struct {
	Page int `form:"page"`
	Size int `form:"size"`
}

func AdaptPageParams(params PaginationParams) models.PageParams {
	return models.PageParams{Page: params.Page, Size: params.Size}
}
