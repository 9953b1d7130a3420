package validation

import (
	"github.com/ecomdata/import-backend/models"
	"github.com/ecomdata/import-backend/usecases/parsing"
)

// Rule binds a check to one target field. The name identifies the rule in
// configuration, the severity decides whether a violation fails the row or
// only annotates it.
type Rule struct {
	Name     string
	Field    string
	Severity models.ValidationSeverity
	Check    CheckFunc
}

// RowRule is a rule over the whole row, for constraints between fields. Field
// names the field the violation is reported against.
type RowRule struct {
	Name     string
	Field    string
	Severity models.ValidationSeverity
	Check    RowCheckFunc
}

type Validator struct {
	rules    []Rule
	rowRules []RowRule
}

func NewValidator(rules []Rule, rowRules []RowRule) *Validator {
	return &Validator{rules: rules, rowRules: rowRules}
}

// ValidateRow runs every rule against one mapped row and returns the issues
// found, in rule declaration order. An empty result means the row passed.
func (v *Validator) ValidateRow(rowIndex int, row parsing.Row) []models.ValidationIssue {
	var issues []models.ValidationIssue
	for _, rule := range v.rules {
		if ok, message := rule.Check(row[rule.Field]); !ok {
			issues = append(issues, models.ValidationIssue{
				RowIndex: rowIndex,
				Field:    rule.Field,
				Severity: rule.Severity,
				Message:  message,
			})
		}
	}
	for _, rule := range v.rowRules {
		if ok, message := rule.Check(row); !ok {
			issues = append(issues, models.ValidationIssue{
				RowIndex: rowIndex,
				Field:    rule.Field,
				Severity: rule.Severity,
				Message:  message,
			})
		}
	}
	return issues
}

// SummaryBuilder accumulates per-row validation results into a
// models.ValidationSummary. A row fails when at least one of its issues has
// error severity; warnings alone leave it passing.
type SummaryBuilder struct {
	summary models.ValidationSummary
}

func NewSummaryBuilder() *SummaryBuilder {
	return &SummaryBuilder{
		summary: models.ValidationSummary{
			ErrorsByField:   make(map[string]int),
			WarningsByField: make(map[string]int),
		},
	}
}

func (b *SummaryBuilder) AddRow(issues []models.ValidationIssue) {
	b.summary.TotalRows++

	failed := false
	for _, issue := range issues {
		switch issue.Severity {
		case models.SeverityError:
			failed = true
			b.summary.ErrorsByField[issue.Field]++
		case models.SeverityWarning:
			b.summary.WarningsByField[issue.Field]++
		}
		if len(b.summary.SampleIssues) < models.MaxSampleIssues {
			b.summary.SampleIssues = append(b.summary.SampleIssues, issue)
		}
	}

	if failed {
		b.summary.Failed++
	} else {
		b.summary.Passed++
	}
}

func (b *SummaryBuilder) Summary() models.ValidationSummary {
	return b.summary
}
