package models

type MappingType string

const (
	MappingTypeAuto   MappingType = "auto"
	MappingTypeManual MappingType = "manual"
	MappingTypeAlias  MappingType = "alias"
)

type MappingConfidence string

const (
	ConfidenceHigh   MappingConfidence = "high"
	ConfidenceMedium MappingConfidence = "medium"
	ConfidenceLow    MappingConfidence = "low"
	ConfidenceNone   MappingConfidence = "none"
)

// Similarity thresholds for automatic mapping confidence grading.
const (
	HighConfidenceThreshold   = 0.85
	MediumConfidenceThreshold = 0.6
	LowConfidenceThreshold    = 0.35
)

func ConfidenceFromScore(score float64) MappingConfidence {
	switch {
	case score >= HighConfidenceThreshold:
		return ConfidenceHigh
	case score >= MediumConfidenceThreshold:
		return ConfidenceMedium
	case score >= LowConfidenceThreshold:
		return ConfidenceLow
	}
	return ConfidenceNone
}

// FieldMapping is the proposed or confirmed correspondence of one source column
// to a target field. An empty TargetField means the column is unmapped and its
// values are dropped at transform time.
type FieldMapping struct {
	SourceField     string
	TargetField     string
	Confidence      MappingConfidence
	Type            MappingType
	SimilarityScore float64
}
