package mapping

import (
	"sort"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/ecomdata/import-backend/models"
	"github.com/ecomdata/import-backend/usecases/parsing"
)

// Mapper proposes a correspondence from source columns to the fixed target
// fields of a data type. It carries no hidden state: the alias table and the
// target field list are fixed at construction, manual overrides are applied
// explicitly.
type Mapper struct {
	targetFields []string
	aliases      AliasTable
	overrides    map[string]string
	metric       strutil.StringMetric
}

func NewMapper(targetFields []string, aliases AliasTable) *Mapper {
	// Jaro-Winkler behaves well on short identifier-like strings
	return &Mapper{
		targetFields: targetFields,
		aliases:      aliases,
		overrides:    make(map[string]string),
		metric:       metrics.NewJaroWinkler(),
	}
}

// ApplyOverride pins a source column to a target field. Overrides always win
// over automatic matching and re-applying the same override is a no-op.
func (m *Mapper) ApplyOverride(sourceField, targetField string) {
	m.overrides[sourceField] = targetField
}

// Propose computes the best-effort mapping for the given source columns.
// Result order follows sourceFields, one entry per source column, including
// unmapped ones (confidence none, empty target) so the caller can surface
// unresolved columns for manual review.
//
// Assignment is exclusive: each target field receives at most one source
// column. Overrides are honored first, then alias hits, then similarity
// scores in descending order. When two source columns claim the same target
// with an equal score, neither wins: the conflict is left for manual
// resolution rather than guessed at.
func (m *Mapper) Propose(sourceFields []string) []models.FieldMapping {
	assigned := make(map[string]string, len(sourceFields))        // source -> target
	takenTargets := make(map[string]bool, len(m.targetFields))    // target -> taken
	mappingTypes := make(map[string]models.MappingType)           // source -> how it was mapped
	scores := make(map[string]float64)                            // source -> similarity score

	// manual overrides first
	for _, source := range sourceFields {
		if target, ok := m.overrides[source]; ok && target != "" && !takenTargets[target] {
			assigned[source] = target
			takenTargets[target] = true
			mappingTypes[source] = models.MappingTypeManual
			scores[source] = 1
		}
	}

	// alias hits bypass similarity scoring
	for _, source := range sourceFields {
		if _, done := assigned[source]; done {
			continue
		}
		if target, ok := m.aliases.lookup(source, m.freeTargets(takenTargets)); ok {
			assigned[source] = target
			takenTargets[target] = true
			mappingTypes[source] = models.MappingTypeAlias
			scores[source] = 1
		}
	}

	// similarity matching over the remaining source/target pairs
	m.assignBySimilarity(sourceFields, assigned, takenTargets, mappingTypes, scores)

	result := make([]models.FieldMapping, 0, len(sourceFields))
	for _, source := range sourceFields {
		target, ok := assigned[source]
		if !ok {
			result = append(result, models.FieldMapping{
				SourceField:     source,
				Confidence:      models.ConfidenceNone,
				Type:            models.MappingTypeAuto,
				SimilarityScore: scores[source],
			})
			continue
		}

		confidence := models.ConfidenceHigh
		if mappingTypes[source] == models.MappingTypeAuto {
			confidence = models.ConfidenceFromScore(scores[source])
		}
		result = append(result, models.FieldMapping{
			SourceField:     source,
			TargetField:     target,
			Confidence:      confidence,
			Type:            mappingTypes[source],
			SimilarityScore: scores[source],
		})
	}
	return result
}

func (m *Mapper) freeTargets(taken map[string]bool) []string {
	free := make([]string, 0, len(m.targetFields))
	for _, target := range m.targetFields {
		if !taken[target] {
			free = append(free, target)
		}
	}
	return free
}

type candidate struct {
	source string
	target string
	score  float64
}

func (m *Mapper) assignBySimilarity(
	sourceFields []string,
	assigned map[string]string,
	takenTargets map[string]bool,
	mappingTypes map[string]models.MappingType,
	scores map[string]float64,
) {
	var candidates []candidate
	for _, source := range sourceFields {
		if _, done := assigned[source]; done {
			continue
		}
		normalizedSource := normalizeFieldName(source)
		for _, target := range m.targetFields {
			if takenTargets[target] {
				continue
			}
			score := strutil.Similarity(normalizedSource, normalizeFieldName(target), m.metric)
			if score > scores[source] {
				// remember the best score even below threshold, for reporting
				scores[source] = score
			}
			if score >= models.LowConfidenceThreshold {
				candidates = append(candidates, candidate{source: source, target: target, score: score})
			}
		}
	}

	// highest score first; source then target order as deterministic tie-break
	// for pairs that do not actually compete
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].source != candidates[j].source {
			return candidates[i].source < candidates[j].source
		}
		return candidates[i].target < candidates[j].target
	})

	contested := make(map[string]bool)
	for i, c := range candidates {
		if assigned[c.source] != "" || takenTargets[c.target] || contested[c.target] {
			continue
		}

		// an equal-score claim on the same target from another unassigned
		// source is a genuine tie: leave the target unmapped for manual
		// resolution instead of picking a winner
		tie := false
		for j := i + 1; j < len(candidates) && candidates[j].score == c.score; j++ {
			other := candidates[j]
			if other.target == c.target && other.source != c.source && assigned[other.source] == "" {
				tie = true
				break
			}
		}
		if tie {
			contested[c.target] = true
			continue
		}

		assigned[c.source] = c.target
		takenTargets[c.target] = true
		mappingTypes[c.source] = models.MappingTypeAuto
		scores[c.source] = c.score
	}
}

// Transform renames the columns of a parsed row according to the confirmed
// mapping and drops every unmapped column.
func Transform(row parsing.Row, mapping map[string]string) parsing.Row {
	transformed := make(parsing.Row, len(mapping))
	for source, target := range mapping {
		if target == "" {
			continue
		}
		if value, ok := row[source]; ok {
			transformed[target] = value
		}
	}
	return transformed
}
