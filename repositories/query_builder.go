package repositories

import (
	"github.com/Masterminds/squirrel"
)

// NewQueryBuilder returns a squirrel builder configured for postgres
// positional placeholders.
func NewQueryBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
