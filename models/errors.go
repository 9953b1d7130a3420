package models

import (
	"github.com/cockroachdb/errors"
)

// Base errors, related to default API status codes
var (
	// BadParameterError is rendered with the http status code 400
	BadParameterError = errors.New("bad parameter")

	// UnAuthorizedError is rendered with the http status code 401
	UnAuthorizedError = errors.New("unauthorized")

	// ForbiddenError is rendered with the http status code 403
	ForbiddenError = errors.New("forbidden")

	// NotFoundError is rendered with the http status code 404
	NotFoundError = errors.New("not found")

	// ConflictError is rendered with the http status code 409
	ConflictError = errors.New("conflict")
)

// Import pipeline errors
var (
	// ErrUnsupportedFormat is returned when the uploaded file extension is not supported.
	ErrUnsupportedFormat = errors.Wrap(BadParameterError, "unsupported file format")

	// ErrDuplicateColumn is returned when the header row contains the same column name twice.
	ErrDuplicateColumn = errors.Wrap(BadParameterError, "duplicate column in header")

	// ErrUnknownDataType is returned when no validator is registered for the requested data type.
	ErrUnknownDataType = errors.Wrap(BadParameterError, "unknown data type")

	// ErrInvalidJobState is returned when an operation is attempted on a job whose
	// status does not allow it (e.g. confirm called twice). The job is not mutated.
	ErrInvalidJobState = errors.Wrap(ConflictError, "operation not allowed in current import status")

	// ErrMappingFrozen is returned when the mapping is edited after importing has started.
	ErrMappingFrozen = errors.Wrap(ConflictError, "mapping can no longer be modified")
)
