package convert

import "errors"

var (
	// ErrEmptyMarkup is returned when there is no markup to convert.
	ErrEmptyMarkup = errors.New("convert: markup is empty")
	// ErrNilTarget is returned when the insertion point is missing.
	ErrNilTarget = errors.New("convert: target is nil")
	// ErrMalformed wraps structural problems the walk cannot recover from,
	// such as a table without a body or a cell outside a row.
	ErrMalformed = errors.New("convert: malformed markup")
)
