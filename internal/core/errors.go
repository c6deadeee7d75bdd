package core

import "errors"

// Error taxonomy shared by the ledger, tracker and profile services. All of
// these are recoverable: the API layer maps them to a status code and the
// client may retry.
var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrMissingDescription = errors.New("missing description")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrCategoryExists     = errors.New("category already exists")
	ErrCategoryInUse      = errors.New("category has transactions")
	ErrUnknownPath        = errors.New("unknown learning path")
	ErrNotFound           = errors.New("not found")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrPersistence        = errors.New("persistence failure")
)
