package models

import "errors"

var (
	ErrInvalidFilters     = errors.New("invalid heatmap filters")
	ErrInvalidAction      = errors.New("invalid analysis action")
	ErrInvalidBatchSize   = errors.New("invalid batch size")
	ErrMissingPrompt      = errors.New("prompt is required")
	ErrUnknownContentType = errors.New("unknown content type")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
)
