package domain

import "errors"

var (
	// ErrNoKeyColumn is returned when a required dataset has no discoverable
	// key column (configuration error, fatal for the request)
	ErrNoKeyColumn = errors.New("no key column found in dataset")

	// ErrDatasetUnavailable is returned when a required dataset cannot be
	// fetched or parsed (retrieval error, fatal for the request)
	ErrDatasetUnavailable = errors.New("reference dataset unavailable")

	// ErrEmptyInput is returned when no candidate phrases could be extracted
	ErrEmptyInput = errors.New("no ingredient phrases found in input")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
