package shipathon

import "errors"

// Common errors for the recommendation engine.
var (
	// ErrSourceUnavailable indicates the event or profile source is missing
	// or unreadable. Fatal to initialization; not retried automatically.
	ErrSourceUnavailable = errors.New("event source unavailable")

	// ErrMalformedRecord indicates an event record is missing a required
	// descriptive field. The record is skipped; ingestion continues.
	ErrMalformedRecord = errors.New("malformed event record")

	// ErrEncoding indicates the encoder could not produce a vector for the
	// given text. Fails the single operation being performed.
	ErrEncoding = errors.New("encoding failed")

	// ErrDimensionMismatch indicates a vector's dimension differs from the
	// collection's configured dimension. Fatal to ingestion: a collection
	// holding mixed dimensions breaks all future similarity comparisons.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrCollectionNotFound indicates an operation addressed a collection
	// that was never created.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrInvalidConfig indicates a store or driver was constructed with
	// missing or invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidStoreType indicates an unknown driver type was requested
	// from a factory.
	ErrInvalidStoreType = errors.New("invalid store type")
)
