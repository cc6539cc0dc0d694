package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConnectorNotFound indicates an unknown source type.
	// Fatal for the run; the source moves to StatusError.
	ErrConnectorNotFound = errors.New("connector not found")

	// ErrSourceDisabled indicates a sync was attempted against a
	// disabled source. Rejected before any state mutation.
	ErrSourceDisabled = errors.New("data source is disabled")

	// ErrSyncInProgress indicates a sync is already running for the source.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrConnectionFailed indicates the connector could not authenticate
	// or reach the source system. Fatal for the run.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrInvalidCredentials indicates the credential blob is missing
	// fields the connector requires.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
