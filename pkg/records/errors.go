package records

import "errors"

var (
	// ErrSourceNotFound is returned when the requested source does not exist.
	ErrSourceNotFound = errors.New("source not found")

	// ErrSourceExists is returned when a source id or internal path is already taken.
	ErrSourceExists = errors.New("source already exists")

	// ErrDuplicateChecksum is returned when a source with the same content is already stored.
	ErrDuplicateChecksum = errors.New("duplicate checksum")

	// ErrProjectNotFound is returned when the requested project does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrOutputNotFound is returned when the requested output does not exist.
	ErrOutputNotFound = errors.New("output not found")

	// ErrInvalidChecksum is returned when a checksum is not a hex SHA256 digest.
	ErrInvalidChecksum = errors.New("invalid checksum")

	// ErrDatabaseError is returned when a database operation fails.
	ErrDatabaseError = errors.New("database error")
)
