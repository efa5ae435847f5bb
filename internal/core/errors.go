package core

// errors.go defines the domain-typed errors produced by the repositories
// and the CSV importers. The web layer translates these 1:1 to HTTP status
// codes; nothing else in the system inspects error strings.

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrOwnerNotFound signals that an owner id does not resolve.
	ErrOwnerNotFound = errors.New("owner not found")

	// ErrCarNotFound signals that a car id does not resolve.
	ErrCarNotFound = errors.New("car not found")

	// ErrDuplicateEmail signals a unique-constraint violation on owner email.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrOwnerHasCars signals that a deletion was rejected because cars
	// still reference the owner.
	ErrOwnerHasCars = errors.New("owner has cars")
)

// MalformedInputError wraps a client-input fault: a bad file type,
// undecodable bytes, or an unparseable numeric field during CSV import.
type MalformedInputError struct {
	Reason string
	Err    error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// Malformed builds a MalformedInputError with an optional cause.
func Malformed(reason string, err error) error {
	return &MalformedInputError{Reason: reason, Err: err}
}

// uniqueViolation is the PostgreSQL SQLSTATE for unique-constraint errors.
const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique-constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
