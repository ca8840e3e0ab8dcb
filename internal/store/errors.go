package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyTaken is returned when an INSERT or UPDATE on the users
	// table trips the unique constraint on the email column, meaning another
	// account already owns that address.
	ErrEmailAlreadyTaken = errors.New("email already taken")

	// ErrNoUserWasFound is returned when a query expected to match at least
	// one user record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrEmptyUpdate is returned when an update request carries no field
	// changes at all, so there is nothing to persist.
	ErrEmptyUpdate = errors.New("update carries no changes")

	// ErrNoInviteWasFound is returned when an invite lookup or acceptance
	// targets a row that does not exist or is no longer pending.
	ErrNoInviteWasFound = errors.New("no pending invite was found")

	// ErrNoMailWasFound is returned when an outbox status transition targets
	// a message id that does not exist.
	ErrNoMailWasFound = errors.New("no outbox message was found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
