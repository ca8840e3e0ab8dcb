package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/abelyaev/accountd/internal/logger"
	"github.com/abelyaev/accountd/models"
	"github.com/jackc/pgerrcode"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles account creation, profile updates, confirmation transitions,
// lookup, and deletion against the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
//
// A debug-level log message is emitted at construction time to aid
// application startup diagnostics.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanUserRow scans one users-table row in canonical column order into a
// [models.User], converting the nullable confirmation columns.
func scanUserRow(row rowScanner) (models.User, error) {
	var user models.User
	var confirmedAt, confirmationSentAt sql.NullTime
	var confirmationDigest sql.NullString

	err := row.Scan(
		&user.UserID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&confirmedAt,
		&confirmationDigest,
		&confirmationSentAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return models.User{}, err
	}

	if confirmedAt.Valid {
		t := confirmedAt.Time
		user.ConfirmedAt = &t
	}
	user.ConfirmationDigest = confirmationDigest.String
	if confirmationSentAt.Valid {
		t := confirmationSentAt.Time
		user.ConfirmationSentAt = &t
	}

	return user, nil
}

// nullString converts an empty string to a SQL NULL so that unset
// confirmation digests never collide on the unique partial index.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreateUser persists a new user record and returns the fully populated
// [models.User] with server-assigned fields (UserID, CreatedAt, UpdatedAt).
//
// The INSERT uses the [createUser] query which returns all columns via a
// RETURNING clause, so the caller receives the canonical database
// representation of the newly created account.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrEmailAlreadyTaken].
//   - Any other driver-level error → wrapped as "unexpected DB error".
//   - Scan failure → returned directly.
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser,
		user.Email, user.Name, user.PasswordHash,
		nullString(user.ConfirmationDigest), user.ConfirmationSentAt)

	// create user in db
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error executing insert")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrEmailAlreadyTaken
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	// scan saved user from db
	saved, err := scanUserRow(row)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: scanning error")
		return models.User{}, err
	}

	return saved, nil
}

// UpdateUser applies a partial profile update built by [buildUpdateUserQuery]
// and returns the updated row.
//
// Error handling:
//   - Update with no changes → [ErrEmptyUpdate].
//   - PostgreSQL unique_violation (23505) → [ErrEmailAlreadyTaken].
//   - No matching row → [ErrNoUserWasFound].
func (r *userRepository) UpdateUser(ctx context.Context, update models.UserUpdate) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateUserQuery(update)
	if err != nil {
		if errors.Is(err, ErrEmptyUpdate) {
			return models.User{}, err
		}
		log.Err(err).Str("func", "*userRepository.UpdateUser").Msg("error building update query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Msg("error executing update")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrEmailAlreadyTaken
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	updated, err := scanUserRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.User{}, ErrEmailAlreadyTaken
		}
		log.Err(err).Str("func", "*userRepository.UpdateUser").Msg("error: scanning error")
		return models.User{}, err
	}

	return updated, nil
}

// DeleteUser removes the user row. Deleting a missing user returns
// [ErrNoUserWasFound] so callers can distinguish repeat deletions.
func (r *userRepository) DeleteUser(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteUser, userID)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteUser").Msg("error executing delete")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unexpected DB error: %w", err)
	}
	if affected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}

// FindUserByEmail retrieves the user record owning the given address.
// Returns [ErrNoUserWasFound] when no account matches.
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findUser(ctx, "*userRepository.FindUserByEmail", findUserByEmail, email)
}

// FindUserByID retrieves the user record with the given identifier.
// Returns [ErrNoUserWasFound] when no account matches.
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	return r.findUser(ctx, "*userRepository.FindUserByID", findUserByID, userID)
}

// FindUserByConfirmationDigest retrieves the user holding the given
// outstanding confirmation digest. Returns [ErrNoUserWasFound] when the
// digest matches no account — the token is unknown or already redeemed.
func (r *userRepository) FindUserByConfirmationDigest(ctx context.Context, digest string) (models.User, error) {
	return r.findUser(ctx, "*userRepository.FindUserByConfirmationDigest", findUserByConfirmationDigest, digest)
}

// findUser runs a single-row users lookup query with the shared error
// mapping: empty result → [ErrNoUserWasFound], driver error → wrapped.
func (r *userRepository) findUser(ctx context.Context, funcName, query string, arg any) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, query, arg)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", funcName).Msg("error executing lookup")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	found, err := scanUserRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", funcName).Msg("error: scanning error")
		return models.User{}, err
	}

	return found, nil
}

// ConfirmUser marks the account confirmed at the given time and clears the
// outstanding confirmation digest in the same statement, so a redeemed token
// can never be redeemed twice.
func (r *userRepository) ConfirmUser(ctx context.Context, userID int64, confirmedAt time.Time) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, confirmUser, userID, confirmedAt)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.ConfirmUser").Msg("error executing confirm")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	confirmed, err := scanUserRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.ConfirmUser").Msg("error: scanning error")
		return models.User{}, err
	}

	return confirmed, nil
}
