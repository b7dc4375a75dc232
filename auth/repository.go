package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/10Sumedh01/video-streaming-platfrom-backend-prj/apperror"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const pgUniqueViolation = "23505"

// UserRepository is the store accessor for the User entity. It carries no
// business logic: every method is a single statement against the store, and
// every plain field set is a single atomic UPDATE so concurrent writers
// cannot lose updates.
type UserRepository interface {
	// Create inserts a new user and returns it with its assigned id and
	// timestamps. A duplicate username or email surfaces as a Conflict.
	Create(ctx context.Context, user *User) (*User, error)

	// GetByID loads a user by id.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByUsernameOrEmail loads the user matching either identifier.
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*User, error)

	// SetRefreshToken overwrites the stored refresh token, revoking any
	// previously active session.
	SetRefreshToken(ctx context.Context, id, token string) error

	// RotateRefreshToken replaces the stored refresh token only if it still
	// equals oldToken, as one atomic conditional update. It returns false
	// when the stored token no longer matches, which means a concurrent
	// refresh already rotated it.
	RotateRefreshToken(ctx context.Context, id, oldToken, newToken string) (bool, error)

	// ClearRefreshToken unconditionally removes the stored refresh token.
	// Clearing an already-absent token is not an error.
	ClearRefreshToken(ctx context.Context, id string) error

	// UpdatePassword overwrites the stored password hash.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// UpdateAccountDetails sets the display name and email and returns the
	// updated user. A duplicate email surfaces as a Conflict.
	UpdateAccountDetails(ctx context.Context, id, fullName, email string) (*User, error)

	// UpdateAvatar stores a new avatar URL and returns the updated user.
	UpdateAvatar(ctx context.Context, id, url string) (*User, error)

	// UpdateCoverImage stores a new cover image URL and returns the updated
	// user.
	UpdateCoverImage(ctx context.Context, id, url string) (*User, error)

	// ClearStaleRefreshTokens removes refresh tokens whose last rotation is
	// older than the given interval; such tokens are necessarily expired.
	// Returns the number of sessions cleared.
	ClearStaleRefreshTokens(ctx context.Context, olderThan string) (int64, error)
}

// PostgresUserRepository implements UserRepository over a pgx pool.
type PostgresUserRepository struct {
	db *pgxpool.Pool
}

// NewPostgresUserRepository creates a PostgresUserRepository.
func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// userColumns is the projection scanned into a User. The id is cast to text;
// refresh_token is nullable and coalesced to the empty string.
const userColumns = `id::text, username, email, full_name, password_hash, avatar_url,
	cover_image_url, COALESCE(refresh_token, ''), created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FullName,
		&u.PasswordHash,
		&u.AvatarURL,
		&u.CoverImageURL,
		&u.RefreshToken,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// isUniqueViolation reports whether err is a unique-constraint violation on
// the named column. The constraint is the authoritative duplicate check; the
// pre-insert existence lookup is best-effort only.
func isUniqueViolation(err error, column string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == pgUniqueViolation &&
		strings.Contains(pgErr.ConstraintName, column)
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *User) (*User, error) {
	query := fmt.Sprintf(`INSERT INTO users (username, email, full_name, password_hash, avatar_url, cover_image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, userColumns)

	created, err := scanUser(r.db.QueryRow(ctx, query,
		user.Username, user.Email, user.FullName, user.PasswordHash, user.AvatarURL, user.CoverImageURL))
	if err != nil {
		if isUniqueViolation(err, "username") || isUniqueViolation(err, "email") {
			return nil, apperror.NewConflictError("user with email or username already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	return created, nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user does not exist", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return user, nil
}

func (r *PostgresUserRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1 OR email = $2`, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, username, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user does not exist", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return user, nil
}

func (r *PostgresUserRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	query := `UPDATE users
		SET refresh_token = $2, refresh_token_updated_at = now(), updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, token)
	if err != nil {
		return apperror.NewDatabaseError("failed to store refresh token", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("user does not exist", nil)
	}
	return nil
}

func (r *PostgresUserRepository) RotateRefreshToken(ctx context.Context, id, oldToken, newToken string) (bool, error) {
	// Compare-and-swap keyed on the old token value: under concurrent
	// refreshes with the same token exactly one caller rotates.
	query := `UPDATE users
		SET refresh_token = $3, refresh_token_updated_at = now(), updated_at = now()
		WHERE id = $1 AND refresh_token = $2`

	tag, err := r.db.Exec(ctx, query, id, oldToken, newToken)
	if err != nil {
		return false, apperror.NewDatabaseError("failed to rotate refresh token", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PostgresUserRepository) ClearRefreshToken(ctx context.Context, id string) error {
	query := `UPDATE users
		SET refresh_token = NULL, refresh_token_updated_at = NULL, updated_at = now()
		WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return apperror.NewDatabaseError("failed to clear refresh token", err)
	}
	return nil
}

func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return apperror.NewDatabaseError("failed to update password", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("user does not exist", nil)
	}
	return nil
}

func (r *PostgresUserRepository) UpdateAccountDetails(ctx context.Context, id, fullName, email string) (*User, error) {
	query := fmt.Sprintf(`UPDATE users
		SET full_name = $2, email = $3, updated_at = now()
		WHERE id = $1
		RETURNING %s`, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, id, fullName, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user does not exist", nil)
		}
		if isUniqueViolation(err, "email") {
			return nil, apperror.NewConflictError("email already in use", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update account details", err)
	}
	return user, nil
}

func (r *PostgresUserRepository) UpdateAvatar(ctx context.Context, id, url string) (*User, error) {
	query := fmt.Sprintf(`UPDATE users
		SET avatar_url = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s`, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, id, url))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user does not exist", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update avatar", err)
	}
	return user, nil
}

func (r *PostgresUserRepository) UpdateCoverImage(ctx context.Context, id, url string) (*User, error) {
	query := fmt.Sprintf(`UPDATE users
		SET cover_image_url = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s`, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, id, url))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user does not exist", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update cover image", err)
	}
	return user, nil
}

func (r *PostgresUserRepository) ClearStaleRefreshTokens(ctx context.Context, olderThan string) (int64, error) {
	query := `UPDATE users
		SET refresh_token = NULL, refresh_token_updated_at = NULL, updated_at = now()
		WHERE refresh_token IS NOT NULL
		  AND refresh_token_updated_at < now() - $1::interval`

	tag, err := r.db.Exec(ctx, query, olderThan)
	if err != nil {
		return 0, apperror.NewDatabaseError("failed to clear stale refresh tokens", err)
	}
	return tag.RowsAffected(), nil
}
