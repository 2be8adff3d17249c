package repository

import (
	"context"
	"fmt"

	"golocal-spaces/internal/data/entity"
	"golocal-spaces/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByStripeAccountID(ctx context.Context, accountID string) (*entity.User, error)
	SetStripeAccount(ctx context.Context, id uuid.UUID, accountID string) error

	// SetOnboardingComplete reports whether the stored flag actually changed.
	SetOnboardingComplete(ctx context.Context, id uuid.UUID, complete bool) (bool, error)
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, email, password_hash, first_name, last_name, phone, user_type,
	verified, stripe_account_id, stripe_onboarding_complete, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.UserType,
		&user.Verified,
		&user.StripeAccountID,
		&user.StripeOnboardingComplete,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user record into the database
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, phone, user_type,
		                   verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.UserType,
		user.Verified,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("find user by ID %s: %w", id.String(), err)
	}

	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	user, err := scanUser(ur.db.QueryRow(ctx, query, email))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}

	return user, nil
}

func (ur *userRepository) FindByStripeAccountID(ctx context.Context, accountID string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE stripe_account_id = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, accountID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by stripe account",
			zap.Error(err),
			zap.String("account_id", accountID),
		)
		return nil, fmt.Errorf("find user by stripe account %s: %w", accountID, err)
	}

	return user, nil
}

func (ur *userRepository) SetStripeAccount(ctx context.Context, id uuid.UUID, accountID string) error {
	query := `UPDATE users SET stripe_account_id = $2, updated_at = NOW() WHERE id = $1`

	result, err := ur.db.Exec(ctx, query, id, accountID)
	if err != nil {
		ur.log.Error("Failed to set stripe account",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return fmt.Errorf("set stripe account for user %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id.String())
	}

	return nil
}

func (ur *userRepository) SetOnboardingComplete(ctx context.Context, id uuid.UUID, complete bool) (bool, error) {
	query := `
		UPDATE users
		SET stripe_onboarding_complete = $2, updated_at = NOW()
		WHERE id = $1 AND stripe_onboarding_complete <> $2
	`

	result, err := ur.db.Exec(ctx, query, id, complete)
	if err != nil {
		ur.log.Error("Failed to update onboarding flag",
			zap.Error(err),
			zap.String("user_id", id.String()),
			zap.Bool("complete", complete),
		)
		return false, fmt.Errorf("update onboarding flag for user %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}
