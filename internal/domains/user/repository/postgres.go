package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"yamdb-backend/internal/domains/user"
	"yamdb-backend/pkg/database"
)

const userColumns = `
	id, username, email, role, is_superuser,
	first_name, last_name, bio,
	confirmation_code_hash, confirmation_sent_at,
	created_at, updated_at`

// postgresRepository là implementation của user.Repository trên pgx.
// Users không được cache: middleware reload identity mỗi request và cần
// role mới nhất.
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) user.Repository {
	return &postgresRepository{pool: pool}
}

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.Role, &u.IsSuperuser,
		&u.FirstName, &u.LastName, &u.Bio,
		&u.ConfirmationCodeHash, &u.ConfirmationSentAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// mapWriteError converts unique violations on users into field conflicts.
func mapWriteError(err error) error {
	if constraint, ok := database.UniqueViolation(err); ok {
		switch constraint {
		case "users_username_key":
			return user.ErrUsernameTaken.WithErr(err)
		case "users_email_key":
			return user.ErrEmailTaken.WithErr(err)
		}
	}
	return err
}

// ========================================
// SIGNUP
// ========================================

func (r *postgresRepository) Signup(ctx context.Context, username, email, codeHash string, sentAt time.Time) (*user.User, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*user.User, error) {
		// STEP 1: thử tạo mới. Nếu username hoặc email đã tồn tại thì
		// ON CONFLICT DO NOTHING chờ transaction kia commit rồi bỏ qua.
		created, err := scanUser(tx.QueryRow(ctx, `
			INSERT INTO users (username, email, confirmation_code_hash, confirmation_sent_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT DO NOTHING
			RETURNING`+userColumns,
			username, email, codeHash, sentAt,
		))
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("insert user: %w", err)
		}

		// STEP 2: lock mọi row trùng username hoặc email.
		rows, err := tx.Query(ctx, `
			SELECT`+userColumns+`
			FROM users
			WHERE username = $1 OR email = $2
			FOR UPDATE`,
			username, email,
		)
		if err != nil {
			return nil, fmt.Errorf("lock existing users: %w", err)
		}
		matches, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*user.User, error) {
			return scanUser(row)
		})
		if err != nil {
			return nil, fmt.Errorf("scan existing users: %w", err)
		}

		if len(matches) != 1 || matches[0].Username != username || matches[0].Email != email {
			return nil, user.ErrIdentityConflict
		}

		// STEP 3: exact pair, rotate code.
		existing := matches[0]
		if _, err := tx.Exec(ctx, `
			UPDATE users
			SET confirmation_code_hash = $2, confirmation_sent_at = $3, updated_at = NOW()
			WHERE id = $1`,
			existing.ID, codeHash, sentAt,
		); err != nil {
			return nil, fmt.Errorf("rotate confirmation code: %w", err)
		}
		existing.ConfirmationCodeHash = &codeHash
		existing.ConfirmationSentAt = &sentAt
		return existing, nil
	})
}

// ========================================
// QUERIES
// ========================================

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT`+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *postgresRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT`+userColumns+` FROM users WHERE username = $1`, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

func (r *postgresRepository) List(ctx context.Context, req user.ListUsersRequest) ([]user.User, error) {
	query := `SELECT` + userColumns + ` FROM users`
	args := []interface{}{}
	if req.Search != "" {
		query += ` WHERE username ILIKE '%' || $1 || '%'`
		args = append(args, req.Search)
	}
	query += ` ORDER BY username`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (user.User, error) {
		u, err := scanUser(row)
		if err != nil {
			return user.User{}, err
		}
		return *u, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	return users, nil
}

// ========================================
// WRITES
// ========================================

func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, role, first_name, last_name, bio)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		u.Username, u.Email, u.Role, u.FirstName, u.LastName, u.Bio,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return mapWriteError(fmt.Errorf("create user: %w", err))
	}
	return nil
}

// Update writes every mutable column including the confirmation code state.
func (r *postgresRepository) Update(ctx context.Context, u *user.User) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE users
		SET username = $2, email = $3, role = $4,
		    first_name = $5, last_name = $6, bio = $7,
		    confirmation_code_hash = $8, confirmation_sent_at = $9,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		u.ID, u.Username, u.Email, u.Role,
		u.FirstName, u.LastName, u.Bio,
		u.ConfirmationCodeHash, u.ConfirmationSentAt,
	).Scan(&u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return user.ErrUserNotFound
	}
	if err != nil {
		return mapWriteError(fmt.Errorf("update user: %w", err))
	}
	return nil
}

func (r *postgresRepository) DeleteByUsername(ctx context.Context, username string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// ========================================
// CONFIRMATION CODES
// ========================================

func (r *postgresRepository) ConsumeConfirmationCode(ctx context.Context, id int64, hash string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET confirmation_code_hash = NULL, confirmation_sent_at = NULL, updated_at = NOW()
		WHERE id = $1 AND confirmation_code_hash = $2`,
		id, hash,
	)
	if err != nil {
		return false, fmt.Errorf("consume confirmation code: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *postgresRepository) ClearExpiredConfirmationCodes(ctx context.Context, sentBefore time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET confirmation_code_hash = NULL, confirmation_sent_at = NULL
		WHERE confirmation_code_hash IS NOT NULL AND confirmation_sent_at < $1`,
		sentBefore,
	)
	if err != nil {
		return 0, fmt.Errorf("clear expired confirmation codes: %w", err)
	}
	return tag.RowsAffected(), nil
}
