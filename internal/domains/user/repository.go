package user

import (
	"context"
	"time"
)

type Repository interface {
	// Signup gets or creates the user for the exact (username, email) pair
	// and stores a fresh code hash on it, atomically. A pair that only
	// partially matches existing rows yields ErrIdentityConflict.
	Signup(ctx context.Context, username, email, codeHash string, sentAt time.Time) (*User, error)

	FindByID(ctx context.Context, id int64) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context, req ListUsersRequest) ([]User, error)

	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	DeleteByUsername(ctx context.Context, username string) error

	// ConsumeConfirmationCode clears the code only if it still equals hash.
	// It returns false when another request consumed or rotated it first.
	ConsumeConfirmationCode(ctx context.Context, id int64, hash string) (bool, error)
	ClearExpiredConfirmationCodes(ctx context.Context, sentBefore time.Time) (int64, error)
}

// CodeNotifier delivers a confirmation code to the user's mailbox.
type CodeNotifier interface {
	NotifyConfirmationCode(ctx context.Context, payload ConfirmationCodePayload) error
}
