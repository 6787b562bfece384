package user

import "yamdb-backend/internal/shared/apperr"

var (
	ErrUserNotFound = apperr.New(apperr.KindNotFound, "USER_NOT_FOUND", "user not found")

	ErrUsernameTaken = apperr.ConflictField("USERNAME_TAKEN", "username", "a user with that username already exists")
	ErrEmailTaken    = apperr.ConflictField("EMAIL_TAKEN", "email", "a user with that email already exists")

	// ErrIdentityConflict: signup pair matches an account only partially.
	ErrIdentityConflict = apperr.New(apperr.KindConflict, "SIGNUP_CONFLICT",
		"username or email is already registered to another account")

	ErrInvalidConfirmationCode = apperr.Field("INVALID_CONFIRMATION_CODE", "confirmation_code",
		"invalid or expired confirmation code")
)
