package user

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"yamdb-backend/internal/shared/apperr"
)

const (
	MaxUsernameLength = 150
	MaxEmailLength    = 254
	MaxNameLength     = 150

	// ReservedUsername collides with the /users/me route.
	ReservedUsername = "me"
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

var notReserved = validation.By(func(value interface{}) error {
	v, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}
	if s, ok := v.(string); ok && strings.EqualFold(s, ReservedUsername) {
		return validation.NewError("validation_username_reserved", "username 'me' is not allowed")
	}
	return nil
})

func usernameRules() []validation.Rule {
	return []validation.Rule{
		validation.Length(1, MaxUsernameLength),
		validation.Match(usernamePattern).Error("username may contain only letters, digits and @/./+/-/_"),
		notReserved,
	}
}

func emailRules() []validation.Rule {
	return []validation.Rule{
		validation.Length(1, MaxEmailLength),
		is.EmailFormat,
	}
}

// ========================================
// AUTH
// ========================================

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (r SignupRequest) Validate() error {
	return apperr.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Username, append([]validation.Rule{validation.Required}, usernameRules()...)...),
		validation.Field(&r.Email, append([]validation.Rule{validation.Required}, emailRules()...)...),
	))
}

type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type TokenRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

func (r TokenRequest) Validate() error {
	return apperr.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, MaxUsernameLength)),
		validation.Field(&r.ConfirmationCode, validation.Required),
	))
}

type TokenResponse struct {
	Token string `json:"token"`
}

// ========================================
// USERS
// ========================================

type UserDTO struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      Role   `json:"role"`
}

type CreateUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      Role   `json:"role"`
}

func (r CreateUserRequest) Validate() error {
	return apperr.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Username, append([]validation.Rule{validation.Required}, usernameRules()...)...),
		validation.Field(&r.Email, append([]validation.Rule{validation.Required}, emailRules()...)...),
		validation.Field(&r.FirstName, validation.Length(0, MaxNameLength)),
		validation.Field(&r.LastName, validation.Length(0, MaxNameLength)),
		validation.Field(&r.Role, validation.In(RoleUser, RoleModerator, RoleAdmin)),
	))
}

// UpdateUserRequest is an admin partial update; nil fields are left alone.
type UpdateUserRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *Role   `json:"role"`
}

func (r UpdateUserRequest) Validate() error {
	return apperr.FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Username, append([]validation.Rule{validation.NilOrNotEmpty}, usernameRules()...)...),
		validation.Field(&r.Email, append([]validation.Rule{validation.NilOrNotEmpty}, emailRules()...)...),
		validation.Field(&r.FirstName, validation.Length(0, MaxNameLength)),
		validation.Field(&r.LastName, validation.Length(0, MaxNameLength)),
		validation.Field(&r.Role, validation.NilOrNotEmpty, validation.In(RoleUser, RoleModerator, RoleAdmin)),
	))
}

// UpdateProfileRequest is the self-service variant. It has no role field, so
// a role sent by the client is dropped during decoding.
type UpdateProfileRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
}

func (r UpdateProfileRequest) Validate() error {
	return r.AsUpdate().Validate()
}

func (r UpdateProfileRequest) AsUpdate() UpdateUserRequest {
	return UpdateUserRequest{
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Bio:       r.Bio,
	}
}

type ListUsersRequest struct {
	Search string `form:"search"`
}

// ========================================
// JOB PAYLOADS
// ========================================

// ConfirmationCodePayload is the body of the email:confirmation_code task.
type ConfirmationCodePayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Code     string `json:"code"`
}
