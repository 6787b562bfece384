package user

import (
	"time"
)

// User là tài khoản của platform. Không có password: đăng nhập bằng
// confirmation code gửi qua email.
type User struct {
	ID          int64  `json:"-"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	IsSuperuser bool   `json:"-"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Bio         string `json:"bio"`

	ConfirmationCodeHash *string    `json:"-"`
	ConfirmationSentAt   *time.Time `json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

// IsAdmin is true for the admin role and for superusers regardless of role.
func IsAdmin(role Role, isSuperuser bool) bool {
	return role == RoleAdmin || isSuperuser
}

func IsModerator(role Role) bool {
	return role == RoleModerator
}

// CodeValid reports whether an outstanding confirmation code exists that
// was issued less than ttl before now.
func (u *User) CodeValid(now time.Time, ttl time.Duration) bool {
	if u.ConfirmationCodeHash == nil || u.ConfirmationSentAt == nil {
		return false
	}
	return now.Sub(*u.ConfirmationSentAt) < ttl
}

func (u *User) ToDTO() UserDTO {
	return UserDTO{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Role:      u.Role,
	}
}
