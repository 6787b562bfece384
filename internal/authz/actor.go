package authz

import "yamdb-backend/internal/domains/user"

// Actor is the caller of a service operation. The zero value is anonymous.
type Actor struct {
	UserID        int64
	Username      string
	Role          user.Role
	IsSuperuser   bool
	Authenticated bool
}

// Anonymous returns an unauthenticated actor.
func Anonymous() Actor {
	return Actor{}
}

// FromUser builds an authenticated actor from a stored user.
func FromUser(u *user.User) Actor {
	return Actor{
		UserID:        u.ID,
		Username:      u.Username,
		Role:          u.Role,
		IsSuperuser:   u.IsSuperuser,
		Authenticated: true,
	}
}

func (a Actor) IsAdmin() bool {
	return a.Authenticated && user.IsAdmin(a.Role, a.IsSuperuser)
}

func (a Actor) IsModerator() bool {
	return a.Authenticated && user.IsModerator(a.Role)
}

// subject is the casbin subject of the actor.
func (a Actor) subject() string {
	switch {
	case !a.Authenticated:
		return subjectAnonymous
	case a.IsAdmin():
		return string(user.RoleAdmin)
	case a.IsModerator():
		return string(user.RoleModerator)
	default:
		return string(user.RoleUser)
	}
}
