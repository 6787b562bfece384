// Package authz decides whether an Actor may read or write a resource.
package authz

import (
	"fmt"
	"os"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"yamdb-backend/internal/shared/apperr"
)

type Object string

const (
	Categories Object = "categories"
	Genres     Object = "genres"
	Titles     Object = "titles"
	Users      Object = "users"
	Reviews    Object = "reviews"
	Comments   Object = "comments"
)

type Action string

const (
	Read  Action = "read"
	Write Action = "write"
)

const (
	subjectAnonymous = "anonymous"
	relationOwner    = "owner"
	relationOther    = "other"
)

var (
	ErrAdminOnly = apperr.New(apperr.KindForbidden, "ADMIN_ONLY",
		"Adding or editing content not allowed.")
	ErrAdminOnlyRead = apperr.New(apperr.KindForbidden, "ADMIN_ONLY_READ",
		"Only administrators can view this.")
	ErrOwnerOrModerator = apperr.New(apperr.KindForbidden, "OWNER_OR_MODERATOR_ONLY",
		"Only owner or moderator can perform this.")
)

// Authorizer is what services depend on.
type Authorizer interface {
	Authorize(actor Actor, obj Object, act Action, ownerID *int64) error
}

type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer loads the embedded model. When policyPath names an existing
// file its policy replaces the embedded one.
func NewEnforcer(policyPath string) (*Enforcer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if policyPath != "" && fileExists(policyPath) {
		enforcer, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(policyPath))
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadEmbeddedPolicy(enforcer, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	return &Enforcer{enforcer: enforcer}, nil
}

func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch parts[0] {
		case "p":
			if len(parts) != 5 {
				return fmt.Errorf("malformed policy line %q", line)
			}
			if _, err := enforcer.AddPolicy(parts[1], parts[2], parts[3], parts[4]); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", parts[1:], err)
			}
		case "g":
			if len(parts) != 3 {
				return fmt.Errorf("malformed grouping line %q", line)
			}
			if _, err := enforcer.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return fmt.Errorf("failed to add grouping policy %v: %w", parts[1:], err)
			}
		}
	}
	return nil
}

// Authorize returns nil when the actor may perform act on obj. ownerID is the
// author of the target resource, nil for resources without an owner.
func (e *Enforcer) Authorize(actor Actor, obj Object, act Action, ownerID *int64) error {
	rel := relationOther
	if actor.Authenticated && ownerID != nil && *ownerID == actor.UserID {
		rel = relationOwner
	}

	allowed, err := e.enforcer.Enforce(actor.subject(), string(obj), string(act), rel)
	if err != nil {
		return apperr.ErrInternal.WithErr(fmt.Errorf("enforcement failed: %w", err))
	}
	if allowed {
		return nil
	}

	if ownerScoped(obj) {
		if !actor.Authenticated {
			return apperr.ErrUnauthorized
		}
		return ErrOwnerOrModerator
	}
	if act == Read {
		return ErrAdminOnlyRead
	}
	return ErrAdminOnly
}

func ownerScoped(obj Object) bool {
	return obj == Reviews || obj == Comments
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
