package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"yamdb-backend/internal/authz"
	"yamdb-backend/internal/domains/user"
	"yamdb-backend/internal/shared/apperr"
)

// ========================================
// FAKES
// ========================================

type fakeRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*user.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[int64]*user.User{}}
}

func (r *fakeRepo) clone(u *user.User) *user.User {
	cp := *u
	return &cp
}

func (r *fakeRepo) Signup(_ context.Context, username, email, codeHash string, sentAt time.Time) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matches []*user.User
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			matches = append(matches, u)
		}
	}
	switch {
	case len(matches) == 0:
		r.nextID++
		u := &user.User{ID: r.nextID, Username: username, Email: email, Role: user.RoleUser}
		r.users[u.ID] = u
		matches = append(matches, u)
	case len(matches) > 1, matches[0].Username != username, matches[0].Email != email:
		return nil, user.ErrIdentityConflict
	}
	matches[0].ConfirmationCodeHash = &codeHash
	matches[0].ConfirmationSentAt = &sentAt
	return r.clone(matches[0]), nil
}

func (r *fakeRepo) FindByID(_ context.Context, id int64) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return r.clone(u), nil
}

func (r *fakeRepo) FindByUsername(_ context.Context, username string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return r.clone(u), nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeRepo) List(_ context.Context, req user.ListUsersRequest) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []user.User
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(req.Search)) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *fakeRepo) conflict(u *user.User) error {
	for _, other := range r.users {
		if other.ID == u.ID {
			continue
		}
		if other.Username == u.Username {
			return user.ErrUsernameTaken
		}
		if other.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	return nil
}

func (r *fakeRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.conflict(u); err != nil {
		return err
	}
	r.nextID++
	u.ID = r.nextID
	r.users[u.ID] = r.clone(u)
	return nil
}

func (r *fakeRepo) Update(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return user.ErrUserNotFound
	}
	if err := r.conflict(u); err != nil {
		return err
	}
	r.users[u.ID] = r.clone(u)
	return nil
}

func (r *fakeRepo) DeleteByUsername(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if u.Username == username {
			delete(r.users, id)
			return nil
		}
	}
	return user.ErrUserNotFound
}

func (r *fakeRepo) ConsumeConfirmationCode(_ context.Context, id int64, hash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.ConfirmationCodeHash == nil || *u.ConfirmationCodeHash != hash {
		return false, nil
	}
	u.ConfirmationCodeHash = nil
	u.ConfirmationSentAt = nil
	return true, nil
}

func (r *fakeRepo) ClearExpiredConfirmationCodes(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.ConfirmationSentAt != nil && u.ConfirmationSentAt.Before(before) {
			u.ConfirmationCodeHash = nil
			u.ConfirmationSentAt = nil
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type fakeNotifier struct {
	sent []user.ConfirmationCodePayload
	err  error
}

func (n *fakeNotifier) NotifyConfirmationCode(_ context.Context, p user.ConfirmationCodePayload) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, p)
	return nil
}

func (n *fakeNotifier) lastCode() string {
	return n.sent[len(n.sent)-1].Code
}

type fakeTokens struct{}

func (fakeTokens) GenerateAccessToken(userID int64, username, role string) (string, error) {
	return fmt.Sprintf("token:%d:%s:%s", userID, username, role), nil
}

// ========================================
// HELPERS
// ========================================

type fixture struct {
	svc      *userService
	repo     *fakeRepo
	notifier *fakeNotifier
	clock    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	enforcer, err := authz.NewEnforcer("")
	require.NoError(t, err)

	f := &fixture{
		repo:     newFakeRepo(),
		notifier: &fakeNotifier{},
		clock:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	svc := NewUserService(f.repo, fakeTokens{}, enforcer, f.notifier, Config{
		CodeTTL:    time.Hour,
		BcryptCost: bcrypt.MinCost,
	}).(*userService)
	svc.now = func() time.Time { return f.clock }
	f.svc = svc
	return f
}

func (f *fixture) signup(t *testing.T, username, email string) string {
	t.Helper()
	_, err := f.svc.Signup(context.Background(), user.SignupRequest{Username: username, Email: email})
	require.NoError(t, err)
	return f.notifier.lastCode()
}

func (f *fixture) actor(t *testing.T, username string) authz.Actor {
	t.Helper()
	u, err := f.repo.FindByUsername(context.Background(), username)
	require.NoError(t, err)
	return authz.FromUser(u)
}

func (f *fixture) seedAdmin(t *testing.T) authz.Actor {
	t.Helper()
	u := &user.User{Username: "admin", Email: "admin@yamdb.ru", Role: user.RoleAdmin}
	require.NoError(t, f.repo.Create(context.Background(), u))
	return authz.FromUser(u)
}

// ========================================
// SIGNUP & TOKEN
// ========================================

func TestSignup_CreatesUserAndSendsCode(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Signup(context.Background(), user.SignupRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "alice@example.com", resp.Email)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "alice@example.com", f.notifier.sent[0].Email)
	assert.Len(t, f.notifier.sent[0].Code, 64)
}

func TestSignup_TwiceRotatesCodeAndKeepsOneUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.signup(t, "alice", "alice@example.com")
	second := f.signup(t, "alice", "alice@example.com")

	assert.Equal(t, 1, f.repo.count())
	assert.NotEqual(t, first, second)

	_, err := f.svc.IssueToken(ctx, user.TokenRequest{Username: "alice", ConfirmationCode: first})
	assert.ErrorIs(t, err, user.ErrInvalidConfirmationCode)

	tok, err := f.svc.IssueToken(ctx, user.TokenRequest{Username: "alice", ConfirmationCode: second})
	require.NoError(t, err)
	assert.Equal(t, "token:1:alice:user", tok.Token)
}

func TestSignup_PartialMatchConflicts(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice", "alice@example.com")

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"same username other email", "alice", "other@example.com"},
		{"same email other username", "bob", "alice@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Signup(context.Background(), user.SignupRequest{Username: tt.username, Email: tt.email})
			assert.ErrorIs(t, err, user.ErrIdentityConflict)
			assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
		})
	}
	assert.Equal(t, 1, f.repo.count())
}

func TestSignup_RejectsReservedUsername(t *testing.T) {
	f := newFixture(t)

	for _, name := range []string{"me", "Me", "ME"} {
		_, err := f.svc.Signup(context.Background(), user.SignupRequest{Username: name, Email: "me@example.com"})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), name)
	}
	assert.Zero(t, f.repo.count())
}

func TestSignup_NotifierFailureKeepsUser(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("queue down")

	_, err := f.svc.Signup(context.Background(), user.SignupRequest{Username: "alice", Email: "alice@example.com"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Equal(t, 1, f.repo.count())
}

func TestIssueToken_OneTimeUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	code := f.signup(t, "alice", "alice@example.com")

	_, err := f.svc.IssueToken(ctx, user.TokenRequest{Username: "alice", ConfirmationCode: code})
	require.NoError(t, err)

	_, err = f.svc.IssueToken(ctx, user.TokenRequest{Username: "alice", ConfirmationCode: code})
	assert.ErrorIs(t, err, user.ErrInvalidConfirmationCode)
}

func TestIssueToken_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	code := f.signup(t, "alice", "alice@example.com")

	_, err := f.svc.IssueToken(ctx, user.TokenRequest{Username: "nobody", ConfirmationCode: code})
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = f.svc.IssueToken(ctx, user.TokenRequest{Username: "alice", ConfirmationCode: "wrong"})
	assert.ErrorIs(t, err, user.ErrInvalidConfirmationCode)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestIssueToken_ExpiredCode(t *testing.T) {
	f := newFixture(t)
	code := f.signup(t, "alice", "alice@example.com")

	f.clock = f.clock.Add(2 * time.Hour)

	_, err := f.svc.IssueToken(context.Background(), user.TokenRequest{Username: "alice", ConfirmationCode: code})
	assert.ErrorIs(t, err, user.ErrInvalidConfirmationCode)
}

func TestIssueToken_InvalidatedByEmailChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	code := f.signup(t, "alice", "alice@example.com")

	email := "alice@new.example.com"
	_, err := f.svc.UpdateProfile(ctx, f.actor(t, "alice"), user.UpdateProfileRequest{Email: &email})
	require.NoError(t, err)

	_, err = f.svc.IssueToken(ctx, user.TokenRequest{Username: "alice", ConfirmationCode: code})
	assert.ErrorIs(t, err, user.ErrInvalidConfirmationCode)
}

func TestIssueToken_BioChangeKeepsCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	code := f.signup(t, "alice", "alice@example.com")

	bio := "film buff"
	_, err := f.svc.UpdateProfile(ctx, f.actor(t, "alice"), user.UpdateProfileRequest{Bio: &bio})
	require.NoError(t, err)

	_, err = f.svc.IssueToken(ctx, user.TokenRequest{Username: "alice", ConfirmationCode: code})
	assert.NoError(t, err)
}

func TestPurgeExpiredCodes(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice", "alice@example.com")
	f.clock = f.clock.Add(90 * time.Minute)
	f.signup(t, "bob", "bob@example.com")

	n, err := f.svc.PurgeExpiredCodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

// ========================================
// PROFILE & ADMIN
// ========================================

func TestUpdateProfile_RequiresAuthentication(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetProfile(context.Background(), authz.Anonymous())
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestUpdateProfile_CannotRenameToMe(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice", "alice@example.com")

	me := "me"
	_, err := f.svc.UpdateProfile(context.Background(), f.actor(t, "alice"), user.UpdateProfileRequest{Username: &me})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestAdminOperations_RequireAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signup(t, "alice", "alice@example.com")
	alice := f.actor(t, "alice")

	_, err := f.svc.CreateUser(ctx, alice, user.CreateUserRequest{Username: "bob", Email: "bob@example.com"})
	assert.ErrorIs(t, err, authz.ErrAdminOnly)

	err = f.svc.DeleteUser(ctx, alice, "alice")
	assert.ErrorIs(t, err, authz.ErrAdminOnly)

	_, err = f.svc.ListUsers(ctx, alice, user.ListUsersRequest{})
	assert.ErrorIs(t, err, authz.ErrAdminOnlyRead)
	_, err = f.svc.GetUser(ctx, authz.Anonymous(), "alice")
	assert.ErrorIs(t, err, authz.ErrAdminOnlyRead)

	// /users/me vẫn dùng được
	me, err := f.svc.GetProfile(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)
}

func TestAdminOperations_CRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.seedAdmin(t)

	created, err := f.svc.CreateUser(ctx, admin, user.CreateUserRequest{
		Username: "bob", Email: "bob@example.com", Role: user.RoleModerator,
	})
	require.NoError(t, err)
	assert.Equal(t, user.RoleModerator, created.Role)

	_, err = f.svc.CreateUser(ctx, admin, user.CreateUserRequest{Username: "bob", Email: "bob2@example.com"})
	assert.ErrorIs(t, err, user.ErrUsernameTaken)

	role := user.RoleAdmin
	updated, err := f.svc.UpdateUser(ctx, admin, "bob", user.UpdateUserRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, updated.Role)

	list, err := f.svc.ListUsers(ctx, admin, user.ListUsersRequest{Search: "bo"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "bob", list[0].Username)

	require.NoError(t, f.svc.DeleteUser(ctx, admin, "bob"))
	_, err = f.svc.GetUser(ctx, admin, "bob")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestIdentify(t *testing.T) {
	f := newFixture(t)
	admin := f.seedAdmin(t)

	actor, err := f.svc.Identify(context.Background(), admin.UserID)
	require.NoError(t, err)
	assert.True(t, actor.IsAdmin())

	_, err = f.svc.Identify(context.Background(), 999)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
