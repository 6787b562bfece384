package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"yamdb-backend/internal/authz"
	"yamdb-backend/internal/domains/user"
	"yamdb-backend/internal/shared/apperr"
)

// ServiceInterface là business API của user domain mà handler phụ thuộc vào.
type ServiceInterface interface {
	Signup(ctx context.Context, req user.SignupRequest) (*user.SignupResponse, error)
	IssueToken(ctx context.Context, req user.TokenRequest) (*user.TokenResponse, error)

	GetProfile(ctx context.Context, actor authz.Actor) (*user.UserDTO, error)
	UpdateProfile(ctx context.Context, actor authz.Actor, req user.UpdateProfileRequest) (*user.UserDTO, error)

	ListUsers(ctx context.Context, actor authz.Actor, req user.ListUsersRequest) ([]user.UserDTO, error)
	CreateUser(ctx context.Context, actor authz.Actor, req user.CreateUserRequest) (*user.UserDTO, error)
	GetUser(ctx context.Context, actor authz.Actor, username string) (*user.UserDTO, error)
	UpdateUser(ctx context.Context, actor authz.Actor, username string, req user.UpdateUserRequest) (*user.UserDTO, error)
	DeleteUser(ctx context.Context, actor authz.Actor, username string) error

	// Identify loads the actor behind a verified access token.
	Identify(ctx context.Context, userID int64) (authz.Actor, error)
	PurgeExpiredCodes(ctx context.Context) (int64, error)
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	GenerateAccessToken(userID int64, username, role string) (string, error)
}

type Config struct {
	CodeTTL    time.Duration
	BcryptCost int
}

type userService struct {
	repo       user.Repository
	tokens     TokenIssuer
	authorizer authz.Authorizer
	notifier   user.CodeNotifier
	cfg        Config
	now        func() time.Time
}

func NewUserService(
	repo user.Repository,
	tokens TokenIssuer,
	authorizer authz.Authorizer,
	notifier user.CodeNotifier,
	cfg Config,
) ServiceInterface {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.CodeTTL == 0 {
		cfg.CodeTTL = 24 * time.Hour
	}
	return &userService{
		repo:       repo,
		tokens:     tokens,
		authorizer: authorizer,
		notifier:   notifier,
		cfg:        cfg,
		now:        time.Now,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

// Signup tạo user (hoặc lấy user đã có với đúng cặp username/email), sinh
// confirmation code mới và gửi qua email.
func (s *userService) Signup(ctx context.Context, req user.SignupRequest) (*user.SignupResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	code, err := generateConfirmationCode()
	if err != nil {
		return nil, fmt.Errorf("generate confirmation code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash confirmation code: %w", err)
	}

	u, err := s.repo.Signup(ctx, req.Username, req.Email, string(hash), s.now())
	if err != nil {
		return nil, err
	}

	// User và code đã commit. Nếu gửi thất bại request trả 500, client gọi
	// lại signup để nhận code mới.
	if err := s.notifier.NotifyConfirmationCode(ctx, user.ConfirmationCodePayload{
		Username: u.Username,
		Email:    u.Email,
		Code:     code,
	}); err != nil {
		return nil, fmt.Errorf("notify confirmation code: %w", err)
	}

	return &user.SignupResponse{Username: u.Username, Email: u.Email}, nil
}

// IssueToken đổi confirmation code lấy access token. Mỗi code chỉ dùng
// được một lần.
func (s *userService) IssueToken(ctx context.Context, req user.TokenRequest) (*user.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	if !u.CodeValid(s.now(), s.cfg.CodeTTL) {
		return nil, user.ErrInvalidConfirmationCode
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.ConfirmationCodeHash), []byte(req.ConfirmationCode)); err != nil {
		return nil, user.ErrInvalidConfirmationCode
	}

	consumed, err := s.repo.ConsumeConfirmationCode(ctx, u.ID, *u.ConfirmationCodeHash)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, user.ErrInvalidConfirmationCode
	}

	token, err := s.tokens.GenerateAccessToken(u.ID, u.Username, u.Role.String())
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &user.TokenResponse{Token: token}, nil
}

func (s *userService) Identify(ctx context.Context, userID int64) (authz.Actor, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return authz.Anonymous(), err
	}
	return authz.FromUser(u), nil
}

func (s *userService) PurgeExpiredCodes(ctx context.Context) (int64, error) {
	return s.repo.ClearExpiredConfirmationCodes(ctx, s.now().Add(-s.cfg.CodeTTL))
}

// ========================================
// SELF PROFILE
// ========================================

func (s *userService) GetProfile(ctx context.Context, actor authz.Actor) (*user.UserDTO, error) {
	if !actor.Authenticated {
		return nil, apperr.ErrUnauthorized
	}
	u, err := s.repo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor authz.Actor, req user.UpdateProfileRequest) (*user.UserDTO, error) {
	if !actor.Authenticated {
		return nil, apperr.ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return s.applyUpdate(ctx, u, req.AsUpdate())
}

// ========================================
// ADMIN USER MANAGEMENT
// ========================================

func (s *userService) ListUsers(ctx context.Context, actor authz.Actor, req user.ListUsersRequest) ([]user.UserDTO, error) {
	if err := s.authorizer.Authorize(actor, authz.Users, authz.Read, nil); err != nil {
		return nil, err
	}

	users, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, err
	}
	out := make([]user.UserDTO, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToDTO())
	}
	return out, nil
}

func (s *userService) CreateUser(ctx context.Context, actor authz.Actor, req user.CreateUserRequest) (*user.UserDTO, error) {
	if err := s.authorizer.Authorize(actor, authz.Users, authz.Write, nil); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = user.RoleUser
	}
	u := &user.User{
		Username:  req.Username,
		Email:     req.Email,
		Role:      role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) GetUser(ctx context.Context, actor authz.Actor, username string) (*user.UserDTO, error) {
	if err := s.authorizer.Authorize(actor, authz.Users, authz.Read, nil); err != nil {
		return nil, err
	}
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor authz.Actor, username string, req user.UpdateUserRequest) (*user.UserDTO, error) {
	if err := s.authorizer.Authorize(actor, authz.Users, authz.Write, nil); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.applyUpdate(ctx, u, req)
}

func (s *userService) DeleteUser(ctx context.Context, actor authz.Actor, username string) error {
	if err := s.authorizer.Authorize(actor, authz.Users, authz.Write, nil); err != nil {
		return err
	}
	return s.repo.DeleteByUsername(ctx, username)
}

// applyUpdate patches u. Changing username, email or role invalidates any
// outstanding confirmation code.
func (s *userService) applyUpdate(ctx context.Context, u *user.User, req user.UpdateUserRequest) (*user.UserDTO, error) {
	identityChanged := false

	if req.Username != nil && *req.Username != u.Username {
		u.Username = *req.Username
		identityChanged = true
	}
	if req.Email != nil && *req.Email != u.Email {
		u.Email = *req.Email
		identityChanged = true
	}
	if req.Role != nil && *req.Role != u.Role {
		u.Role = *req.Role
		identityChanged = true
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}

	if identityChanged {
		u.ConfirmationCodeHash = nil
		u.ConfirmationSentAt = nil
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

// generateConfirmationCode trả về 32 random bytes dạng hex (64 ký tự).
func generateConfirmationCode() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
