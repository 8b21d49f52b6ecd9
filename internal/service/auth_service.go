package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MStartsev/postcard/internal/audit"
	"github.com/MStartsev/postcard/internal/domain"
	"github.com/MStartsev/postcard/internal/images"
	"github.com/MStartsev/postcard/internal/repository"
	"github.com/MStartsev/postcard/pkg/log"
	"github.com/MStartsev/postcard/pkg/storage"
	"github.com/MStartsev/postcard/pkg/token"
)

const avatarURLTTL = 24 * time.Hour

// authService implements AuthService.
type authService struct {
	users      repository.UserRepository
	tokens     *token.Manager
	storage    storage.Storage
	normalizer *images.Normalizer
}

// NewAuthService creates the auth service.
func NewAuthService(users repository.UserRepository, tokens *token.Manager, store storage.Storage, normalizer *images.Normalizer) AuthService {
	return &authService{
		users:      users,
		tokens:     tokens,
		storage:    store,
		normalizer: normalizer,
	}
}

// Register creates an account and returns a fresh session. Validation runs
// before any repository or storage work.
func (s *authService) Register(ctx context.Context, req *domain.RegisterRequest, avatar *domain.Upload) (*domain.Session, error) {
	l := log.Ctx(ctx)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error().Err(err).Msg("failed to hash password")
		return nil, err
	}

	user := &domain.User{
		Email:        req.Email,
		Login:        req.Login,
		PasswordHash: string(hashed),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrDuplicateAccount
		}
		l.Error().Err(err).Msg("failed to create user")
		return nil, err
	}

	// Avatar upload is best-effort, mirroring the client behaviour: a
	// broken photo must not orphan the freshly created account.
	if avatar != nil {
		if url, err := s.storeAvatar(ctx, user.ID, avatar); err != nil {
			l.Warn().Err(err).Str(log.FieldUserID, user.ID).Msg("avatar upload failed, account kept without avatar")
		} else {
			if err := s.users.UpdateAvatar(ctx, user.ID, &url); err != nil {
				l.Warn().Err(err).Str(log.FieldUserID, user.ID).Msg("failed to attach avatar url")
			} else {
				user.Avatar = &url
			}
		}
	}

	audit.Log(ctx, audit.ActionRegister, user.ID, "user registered")

	return s.newSession(user)
}

// Login authenticates credentials. The email shape is checked locally
// before the repository is consulted.
func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.Session, error) {
	l := log.Ctx(ctx)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			audit.LogWithDetail(ctx, audit.ActionLoginFailed, "", req.Email, "login failed: user not found")
			return nil, ErrInvalidCredentials
		}
		l.Error().Err(err).Msg("failed to get user by email")
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		audit.LogWithDetail(ctx, audit.ActionLoginFailed, user.ID, req.Email, "login failed: wrong password")
		return nil, ErrInvalidCredentials
	}

	audit.Log(ctx, audit.ActionLogin, user.ID, "user logged in")

	return s.newSession(user)
}

// Logout revokes the presented token. Unconditionally treated as a
// success: the client clears its snapshot either way.
func (s *authService) Logout(ctx context.Context, rawToken, userID string) {
	s.tokens.Revoke(rawToken)
	audit.Log(ctx, audit.ActionLogout, userID, "user logged out")
}

// GetProfile returns the profile for a user ID.
func (s *authService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to get user")
		return nil, err
	}

	profile := user.ToProfile()
	return &profile, nil
}

func (s *authService) newSession(user *domain.User) (*domain.Session, error) {
	profile := user.ToProfile()

	signed, expiresAt, err := s.tokens.Generate(user.ID, user.Email, profile.Login)
	if err != nil {
		return nil, err
	}

	return &domain.Session{
		Profile:   profile,
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

// storeAvatar normalizes the upload and writes it before the URL is
// attached, so no account ever references a pending blob.
func (s *authService) storeAvatar(ctx context.Context, userID string, avatar *domain.Upload) (string, error) {
	buf, err := s.normalizer.Normalize(avatar.Reader)
	if err != nil {
		return "", fmt.Errorf("normalize avatar: %w", err)
	}

	key := fmt.Sprintf("avatars/%s/%s.jpg", userID, uuid.New().String())
	if err := s.storage.Write(ctx, key, buf, int64(buf.Len()), "image/jpeg"); err != nil {
		return "", fmt.Errorf("write avatar: %w", err)
	}

	url, err := s.storage.GetURL(ctx, key, avatarURLTTL)
	if err != nil {
		return "", fmt.Errorf("resolve avatar url: %w", err)
	}
	return url, nil
}
