package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tubededentifrice/twitter-clone/internal/audit"
	"github.com/tubededentifrice/twitter-clone/internal/cache"
	"github.com/tubededentifrice/twitter-clone/internal/domain"
	"github.com/tubededentifrice/twitter-clone/internal/repository"
	"github.com/tubededentifrice/twitter-clone/pkg/jwt"
	"github.com/tubededentifrice/twitter-clone/pkg/storage"
)

const profilePictureURLTTL = 24 * time.Hour

type userService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
	counts  cache.CountStore
	tokens  *jwt.Manager
	files   storage.Storage
}

// NewUserService creates the user service.
func NewUserService(
	users repository.UserRepository,
	follows repository.FollowRepository,
	counts cache.CountStore,
	tokens *jwt.Manager,
	files storage.Storage,
) UserService {
	return &userService{
		users:   users,
		follows: follows,
		counts:  counts,
		tokens:  tokens,
		files:   files,
	}
}

func (s *userService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsActive:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrEmailExists):
			return nil, ErrEmailTaken
		default:
			return nil, fmt.Errorf("create user: %w", err)
		}
	}

	audit.Log(ctx, audit.ActionRegister, user.ID, "user registered")

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		audit.Log(ctx, audit.ActionLoginFailed, user.ID, "login failed")
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		audit.Log(ctx, audit.ActionLoginFailed, user.ID, "login rejected for inactive account")
		return nil, ErrAccountDisabled
	}

	accessToken, refreshToken, accessExp, _, err := s.tokens.GenerateTokenPair(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("generate tokens: %w", err)
	}

	audit.Log(ctx, audit.ActionLogin, user.ID, "user logged in")

	return &domain.AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExp,
	}, nil
}

func (s *userService) RefreshToken(ctx context.Context, req *domain.RefreshTokenRequest) (*domain.AuthResponse, error) {
	accessToken, refreshToken, accessExp, _, err := s.tokens.RefreshTokens(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	claims, err := s.tokens.ValidateToken(accessToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	audit.Log(ctx, audit.ActionRefreshToken, user.ID, "tokens refreshed")

	return &domain.AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExp,
	}, nil
}

func (s *userService) GetProfile(ctx context.Context, userID, viewerID uint) (*domain.ProfileResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return s.buildProfile(ctx, user, viewerID)
}

func (s *userService) GetProfileByUsername(ctx context.Context, username string, viewerID uint) (*domain.ProfileResponse, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return s.buildProfile(ctx, user, viewerID)
}

func (s *userService) buildProfile(ctx context.Context, user *domain.User, viewerID uint) (*domain.ProfileResponse, error) {
	followerCount, err := cachedFollowerCount(ctx, s.counts, s.follows, user.ID)
	if err != nil {
		return nil, err
	}

	followingCount, err := s.follows.CountFollowing(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("count following: %w", err)
	}

	profile := &domain.ProfileResponse{
		UserResponse:   user.ToResponse(),
		FollowerCount:  followerCount,
		FollowingCount: followingCount,
	}

	if viewerID != 0 && viewerID != user.ID {
		followed, err := s.follows.IsFollowing(ctx, viewerID, user.ID)
		if err != nil {
			return nil, fmt.Errorf("check following: %w", err)
		}
		profile.IsFollowed = &followed
	}

	return profile, nil
}

func (s *userService) UpdateProfilePicture(ctx context.Context, userID uint, payload string) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	data, contentType, err := decodeImagePayload(payload)
	if err != nil {
		return "", ErrInvalidImage
	}

	key := fmt.Sprintf("uploads/profile_%d%s", userID, extensionFor(contentType))
	if err := s.files.Write(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", fmt.Errorf("store profile picture: %w", err)
	}

	url, err := s.files.GetURL(ctx, key, profilePictureURLTTL)
	if err != nil {
		return "", fmt.Errorf("resolve picture url: %w", err)
	}

	if err := s.users.UpdateProfilePicture(ctx, userID, url); err != nil {
		return "", fmt.Errorf("update profile picture: %w", err)
	}

	audit.Log(ctx, audit.ActionUpdatePicture, user.ID, "profile picture updated")
	return url, nil
}

// decodeImagePayload decodes a base64 image, accepting an optional data-URL
// header ("data:image/png;base64,..."). The content type comes from the
// header when present, otherwise from sniffing the decoded bytes.
func decodeImagePayload(payload string) ([]byte, string, error) {
	contentType := ""
	if strings.HasPrefix(payload, "data:") {
		header, rest, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, "", errors.New("malformed data url")
		}
		contentType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		payload = rest
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64: %w", err)
	}
	if len(data) == 0 {
		return nil, "", errors.New("empty image")
	}

	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", errors.New("not an image")
	}

	return data, contentType, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
