package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/kickoff-coach-api/internal/models"
	"github.com/noah-isme/kickoff-coach-api/internal/repository"
	appErrors "github.com/noah-isme/kickoff-coach-api/pkg/errors"
)

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// AuthService handles accounts, credentials and access tokens.
type AuthService struct {
	store     repository.Store
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance. cache may be nil.
func NewAuthService(store repository.Store, cache *CacheService, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 24 * time.Hour
	}
	return &AuthService{store: store, cache: cache, validator: validate, logger: logger, config: config}
}

// Register creates a local account and signs the user in.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid registration payload")
	}
	user, err := s.CreateUser(ctx, models.User{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		FullName: strings.TrimSpace(req.FullName),
		Phone:    trimOptional(req.Phone),
	}, req.Password)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// CreateUser hashes password and stores the user. An empty password leaves
// the account without local credentials.
func (s *AuthService) CreateUser(ctx context.Context, user models.User, password string) (*models.User, error) {
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to hash password")
		}
		user.PasswordHash = string(hash)
	}
	created, err := s.store.InsertUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "username already exists")
		}
		return nil, appErrors.Internal(err, "failed to create user")
	}
	s.logger.Info("user created", zap.Int64("user_id", created.ID), zap.String("username", created.Username))
	return created, nil
}

// Login authenticates a user by username and password.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid login payload")
	}

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to fetch user")
	}
	if user == nil || user.PasswordHash == "" {
		return nil, appErrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}
	return s.issue(user)
}

// SocialLogin signs in with an identity asserted by a social provider,
// creating the account on first use. The provider token is not verified.
func (s *AuthService) SocialLogin(ctx context.Context, req models.SocialLoginRequest) (*models.AuthResponse, error) {
	req.Provider = strings.ToLower(strings.TrimSpace(req.Provider))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid social login payload")
	}

	user, err := s.store.GetUserBySocial(ctx, req.Provider, req.SocialID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to fetch user")
	}
	if user == nil {
		provider, socialID := req.Provider, req.SocialID
		fullName := strings.TrimSpace(req.FullName)
		if fullName == "" {
			fullName = provider + " user"
		}
		candidate := models.User{
			Username:       fmt.Sprintf("%s_%s", provider, socialID),
			Email:          strings.TrimSpace(req.Email),
			FullName:       fullName,
			ProfileImage:   trimOptional(req.ProfileImage),
			SocialProvider: &provider,
			SocialID:       &socialID,
		}
		user, err = s.CreateUser(ctx, candidate, "")
		if err != nil && appErrors.FromError(err).Code == appErrors.ErrConflict.Code {
			candidate.Username = fmt.Sprintf("%s_%s", provider, uuid.NewString()[:8])
			user, err = s.CreateUser(ctx, candidate, "")
		}
		if err != nil {
			return nil, err
		}
	}
	return s.issue(user)
}

// Me returns the user behind the claims.
func (s *AuthService) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load user")
	}
	if user == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	// Cached listings embed the coach's public profile.
	if user.IsCoach {
		s.cache.Invalidate(ctx, cachePatternCoaches, cachePatternLessons)
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of req to the user.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req models.UpdateProfileRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid profile payload")
	}
	user, err := s.store.UpdateUser(ctx, userID, func(u *models.User) {
		if req.Email != nil {
			u.Email = strings.TrimSpace(*req.Email)
		}
		if req.FullName != nil {
			u.FullName = strings.TrimSpace(*req.FullName)
		}
		if req.Phone != nil {
			u.Phone = trimOptional(req.Phone)
		}
		if req.ProfileImage != nil {
			u.ProfileImage = trimOptional(req.ProfileImage)
		}
		if req.Bio != nil {
			u.Bio = trimOptional(req.Bio)
		}
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to update user")
	}
	if user == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	return user, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	}, jwt.WithIssuer(s.config.Issuer))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) issue(user *models.User) (*models.AuthResponse, error) {
	token, issuedAt, err := s.generateAccessToken(user)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create access token")
	}
	return &models.AuthResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:    issuedAt,
		User:        *user,
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	claims := &models.JWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		IsCoach:  user.IsCoach,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}
