package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RegisterRequest creates a local account.
type RegisterRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Password string  `json:"password" validate:"required,min=6,max=72"`
	Email    string  `json:"email" validate:"required,email"`
	FullName string  `json:"full_name" validate:"required,max=100"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SocialLoginRequest carries the identity returned by a social provider.
// Provider verification is stubbed; the payload is trusted as-is.
type SocialLoginRequest struct {
	Provider     string  `json:"-" validate:"required,oneof=kakao naver google"`
	SocialID     string  `json:"social_id" validate:"required,max=100"`
	Email        string  `json:"email" validate:"omitempty,email"`
	FullName     string  `json:"full_name" validate:"omitempty,max=100"`
	ProfileImage *string `json:"profile_image" validate:"omitempty,url"`
}

// UpdateProfileRequest partially updates the caller's profile.
type UpdateProfileRequest struct {
	Email        *string `json:"email" validate:"omitempty,email"`
	FullName     *string `json:"full_name" validate:"omitempty,min=1,max=100"`
	Phone        *string `json:"phone" validate:"omitempty,max=30"`
	ProfileImage *string `json:"profile_image" validate:"omitempty,url"`
	Bio          *string `json:"bio" validate:"omitempty,max=2000"`
}

// AuthResponse returns the issued token and the user it belongs to.
type AuthResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	User        User      `json:"user"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	IsCoach  bool   `json:"is_coach"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}
