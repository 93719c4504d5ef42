package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"sabitax/internal/middleware"
	"sabitax/internal/model"
	"sabitax/internal/repository"
	"sabitax/internal/streak"
	"sabitax/pkg/apperr"
	"sabitax/pkg/reference"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// --- DTOs ---

type RegisterRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	Name         string `json:"name" binding:"required"`
	ReferralCode string `json:"referral_code"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
}

type AuthUserResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	ReferralCode string `json:"referral_code"`
	StreakDays   int    `json:"streak_days"`
}

type AuthResponse struct {
	User  AuthUserResponse `json:"user"`
	Token TokenResponse    `json:"token"`
}

// --- Interface ---

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo        repository.UserRepository
	txManager       repository.TransactionManager
	referralService ReferralService
	now             func() time.Time
}

// NewAuthService returns a new instance of AuthService
func NewAuthService(db *gorm.DB, referralService ReferralService) AuthService {
	return &authService{
		userRepo:        repository.NewUserRepository(db),
		txManager:       repository.NewTransactionManager(db),
		referralService: referralService,
		now:             time.Now,
	}
}

// --- Implementation ---

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Conflict("an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	today := s.now()
	user := model.User{
		Email:          req.Email,
		PasswordHash:   string(hash),
		Name:           req.Name,
		IsActive:       true,
		ReferralCode:   reference.ReferralCode(req.Name),
		StreakDays:     1, // registration counts as the first active day
		LastActiveDate: &today,
	}

	if err := s.userRepo.Create(ctx, &user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Best-effort: an invalid code does not block the signup
	if req.ReferralCode != "" && s.referralService != nil {
		_, _ = s.referralService.ApplyCode(ctx, user.ID, req.ReferralCode)
	}

	tokens, err := s.issueTokens(ctx, &user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: toAuthUser(&user), Token: *tokens}, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperr.Unauthorized("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.Unauthorized("invalid email or password")
	}

	if !user.IsActive {
		return nil, apperr.Unauthorized("account is deactivated")
	}

	s.advanceStreak(ctx, user)

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: toAuthUser(user), Token: *tokens}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	stored, err := s.userRepo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if s.now().After(stored.ExpiresAt) {
		_ = s.userRepo.DeleteRefreshToken(ctx, refreshToken)
		return nil, apperr.Unauthorized("refresh token expired")
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("invalid refresh token")
	}

	// Rotate: the old token is single-use
	if err := s.userRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.userRepo.DeleteRefreshToken(ctx, refreshToken)
}

// --- Helpers ---

// advanceStreak applies the daily-activity state machine and persists the
// result. Best-effort: a failed streak write never blocks a login.
func (s *authService) advanceStreak(ctx context.Context, user *model.User) {
	state, changed := streak.Advance(streak.State{
		Days:       user.StreakDays,
		LastActive: user.LastActiveDate,
	}, s.now())
	if !changed {
		return
	}

	if err := s.userRepo.UpdateStreak(ctx, user.ID, state.Days, *state.LastActive); err == nil {
		user.StreakDays = state.Days
		user.LastActiveDate = state.LastActive
	}
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (*TokenResponse, error) {
	now := s.now()

	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"iat": now.Unix(),
		"exp": now.Add(accessTokenTTL).Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString(middleware.GetJWTSecret())
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := randomToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.userRepo.CreateRefreshToken(ctx, &model.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: now.Add(refreshTokenTTL),
	}); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func toAuthUser(user *model.User) AuthUserResponse {
	return AuthUserResponse{
		ID:           user.ID.String(),
		Email:        user.Email,
		Name:         user.Name,
		ReferralCode: user.ReferralCode,
		StreakDays:   user.StreakDays,
	}
}

// Ensure uuid import is used in DTO context (compiler safeguard)
var _ = uuid.New
