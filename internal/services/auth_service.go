// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/farmlink/backend/internal/config"
	"github.com/farmlink/backend/internal/models"
	"github.com/farmlink/backend/internal/store"
	"github.com/farmlink/backend/internal/utils"
)

// AuthService is the session side of the profile manager: it owns credential
// checks, token issuance and the sign-up/sign-in/sign-out lifecycle. There is
// no intermediate session state; a request is signed in exactly when it
// carries a valid token.
type AuthService struct {
	store      *store.Store
	cfg        *config.Config
	profiles   *ProfileService
	activities *ActivityService
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"fullName" validate:"omitempty,max=255"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=Farmer Buyer"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // in seconds
}

func NewAuthService(st *store.Store, cfg *config.Config, profiles *ProfileService, activities *ActivityService) *AuthService {
	return &AuthService{
		store:      st,
		cfg:        cfg,
		profiles:   profiles,
		activities: activities,
	}
}

// Register creates credentials and a default-initialized profile, then
// establishes a session. The profile is created exactly once per identity;
// a taken email fails with ErrAlreadyExists.
func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	taken, err := s.store.EmailTaken(req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrAlreadyExists
	}

	user := models.NewDefaultProfile(uuid.New(), req.Email, req.FullName)
	if req.Role != "" {
		user.Role = models.UserRole(req.Role)
	}

	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.store.CreateUser(user); err != nil {
		// Lost a race on the unique email index.
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.profiles.Notify(user)
	s.trackAuthActivity(user.ID, models.ActivitySignupAttempt)

	return s.buildAuthResponse(user)
}

// Login verifies credentials and establishes a session. Unknown email and
// password mismatch both surface as ErrInvalidCredentials so the caller
// cannot tell which one occurred.
func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.store.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.store.TouchLastActive(user.ID); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Failed to refresh last_active")
	}

	s.trackAuthActivity(user.ID, models.ActivityLoginAttempt)

	return s.buildAuthResponse(user)
}

// Logout tears the session down. Tokens are stateless, so the server-side
// work is just a final last_active touch; the client discards its tokens.
func (s *AuthService) Logout(userID uuid.UUID) error {
	if err := s.store.TouchLastActive(userID); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Failed to refresh last_active on logout")
	}
	return nil
}

// CurrentSession resolves the authenticated identity to its profile.
func (s *AuthService) CurrentSession(userID uuid.UUID) (*models.User, error) {
	return s.store.GetUser(userID)
}

func (s *AuthService) RefreshToken(refreshToken string) (*AuthResponse, error) {
	userIDStr, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token: %w", err)
	}

	user, err := s.store.GetUser(userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	return s.buildAuthResponse(user)
}

func (s *AuthService) buildAuthResponse(user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(user.ID, user.Email, string(user.Role), s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600,
	}, nil
}

// trackAuthActivity records login/signup attempts; auth flows never fail on
// bookkeeping.
func (s *AuthService) trackAuthActivity(userID uuid.UUID, activityType models.ActivityType) {
	if s.activities == nil {
		return
	}
	if _, err := s.activities.Record(userID, activityType, models.JSONMap{"method": "email"}); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"type":    activityType,
		}).Warn("Failed to record auth activity")
	}
}
