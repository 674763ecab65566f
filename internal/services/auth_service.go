// internal/services/auth_service.go
package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/banadama/banadama-backend/internal/apperrors"
	"github.com/banadama/banadama-backend/internal/config"
	"github.com/banadama/banadama-backend/internal/database"
	"github.com/banadama/banadama-backend/internal/models"
	"github.com/banadama/banadama-backend/internal/utils"
)

type AuthService struct {
	db      *gorm.DB
	config  *config.Config
	wallets *WalletService
}

func NewAuthService(db *gorm.DB, config *config.Config, wallets *WalletService) *AuthService {
	return &AuthService{db: db, config: config, wallets: wallets}
}

type RegisterRequest struct {
	Username     string          `json:"username" validate:"required,username"`
	Email        string          `json:"email" validate:"required,email"`
	Password     string          `json:"password" validate:"required,strong_password"`
	Role         models.UserRole `json:"role" validate:"required"`
	Country      string          `json:"country" validate:"required,country_code"`
	ReferralCode string          `json:"referral_code"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
}

// registrableRoles are the roles open to self-service signup. Ops and admin
// accounts are provisioned out of band.
var registrableRoles = map[models.UserRole]bool{
	models.RoleBuyer:     true,
	models.RoleSupplier:  true,
	models.RoleCreator:   true,
	models.RoleAffiliate: true,
	models.RoleAgent:     true,
}

// Register creates the account and its wallet in one transaction. A valid
// referral code links the new user to the referring affiliate.
func (s *AuthService) Register(req RegisterRequest) (*AuthResponse, error) {
	if !registrableRoles[req.Role] {
		return nil, apperrors.Validation("role %s is not open for registration", req.Role)
	}

	var existing int64
	if err := s.db.Model(&models.User{}).
		Where("username = ? OR email = ?", req.Username, req.Email).
		Count(&existing).Error; err != nil {
		return nil, apperrors.Internal("failed to check existing users", err)
	}
	if existing > 0 {
		return nil, apperrors.Validation("username or email is already taken")
	}

	var referredBy *uuid.UUID
	if req.ReferralCode != "" {
		var referrer models.User
		err := s.db.Where("referral_code = ?", req.ReferralCode).First(&referrer).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Validation("unknown referral code")
		}
		if err != nil {
			return nil, apperrors.Internal("failed to look up referral code", err)
		}
		referredBy = &referrer.ID
	}

	referralCode, err := utils.GenerateReferralCode()
	if err != nil {
		return nil, apperrors.Internal("failed to generate referral code", err)
	}

	user := &models.User{
		Username:        req.Username,
		Email:           req.Email,
		Role:            req.Role,
		Country:         req.Country,
		Status:          models.UserStatusActive,
		ReferralCode:    referralCode,
		ReferredBy:      referredBy,
		CanCreateOrders: true,
		CanRespondToRfq: true,
		CanWithdraw:     true,
		CanListProducts: true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return apperrors.Internal("failed to create user", err)
		}
		if _, err := s.wallets.GetOrCreate(tx, user.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

// Login authenticates by username or email. Frozen accounts can still sign
// in to view their data; the capability flags gate what they can do.
func (s *AuthService) Login(req LoginRequest) (*AuthResponse, error) {
	var user models.User
	err := s.db.Where("username = ? OR email = ?", req.Username, req.Username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Forbidden("invalid credentials")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, apperrors.Forbidden("invalid credentials")
	}
	if user.Status == models.UserStatusSuspended {
		return nil, apperrors.Forbidden("account is suspended")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.db.Save(&user).Error; err != nil {
		return nil, apperrors.Internal("failed to record login", err)
	}

	return s.issueTokens(&user)
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(refreshToken string) (*AuthResponse, error) {
	subject, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Forbidden("invalid refresh token")
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, apperrors.Forbidden("invalid refresh token")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, apperrors.NotFound("user not found")
	}
	if user.Status == models.UserStatusSuspended {
		return nil, apperrors.Forbidden("account is suspended")
	}

	return s.issueTokens(&user)
}

func (s *AuthService) GetProfile(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Wallet").First(&user, "id = ?", userID).Error; err != nil {
		return nil, apperrors.NotFound("user not found")
	}
	return &user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	access, err := utils.GenerateJWT(user.ID, user.Username, string(user.Role), string(user.AdminScope), s.config.JWT.AccessTokenTTL)
	if err != nil {
		return nil, apperrors.Internal("failed to sign access token", err)
	}
	refresh, err := utils.GenerateRefreshToken(user.ID, s.config.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, apperrors.Internal("failed to sign refresh token", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.config.JWT.AccessTokenTTL * 3600,
	}, nil
}
