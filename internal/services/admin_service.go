// internal/services/admin_service.go
package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/banadama/banadama-backend/internal/apperrors"
	"github.com/banadama/banadama-backend/internal/models"
	"github.com/banadama/banadama-backend/internal/utils"
)

type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// writeAuditLog records an admin mutation after the primary transaction has
// committed. Best effort: a failed audit write is logged and swallowed so it
// can never produce a phantom entry for a rolled-back change, nor roll back
// a committed one.
func (s *AdminService) writeAuditLog(actorID uuid.UUID, action, targetType string, targetID *uuid.UUID, before, after, metadata models.JSONB) {
	entry := &models.AdminAuditLog{
		ActorID:    &actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Before:     before,
		After:      after,
		Metadata:   metadata,
	}
	if err := s.db.Create(entry).Error; err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"action":      action,
			"target_type": targetType,
		}).Error("Failed to write audit log entry")
	}
}

// ApplyAccountControl executes one of the closed account control actions.
// Freeze and unfreeze move the status and all four capability flags as a
// unit; the limit/restore pairs toggle individual flags.
func (s *AdminService) ApplyAccountControl(userID, adminID uuid.UUID, action models.AccountControlAction, reason string) (*models.User, error) {
	if !models.ValidAccountControlAction(action) {
		return nil, apperrors.Validation("unknown account control action %s", action)
	}
	if (action == models.AccountActionFreeze || action == models.AccountActionLimitOrders ||
		action == models.AccountActionLimitWithdrawals) && reason == "" {
		return nil, apperrors.Validation("a reason is required for restrictive account actions")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, apperrors.NotFound("user not found")
	}
	if user.Role == models.RoleAdmin {
		return nil, apperrors.Forbidden("admin accounts cannot be controlled through this endpoint")
	}

	before := user.CapabilityFlags()

	switch action {
	case models.AccountActionFreeze:
		if user.Status == models.UserStatusFrozen {
			return nil, apperrors.InvalidState("account is already frozen")
		}
		user.Freeze(reason, time.Now())
	case models.AccountActionUnfreeze:
		if user.Status != models.UserStatusFrozen {
			return nil, apperrors.InvalidState("account is not frozen")
		}
		user.Unfreeze()
	case models.AccountActionLimitOrders:
		user.CanCreateOrders = false
		user.CanRespondToRfq = false
	case models.AccountActionRestoreOrders:
		user.CanCreateOrders = true
		user.CanRespondToRfq = true
	case models.AccountActionLimitWithdrawals:
		user.CanWithdraw = false
	case models.AccountActionRestoreWithdrawals:
		user.CanWithdraw = true
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, apperrors.Internal("failed to apply account control", err)
	}

	s.writeAuditLog(adminID, "account."+string(action), "user", &user.ID, before, user.CapabilityFlags(), models.JSONB{
		"reason": reason,
	})
	return &user, nil
}

// ModerateProduct applies one of the closed moderation actions to a listing.
func (s *AdminService) ModerateProduct(productID, adminID uuid.UUID, action models.ProductModerationAction, reason string) (*models.Product, error) {
	if !models.ValidProductModerationAction(action) {
		return nil, apperrors.Validation("unknown moderation action %s", action)
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		return nil, apperrors.NotFound("product not found")
	}

	before := models.JSONB{"status": product.Status, "flag_reason": product.FlagReason}

	now := time.Now()
	switch action {
	case models.ProductActionApprove:
		product.Status = models.ProductStatusActive
		product.FlagReason = ""
	case models.ProductActionReject:
		if reason == "" {
			return nil, apperrors.Validation("a reason is required to reject a product")
		}
		product.Status = models.ProductStatusRejected
		product.FlagReason = reason
	case models.ProductActionHide:
		product.Status = models.ProductStatusHidden
	case models.ProductActionFlag:
		if reason == "" {
			return nil, apperrors.Validation("a reason is required to flag a product")
		}
		product.Status = models.ProductStatusFlagged
		product.FlagReason = reason
	}
	product.ReviewedBy = &adminID
	product.ReviewedAt = &now

	if err := s.db.Save(&product).Error; err != nil {
		return nil, apperrors.Internal("failed to moderate product", err)
	}

	s.writeAuditLog(adminID, "product."+string(action), "product", &product.ID, before,
		models.JSONB{"status": product.Status, "flag_reason": product.FlagReason},
		models.JSONB{"reason": reason})
	return &product, nil
}

type PricingRuleRequest struct {
	Scope          models.PricingScope `json:"scope" validate:"required"`
	Category       string              `json:"category"`
	Country        string              `json:"country"`
	FeeBps         int                 `json:"fee_bps" validate:"required,min=0,max=10000"`
	PlatformFeeBps int                 `json:"platform_fee_bps" validate:"min=0,max=10000"`
	Priority       int                 `json:"priority"`
	Description    string              `json:"description"`
}

// CreatePricingRule adds a fee override. Existing orders keep their pricing
// snapshots; only future quotes and purchases see the new rule.
func (s *AdminService) CreatePricingRule(adminID uuid.UUID, req PricingRuleRequest) (*models.PricingRule, error) {
	switch req.Scope {
	case models.PricingScopeGlobal:
	case models.PricingScopeCategory:
		if req.Category == "" {
			return nil, apperrors.Validation("category scope requires a category")
		}
	case models.PricingScopeCountry:
		if req.Country == "" {
			return nil, apperrors.Validation("country scope requires a country")
		}
	default:
		return nil, apperrors.Validation("unknown pricing scope %s", req.Scope)
	}

	rule := &models.PricingRule{
		Scope:          req.Scope,
		Category:       req.Category,
		Country:        req.Country,
		FeeBps:         req.FeeBps,
		PlatformFeeBps: req.PlatformFeeBps,
		Priority:       req.Priority,
		Active:         true,
		Description:    req.Description,
		CreatedBy:      &adminID,
	}
	if err := s.db.Create(rule).Error; err != nil {
		return nil, apperrors.Internal("failed to create pricing rule", err)
	}

	s.writeAuditLog(adminID, "pricing_rule.create", "pricing_rule", &rule.ID, nil, models.JSONB{
		"scope":    rule.Scope,
		"fee_bps":  rule.FeeBps,
		"priority": rule.Priority,
	}, nil)
	return rule, nil
}

// DeactivatePricingRule retires a rule without deleting the history behind
// existing pricing snapshots.
func (s *AdminService) DeactivatePricingRule(ruleID, adminID uuid.UUID) (*models.PricingRule, error) {
	var rule models.PricingRule
	if err := s.db.First(&rule, "id = ?", ruleID).Error; err != nil {
		return nil, apperrors.NotFound("pricing rule not found")
	}
	if !rule.Active {
		return nil, apperrors.InvalidState("pricing rule is already inactive")
	}

	rule.Active = false
	if err := s.db.Save(&rule).Error; err != nil {
		return nil, apperrors.Internal("failed to deactivate pricing rule", err)
	}

	s.writeAuditLog(adminID, "pricing_rule.deactivate", "pricing_rule", &rule.ID,
		models.JSONB{"active": true}, models.JSONB{"active": false}, nil)
	return &rule, nil
}

func (s *AdminService) ListPricingRules() ([]models.PricingRule, error) {
	var rules []models.PricingRule
	if err := s.db.Order("priority DESC, created_at DESC").Find(&rules).Error; err != nil {
		return nil, apperrors.Internal("failed to fetch pricing rules", err)
	}
	return rules, nil
}

// SetFeatureFlag flips a flag, creating it on first use.
func (s *AdminService) SetFeatureFlag(key string, adminID uuid.UUID, enabled bool, description string) (*models.FeatureFlag, error) {
	if key == "" {
		return nil, apperrors.Validation("feature flag key is required")
	}

	var flag models.FeatureFlag
	err := s.db.Where("key = ?", key).First(&flag).Error
	var before models.JSONB
	if errors.Is(err, gorm.ErrRecordNotFound) {
		flag = models.FeatureFlag{Key: key, Enabled: enabled, Description: description, UpdatedBy: &adminID}
		if err := s.db.Create(&flag).Error; err != nil {
			return nil, apperrors.Internal("failed to create feature flag", err)
		}
	} else if err != nil {
		return nil, apperrors.Internal("failed to load feature flag", err)
	} else {
		before = models.JSONB{"enabled": flag.Enabled}
		flag.Enabled = enabled
		if description != "" {
			flag.Description = description
		}
		flag.UpdatedBy = &adminID
		if err := s.db.Save(&flag).Error; err != nil {
			return nil, apperrors.Internal("failed to update feature flag", err)
		}
	}

	s.writeAuditLog(adminID, "feature_flag.set", "feature_flag", &flag.ID, before,
		models.JSONB{"enabled": flag.Enabled}, models.JSONB{"key": key})
	return &flag, nil
}

func (s *AdminService) ListFeatureFlags() ([]models.FeatureFlag, error) {
	var flags []models.FeatureFlag
	if err := s.db.Order("key ASC").Find(&flags).Error; err != nil {
		return nil, apperrors.Internal("failed to fetch feature flags", err)
	}
	return flags, nil
}

type AuditLogFilter struct {
	Action     string
	TargetType string
	ActorID    *uuid.UUID
}

// ListAuditLogs returns the append-only audit trail, newest first.
func (s *AdminService) ListAuditLogs(filter AuditLogFilter, params utils.PaginationParams) ([]models.AdminAuditLog, int64, error) {
	query := s.db.Model(&models.AdminAuditLog{})
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.TargetType != "" {
		query = query.Where("target_type = ?", filter.TargetType)
	}
	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count audit logs", err)
	}

	allowedSortFields := []string{"created_at", "action", "target_type"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var logs []models.AdminAuditLog
	if err := query.Preload("Actor").Find(&logs).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to fetch audit logs", err)
	}
	return logs, total, nil
}

// DashboardStats is the ops overview: queue depths and money in flight.
type DashboardStats struct {
	PendingRFQs     int64            `json:"pending_rfqs"`
	OpenDisputes    int64            `json:"open_disputes"`
	LockedEscrow    int64            `json:"locked_escrow_kobo"`
	PendingPayouts  int64            `json:"pending_payouts"`
	OrdersByStatus  map[string]int64 `json:"orders_by_status"`
	FrozenAccounts  int64            `json:"frozen_accounts"`
	PendingProducts int64            `json:"pending_products"`
}

func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{OrdersByStatus: map[string]int64{}}

	if err := s.db.Model(&models.Request{}).Where("status = ?", models.RequestStatusPending).
		Count(&stats.PendingRFQs).Error; err != nil {
		return nil, apperrors.Internal("failed to count pending RFQs", err)
	}
	if err := s.db.Model(&models.Dispute{}).
		Where("status IN ?", []models.DisputeStatus{models.DisputeStatusOpen, models.DisputeStatusInReview}).
		Count(&stats.OpenDisputes).Error; err != nil {
		return nil, apperrors.Internal("failed to count open disputes", err)
	}
	if err := s.db.Model(&models.Escrow{}).
		Where("status IN ?", []models.EscrowStatus{models.EscrowStatusLocked, models.EscrowStatusDisputed, models.EscrowStatusPartialRelease}).
		Select("COALESCE(SUM(total_amount - released_amount - refunded_amount), 0)").
		Scan(&stats.LockedEscrow).Error; err != nil {
		return nil, apperrors.Internal("failed to sum locked escrow", err)
	}
	if err := s.db.Model(&models.AffiliatePayout{}).Where("status = ?", models.PayoutStatusRequested).
		Count(&stats.PendingPayouts).Error; err != nil {
		return nil, apperrors.Internal("failed to count pending payouts", err)
	}
	if err := s.db.Model(&models.User{}).Where("status = ?", models.UserStatusFrozen).
		Count(&stats.FrozenAccounts).Error; err != nil {
		return nil, apperrors.Internal("failed to count frozen accounts", err)
	}
	if err := s.db.Model(&models.Product{}).Where("status = ?", models.ProductStatusPendingReview).
		Count(&stats.PendingProducts).Error; err != nil {
		return nil, apperrors.Internal("failed to count pending products", err)
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	if err := s.db.Model(&models.Order{}).
		Select("status, COUNT(*) as count").Group("status").
		Scan(&counts).Error; err != nil {
		return nil, apperrors.Internal("failed to count orders by status", err)
	}
	for _, c := range counts {
		stats.OrdersByStatus[c.Status] = c.Count
	}

	return stats, nil
}

// ListUsers returns accounts for the admin console, optionally filtered.
func (s *AdminService) ListUsers(role models.UserRole, status models.UserStatus, params utils.PaginationParams) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count users", err)
	}

	allowedSortFields := []string{"created_at", "username", "role", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to fetch users", err)
	}
	return users, total, nil
}
