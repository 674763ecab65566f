// internal/services/affiliate_service.go
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

type AffiliateService struct {
	db      *gorm.DB
	config  *config.Config
	wallets *WalletService
	admin   *AdminService
}

func NewAffiliateService(db *gorm.DB, config *config.Config, wallets *WalletService, admin *AdminService) *AffiliateService {
	return &AffiliateService{db: db, config: config, wallets: wallets, admin: admin}
}

// RecordSale accrues a pending commission when a referred buyer's order is
// paid. Called inside the payment confirmation transaction; a buyer without
// a referrer is a no-op.
func (s *AffiliateService) RecordSale(tx *gorm.DB, order *models.Order) error {
	var buyer models.User
	if err := tx.First(&buyer, "id = ?", order.BuyerID).Error; err != nil {
		return apperrors.Internal("failed to load buyer for commission accrual", err)
	}
	if buyer.ReferredBy == nil {
		return nil
	}

	if enabled, err := featureEnabled(tx, "affiliate_program_enabled"); err == nil && !enabled {
		return nil
	}

	var affiliate models.User
	if err := tx.First(&affiliate, "id = ?", *buyer.ReferredBy).Error; err != nil {
		// Dangling referral; payment must not fail over it.
		return nil
	}

	rateBps := s.config.Affiliate.CommissionRateBps
	commission := order.TotalPrice * int64(rateBps) / 10000
	if commission <= 0 {
		return nil
	}

	sale := &models.AffiliateSale{
		AffiliateID:       affiliate.ID,
		OrderID:           order.ID,
		BuyerID:           order.BuyerID,
		OrderTotal:        order.TotalPrice,
		CommissionRateBps: rateBps,
		CommissionAmount:  commission,
		Currency:          order.Currency,
		Status:            models.CommissionStatusPending,
	}
	if err := tx.Create(sale).Error; err != nil {
		return apperrors.Internal("failed to record affiliate sale", err)
	}
	return nil
}

// UnlockForOrder matures the order's pending commission to delivered. Runs
// inside the delivery confirmation transaction; no sale is a no-op.
func (s *AffiliateService) UnlockForOrder(tx *gorm.DB, orderID uuid.UUID, at time.Time) error {
	var sale models.AffiliateSale
	err := tx.Where("order_id = ? AND status = ?", orderID, models.CommissionStatusPending).First(&sale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return apperrors.Internal("failed to load affiliate sale", err)
	}

	sale.Status = models.CommissionStatusDelivered
	sale.UnlockedAt = &at
	if err := tx.Save(&sale).Error; err != nil {
		return apperrors.Internal("failed to unlock affiliate commission", err)
	}
	return nil
}

// AccruedBalance sums unlocked, unpaid commission.
func (s *AffiliateService) AccruedBalance(affiliateID uuid.UUID) (int64, error) {
	var total int64
	err := s.db.Model(&models.AffiliateSale{}).
		Where("affiliate_id = ? AND status = ?", affiliateID, models.CommissionStatusDelivered).
		Select("COALESCE(SUM(commission_amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.Internal("failed to sum accrued commission", err)
	}
	return total, nil
}

// ListSales returns the affiliate's commission history.
func (s *AffiliateService) ListSales(affiliateID uuid.UUID, params utils.PaginationParams) ([]models.AffiliateSale, int64, error) {
	query := s.db.Model(&models.AffiliateSale{}).Where("affiliate_id = ?", affiliateID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count affiliate sales", err)
	}

	allowedSortFields := []string{"created_at", "status", "commission_amount"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var sales []models.AffiliateSale
	if err := query.Find(&sales).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to fetch affiliate sales", err)
	}
	return sales, total, nil
}

// RequestPayout opens a payout over the full accrued balance.
func (s *AffiliateService) RequestPayout(affiliateID uuid.UUID) (*models.AffiliatePayout, error) {
	if enabled, err := featureEnabled(s.db, "affiliate_program_enabled"); err == nil && !enabled {
		return nil, apperrors.Precondition("the affiliate program is temporarily disabled")
	}

	accrued, err := s.AccruedBalance(affiliateID)
	if err != nil {
		return nil, err
	}
	if accrued < s.config.Affiliate.MinimumPayout {
		return nil, apperrors.Validation("accrued commission of %d kobo is below the payout minimum of %d kobo",
			accrued, s.config.Affiliate.MinimumPayout)
	}

	var pending int64
	if err := s.db.Model(&models.AffiliatePayout{}).
		Where("affiliate_id = ? AND status = ?", affiliateID, models.PayoutStatusRequested).
		Count(&pending).Error; err != nil {
		return nil, apperrors.Internal("failed to check pending payouts", err)
	}
	if pending > 0 {
		return nil, apperrors.InvalidState("a payout request is already pending")
	}

	payout := &models.AffiliatePayout{
		AffiliateID: affiliateID,
		Amount:      accrued,
		Currency:    "NGN",
		Status:      models.PayoutStatusRequested,
	}
	if err := s.db.Create(payout).Error; err != nil {
		return nil, apperrors.Internal("failed to create payout request", err)
	}
	return payout, nil
}

// ApprovePayout is the finance-admin settlement: in one transaction the
// delivered sales funding the payout are marked paid and the commission is
// credited to the affiliate's wallet. The accrued balance is re-checked
// inside the transaction so a stale request cannot overpay.
func (s *AffiliateService) ApprovePayout(payoutID, adminID uuid.UUID) (*models.AffiliatePayout, error) {
	var payout *models.AffiliatePayout
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var p models.AffiliatePayout
		if err := tx.First(&p, "id = ?", payoutID).Error; err != nil {
			return apperrors.NotFound("payout not found")
		}
		if p.Status != models.PayoutStatusRequested {
			return apperrors.InvalidState("payout is already %s", p.Status)
		}

		var sales []models.AffiliateSale
		if err := tx.Where("affiliate_id = ? AND status = ?", p.AffiliateID, models.CommissionStatusDelivered).
			Order("created_at ASC").Find(&sales).Error; err != nil {
			return apperrors.Internal("failed to load delivered sales", err)
		}

		var available int64
		for _, sale := range sales {
			available += sale.CommissionAmount
		}
		if available < p.Amount {
			return apperrors.Precondition("accrued commission of %d kobo no longer covers the payout of %d kobo",
				available, p.Amount)
		}

		var covered int64
		for i := range sales {
			if covered >= p.Amount {
				break
			}
			sales[i].Status = models.CommissionStatusPaid
			covered += sales[i].CommissionAmount
			if err := tx.Save(&sales[i]).Error; err != nil {
				return apperrors.Internal("failed to mark sale paid", err)
			}
		}

		if _, err := s.wallets.Apply(tx, p.AffiliateID, LedgerEntry{
			Type:         models.WalletTxCommission,
			BalanceDelta: p.Amount,
			Description:  "affiliate commission payout",
		}); err != nil {
			return err
		}

		now := time.Now()
		p.Status = models.PayoutStatusPaid
		p.ApprovedBy = &adminID
		p.ApprovedAt = &now
		p.PaidAt = &now
		if err := tx.Save(&p).Error; err != nil {
			return apperrors.Internal("failed to approve payout", err)
		}
		payout = &p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.admin.writeAuditLog(adminID, "affiliate.payout_approve", "affiliate_payout", &payout.ID, nil, models.JSONB{
		"amount": payout.Amount,
		"status": payout.Status,
	}, nil)
	return payout, nil
}

// RejectPayout declines a pending payout request; the commission stays
// accrued and can be requested again.
func (s *AffiliateService) RejectPayout(payoutID, adminID uuid.UUID, reason string) (*models.AffiliatePayout, error) {
	var p models.AffiliatePayout
	if err := s.db.First(&p, "id = ?", payoutID).Error; err != nil {
		return nil, apperrors.NotFound("payout not found")
	}
	if p.Status != models.PayoutStatusRequested {
		return nil, apperrors.InvalidState("payout is already %s", p.Status)
	}

	p.Status = models.PayoutStatusRejected
	p.Notes = reason
	if err := s.db.Save(&p).Error; err != nil {
		return nil, apperrors.Internal("failed to reject payout", err)
	}

	s.admin.writeAuditLog(adminID, "affiliate.payout_reject", "affiliate_payout", &p.ID, nil, models.JSONB{
		"status": p.Status,
		"reason": reason,
	}, nil)
	return &p, nil
}

// ListPayouts returns payout requests for the finance review queue.
func (s *AffiliateService) ListPayouts(status models.PayoutStatus, params utils.PaginationParams) ([]models.AffiliatePayout, int64, error) {
	query := s.db.Model(&models.AffiliatePayout{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count payouts", err)
	}

	allowedSortFields := []string{"created_at", "status", "amount"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var payouts []models.AffiliatePayout
	if err := query.Find(&payouts).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to fetch payouts", err)
	}
	return payouts, total, nil
}
