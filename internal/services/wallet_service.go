// internal/services/wallet_service.go
package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/banadama/banadama-backend/internal/apperrors"
	"github.com/banadama/banadama-backend/internal/config"
	"github.com/banadama/banadama-backend/internal/models"
	"github.com/banadama/banadama-backend/internal/utils"
)

type WalletService struct {
	db     *gorm.DB
	config *config.Config
}

func NewWalletService(db *gorm.DB, config *config.Config) *WalletService {
	return &WalletService{db: db, config: config}
}

// LedgerEntry describes one append-only wallet movement. Balance and locked
// deltas are applied to the cached wallet fields in the same transaction that
// persists the entry; no other code path writes those fields.
type LedgerEntry struct {
	OrderID      *uuid.UUID
	Type         models.WalletTxType
	BalanceDelta int64
	LockedDelta  int64
	Status       models.WalletTxStatus
	Reference    string
	Description  string
}

// GetOrCreate loads the user's wallet, creating an empty one on first touch.
func (s *WalletService) GetOrCreate(tx *gorm.DB, userID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	err := tx.Where("user_id = ?", userID).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		wallet = models.Wallet{UserID: userID, Currency: "NGN", Status: models.WalletStatusActive}
		if err := tx.Create(&wallet).Error; err != nil {
			return nil, apperrors.Internal("failed to create wallet", err)
		}
		return &wallet, nil
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load wallet", err)
	}
	return &wallet, nil
}

// Apply appends a transaction record and moves the cached balances inside the
// caller's database transaction.
func (s *WalletService) Apply(tx *gorm.DB, userID uuid.UUID, entry LedgerEntry) (*models.WalletTransaction, error) {
	wallet, err := s.GetOrCreate(tx, userID)
	if err != nil {
		return nil, err
	}

	if wallet.Balance+entry.BalanceDelta < 0 {
		return nil, apperrors.Validation("insufficient wallet balance")
	}
	if wallet.LockedBalance+entry.LockedDelta < 0 {
		return nil, apperrors.Validation("insufficient locked balance")
	}

	status := entry.Status
	if status == "" {
		status = models.WalletTxStatusCompleted
	}

	walletTx := &models.WalletTransaction{
		WalletID:     wallet.ID,
		UserID:       userID,
		OrderID:      entry.OrderID,
		Type:         entry.Type,
		BalanceDelta: entry.BalanceDelta,
		LockedDelta:  entry.LockedDelta,
		Currency:     wallet.Currency,
		Status:       status,
		Reference:    entry.Reference,
		Description:  entry.Description,
	}
	if err := tx.Create(walletTx).Error; err != nil {
		return nil, apperrors.Internal("failed to append wallet transaction", err)
	}

	wallet.Balance += entry.BalanceDelta
	wallet.LockedBalance += entry.LockedDelta
	if err := tx.Save(wallet).Error; err != nil {
		return nil, apperrors.Internal("failed to update wallet balance", err)
	}

	return walletTx, nil
}

func (s *WalletService) GetWallet(userID uuid.UUID) (*models.Wallet, error) {
	return s.GetOrCreate(s.db, userID)
}

func (s *WalletService) GetHistory(userID uuid.UUID, params utils.PaginationParams) ([]models.WalletTransaction, int64, error) {
	query := s.db.Model(&models.WalletTransaction{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count wallet transactions", err)
	}

	allowedSortFields := []string{"created_at", "balance_delta", "type", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var transactions []models.WalletTransaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to fetch wallet transactions", err)
	}

	return transactions, total, nil
}

// RequestWithdrawal debits the wallet with a pending withdrawal entry.
func (s *WalletService) RequestWithdrawal(userID uuid.UUID, amount int64, destination string) (*models.WalletTransaction, error) {
	if amount <= 0 {
		return nil, apperrors.Validation("withdrawal amount must be positive")
	}
	if amount < s.config.Payment.MinimumWithdrawal {
		return nil, apperrors.Validation("minimum withdrawal is %d kobo", s.config.Payment.MinimumWithdrawal)
	}

	if enabled, err := featureEnabled(s.db, "withdrawals_enabled"); err == nil && !enabled {
		return nil, apperrors.Precondition("withdrawals are temporarily disabled")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, apperrors.NotFound("user not found")
	}
	if !user.CanWithdraw {
		return nil, apperrors.Forbidden("withdrawals are disabled for this account")
	}

	var result *models.WalletTransaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		walletTx, err := s.Apply(tx, userID, LedgerEntry{
			Type:         models.WalletTxWithdrawal,
			BalanceDelta: -amount,
			Status:       models.WalletTxStatusPending,
			Reference:    destination,
			Description:  "withdrawal request",
		})
		if err != nil {
			return err
		}
		result = walletTx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
