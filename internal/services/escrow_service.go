// internal/services/escrow_service.go
package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/banadama/banadama-backend/internal/apperrors"
	"github.com/banadama/banadama-backend/internal/database"
	"github.com/banadama/banadama-backend/internal/models"
)

// EscrowService carries the finance-admin escrow operations. Handlers gate
// these routes on the finance admin scope; the service re-checks nothing
// about the caller beyond recording it in the audit trail.
type EscrowService struct {
	db      *gorm.DB
	wallets *WalletService
	admin   *AdminService
}

func NewEscrowService(db *gorm.DB, wallets *WalletService, admin *AdminService) *EscrowService {
	return &EscrowService{db: db, wallets: wallets, admin: admin}
}

func (s *EscrowService) GetByOrder(orderID uuid.UUID) (*models.Escrow, error) {
	var escrow models.Escrow
	if err := s.db.Preload("Order").First(&escrow, "order_id = ?", orderID).Error; err != nil {
		return nil, apperrors.NotFound("escrow not found for order")
	}
	return &escrow, nil
}

// Release moves funds to the supplier. A zero amount releases the full
// remainder; a partial amount must be strictly between zero and the
// remainder. The audit record is written after the transaction commits.
func (s *EscrowService) Release(escrowID, adminID uuid.UUID, amount int64, reason string) (*models.Escrow, error) {
	if reason == "" {
		return nil, apperrors.Validation("a reason is required for escrow release")
	}
	if amount < 0 {
		return nil, apperrors.Validation("release amount cannot be negative")
	}

	var escrow *models.Escrow
	var before, after models.JSONB
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		e, order, err := s.loadForMutation(tx, escrowID)
		if err != nil {
			return err
		}
		before = e.Snapshot()

		moved := amount
		if moved == 0 {
			moved = e.Remaining()
		}
		if err := e.ApplyRelease(amount); err != nil {
			return err
		}
		if err := tx.Save(e).Error; err != nil {
			return apperrors.Internal("failed to save escrow", err)
		}

		if moved > 0 {
			if _, err := s.wallets.Apply(tx, order.SupplierID, LedgerEntry{
				OrderID:      &order.ID,
				Type:         models.WalletTxEscrowRelease,
				BalanceDelta: moved,
				Description:  "escrow release: " + reason,
			}); err != nil {
				return err
			}
			if _, err := s.wallets.Apply(tx, order.BuyerID, LedgerEntry{
				OrderID:     &order.ID,
				Type:        models.WalletTxEscrowRelease,
				LockedDelta: -moved,
				Description: "escrow release: " + reason,
			}); err != nil {
				return err
			}
		}

		after = e.Snapshot()
		escrow = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.admin.writeAuditLog(adminID, "escrow.release", "escrow", &escrow.ID, before, after, models.JSONB{
		"amount": amount,
		"reason": reason,
	})
	return escrow, nil
}

// Refund moves funds back to the buyer's available balance. A zero amount
// refunds the full remainder.
func (s *EscrowService) Refund(escrowID, adminID uuid.UUID, amount int64, reason string) (*models.Escrow, error) {
	if reason == "" {
		return nil, apperrors.Validation("a reason is required for escrow refund")
	}
	if amount < 0 {
		return nil, apperrors.Validation("refund amount cannot be negative")
	}

	var escrow *models.Escrow
	var before, after models.JSONB
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		e, order, err := s.loadForMutation(tx, escrowID)
		if err != nil {
			return err
		}
		before = e.Snapshot()

		moved := amount
		if moved == 0 {
			moved = e.Remaining()
		}
		if err := e.ApplyRefund(amount); err != nil {
			return err
		}
		if err := tx.Save(e).Error; err != nil {
			return apperrors.Internal("failed to save escrow", err)
		}

		if moved > 0 {
			if _, err := s.wallets.Apply(tx, order.BuyerID, LedgerEntry{
				OrderID:      &order.ID,
				Type:         models.WalletTxEscrowRefund,
				BalanceDelta: moved,
				LockedDelta:  -moved,
				Description:  "escrow refund: " + reason,
			}); err != nil {
				return err
			}
		}

		after = e.Snapshot()
		escrow = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.admin.writeAuditLog(adminID, "escrow.refund", "escrow", &escrow.ID, before, after, models.JSONB{
		"amount": amount,
		"reason": reason,
	})
	return escrow, nil
}

// Hold freezes the escrow, typically while an investigation is pending
// outside the dispute flow.
func (s *EscrowService) Hold(escrowID, adminID uuid.UUID, reason string) (*models.Escrow, error) {
	if reason == "" {
		return nil, apperrors.Validation("a reason is required for escrow hold")
	}

	var escrow *models.Escrow
	var before, after models.JSONB
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		e, _, err := s.loadForMutation(tx, escrowID)
		if err != nil {
			return err
		}
		before = e.Snapshot()
		if err := e.Hold(reason); err != nil {
			return err
		}
		if err := tx.Save(e).Error; err != nil {
			return apperrors.Internal("failed to hold escrow", err)
		}
		after = e.Snapshot()
		escrow = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.admin.writeAuditLog(adminID, "escrow.hold", "escrow", &escrow.ID, before, after, models.JSONB{
		"reason": reason,
	})
	return escrow, nil
}

func (s *EscrowService) loadForMutation(tx *gorm.DB, escrowID uuid.UUID) (*models.Escrow, *models.Order, error) {
	var escrow models.Escrow
	if err := tx.First(&escrow, "id = ?", escrowID).Error; err != nil {
		return nil, nil, apperrors.NotFound("escrow not found")
	}
	var order models.Order
	if err := tx.First(&order, "id = ?", escrow.OrderID).Error; err != nil {
		return nil, nil, apperrors.Internal("failed to load escrow's order", err)
	}
	return &escrow, &order, nil
}
