// internal/services/dispute_service.go
package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/banadama/banadama-backend/internal/apperrors"
	"github.com/banadama/banadama-backend/internal/database"
	"github.com/banadama/banadama-backend/internal/models"
	"github.com/banadama/banadama-backend/internal/utils"
)

type DisputeService struct {
	db      *gorm.DB
	wallets *WalletService
}

func NewDisputeService(db *gorm.DB, wallets *WalletService) *DisputeService {
	return &DisputeService{db: db, wallets: wallets}
}

type ResolveDisputeRequest struct {
	Resolution   models.DisputeResolution `json:"resolution" validate:"required"`
	RefundAmount int64                    `json:"refund_amount"`
	Note         string                   `json:"note"`
}

// resolutionOutcome is the financial and order-state consequence of a
// dispute resolution, computed before any row is touched.
type resolutionOutcome struct {
	orderStatus   models.OrderStatus
	releaseAmount int64
	refundAmount  int64
}

// outcomeFor maps a resolution onto escrow movements against the escrow's
// unmoved remainder. For a partial refund the buyer receives the requested
// amount and the supplier the rest.
func outcomeFor(resolution models.DisputeResolution, remaining, refundAmount int64) (resolutionOutcome, error) {
	switch resolution {
	case models.ResolutionRefundBuyer, models.ResolutionCancelOrder:
		return resolutionOutcome{orderStatus: models.OrderStatusCancelled, refundAmount: remaining}, nil
	case models.ResolutionReleasePayout:
		return resolutionOutcome{orderStatus: models.OrderStatusConfirmed, releaseAmount: remaining}, nil
	case models.ResolutionPartialRefund:
		if refundAmount <= 0 {
			return resolutionOutcome{}, apperrors.Validation("partial refund requires a positive refund amount")
		}
		if refundAmount > remaining {
			return resolutionOutcome{}, apperrors.Validation("refund amount exceeds the escrow remainder of %d", remaining)
		}
		return resolutionOutcome{
			orderStatus:   models.OrderStatusConfirmed,
			refundAmount:  refundAmount,
			releaseAmount: remaining - refundAmount,
		}, nil
	case models.ResolutionRedeliver:
		return resolutionOutcome{orderStatus: models.OrderStatusInProduction}, nil
	}
	return resolutionOutcome{}, apperrors.Validation("unknown resolution %s", resolution)
}

// Open raises a dispute on a paid order and holds its escrow in one
// transaction. Only the buyer or staff may open one.
func (s *DisputeService) Open(orderID, raisedBy uuid.UUID, role models.UserRole, reason string) (*models.Dispute, error) {
	if reason == "" {
		return nil, apperrors.Validation("a reason is required to open a dispute")
	}

	var dispute *models.Dispute
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			return apperrors.NotFound("order not found")
		}
		if role != models.RoleOps && role != models.RoleAdmin && order.BuyerID != raisedBy {
			return apperrors.Forbidden("only the order's buyer may open a dispute")
		}

		var escrow models.Escrow
		if err := tx.First(&escrow, "order_id = ?", order.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Precondition("order has no escrow, nothing to dispute")
			}
			return apperrors.Internal("failed to load escrow", err)
		}

		var existing int64
		if err := tx.Model(&models.Dispute{}).
			Where("order_id = ? AND status IN ?", order.ID,
				[]models.DisputeStatus{models.DisputeStatusOpen, models.DisputeStatusInReview}).
			Count(&existing).Error; err != nil {
			return apperrors.Internal("failed to check existing disputes", err)
		}
		if existing > 0 {
			return apperrors.InvalidState("order already has an open dispute")
		}

		if err := escrow.Hold(reason); err != nil {
			return err
		}
		if err := tx.Save(&escrow).Error; err != nil {
			return apperrors.Internal("failed to hold escrow", err)
		}

		dispute = &models.Dispute{
			OrderID:  order.ID,
			RaisedBy: raisedBy,
			Status:   models.DisputeStatusOpen,
			Reason:   reason,
		}
		if err := tx.Create(dispute).Error; err != nil {
			return apperrors.Internal("failed to create dispute", err)
		}

		return s.appendEvent(tx, dispute.ID, models.DisputeEventStatusChanged, &raisedBy, reason, models.JSONB{
			"status": models.DisputeStatusOpen,
		})
	})
	if err != nil {
		return nil, err
	}
	return dispute, nil
}

// Assign puts the dispute into review under a named ops agent.
func (s *DisputeService) Assign(disputeID, opsID uuid.UUID) (*models.Dispute, error) {
	var dispute *models.Dispute
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var d models.Dispute
		if err := tx.First(&d, "id = ?", disputeID).Error; err != nil {
			return apperrors.NotFound("dispute not found")
		}
		if d.Status != models.DisputeStatusOpen && d.Status != models.DisputeStatusInReview {
			return apperrors.InvalidState("dispute cannot be assigned in status %s", d.Status)
		}

		d.AssignedOps = &opsID
		d.Status = models.DisputeStatusInReview
		if err := tx.Save(&d).Error; err != nil {
			return apperrors.Internal("failed to assign dispute", err)
		}
		dispute = &d

		return s.appendEvent(tx, d.ID, models.DisputeEventStatusChanged, &opsID, "", models.JSONB{
			"status":       models.DisputeStatusInReview,
			"assigned_ops": opsID.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	return dispute, nil
}

// AddNote appends a comment to the dispute trail.
func (s *DisputeService) AddNote(disputeID, actorID uuid.UUID, note string) error {
	if note == "" {
		return apperrors.Validation("note cannot be empty")
	}
	var d models.Dispute
	if err := s.db.First(&d, "id = ?", disputeID).Error; err != nil {
		return apperrors.NotFound("dispute not found")
	}
	if d.Status == models.DisputeStatusClosed {
		return apperrors.InvalidState("dispute is closed")
	}
	return s.appendEvent(s.db, d.ID, models.DisputeEventNoteAdded, &actorID, note, nil)
}

// AddEvidence records an uploaded evidence file against the dispute.
func (s *DisputeService) AddEvidence(disputeID, actorID uuid.UUID, fileURL, note string) error {
	if fileURL == "" {
		return apperrors.Validation("evidence file URL is required")
	}
	var d models.Dispute
	if err := s.db.First(&d, "id = ?", disputeID).Error; err != nil {
		return apperrors.NotFound("dispute not found")
	}
	if d.Status == models.DisputeStatusClosed {
		return apperrors.InvalidState("dispute is closed")
	}
	return s.appendEvent(s.db, d.ID, models.DisputeEventEvidenceAdded, &actorID, note, models.JSONB{
		"file_url": fileURL,
	})
}

// Resolve applies one of the closed resolution outcomes: escrow movements,
// wallet movements, and the order status change happen in a single
// transaction with the resolved event.
func (s *DisputeService) Resolve(disputeID, opsID uuid.UUID, req ResolveDisputeRequest) (*models.Dispute, error) {
	if !models.ValidResolution(req.Resolution) {
		return nil, apperrors.Validation("unknown resolution %s", req.Resolution)
	}

	var dispute *models.Dispute
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var d models.Dispute
		if err := tx.First(&d, "id = ?", disputeID).Error; err != nil {
			return apperrors.NotFound("dispute not found")
		}
		if d.Status != models.DisputeStatusOpen && d.Status != models.DisputeStatusInReview {
			return apperrors.InvalidState("dispute cannot be resolved in status %s", d.Status)
		}

		var order models.Order
		if err := tx.First(&order, "id = ?", d.OrderID).Error; err != nil {
			return apperrors.Internal("failed to load disputed order", err)
		}
		var escrow models.Escrow
		if err := tx.First(&escrow, "order_id = ?", order.ID).Error; err != nil {
			return apperrors.Internal("failed to load disputed escrow", err)
		}

		outcome, err := outcomeFor(req.Resolution, escrow.Remaining(), req.RefundAmount)
		if err != nil {
			return err
		}

		now := time.Now()

		if req.Resolution == models.ResolutionRedeliver {
			// Funds stay locked; the escrow leaves the disputed state so the
			// redone delivery can be confirmed later.
			escrow.Status = models.EscrowStatusLocked
			escrow.HeldReason = ""
		} else {
			if outcome.refundAmount > 0 {
				if err := escrow.ApplyRefund(outcome.refundAmount); err != nil {
					return err
				}
				if _, err := s.wallets.Apply(tx, order.BuyerID, LedgerEntry{
					OrderID:      &order.ID,
					Type:         models.WalletTxEscrowRefund,
					BalanceDelta: outcome.refundAmount,
					LockedDelta:  -outcome.refundAmount,
					Description:  "dispute resolution refund",
				}); err != nil {
					return err
				}
			}
			if outcome.releaseAmount > 0 {
				if err := escrow.ApplyRelease(outcome.releaseAmount); err != nil {
					return err
				}
				if _, err := s.wallets.Apply(tx, order.SupplierID, LedgerEntry{
					OrderID:      &order.ID,
					Type:         models.WalletTxEscrowRelease,
					BalanceDelta: outcome.releaseAmount,
					Description:  "dispute resolution release",
				}); err != nil {
					return err
				}
				if _, err := s.wallets.Apply(tx, order.BuyerID, LedgerEntry{
					OrderID:     &order.ID,
					Type:        models.WalletTxEscrowRelease,
					LockedDelta: -outcome.releaseAmount,
					Description: "dispute resolution release",
				}); err != nil {
					return err
				}
			}
		}
		if err := tx.Save(&escrow).Error; err != nil {
			return apperrors.Internal("failed to save escrow", err)
		}

		order.Status = outcome.orderStatus
		switch outcome.orderStatus {
		case models.OrderStatusCancelled:
			order.CancelledAt = &now
			order.CancelReason = "dispute resolved: " + string(req.Resolution)
		case models.OrderStatusConfirmed:
			order.ConfirmedAt = &now
		}
		if err := tx.Save(&order).Error; err != nil {
			return apperrors.Internal("failed to update disputed order", err)
		}

		resolution := req.Resolution
		d.Status = models.DisputeStatusResolved
		d.Resolution = &resolution
		d.ResolutionNote = req.Note
		d.ResolutionMeta = models.JSONB{
			"release_amount": outcome.releaseAmount,
			"refund_amount":  outcome.refundAmount,
			"order_status":   outcome.orderStatus,
		}
		d.ResolvedBy = &opsID
		d.ResolvedAt = &now
		if err := tx.Save(&d).Error; err != nil {
			return apperrors.Internal("failed to resolve dispute", err)
		}
		dispute = &d

		return s.appendEvent(tx, d.ID, models.DisputeEventResolved, &opsID, req.Note, models.JSONB{
			"resolution":     resolution,
			"release_amount": outcome.releaseAmount,
			"refund_amount":  outcome.refundAmount,
		})
	})
	if err != nil {
		return nil, err
	}
	return dispute, nil
}

// Close archives a resolved dispute.
func (s *DisputeService) Close(disputeID, opsID uuid.UUID) (*models.Dispute, error) {
	var dispute *models.Dispute
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var d models.Dispute
		if err := tx.First(&d, "id = ?", disputeID).Error; err != nil {
			return apperrors.NotFound("dispute not found")
		}
		if d.Status != models.DisputeStatusResolved {
			return apperrors.InvalidState("only resolved disputes can be closed, current status is %s", d.Status)
		}

		d.Status = models.DisputeStatusClosed
		if err := tx.Save(&d).Error; err != nil {
			return apperrors.Internal("failed to close dispute", err)
		}
		dispute = &d

		return s.appendEvent(tx, d.ID, models.DisputeEventStatusChanged, &opsID, "", models.JSONB{
			"status": models.DisputeStatusClosed,
		})
	})
	if err != nil {
		return nil, err
	}
	return dispute, nil
}

func (s *DisputeService) GetByID(disputeID uuid.UUID) (*models.Dispute, error) {
	var dispute models.Dispute
	err := s.db.Preload("Order").Preload("Events", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).First(&dispute, "id = ?", disputeID).Error
	if err != nil {
		return nil, apperrors.NotFound("dispute not found")
	}
	return &dispute, nil
}

// List returns disputes for the ops queue, optionally filtered by status.
func (s *DisputeService) List(status models.DisputeStatus, params utils.PaginationParams) ([]models.Dispute, int64, error) {
	query := s.db.Model(&models.Dispute{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count disputes", err)
	}

	allowedSortFields := []string{"created_at", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var disputes []models.Dispute
	if err := query.Preload("Order").Find(&disputes).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to fetch disputes", err)
	}
	return disputes, total, nil
}

func (s *DisputeService) appendEvent(tx *gorm.DB, disputeID uuid.UUID, eventType models.DisputeEventType, actorID *uuid.UUID, note string, data models.JSONB) error {
	event := &models.DisputeEvent{
		DisputeID: disputeID,
		Type:      eventType,
		ActorID:   actorID,
		Note:      note,
		Data:      data,
	}
	if err := tx.Create(event).Error; err != nil {
		return apperrors.Internal("failed to append dispute event", err)
	}
	return nil
}
