// internal/services/payment_service.go
package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"

	"github.com/banadama/banadama-backend/internal/apperrors"
	"github.com/banadama/banadama-backend/internal/config"
	"github.com/banadama/banadama-backend/internal/database"
	"github.com/banadama/banadama-backend/internal/models"
)

type PaymentService struct {
	db         *gorm.DB
	config     *config.Config
	wallets    *WalletService
	affiliates *AffiliateService
}

func NewPaymentService(db *gorm.DB, config *config.Config, wallets *WalletService, affiliates *AffiliateService) *PaymentService {
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{db: db, config: config, wallets: wallets, affiliates: affiliates}
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
}

// CreatePaymentIntent opens a Stripe intent for a pending order's total.
// Kobo is already Stripe's minor unit for NGN, so the amount passes through
// unconverted.
func (s *PaymentService) CreatePaymentIntent(orderID, buyerID uuid.UUID) (*PaymentIntentResponse, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ?", orderID).Error; err != nil {
		return nil, apperrors.NotFound("order not found")
	}
	if order.BuyerID != buyerID {
		return nil, apperrors.Forbidden("only the order's buyer may pay for it")
	}
	if order.Status != models.OrderStatusPending {
		return nil, apperrors.InvalidState("order is not awaiting payment, current status is %s", order.Status)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(order.TotalPrice),
		Currency: stripe.String("ngn"),
	}
	params.AddMetadata("order_id", order.ID.String())
	params.AddMetadata("buyer_id", buyerID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, apperrors.Internal("failed to create payment intent", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
		Amount:       order.TotalPrice,
	}, nil
}

// ConfirmPayment verifies the intent succeeded, then in one transaction
// moves the order to processing, locks the escrow, reflects the hold in the
// buyer's wallet, and accrues any affiliate commission. Re-checking the
// order status inside the transaction makes a duplicate confirmation fail
// instead of double-locking.
func (s *PaymentService) ConfirmPayment(orderID uuid.UUID, paymentIntentID string) (*models.Order, error) {
	pi, err := paymentintent.Get(paymentIntentID, nil)
	if err != nil {
		return nil, apperrors.Internal("failed to fetch payment intent", err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, apperrors.Precondition("payment has not succeeded, intent status is %s", pi.Status)
	}
	if pi.Metadata["order_id"] != orderID.String() {
		return nil, apperrors.Validation("payment intent does not belong to this order")
	}

	var order *models.Order
	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.First(&o, "id = ?", orderID).Error; err != nil {
			return apperrors.NotFound("order not found")
		}
		if o.Status != models.OrderStatusPending {
			return apperrors.InvalidState("order has already been paid, current status is %s", o.Status)
		}
		if pi.Amount != o.TotalPrice {
			return apperrors.Validation("paid amount %d does not match the order total %d", pi.Amount, o.TotalPrice)
		}

		var existing models.Escrow
		err := tx.First(&existing, "order_id = ?", o.ID).Error
		if err == nil {
			return apperrors.InvalidState("order already has an escrow")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Internal("failed to check existing escrow", err)
		}

		escrow := &models.Escrow{
			OrderID:     o.ID,
			TotalAmount: o.TotalPrice,
			Currency:    o.Currency,
			Status:      models.EscrowStatusLocked,
		}
		if err := tx.Create(escrow).Error; err != nil {
			return apperrors.Internal("failed to lock escrow", err)
		}

		if _, err := s.wallets.Apply(tx, o.BuyerID, LedgerEntry{
			OrderID:     &o.ID,
			Type:        models.WalletTxEscrowLock,
			LockedDelta: o.TotalPrice,
			Reference:   paymentIntentID,
			Description: "escrow lock on payment",
		}); err != nil {
			return err
		}

		paidAt := time.Now()
		o.Status = models.OrderStatusProcessing
		o.PaidAt = &paidAt
		if err := tx.Save(&o).Error; err != nil {
			return apperrors.Internal("failed to mark order paid", err)
		}

		if err := s.affiliates.RecordSale(tx, &o); err != nil {
			return err
		}

		order = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
