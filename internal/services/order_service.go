// internal/services/order_service.go
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
	"github.com/banadama/banadama-backend/internal/pricing"
	"github.com/banadama/banadama-backend/internal/utils"
)

type OrderService struct {
	db         *gorm.DB
	config     *config.Config
	wallets    *WalletService
	affiliates *AffiliateService
}

func NewOrderService(db *gorm.DB, config *config.Config, wallets *WalletService, affiliates *AffiliateService) *OrderService {
	return &OrderService{db: db, config: config, wallets: wallets, affiliates: affiliates}
}

type BuyNowRequest struct {
	ProductID        uuid.UUID          `json:"product_id" validate:"required"`
	Quantity         int                `json:"quantity" validate:"required,min=1"`
	DeliveryAddress  string             `json:"delivery_address" validate:"required"`
	DeliveryCountry  string             `json:"delivery_country" validate:"required,country_code"`
	ServiceTier      models.ServiceTier `json:"service_tier"`
	ShippingEstimate int64              `json:"shipping_estimate" validate:"min=0"`
}

// CreateBuyNow places a direct order against an active Buy Now listing,
// skipping the RFQ round-trip.
func (s *OrderService) CreateBuyNow(buyerID uuid.UUID, req BuyNowRequest) (*models.Order, error) {
	if enabled, err := featureEnabled(s.db, "buy_now_enabled"); err == nil && !enabled {
		return nil, apperrors.Precondition("direct purchase is temporarily disabled")
	}

	var buyer models.User
	if err := s.db.First(&buyer, "id = ?", buyerID).Error; err != nil {
		return nil, apperrors.NotFound("buyer not found")
	}
	if !buyer.CanCreateOrders {
		return nil, apperrors.Forbidden("ordering is disabled for this account")
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", req.ProductID).Error; err != nil {
		return nil, apperrors.NotFound("product not found")
	}
	if !product.Purchasable(req.Quantity) {
		if req.Quantity < product.MOQ {
			return nil, apperrors.Validation("quantity is below the minimum order of %d units", product.MOQ)
		}
		return nil, apperrors.Precondition("product is not available for direct purchase")
	}

	var rules []models.PricingRule
	if err := s.db.Where("active = ?", true).Find(&rules).Error; err != nil {
		return nil, apperrors.Internal("failed to load pricing rules", err)
	}

	tier := req.ServiceTier
	if tier == "" {
		tier = models.ServiceTierStandard
	}

	breakdown, err := pricing.Calculate(pricing.Input{
		UnitPrice:          product.UnitPrice,
		Quantity:           req.Quantity,
		Category:           product.Category,
		OriginCountry:      product.OriginCountry,
		DestinationCountry: req.DeliveryCountry,
		ServiceTier:        tier,
		ShippingEstimate:   req.ShippingEstimate,
	}, rules)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		BuyerID:         buyerID,
		SupplierID:      product.SupplierID,
		ProductID:       &product.ID,
		ProductName:     product.Title,
		Quantity:        req.Quantity,
		UnitPrice:       product.UnitPrice,
		TotalPrice:      breakdown.Total,
		Currency:        product.Currency,
		PricingSnapshot: breakdown.ToJSONB(),
		DeliveryAddress: req.DeliveryAddress,
		DeliveryCountry: req.DeliveryCountry,
		ServiceTier:     tier,
		Status:          models.OrderStatusPending,
	}
	if err := s.db.Create(order).Error; err != nil {
		return nil, apperrors.Internal("failed to create order", err)
	}
	return order, nil
}

func (s *OrderService) GetByID(orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Buyer").Preload("Supplier").Preload("Escrow").First(&order, "id = ?", orderID).Error
	if err != nil {
		return nil, apperrors.NotFound("order not found")
	}
	return &order, nil
}

// GetForUser loads an order only if the caller is a party to it or staff.
func (s *OrderService) GetForUser(orderID, userID uuid.UUID, role models.UserRole) (*models.Order, error) {
	order, err := s.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if role == models.RoleOps || role == models.RoleAdmin {
		return order, nil
	}
	if order.BuyerID != userID && order.SupplierID != userID {
		return nil, apperrors.Forbidden("you are not a party to this order")
	}
	return order, nil
}

// UpdateStatus advances an order along the production flow. Suppliers may
// only move their own orders; ops can move any.
func (s *OrderService) UpdateStatus(orderID, actorID uuid.UUID, role models.UserRole, next models.OrderStatus) (*models.Order, error) {
	var order *models.Order
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.First(&o, "id = ?", orderID).Error; err != nil {
			return apperrors.NotFound("order not found")
		}

		if role == models.RoleSupplier && o.SupplierID != actorID {
			return apperrors.Forbidden("only the order's supplier may update its status")
		}
		if next == models.OrderStatusProcessing || next == models.OrderStatusConfirmed {
			// Processing is entered by payment confirmation, confirmed by the
			// buyer's delivery confirmation. Neither is a manual transition.
			return apperrors.Validation("status %s cannot be set directly", next)
		}
		if !o.CanTransitionTo(next) {
			return apperrors.InvalidState("cannot move order from %s to %s", o.Status, next)
		}

		now := time.Now()
		o.Status = next
		switch next {
		case models.OrderStatusShipped:
			o.ShippedAt = &now
		case models.OrderStatusDelivered:
			o.DeliveredAt = &now
		}
		if err := tx.Save(&o).Error; err != nil {
			return apperrors.Internal("failed to update order status", err)
		}
		order = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Cancel aborts a pre-payment order. Once the escrow is locked the dispute
// flow is the only way to unwind.
func (s *OrderService) Cancel(orderID, actorID uuid.UUID, role models.UserRole, reason string) (*models.Order, error) {
	var order *models.Order
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.First(&o, "id = ?", orderID).Error; err != nil {
			return apperrors.NotFound("order not found")
		}
		if role != models.RoleOps && role != models.RoleAdmin && o.BuyerID != actorID {
			return apperrors.Forbidden("only the order's buyer may cancel it")
		}
		if !o.Cancellable() {
			return apperrors.InvalidState("order can only be cancelled before payment, current status is %s", o.Status)
		}

		now := time.Now()
		o.Status = models.OrderStatusCancelled
		o.CancelledAt = &now
		o.CancelReason = reason
		if err := tx.Save(&o).Error; err != nil {
			return apperrors.Internal("failed to cancel order", err)
		}
		order = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ConfirmDelivery is the buyer's acceptance of the goods. In one transaction
// it marks the order delivered and confirmed, releases the escrow remainder
// to the supplier's wallet, unwinds the buyer's locked funds, and unlocks any
// affiliate commission accrued on the order. A second call fails because
// ConfirmedAt is re-checked inside the transaction.
func (s *OrderService) ConfirmDelivery(orderID, buyerID uuid.UUID) (*models.Order, error) {
	var order *models.Order
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.First(&o, "id = ?", orderID).Error; err != nil {
			return apperrors.NotFound("order not found")
		}
		if o.ConfirmedAt != nil {
			return apperrors.InvalidState("delivery has already been confirmed")
		}
		if err := o.ConfirmableBy(buyerID); err != nil {
			return err
		}

		var escrow models.Escrow
		if err := tx.First(&escrow, "order_id = ?", o.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Precondition("order has no escrow, payment was never confirmed")
			}
			return apperrors.Internal("failed to load escrow", err)
		}
		if escrow.Status == models.EscrowStatusDisputed {
			return apperrors.InvalidState("escrow is held pending a dispute")
		}

		released := escrow.Remaining()
		if err := escrow.ApplyRelease(0); err != nil {
			return err
		}
		if err := tx.Save(&escrow).Error; err != nil {
			return apperrors.Internal("failed to release escrow", err)
		}

		now := time.Now()
		o.Status = models.OrderStatusDelivered
		if o.DeliveredAt == nil {
			o.DeliveredAt = &now
		}
		o.ConfirmedAt = &now
		if err := tx.Save(&o).Error; err != nil {
			return apperrors.Internal("failed to confirm order", err)
		}

		if released > 0 {
			if _, err := s.wallets.Apply(tx, o.SupplierID, LedgerEntry{
				OrderID:      &o.ID,
				Type:         models.WalletTxEscrowRelease,
				BalanceDelta: released,
				Description:  "escrow release on delivery confirmation",
			}); err != nil {
				return err
			}
			if _, err := s.wallets.Apply(tx, o.BuyerID, LedgerEntry{
				OrderID:     &o.ID,
				Type:        models.WalletTxEscrowRelease,
				LockedDelta: -released,
				Description: "escrow release on delivery confirmation",
			}); err != nil {
				return err
			}
		}

		if err := s.affiliates.UnlockForOrder(tx, o.ID, now); err != nil {
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

// ListForUser returns orders the caller participates in.
func (s *OrderService) ListForUser(userID uuid.UUID, role models.UserRole, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{})
	switch role {
	case models.RoleSupplier:
		query = query.Where("supplier_id = ?", userID)
	case models.RoleOps, models.RoleAdmin:
		// staff see everything
	default:
		query = query.Where("buyer_id = ?", userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count orders", err)
	}

	allowedSortFields := []string{"created_at", "status", "total_price"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Preload("Escrow").Find(&orders).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to fetch orders", err)
	}
	return orders, total, nil
}
