// internal/services/rfq_service.go
package services

import (
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

type RFQService struct {
	db     *gorm.DB
	config *config.Config
}

func NewRFQService(db *gorm.DB, config *config.Config) *RFQService {
	return &RFQService{db: db, config: config}
}

type CreateRFQRequest struct {
	ProductName     string             `json:"product_name" validate:"required,max=255"`
	Description     string             `json:"description"`
	Category        string             `json:"category" validate:"required,max=50"`
	Quantity        int                `json:"quantity" validate:"required,min=1"`
	TargetPrice     *int64             `json:"target_price"`
	DeliveryAddress string             `json:"delivery_address" validate:"required"`
	DeliveryCountry string             `json:"delivery_country" validate:"required,country_code"`
	ServiceTier     models.ServiceTier `json:"service_tier"`
}

type GenerateQuoteRequest struct {
	UnitPrice        int64  `json:"unit_price" validate:"required,min=1"`
	ShippingEstimate int64  `json:"shipping_estimate" validate:"min=0"`
	Notes            string `json:"notes"`
}

// Create opens a new sourcing request for the buyer.
func (s *RFQService) Create(buyerID uuid.UUID, req CreateRFQRequest) (*models.Request, error) {
	if enabled, err := featureEnabled(s.db, "rfq_enabled"); err == nil && !enabled {
		return nil, apperrors.Precondition("the RFQ program is temporarily disabled")
	}

	var buyer models.User
	if err := s.db.First(&buyer, "id = ?", buyerID).Error; err != nil {
		return nil, apperrors.NotFound("buyer not found")
	}
	if !buyer.CanCreateOrders {
		return nil, apperrors.Forbidden("ordering is disabled for this account")
	}

	tier := req.ServiceTier
	if tier == "" {
		tier = models.ServiceTierStandard
	}

	rfq := &models.Request{
		BuyerID:         buyerID,
		ProductName:     req.ProductName,
		Description:     req.Description,
		Category:        req.Category,
		Quantity:        req.Quantity,
		TargetPrice:     req.TargetPrice,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryCountry: req.DeliveryCountry,
		ServiceTier:     tier,
		Status:          models.RequestStatusPending,
	}
	if err := s.db.Create(rfq).Error; err != nil {
		return nil, apperrors.Internal("failed to create RFQ", err)
	}
	return rfq, nil
}

func (s *RFQService) GetByID(rfqID uuid.UUID) (*models.Request, error) {
	var rfq models.Request
	if err := s.db.Preload("Buyer").Preload("Supplier").First(&rfq, "id = ?", rfqID).Error; err != nil {
		return nil, apperrors.NotFound("RFQ not found")
	}
	return &rfq, nil
}

// AssignSupplier attaches a supplier to a pending request. Ops only.
func (s *RFQService) AssignSupplier(rfqID, supplierID uuid.UUID) (*models.Request, error) {
	var rfq models.Request
	if err := s.db.First(&rfq, "id = ?", rfqID).Error; err != nil {
		return nil, apperrors.NotFound("RFQ not found")
	}
	if err := rfq.EnsureAssignable(); err != nil {
		return nil, err
	}

	var supplier models.User
	if err := s.db.First(&supplier, "id = ? AND role = ?", supplierID, models.RoleSupplier).Error; err != nil {
		return nil, apperrors.NotFound("supplier not found")
	}
	if !supplier.CanRespondToRfq {
		return nil, apperrors.Precondition("supplier cannot currently take RFQs")
	}

	rfq.SupplierID = &supplier.ID
	if err := s.db.Save(&rfq).Error; err != nil {
		return nil, apperrors.Internal("failed to assign supplier", err)
	}
	return &rfq, nil
}

// GenerateQuote prices the request and moves it to quoted. The breakdown is
// stored on the request so acceptance snapshots exactly what the buyer saw.
func (s *RFQService) GenerateQuote(rfqID, opsID uuid.UUID, req GenerateQuoteRequest) (*models.Request, error) {
	var rfq models.Request
	if err := s.db.First(&rfq, "id = ?", rfqID).Error; err != nil {
		return nil, apperrors.NotFound("RFQ not found")
	}
	if err := rfq.EnsureQuotable(); err != nil {
		return nil, err
	}

	rules, err := s.activePricingRules()
	if err != nil {
		return nil, err
	}

	breakdown, err := pricing.Calculate(pricing.Input{
		UnitPrice:          req.UnitPrice,
		Quantity:           rfq.Quantity,
		Category:           rfq.Category,
		DestinationCountry: rfq.DeliveryCountry,
		ServiceTier:        rfq.ServiceTier,
		ShippingEstimate:   req.ShippingEstimate,
	}, rules)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rfq.UnitPrice = &req.UnitPrice
	rfq.Quote = breakdown.ToJSONB()
	rfq.EstimatedTotal = &breakdown.Total
	rfq.QuoteNotes = req.Notes
	rfq.QuotedBy = &opsID
	rfq.QuotedAt = &now
	rfq.Status = models.RequestStatusQuoted

	if err := s.db.Save(&rfq).Error; err != nil {
		return nil, apperrors.Internal("failed to save quote", err)
	}
	return &rfq, nil
}

// Accept converts a quoted request into a pending order in one transaction.
// The order carries the quote's pricing snapshot unchanged.
func (s *RFQService) Accept(rfqID, buyerID uuid.UUID) (*models.Order, error) {
	var order *models.Order
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var rfq models.Request
		if err := tx.First(&rfq, "id = ?", rfqID).Error; err != nil {
			return apperrors.NotFound("RFQ not found")
		}
		if err := rfq.EnsureAcceptableBy(buyerID); err != nil {
			return err
		}
		if rfq.SupplierID == nil || rfq.UnitPrice == nil || rfq.EstimatedTotal == nil {
			return apperrors.Precondition("RFQ quote is incomplete")
		}

		order = &models.Order{
			BuyerID:         rfq.BuyerID,
			SupplierID:      *rfq.SupplierID,
			RequestID:       &rfq.ID,
			ProductName:     rfq.ProductName,
			Quantity:        rfq.Quantity,
			UnitPrice:       *rfq.UnitPrice,
			TotalPrice:      *rfq.EstimatedTotal,
			Currency:        "NGN",
			PricingSnapshot: rfq.Quote,
			DeliveryAddress: rfq.DeliveryAddress,
			DeliveryCountry: rfq.DeliveryCountry,
			ServiceTier:     rfq.ServiceTier,
			Status:          models.OrderStatusPending,
		}
		if err := tx.Create(order).Error; err != nil {
			return apperrors.Internal("failed to create order from quote", err)
		}

		rfq.Status = models.RequestStatusApproved
		if err := tx.Save(&rfq).Error; err != nil {
			return apperrors.Internal("failed to approve RFQ", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Reject declines a quote. The request keeps the quote fields for the record.
func (s *RFQService) Reject(rfqID, buyerID uuid.UUID, reason string) (*models.Request, error) {
	var rfq models.Request
	if err := s.db.First(&rfq, "id = ?", rfqID).Error; err != nil {
		return nil, apperrors.NotFound("RFQ not found")
	}
	if err := rfq.EnsureAcceptableBy(buyerID); err != nil {
		return nil, err
	}

	now := time.Now()
	rfq.Status = models.RequestStatusRejected
	rfq.RejectionReason = reason
	rfq.RejectedAt = &now
	if err := s.db.Save(&rfq).Error; err != nil {
		return nil, apperrors.Internal("failed to reject quote", err)
	}
	return &rfq, nil
}

// Cancel withdraws a request before it has been quoted.
func (s *RFQService) Cancel(rfqID, buyerID uuid.UUID) (*models.Request, error) {
	var rfq models.Request
	if err := s.db.First(&rfq, "id = ?", rfqID).Error; err != nil {
		return nil, apperrors.NotFound("RFQ not found")
	}
	if err := rfq.EnsureCancellableBy(buyerID); err != nil {
		return nil, err
	}

	now := time.Now()
	rfq.Status = models.RequestStatusRejected
	rfq.RejectionReason = "cancelled by buyer"
	rfq.RejectedAt = &now
	if err := s.db.Save(&rfq).Error; err != nil {
		return nil, apperrors.Internal("failed to cancel RFQ", err)
	}
	return &rfq, nil
}

// ListForBuyer returns the buyer's own requests, newest first.
func (s *RFQService) ListForBuyer(buyerID uuid.UUID, params utils.PaginationParams) ([]models.Request, int64, error) {
	return s.list(s.db.Where("buyer_id = ?", buyerID), params)
}

// ListPending returns the ops work queue of unquoted requests.
func (s *RFQService) ListPending(params utils.PaginationParams) ([]models.Request, int64, error) {
	return s.list(s.db.Where("status = ?", models.RequestStatusPending), params)
}

// ListForSupplier returns requests assigned to the supplier.
func (s *RFQService) ListForSupplier(supplierID uuid.UUID, params utils.PaginationParams) ([]models.Request, int64, error) {
	return s.list(s.db.Where("supplier_id = ?", supplierID), params)
}

func (s *RFQService) list(scope *gorm.DB, params utils.PaginationParams) ([]models.Request, int64, error) {
	query := scope.Model(&models.Request{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count RFQs", err)
	}

	allowedSortFields := []string{"created_at", "status", "quantity", "category"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var requests []models.Request
	if err := query.Preload("Buyer").Preload("Supplier").Find(&requests).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to fetch RFQs", err)
	}
	return requests, total, nil
}

func (s *RFQService) activePricingRules() ([]models.PricingRule, error) {
	var rules []models.PricingRule
	if err := s.db.Where("active = ?", true).Find(&rules).Error; err != nil {
		return nil, apperrors.Internal("failed to load pricing rules", err)
	}
	return rules, nil
}
