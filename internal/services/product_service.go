// internal/services/product_service.go
package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/banadama/banadama-backend/internal/apperrors"
	"github.com/banadama/banadama-backend/internal/models"
	"github.com/banadama/banadama-backend/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

type CreateProductRequest struct {
	Title         string   `json:"title" validate:"required,max=255"`
	Description   string   `json:"description"`
	Category      string   `json:"category" validate:"required,max=50"`
	OriginCountry string   `json:"origin_country" validate:"required,country_code"`
	UnitPrice     int64    `json:"unit_price" validate:"required,min=1"`
	MOQ           int      `json:"moq" validate:"min=1"`
	BuyNowEnabled bool     `json:"buy_now_enabled"`
	Images        []string `json:"images"`
}

// Create lists a new product. Listings start in pending review and only
// become purchasable once moderation approves them.
func (s *ProductService) Create(supplierID uuid.UUID, req CreateProductRequest) (*models.Product, error) {
	var supplier models.User
	if err := s.db.First(&supplier, "id = ?", supplierID).Error; err != nil {
		return nil, apperrors.NotFound("supplier not found")
	}
	if !supplier.CanListProducts {
		return nil, apperrors.Forbidden("listing products is disabled for this account")
	}

	moq := req.MOQ
	if moq < 1 {
		moq = 1
	}

	var images models.JSONB
	if len(req.Images) > 0 {
		images = models.JSONB{"urls": req.Images}
	}

	product := &models.Product{
		SupplierID:    supplierID,
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		OriginCountry: req.OriginCountry,
		UnitPrice:     req.UnitPrice,
		Currency:      "NGN",
		MOQ:           moq,
		BuyNowEnabled: req.BuyNowEnabled,
		Status:        models.ProductStatusPendingReview,
		Images:        images,
	}
	if err := s.db.Create(product).Error; err != nil {
		return nil, apperrors.Internal("failed to create product", err)
	}
	return product, nil
}

func (s *ProductService) GetByID(productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Supplier").First(&product, "id = ?", productID).Error; err != nil {
		return nil, apperrors.NotFound("product not found")
	}
	return &product, nil
}

type ProductFilter struct {
	Category string
	Country  string
	Status   models.ProductStatus
	Supplier *uuid.UUID
}

// List returns the public catalog: active listings only, unless the filter
// narrows further (the admin console passes explicit statuses).
func (s *ProductService) List(filter ProductFilter, params utils.PaginationParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{})

	status := filter.Status
	if status == "" {
		status = models.ProductStatusActive
	}
	query = query.Where("status = ?", status)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Country != "" {
		query = query.Where("origin_country = ?", filter.Country)
	}
	if filter.Supplier != nil {
		query = query.Where("supplier_id = ?", *filter.Supplier)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count products", err)
	}

	allowedSortFields := []string{"created_at", "unit_price", "title", "category"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Preload("Supplier").Find(&products).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to fetch products", err)
	}
	return products, total, nil
}

type UpdateProductRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	UnitPrice     *int64  `json:"unit_price"`
	MOQ           *int    `json:"moq"`
	BuyNowEnabled *bool   `json:"buy_now_enabled"`
}

// Update edits a supplier's own listing. Price and content edits put the
// listing back into review.
func (s *ProductService) Update(productID, supplierID uuid.UUID, req UpdateProductRequest) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		return nil, apperrors.NotFound("product not found")
	}
	if product.SupplierID != supplierID {
		return nil, apperrors.Forbidden("only the listing's supplier may edit it")
	}

	needsReview := false
	if req.Title != nil {
		product.Title = *req.Title
		needsReview = true
	}
	if req.Description != nil {
		product.Description = *req.Description
		needsReview = true
	}
	if req.UnitPrice != nil {
		if *req.UnitPrice <= 0 {
			return nil, apperrors.Validation("unit price must be positive")
		}
		product.UnitPrice = *req.UnitPrice
		needsReview = true
	}
	if req.MOQ != nil {
		if *req.MOQ < 1 {
			return nil, apperrors.Validation("minimum order quantity must be at least 1")
		}
		product.MOQ = *req.MOQ
	}
	if req.BuyNowEnabled != nil {
		product.BuyNowEnabled = *req.BuyNowEnabled
	}

	if needsReview && product.Status == models.ProductStatusActive {
		product.Status = models.ProductStatusPendingReview
	}

	if err := s.db.Save(&product).Error; err != nil {
		return nil, apperrors.Internal("failed to update product", err)
	}
	return &product, nil
}
