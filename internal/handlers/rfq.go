// internal/handlers/rfq.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/banadama/banadama-backend/internal/i18n"
	"github.com/banadama/banadama-backend/internal/services"
	"github.com/banadama/banadama-backend/internal/utils"
)

type RFQHandler struct {
	rfqService *services.RFQService
}

func NewRFQHandler(rfqService *services.RFQService) *RFQHandler {
	return &RFQHandler{rfqService: rfqService}
}

// POST /rfqs
func (h *RFQHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateRFQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	rfq, err := h.rfqService.Create(buyerID, req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRfqCreated),
		"rfq":     rfq,
	})
}

// GET /rfqs
func (h *RFQHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	rfqs, total, err := h.rfqService.ListForBuyer(userID, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(rfqs, total, params))
}

// GET /rfqs/:id
func (h *RFQHandler) Get(c *gin.Context) {
	rfqID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	rfq, err := h.rfqService.GetByID(rfqID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, rfq)
}

// POST /rfqs/:id/accept
func (h *RFQHandler) Accept(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}
	rfqID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	order, err := h.rfqService.Accept(rfqID, buyerID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRfqAccepted),
		"order":   order,
	})
}

// POST /rfqs/:id/reject
func (h *RFQHandler) Reject(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}
	rfqID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	rfq, err := h.rfqService.Reject(rfqID, buyerID, req.Reason)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRfqRejected),
		"rfq":     rfq,
	})
}

// POST /rfqs/:id/cancel
func (h *RFQHandler) Cancel(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}
	rfqID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	rfq, err := h.rfqService.Cancel(rfqID, buyerID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRfqCancelled),
		"rfq":     rfq,
	})
}

// GET /ops/rfqs/pending
func (h *RFQHandler) ListPending(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	rfqs, total, err := h.rfqService.ListPending(params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(rfqs, total, params))
}

// POST /ops/rfqs/:id/assign
func (h *RFQHandler) AssignSupplier(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	rfqID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req struct {
		SupplierID string `json:"supplier_id" validate:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	supplierID, err := parseUUIDField(req.SupplierID)
	if err != nil {
		utils.BadRequestResponse(c, "invalid supplier_id", nil)
		return
	}

	rfq, svcErr := h.rfqService.AssignSupplier(rfqID, supplierID)
	if svcErr != nil {
		utils.AppErrorResponse(c, svcErr)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRfqSupplierSet),
		"rfq":     rfq,
	})
}

// POST /ops/rfqs/:id/quote
func (h *RFQHandler) GenerateQuote(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	opsID, ok := currentUserID(c)
	if !ok {
		return
	}
	rfqID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.GenerateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	rfq, err := h.rfqService.GenerateQuote(rfqID, opsID, req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRfqQuoted),
		"rfq":     rfq,
	})
}

// GET /supplier/rfqs
func (h *RFQHandler) ListAssigned(c *gin.Context) {
	supplierID, ok := currentUserID(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	rfqs, total, err := h.rfqService.ListForSupplier(supplierID, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(rfqs, total, params))
}
