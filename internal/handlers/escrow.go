// internal/handlers/escrow.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/banadama/banadama-backend/internal/i18n"
	"github.com/banadama/banadama-backend/internal/services"
	"github.com/banadama/banadama-backend/internal/utils"
)

// EscrowHandler exposes the finance-admin escrow operations. The router
// mounts it behind the finance admin scope check.
type EscrowHandler struct {
	escrowService *services.EscrowService
}

func NewEscrowHandler(escrowService *services.EscrowService) *EscrowHandler {
	return &EscrowHandler{escrowService: escrowService}
}

type escrowActionRequest struct {
	Amount int64  `json:"amount" validate:"min=0"`
	Reason string `json:"reason" validate:"required"`
}

// GET /admin/escrows/order/:orderId
func (h *EscrowHandler) GetByOrder(c *gin.Context) {
	orderID, ok := pathUUID(c, "orderId")
	if !ok {
		return
	}

	escrow, err := h.escrowService.GetByOrder(orderID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, escrow)
}

// POST /admin/escrows/:id/release
func (h *EscrowHandler) Release(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	escrowID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req escrowActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	escrow, err := h.escrowService.Release(escrowID, adminID, req.Amount, req.Reason)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyEscrowReleased),
		"escrow":  escrow,
	})
}

// POST /admin/escrows/:id/refund
func (h *EscrowHandler) Refund(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	escrowID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req escrowActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	escrow, err := h.escrowService.Refund(escrowID, adminID, req.Amount, req.Reason)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyEscrowRefunded),
		"escrow":  escrow,
	})
}

// POST /admin/escrows/:id/hold
func (h *EscrowHandler) Hold(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	escrowID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	escrow, err := h.escrowService.Hold(escrowID, adminID, req.Reason)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyEscrowHeld),
		"escrow":  escrow,
	})
}
