// internal/handlers/dispute.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/banadama/banadama-backend/internal/i18n"
	"github.com/banadama/banadama-backend/internal/models"
	"github.com/banadama/banadama-backend/internal/services"
	"github.com/banadama/banadama-backend/internal/utils"
)

type DisputeHandler struct {
	disputeService *services.DisputeService
	storageService *services.StorageService
}

func NewDisputeHandler(disputeService *services.DisputeService, storageService *services.StorageService) *DisputeHandler {
	return &DisputeHandler{disputeService: disputeService, storageService: storageService}
}

// POST /disputes
func (h *DisputeHandler) Open(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		OrderID string `json:"order_id" validate:"required,uuid"`
		Reason  string `json:"reason" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	orderID, err := parseUUIDField(req.OrderID)
	if err != nil {
		utils.BadRequestResponse(c, "invalid order_id", nil)
		return
	}

	dispute, svcErr := h.disputeService.Open(orderID, userID, currentUserRole(c), req.Reason)
	if svcErr != nil {
		utils.AppErrorResponse(c, svcErr)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyDisputeOpened),
		"dispute": dispute,
	})
}

// GET /disputes/:id
func (h *DisputeHandler) Get(c *gin.Context) {
	disputeID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	dispute, err := h.disputeService.GetByID(disputeID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, dispute)
}

// POST /disputes/:id/notes
func (h *DisputeHandler) AddNote(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	disputeID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Note string `json:"note" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if err := h.disputeService.AddNote(disputeID, userID, req.Note); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "note added"})
}

// POST /disputes/:id/evidence
func (h *DisputeHandler) UploadEvidence(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	disputeID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "evidence file is required", nil)
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadFile(file, header, services.EvidenceUploadOptions())
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	note := c.Request.FormValue("note")
	if err := h.disputeService.AddEvidence(disputeID, userID, result.URL, note); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

// GET /ops/disputes
func (h *DisputeHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	status := models.DisputeStatus(c.Query("status"))

	disputes, total, err := h.disputeService.List(status, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(disputes, total, params))
}

// POST /ops/disputes/:id/assign
func (h *DisputeHandler) Assign(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	opsID, ok := currentUserID(c)
	if !ok {
		return
	}
	disputeID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	dispute, err := h.disputeService.Assign(disputeID, opsID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyDisputeAssigned),
		"dispute": dispute,
	})
}

// POST /ops/disputes/:id/resolve
func (h *DisputeHandler) Resolve(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	opsID, ok := currentUserID(c)
	if !ok {
		return
	}
	disputeID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.ResolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	dispute, err := h.disputeService.Resolve(disputeID, opsID, req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyDisputeResolved),
		"dispute": dispute,
	})
}

// POST /ops/disputes/:id/close
func (h *DisputeHandler) Close(c *gin.Context) {
	opsID, ok := currentUserID(c)
	if !ok {
		return
	}
	disputeID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	dispute, err := h.disputeService.Close(disputeID, opsID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, dispute)
}
