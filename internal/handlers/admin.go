// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/banadama/banadama-backend/internal/i18n"
	"github.com/banadama/banadama-backend/internal/models"
	"github.com/banadama/banadama-backend/internal/services"
	"github.com/banadama/banadama-backend/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// GET /admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}

// GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	role := models.UserRole(c.Query("role"))
	status := models.UserStatus(c.Query("status"))

	users, total, err := h.adminService.ListUsers(role, status, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(users, total, params))
}

// POST /admin/users/:id/control
func (h *AdminHandler) AccountControl(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Action models.AccountControlAction `json:"action" validate:"required"`
		Reason string                      `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	user, err := h.adminService.ApplyAccountControl(userID, adminID, req.Action, req.Reason)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAdminActionComplete),
		"user":    user,
	})
}

// POST /admin/products/:id/moderate
func (h *AdminHandler) ModerateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Action models.ProductModerationAction `json:"action" validate:"required"`
		Reason string                         `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.adminService.ModerateProduct(productID, adminID, req.Action, req.Reason)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductModerated),
		"product": product,
	})
}

// GET /admin/pricing-rules
func (h *AdminHandler) ListPricingRules(c *gin.Context) {
	rules, err := h.adminService.ListPricingRules()
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, rules)
}

// POST /admin/pricing-rules
func (h *AdminHandler) CreatePricingRule(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.PricingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	rule, err := h.adminService.CreatePricingRule(adminID, req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPricingRuleSaved),
		"rule":    rule,
	})
}

// DELETE /admin/pricing-rules/:id
func (h *AdminHandler) DeactivatePricingRule(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	ruleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	rule, err := h.adminService.DeactivatePricingRule(ruleID, adminID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, rule)
}

// GET /admin/feature-flags
func (h *AdminHandler) ListFeatureFlags(c *gin.Context) {
	flags, err := h.adminService.ListFeatureFlags()
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, flags)
}

// PUT /admin/feature-flags/:key
func (h *AdminHandler) SetFeatureFlag(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	key := c.Param("key")

	var req struct {
		Enabled     *bool  `json:"enabled" validate:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	flag, err := h.adminService.SetFeatureFlag(key, adminID, *req.Enabled, req.Description)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFlagUpdated),
		"flag":    flag,
	})
}

// GET /admin/audit-logs
func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := services.AuditLogFilter{
		Action:     c.Query("action"),
		TargetType: c.Query("target_type"),
	}
	if actor := c.Query("actor_id"); actor != "" {
		if actorID, err := uuid.Parse(actor); err == nil {
			filter.ActorID = &actorID
		}
	}

	logs, total, err := h.adminService.ListAuditLogs(filter, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(logs, total, params))
}
