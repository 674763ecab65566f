// internal/handlers/affiliate.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/banadama/banadama-backend/internal/i18n"
	"github.com/banadama/banadama-backend/internal/models"
	"github.com/banadama/banadama-backend/internal/services"
	"github.com/banadama/banadama-backend/internal/utils"
)

type AffiliateHandler struct {
	affiliateService *services.AffiliateService
}

func NewAffiliateHandler(affiliateService *services.AffiliateService) *AffiliateHandler {
	return &AffiliateHandler{affiliateService: affiliateService}
}

// GET /affiliate/sales
func (h *AffiliateHandler) Sales(c *gin.Context) {
	affiliateID, ok := currentUserID(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	sales, total, err := h.affiliateService.ListSales(affiliateID, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(sales, total, params))
}

// GET /affiliate/balance
func (h *AffiliateHandler) Balance(c *gin.Context) {
	affiliateID, ok := currentUserID(c)
	if !ok {
		return
	}

	balance, err := h.affiliateService.AccruedBalance(affiliateID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"accrued_balance": balance,
		"currency":        "NGN",
	})
}

// POST /affiliate/payouts
func (h *AffiliateHandler) RequestPayout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	affiliateID, ok := currentUserID(c)
	if !ok {
		return
	}

	payout, err := h.affiliateService.RequestPayout(affiliateID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAffiliatePayoutRequested),
		"payout":  payout,
	})
}

// GET /admin/affiliate/payouts
func (h *AffiliateHandler) ListPayouts(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	status := models.PayoutStatus(c.Query("status"))

	payouts, total, err := h.affiliateService.ListPayouts(status, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(payouts, total, params))
}

// POST /admin/affiliate/payouts/:id/approve
func (h *AffiliateHandler) ApprovePayout(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	payoutID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	payout, err := h.affiliateService.ApprovePayout(payoutID, adminID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, payout)
}

// POST /admin/affiliate/payouts/:id/reject
func (h *AffiliateHandler) RejectPayout(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	payoutID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	payout, err := h.affiliateService.RejectPayout(payoutID, adminID, req.Reason)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, payout)
}
