// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAuthAccessDenied       = "auth.access_denied"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// RFQ
	KeyRfqCreated     = "rfq.created"
	KeyRfqNotFound    = "rfq.not_found"
	KeyRfqSupplierSet = "rfq.supplier_assigned"
	KeyRfqQuoted      = "rfq.quoted"
	KeyRfqAccepted    = "rfq.accepted"
	KeyRfqRejected    = "rfq.rejected"
	KeyRfqCancelled   = "rfq.cancelled"
	KeyRfqDisabled    = "rfq.disabled"

	// Orders
	KeyOrderNotFound        = "order.not_found"
	KeyOrderCreated         = "order.created"
	KeyOrderStatusUpdated   = "order.status_updated"
	KeyOrderDeliveryConfirm = "order.delivery_confirmed"
	KeyOrderCancelled       = "order.cancelled"
	KeyBuyNowDisabled       = "order.buy_now_disabled"

	// Escrow
	KeyEscrowNotFound = "escrow.not_found"
	KeyEscrowReleased = "escrow.released"
	KeyEscrowRefunded = "escrow.refunded"
	KeyEscrowHeld     = "escrow.held"

	// Disputes
	KeyDisputeNotFound = "dispute.not_found"
	KeyDisputeOpened   = "dispute.opened"
	KeyDisputeAssigned = "dispute.assigned"
	KeyDisputeResolved = "dispute.resolved"

	// Wallet
	KeyWalletNotFound        = "wallet.not_found"
	KeyWalletWithdrawRequest = "wallet.withdrawal_requested"

	// Products
	KeyProductNotFound  = "product.not_found"
	KeyProductCreated   = "product.created"
	KeyProductModerated = "product.moderated"

	// Affiliate
	KeyAffiliatePayoutRequested = "affiliate.payout_requested"

	// Admin
	KeyAdminAccessDenied   = "admin.access_denied"
	KeyAdminActionComplete = "admin.action_complete"
	KeyFlagUpdated         = "admin.flag_updated"
	KeyPricingRuleSaved    = "admin.pricing_rule_saved"
)
