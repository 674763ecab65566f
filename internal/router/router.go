// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/banadama/banadama-backend/internal/config"
	"github.com/banadama/banadama-backend/internal/handlers"
	"github.com/banadama/banadama-backend/internal/middleware"
	"github.com/banadama/banadama-backend/internal/models"
	"github.com/banadama/banadama-backend/internal/services"
	"github.com/banadama/banadama-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, _ := services.NewStorageService(cfg)
	adminService := services.NewAdminService(db)
	walletService := services.NewWalletService(db, cfg)
	affiliateService := services.NewAffiliateService(db, cfg, walletService, adminService)
	authService := services.NewAuthService(db, cfg, walletService)
	rfqService := services.NewRFQService(db, cfg)
	orderService := services.NewOrderService(db, cfg, walletService, affiliateService)
	paymentService := services.NewPaymentService(db, cfg, walletService, affiliateService)
	escrowService := services.NewEscrowService(db, walletService, adminService)
	disputeService := services.NewDisputeService(db, walletService)
	productService := services.NewProductService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	rfqHandler := handlers.NewRFQHandler(rfqService)
	orderHandler := handlers.NewOrderHandler(orderService, paymentService)
	escrowHandler := handlers.NewEscrowHandler(escrowService)
	disputeHandler := handlers.NewDisputeHandler(disputeService, storageService)
	walletHandler := handlers.NewWalletHandler(walletService)
	affiliateHandler := handlers.NewAffiliateHandler(affiliateService)
	productHandler := handlers.NewProductHandler(productService, storageService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	limiters := middleware.NewRateLimiters(cfg)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language"},
		ExposeHeaders:    []string{"X-Total-Count", "X-Page", "X-Per-Page", "X-Total-Pages"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.I18nMiddleware())
	r.Use(limiters.General)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	v1 := r.Group("/v1")
	{
		// Authentication
		auth := v1.Group("/auth")
		auth.Use(limiters.Auth)
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Profile)
		}

		// Public catalog
		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), productHandler.List)
			products.GET("/:id", middleware.OptionalAuth(), productHandler.Get)

			protected := products.Group("")
			protected.Use(middleware.AuthRequired(), middleware.RolesRequired(models.RoleSupplier, models.RoleCreator))
			{
				protected.POST("", productHandler.Create)
				protected.PATCH("/:id", productHandler.Update)
				protected.POST("/images", limiters.Upload, productHandler.UploadImage)
			}
		}

		// RFQ workflow
		rfqs := v1.Group("/rfqs")
		rfqs.Use(middleware.AuthRequired())
		{
			rfqs.POST("", middleware.RolesRequired(models.RoleBuyer), rfqHandler.Create)
			rfqs.GET("", rfqHandler.List)
			rfqs.GET("/:id", rfqHandler.Get)
			rfqs.POST("/:id/accept", middleware.RolesRequired(models.RoleBuyer), rfqHandler.Accept)
			rfqs.POST("/:id/reject", middleware.RolesRequired(models.RoleBuyer), rfqHandler.Reject)
			rfqs.POST("/:id/cancel", middleware.RolesRequired(models.RoleBuyer), rfqHandler.Cancel)
		}

		// Orders, payment, delivery confirmation
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("/buy-now", middleware.RolesRequired(models.RoleBuyer), orderHandler.BuyNow)
			orders.GET("", orderHandler.List)
			orders.GET("/:id", orderHandler.Get)
			orders.PATCH("/:id/status", middleware.RolesRequired(models.RoleSupplier, models.RoleOps), orderHandler.UpdateStatus)
			orders.POST("/:id/cancel", orderHandler.Cancel)
			orders.POST("/:id/confirm-delivery", middleware.RolesRequired(models.RoleBuyer), orderHandler.ConfirmDelivery)
			orders.POST("/:id/payment-intent", middleware.RolesRequired(models.RoleBuyer), orderHandler.CreatePaymentIntent)
			orders.POST("/:id/confirm-payment", middleware.RolesRequired(models.RoleBuyer), orderHandler.ConfirmPayment)
		}

		// Disputes (parties + staff)
		disputes := v1.Group("/disputes")
		disputes.Use(middleware.AuthRequired())
		{
			disputes.POST("", disputeHandler.Open)
			disputes.GET("/:id", disputeHandler.Get)
			disputes.POST("/:id/notes", disputeHandler.AddNote)
			disputes.POST("/:id/evidence", limiters.Upload, disputeHandler.UploadEvidence)
		}

		// Wallet
		wallet := v1.Group("/wallet")
		wallet.Use(middleware.AuthRequired())
		{
			wallet.GET("", walletHandler.Get)
			wallet.GET("/transactions", walletHandler.Transactions)
			wallet.POST("/withdrawals", walletHandler.RequestWithdrawal)
		}

		// Affiliate program
		affiliate := v1.Group("/affiliate")
		affiliate.Use(middleware.AuthRequired(), middleware.RolesRequired(models.RoleAffiliate))
		{
			affiliate.GET("/sales", affiliateHandler.Sales)
			affiliate.GET("/balance", affiliateHandler.Balance)
			affiliate.POST("/payouts", affiliateHandler.RequestPayout)
		}

		// Supplier work queue
		supplier := v1.Group("/supplier")
		supplier.Use(middleware.AuthRequired(), middleware.RolesRequired(models.RoleSupplier))
		{
			supplier.GET("/rfqs", rfqHandler.ListAssigned)
		}

		// Ops console
		ops := v1.Group("/ops")
		ops.Use(middleware.AuthRequired(), middleware.OpsRequired())
		{
			ops.GET("/rfqs/pending", rfqHandler.ListPending)
			ops.POST("/rfqs/:id/assign", rfqHandler.AssignSupplier)
			ops.POST("/rfqs/:id/quote", rfqHandler.GenerateQuote)

			ops.GET("/disputes", disputeHandler.List)
			ops.POST("/disputes/:id/assign", disputeHandler.Assign)
			ops.POST("/disputes/:id/resolve", disputeHandler.Resolve)
			ops.POST("/disputes/:id/close", disputeHandler.Close)
		}

		// Admin console
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users/:id/control", adminHandler.AccountControl)
			admin.POST("/products/:id/moderate", adminHandler.ModerateProduct)
			admin.GET("/pricing-rules", adminHandler.ListPricingRules)
			admin.POST("/pricing-rules", adminHandler.CreatePricingRule)
			admin.DELETE("/pricing-rules/:id", adminHandler.DeactivatePricingRule)
			admin.GET("/feature-flags", adminHandler.ListFeatureFlags)
			admin.PUT("/feature-flags/:key", adminHandler.SetFeatureFlag)
			admin.GET("/audit-logs", adminHandler.ListAuditLogs)

			// Escrow and payout settlement require the finance scope on top
			// of the admin role.
			finance := admin.Group("")
			finance.Use(middleware.FinanceAdminRequired())
			{
				finance.GET("/escrows/order/:orderId", escrowHandler.GetByOrder)
				finance.POST("/escrows/:id/release", escrowHandler.Release)
				finance.POST("/escrows/:id/refund", escrowHandler.Refund)
				finance.POST("/escrows/:id/hold", escrowHandler.Hold)
				finance.GET("/affiliate/payouts", affiliateHandler.ListPayouts)
				finance.POST("/affiliate/payouts/:id/approve", affiliateHandler.ApprovePayout)
				finance.POST("/affiliate/payouts/:id/reject", affiliateHandler.RejectPayout)
			}
		}
	}

	return r
}
