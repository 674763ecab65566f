// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/banadama/banadama-backend/internal/config"
	"github.com/banadama/banadama-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Request{},
		&models.Order{},
		&models.Escrow{},
		&models.Dispute{},
		&models.DisputeEvent{},
		&models.Wallet{},
		&models.WalletTransaction{},
		&models.AffiliateSale{},
		&models.AffiliatePayout{},
		&models.PricingRule{},
		&models.FeatureFlag{},
		&models.AdminAuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_role_status ON users(role, status)",
		"CREATE INDEX IF NOT EXISTS idx_users_referral_code ON users(referral_code)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_supplier ON products(supplier_id)",
		"CREATE INDEX IF NOT EXISTS idx_products_category_status ON products(category, status)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// RFQ indexes
		"CREATE INDEX IF NOT EXISTS idx_requests_buyer_status ON requests(buyer_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_requests_supplier ON requests(supplier_id)",
		"CREATE INDEX IF NOT EXISTS idx_requests_created_at ON requests(created_at DESC)",

		// Order / escrow indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_buyer_status ON orders(buyer_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_supplier_status ON orders(supplier_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_escrows_status ON escrows(status)",

		// Dispute indexes
		"CREATE INDEX IF NOT EXISTS idx_disputes_order ON disputes(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_disputes_status ON disputes(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_dispute_events_dispute ON dispute_events(dispute_id, created_at)",

		// Wallet indexes
		"CREATE INDEX IF NOT EXISTS idx_wallet_transactions_wallet ON wallet_transactions(wallet_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_wallet_transactions_order ON wallet_transactions(order_id)",

		// Affiliate indexes
		"CREATE INDEX IF NOT EXISTS idx_affiliate_sales_affiliate_status ON affiliate_sales(affiliate_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_affiliate_payouts_affiliate ON affiliate_payouts(affiliate_id, status)",

		// Admin indexes
		"CREATE INDEX IF NOT EXISTS idx_admin_audit_logs_actor_action ON admin_audit_logs(actor_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_admin_audit_logs_target ON admin_audit_logs(target_type, target_id)",
		"CREATE INDEX IF NOT EXISTS idx_admin_audit_logs_created ON admin_audit_logs(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_pricing_rules_scope ON pricing_rules(scope, active, priority DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Username:   "admin",
			Email:      "admin@banadama.com",
			Role:       models.RoleAdmin,
			AdminScope: models.AdminScopeFinance,
			Status:     models.UserStatusActive,
			Country:    "NG",
			ProfileData: models.JSONB{
				"first_name": "System",
				"last_name":  "Administrator",
			},
		}

		if err := admin.SetPassword("admin123!@#"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("Default admin user created successfully")
	}

	defaultFlags := []models.FeatureFlag{
		{Key: "rfq_enabled", Enabled: true, Description: "Accept new buyer RFQs"},
		{Key: "buy_now_enabled", Enabled: true, Description: "Allow fixed-price Buy Now orders"},
		{Key: "affiliate_program_enabled", Enabled: true, Description: "Accrue affiliate commission on referred orders"},
		{Key: "withdrawals_enabled", Enabled: true, Description: "Allow wallet withdrawal requests"},
	}

	for _, flag := range defaultFlags {
		var count int64
		db.Model(&models.FeatureFlag{}).Where("key = ?", flag.Key).Count(&count)
		if count == 0 {
			if err := db.Create(&flag).Error; err != nil {
				log.Printf("Warning: Failed to create feature flag %s: %v", flag.Key, err)
			}
		}
	}

	log.Println("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
