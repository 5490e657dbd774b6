package services

import (
	"os"
	"testing"

	"loyalty-backend/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	var err error
	testDB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
	// Limit to 1 open connection to prevent SQLite concurrent access
	// issues with in-memory databases. Concurrent transactions then
	// serialize at the connection, which also stands in for the
	// row-level locks the Postgres deployment relies on.
	sqlDB, _ := testDB.DB()
	sqlDB.SetMaxOpenConns(1)

	// Create tables using raw SQLite-compatible SQL instead of AutoMigrate,
	// because the GORM model tags use PostgreSQL-specific defaults like gen_random_uuid().
	if err := createSQLiteTables(testDB); err != nil {
		panic("failed to migrate test database: " + err.Error())
	}

	code := m.Run()
	os.Exit(code)
}

// freshDB returns a clean database for each test by deleting all rows.
func freshDB() *gorm.DB {
	testDB.Exec("DELETE FROM point_transactions")
	testDB.Exec("DELETE FROM provider_balances")
	testDB.Exec("DELETE FROM vendor_user_links")
	testDB.Exec("DELETE FROM providers")
	testDB.Exec("DELETE FROM users")
	return testDB
}

func createSQLiteTables(db *gorm.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS "users" (
			"id" TEXT PRIMARY KEY,
			"email" TEXT NOT NULL UNIQUE,
			"password" TEXT NOT NULL,
			"name" TEXT,
			"role" TEXT DEFAULT 'customer',
			"phone" TEXT,
			"is_blocked" INTEGER DEFAULT 0,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			"deleted_at" DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_deleted_at ON "users"("deleted_at")`,

		`CREATE TABLE IF NOT EXISTS "providers" (
			"id" TEXT PRIMARY KEY,
			"name" TEXT NOT NULL,
			"trade_name" TEXT,
			"slug" TEXT NOT NULL UNIQUE,
			"category" TEXT,
			"description" TEXT,
			"web_link" TEXT,
			"is_active" INTEGER DEFAULT 1,
			"points_to_value_ratio" REAL DEFAULT 1,
			"transfer_fee_percent" REAL DEFAULT 0,
			"exchange_rate_base" REAL DEFAULT 1,
			"exchange_fee_percent" REAL DEFAULT 0,
			"metadata" TEXT,
			"created_at" DATETIME,
			"updated_at" DATETIME
		)`,

		`CREATE TABLE IF NOT EXISTS "provider_balances" (
			"id" TEXT PRIMARY KEY,
			"user_id" TEXT NOT NULL,
			"provider_id" TEXT NOT NULL,
			"balance" INTEGER NOT NULL DEFAULT 0,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			CONSTRAINT idx_balance_user_provider UNIQUE ("user_id", "provider_id")
		)`,

		`CREATE TABLE IF NOT EXISTS "point_transactions" (
			"id" TEXT PRIMARY KEY,
			"user_id" TEXT NOT NULL,
			"provider_id" TEXT NOT NULL,
			"type" TEXT NOT NULL,
			"points" INTEGER NOT NULL,
			"balance_after" INTEGER NOT NULL,
			"description" TEXT,
			"metadata" TEXT,
			"expires_at" DATETIME,
			"created_at" DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_point_transactions_user_id ON "point_transactions"("user_id")`,
		`CREATE INDEX IF NOT EXISTS idx_point_transactions_provider_id ON "point_transactions"("provider_id")`,

		`CREATE TABLE IF NOT EXISTS "vendor_user_links" (
			"id" TEXT PRIMARY KEY,
			"vendor_email" TEXT NOT NULL,
			"provider_id" TEXT NOT NULL,
			"user_id" TEXT NOT NULL,
			"linked_at" DATETIME,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			CONSTRAINT idx_link_email_provider UNIQUE ("vendor_email", "provider_id"),
			CONSTRAINT idx_link_user_provider UNIQUE ("user_id", "provider_id")
		)`,
	}

	for _, ddl := range tables {
		if err := db.Exec(ddl).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedUser(db *gorm.DB, email string) models.User {
	user := models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "hashed",
		Name:     "Test User",
		Role:     "customer",
	}
	db.Create(&user)
	return user
}

type providerOpts struct {
	Ratio    float64
	Fee      float64
	RateBase float64
	RateFee  float64
	Inactive bool
}

func seedProvider(db *gorm.DB, slug string, opts providerOpts) models.Provider {
	if opts.Ratio == 0 {
		opts.Ratio = 1
	}
	if opts.RateBase == 0 {
		opts.RateBase = 1
	}
	provider := models.Provider{
		ID:                 uuid.New(),
		Name:               slug,
		Slug:               slug,
		IsActive:           !opts.Inactive,
		PointsToValueRatio: opts.Ratio,
		TransferFeePercent: opts.Fee,
		ExchangeRateBase:   opts.RateBase,
		ExchangeFeePercent: opts.RateFee,
	}
	db.Create(&provider)
	return provider
}

func seedBalance(db *gorm.DB, userID, providerID uuid.UUID, balance int) {
	db.Create(&models.ProviderBalance{
		ID:         uuid.New(),
		UserID:     userID,
		ProviderID: providerID,
		Balance:    balance,
	})
}

func countTransactions(t *testing.T, db *gorm.DB, userID, providerID uuid.UUID) int64 {
	t.Helper()
	var count int64
	db.Model(&models.PointTransaction{}).
		Where("user_id = ? AND provider_id = ?", userID, providerID).
		Count(&count)
	return count
}

func currentBalance(t *testing.T, db *gorm.DB, userID, providerID uuid.UUID) int {
	t.Helper()
	var balance models.ProviderBalance
	if err := db.Where("user_id = ? AND provider_id = ?", userID, providerID).First(&balance).Error; err != nil {
		t.Fatalf("failed to read balance: %v", err)
	}
	return balance.Balance
}
