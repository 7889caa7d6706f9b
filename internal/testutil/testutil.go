// Package testutil provides a throwaway SQLite database migrated with the
// production schema, for tests that need real transactions.
package testutil

import (
	"path/filepath"
	"testing"

	"storefront-service/internal/domain"
	"storefront-service/internal/logger"
	mysqlrepo "storefront-service/internal/repository/mysql"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	l, err := logger.New("test")
	if err != nil {
		tb.Fatalf("failed to init logger: %v", err)
	}
	return l
}

// DB opens a fresh file-backed SQLite database. The pool is capped at one
// connection, so transactions from concurrent goroutines serialize.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "storefront.db")
	db, err := gorm.Open(sqlite.Open("file:"+path+"?_busy_timeout=5000&_foreign_keys=on"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := mysqlrepo.AutoMigrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

func SeedUser(tb testing.TB, db *gorm.DB, email string, role domain.Role) *domain.User {
	tb.Helper()
	u := &domain.User{Email: email, PasswordHash: "x", FirstName: "Test", LastName: "User", Role: role}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProduct(tb testing.TB, db *gorm.DB, name, price, discount string, stock int64) *domain.Product {
	tb.Helper()
	p := &domain.Product{
		Name:            name,
		Description:     name + " description",
		Price:           decimal.RequireFromString(price),
		DiscountPercent: decimal.RequireFromString(discount),
		StockQuantity:   stock,
		IsActive:        true,
	}
	if err := db.Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}

func SeedCartLine(tb testing.TB, db *gorm.DB, userID, productID uint64, qty int64) *domain.CartLine {
	tb.Helper()
	line := &domain.CartLine{UserID: userID, ProductID: productID, Quantity: qty}
	if err := db.Create(line).Error; err != nil {
		tb.Fatalf("seed cart line: %v", err)
	}
	return line
}

func Stock(tb testing.TB, db *gorm.DB, productID uint64) int64 {
	tb.Helper()
	var p domain.Product
	if err := db.First(&p, productID).Error; err != nil {
		tb.Fatalf("load product: %v", err)
	}
	return p.StockQuantity
}

func CartSize(tb testing.TB, db *gorm.DB, userID uint64) int64 {
	tb.Helper()
	var n int64
	if err := db.Model(&domain.CartLine{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		tb.Fatalf("count cart: %v", err)
	}
	return n
}
