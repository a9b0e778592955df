package main

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"lexpay/internal/config"
	"lexpay/internal/db"
	"lexpay/internal/model"
	"lexpay/internal/repository"
)

// Seeds a merchant, a payer, and an ACTIVE contract for manual testing.
func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Contract{},
		&model.PaymentOrder{},
		&model.AuditRecord{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	contractRepo := repository.NewContractRepository(gormDB)

	merchant := seedUser(ctx, userRepo, "merchant@example.com", "Acme Legal Services", model.RoleMerchant)
	payer := seedUser(ctx, userRepo, "payer@example.com", "Rahul Sharma", model.RolePayer)

	contract := &model.Contract{
		MerchantID:      merchant.ID,
		PayerID:         payer.ID,
		PrincipalAmount: decimal.RequireFromString("100000.00"),
		InterestRate:    decimal.RequireFromString("12.50"),
		StartDate:       time.Now(),
		EndDate:         time.Now().AddDate(1, 0, 0),
		Status:          model.ContractStatusActive,
		PaymentStatus:   model.ContractPaymentPending,
		TotalPaidAmount: decimal.Zero,
	}
	if err := contractRepo.Create(ctx, contract); err != nil {
		log.Fatalf("Failed to create contract: %v", err)
	}

	log.Printf("Seeded merchant %s, payer %s, contract %s", merchant.ID, payer.ID, contract.ID)
}

func seedUser(ctx context.Context, repo repository.UserRepository, email, name string, role model.UserRole) *model.User {
	if existing, err := repo.FindByEmail(ctx, email); err == nil {
		log.Printf("User %s already exists, skipping", email)
		return existing
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if err := repo.Create(ctx, user); err != nil {
		log.Fatalf("Failed to create user %s: %v", email, err)
	}
	return user
}
