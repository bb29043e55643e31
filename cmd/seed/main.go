package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/savings-tracker/config"
	"github.com/oksasatya/savings-tracker/internal/domain/entity"
	repo "github.com/oksasatya/savings-tracker/internal/domain/repository"
	pginfra "github.com/oksasatya/savings-tracker/internal/infrastructure/postgres"
	"github.com/oksasatya/savings-tracker/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	goals := pginfra.NewSavingsGoalRepository(pool)
	txs := pginfra.NewTransactionRepository(pool)
	tm := pginfra.NewTxManager(pool)

	email := "demo@savings.local"
	password := "password123"
	name := "Demo User"

	if existing, err := users.GetByEmail(ctx, email); err == nil {
		fmt.Printf("demo user already present: id=%s email=%s\n", existing.ID, existing.Email)
		return
	} else if !errors.Is(err, repo.ErrNotFound) {
		log.Fatalf("lookup demo user: %v", err)
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	opening := decimal.NewFromInt(5000)

	u := &entity.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IsVerified:   true,
		Balance:      opening,
	}
	g := &entity.SavingsGoal{
		ID:            uuid.NewString(),
		UserID:        u.ID,
		Name:          "Emergency fund",
		TargetAmount:  decimal.NewFromInt(10000),
		CurrentAmount: decimal.Zero,
		TargetDate:    time.Now().AddDate(1, 0, 0).UTC().Truncate(24 * time.Hour),
		Description:   "Three months of expenses",
	}

	err = tm.WithinTx(ctx, func(ctx context.Context) error {
		if err := users.Create(ctx, u); err != nil {
			return err
		}
		if err := goals.Create(ctx, g); err != nil {
			return err
		}
		return txs.Create(ctx, &entity.Transaction{
			ID:          uuid.NewString(),
			UserID:      u.ID,
			Amount:      opening,
			Type:        entity.TxAddFunds,
			Description: "Opening balance",
		})
	})
	if err != nil {
		log.Fatalf("failed to seed: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s name=%s password=%s\n", u.ID, email, name, password)
	fmt.Printf("seeded goal: id=%s name=%s target=%s\n", g.ID, g.Name, g.TargetAmount.StringFixed(2))
}
