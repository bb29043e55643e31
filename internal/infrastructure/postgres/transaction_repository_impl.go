package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/savings-tracker/internal/domain/entity"
	"github.com/oksasatya/savings-tracker/internal/domain/repository"
)

type TransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

func (r *TransactionRepository) Create(ctx context.Context, t *entity.Transaction) error {
	if !t.Type.Valid() {
		return fmt.Errorf("transaction %s: unknown type %q", t.ID, t.Type)
	}
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO transactions (id, user_id, amount, type, description, savings_goal_id, savings_plan_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING date
	`, t.ID, t.UserID, t.Amount, string(t.Type), t.Description, t.SavingsGoalID, t.SavingsPlanID).Scan(&t.Date)
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID string) ([]entity.Transaction, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, user_id, amount, type, description, savings_goal_id, savings_plan_id, date
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC, id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Transaction, 0)
	for rows.Next() {
		var t entity.Transaction
		var typ string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &typ, &t.Description,
			&t.SavingsGoalID, &t.SavingsPlanID, &t.Date); err != nil {
			return nil, err
		}
		t.Type = entity.TransactionType(typ)
		if !t.Type.Valid() {
			return nil, fmt.Errorf("transaction %s: unknown type %q", t.ID, typ)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TransactionRepository) SumByType(ctx context.Context, userID string, typ entity.TransactionType) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1 AND type = $2`,
		userID, string(typ)).Scan(&sum)
	return sum, err
}

var _ repository.TransactionRepository = (*TransactionRepository)(nil)
