package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/savings-tracker/internal/domain/entity"
	"github.com/oksasatya/savings-tracker/internal/domain/repository"
)

const goalColumns = `id, user_id, name, target_amount, current_amount, target_date, description, created_at`

type SavingsGoalRepository struct {
	pool *pgxpool.Pool
}

func NewSavingsGoalRepository(pool *pgxpool.Pool) *SavingsGoalRepository {
	return &SavingsGoalRepository{pool: pool}
}

func scanGoal(row interface{ Scan(...any) error }) (*entity.SavingsGoal, error) {
	g := &entity.SavingsGoal{}
	if err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount,
		&g.TargetDate, &g.Description, &g.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return g, nil
}

func (r *SavingsGoalRepository) Create(ctx context.Context, g *entity.SavingsGoal) error {
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO savings_goals (id, user_id, name, target_amount, current_amount, target_date, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, g.ID, g.UserID, g.Name, g.TargetAmount, g.CurrentAmount, g.TargetDate, g.Description).Scan(&g.CreatedAt)
}

func (r *SavingsGoalRepository) GetByID(ctx context.Context, id string) (*entity.SavingsGoal, error) {
	return scanGoal(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+goalColumns+` FROM savings_goals WHERE id = $1`, id))
}

func (r *SavingsGoalRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.SavingsGoal, error) {
	return scanGoal(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+goalColumns+` FROM savings_goals WHERE id = $1 FOR UPDATE`, id))
}

func (r *SavingsGoalRepository) ListByUser(ctx context.Context, userID string) ([]entity.SavingsGoal, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+goalColumns+` FROM savings_goals WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.SavingsGoal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

func (r *SavingsGoalRepository) UpdateCurrentAmount(ctx context.Context, id string, amount decimal.Decimal) error {
	res, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE savings_goals SET current_amount = $1 WHERE id = $2`, amount, id)
	if err != nil {
		return notFound(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.SavingsGoalRepository = (*SavingsGoalRepository)(nil)
