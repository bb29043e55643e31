package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/savings-tracker/internal/domain/entity"
	"github.com/oksasatya/savings-tracker/internal/domain/repository"
)

const planColumns = `id, user_id, amount, frequency, day_of_week, day_of_month, savings_goal_id, is_active, created_at`

type SavingsPlanRepository struct {
	pool *pgxpool.Pool
}

func NewSavingsPlanRepository(pool *pgxpool.Pool) *SavingsPlanRepository {
	return &SavingsPlanRepository{pool: pool}
}

func scanPlan(row interface{ Scan(...any) error }) (*entity.SavingsPlan, error) {
	p := &entity.SavingsPlan{}
	var freq string
	if err := row.Scan(&p.ID, &p.UserID, &p.Amount, &freq, &p.DayOfWeek, &p.DayOfMonth,
		&p.SavingsGoalID, &p.IsActive, &p.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	p.Frequency = entity.Frequency(freq)
	return p, nil
}

func (r *SavingsPlanRepository) Create(ctx context.Context, p *entity.SavingsPlan) error {
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO savings_plans (id, user_id, amount, frequency, day_of_week, day_of_month, savings_goal_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, p.ID, p.UserID, p.Amount, string(p.Frequency), p.DayOfWeek, p.DayOfMonth, p.SavingsGoalID, p.IsActive).Scan(&p.CreatedAt)
}

func (r *SavingsPlanRepository) GetByID(ctx context.Context, id string) (*entity.SavingsPlan, error) {
	return scanPlan(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+planColumns+` FROM savings_plans WHERE id = $1`, id))
}

func (r *SavingsPlanRepository) ListByUser(ctx context.Context, userID string) ([]entity.SavingsPlan, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+planColumns+` FROM savings_plans WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.SavingsPlan, 0)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *SavingsPlanRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := conn(ctx, r.pool).Exec(ctx, `UPDATE savings_plans SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return notFound(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *SavingsPlanRepository) Delete(ctx context.Context, id string) error {
	res, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM savings_plans WHERE id = $1`, id)
	if err != nil {
		return notFound(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.SavingsPlanRepository = (*SavingsPlanRepository)(nil)
