package debt

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"unisport-backend/internal/repository"
)

type debtRepository struct {
	db *sqlx.DB
}

func NewDebtRepository(db *sqlx.DB) repository.DebtRepository {
	return &debtRepository{db: db}
}

func (r *debtRepository) Get(ctx context.Context, studentID, semesterID int) (int, error) {
	var value int
	err := r.db.GetContext(ctx, &value,
		`SELECT debt FROM sport.debt WHERE student_id = $1 AND semester_id = $2`,
		studentID, semesterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return value, nil
}
