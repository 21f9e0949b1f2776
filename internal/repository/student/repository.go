package student

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"unisport-backend/internal/models"
	"unisport-backend/internal/repository"
)

type studentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) repository.StudentRepository {
	return &studentRepository{db: db}
}

const studentColumns = `
	s.id, s.email, s.first_name, s.last_name, s.medical_group_id,
	s.gender, s.enrollment_year, s.status, s.created_at, s.updated_at,
	COALESCE(m.name, '') AS medical_group_name
`

func (r *studentRepository) GetByID(ctx context.Context, id int) (*models.Student, error) {
	query := `
		SELECT ` + studentColumns + `
		FROM sport.student s
		LEFT JOIN sport.medical_group m ON m.id = s.medical_group_id
		WHERE s.id = $1
	`

	student := &models.Student{}
	err := r.db.GetContext(ctx, student, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return student, nil
}

func (r *studentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	query := `
		SELECT ` + studentColumns + `
		FROM sport.student s
		LEFT JOIN sport.medical_group m ON m.id = s.medical_group_id
		WHERE s.email = $1
	`

	student := &models.Student{}
	err := r.db.GetContext(ctx, student, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return student, nil
}

func (r *studentRepository) GetByIDs(ctx context.Context, ids []int) ([]models.Student, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT s.id, s.email, s.first_name, s.last_name, s.medical_group_id,
		       s.gender, s.enrollment_year, s.status, s.created_at, s.updated_at,
		       '' AS medical_group_name
		FROM sport.student s
		WHERE s.id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) GetTrainerByID(ctx context.Context, id int) (*models.Trainer, error) {
	query := `SELECT id, email, first_name, last_name FROM sport.trainer WHERE id = $1`

	trainer := &models.Trainer{}
	err := r.db.GetContext(ctx, trainer, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return trainer, nil
}
