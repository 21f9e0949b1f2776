package semester

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"unisport-backend/internal/models"
	"unisport-backend/internal/repository"
)

type semesterRepository struct {
	db *sqlx.DB
}

func NewSemesterRepository(db *sqlx.DB) repository.SemesterRepository {
	return &semesterRepository{db: db}
}

const semesterColumns = `id, name, start_date, end_date, required_hours, point_threshold, illness_hours_per_week, created_at`

func (r *semesterRepository) GetByDate(ctx context.Context, date time.Time) (*models.Semester, error) {
	query := `
		SELECT ` + semesterColumns + `
		FROM sport.semester
		WHERE start_date <= $1 AND end_date >= $1
		ORDER BY start_date DESC
		LIMIT 1
	`

	semester := &models.Semester{}
	err := r.db.GetContext(ctx, semester, query, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return semester, nil
}

func (r *semesterRepository) GetLatestByStart(ctx context.Context) (*models.Semester, error) {
	query := `
		SELECT ` + semesterColumns + `
		FROM sport.semester
		ORDER BY start_date DESC
		LIMIT 1
	`

	semester := &models.Semester{}
	err := r.db.GetContext(ctx, semester, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return semester, nil
}

func (r *semesterRepository) GetByID(ctx context.Context, id int) (*models.Semester, error) {
	query := `SELECT ` + semesterColumns + ` FROM sport.semester WHERE id = $1`

	semester := &models.Semester{}
	err := r.db.GetContext(ctx, semester, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return semester, nil
}

func (r *semesterRepository) GetAll(ctx context.Context) ([]models.Semester, error) {
	query := `SELECT ` + semesterColumns + ` FROM sport.semester ORDER BY start_date DESC`

	var semesters []models.Semester
	if err := r.db.SelectContext(ctx, &semesters, query); err != nil {
		return nil, err
	}
	return semesters, nil
}

func (r *semesterRepository) GetPastSemesters(ctx context.Context, before time.Time) ([]models.Semester, error) {
	query := `
		SELECT ` + semesterColumns + `
		FROM sport.semester
		WHERE end_date < $1
		ORDER BY end_date DESC
	`

	var semesters []models.Semester
	if err := r.db.SelectContext(ctx, &semesters, query, before); err != nil {
		return nil, err
	}
	return semesters, nil
}

func (r *semesterRepository) IsOnAcademicLeave(ctx context.Context, semesterID, studentID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM sport.semester_academic_leave
			WHERE semester_id = $1 AND student_id = $2
		)
	`

	var onLeave bool
	if err := r.db.GetContext(ctx, &onLeave, query, semesterID, studentID); err != nil {
		return false, err
	}
	return onLeave, nil
}
