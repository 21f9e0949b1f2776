package checkin

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"unisport-backend/internal/models"
	"unisport-backend/internal/repository"
	database "unisport-backend/pkg"
)

// checkInLockName serializes every check-in mutation process-wide. One
// coarse lock is enough at the current check-in volume; a per-training key
// would be the refinement if contention ever shows up.
const checkInLockName = "check-in-lock"

const uniqueViolation = "23505"

type checkInRepository struct {
	db *sqlx.DB
}

func NewCheckInRepository(db *sqlx.DB) repository.CheckInRepository {
	return &checkInRepository{db: db}
}

func (r *checkInRepository) Exists(ctx context.Context, studentID, trainingID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM sport.training_checkin
			WHERE student_id = $1 AND training_id = $2
		)
	`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, studentID, trainingID); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *checkInRepository) CountForTraining(ctx context.Context, trainingID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT count(*) FROM sport.training_checkin WHERE training_id = $1`, trainingID)
	if err != nil {
		return 0, err
	}
	return count, nil
}

const checkInWithTrainingColumns = `
	c.id, c.student_id, c.training_id, c.created_at,
	t.start_time AS training_start,
	t.academic_duration,
	g.sport_id
`

func (r *checkInRepository) GetStudentDayCheckIns(ctx context.Context, studentID int, day time.Time) ([]models.CheckInWithTraining, error) {
	query := `
		SELECT ` + checkInWithTrainingColumns + `
		FROM sport.training_checkin c
		JOIN sport.training t ON t.id = c.training_id
		JOIN sport.sport_group g ON g.id = t.group_id
		WHERE c.student_id = $1 AND t.start_time::date = $2::date
	`

	var checkins []models.CheckInWithTraining
	if err := r.db.SelectContext(ctx, &checkins, query, studentID, day); err != nil {
		return nil, err
	}
	return checkins, nil
}

func (r *checkInRepository) GetStudentCheckInsRange(ctx context.Context, studentID int, start, end time.Time) ([]models.CheckInWithTraining, error) {
	query := `
		SELECT ` + checkInWithTrainingColumns + `
		FROM sport.training_checkin c
		JOIN sport.training t ON t.id = c.training_id
		JOIN sport.sport_group g ON g.id = t.group_id
		WHERE c.student_id = $1 AND t.start_time BETWEEN $2 AND $3
		ORDER BY t.start_time
	`

	var checkins []models.CheckInWithTraining
	if err := r.db.SelectContext(ctx, &checkins, query, studentID, start, end); err != nil {
		return nil, err
	}
	return checkins, nil
}

// CreateLocked re-validates and inserts while holding the advisory lock, so
// two racing requests cannot both pass the capacity check. The unique
// constraint is the backstop for retried requests slipping past the lock.
func (r *checkInRepository) CreateLocked(ctx context.Context, studentID, trainingID int, recheck func() error) error {
	return database.WithAdvisoryLock(ctx, r.db, checkInLockName, func(tx *sqlx.Tx) error {
		if err := recheck(); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO sport.training_checkin (student_id, training_id) VALUES ($1, $2)`,
			studentID, trainingID)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
				return repository.ErrDuplicateCheckIn
			}
			return err
		}
		return nil
	})
}

func (r *checkInRepository) DeleteLocked(ctx context.Context, studentID, trainingID int) (bool, error) {
	var deleted bool
	err := database.WithAdvisoryLock(ctx, r.db, checkInLockName, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM sport.training_checkin WHERE student_id = $1 AND training_id = $2`,
			studentID, trainingID)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		deleted = affected > 0
		return nil
	})
	return deleted, err
}
