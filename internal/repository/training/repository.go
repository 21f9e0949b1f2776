package training

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"unisport-backend/internal/models"
	"unisport-backend/internal/repository"
)

type trainingRepository struct {
	db        *sqlx.DB
	groupRepo repository.GroupRepository
}

func NewTrainingRepository(db *sqlx.DB, groupRepo repository.GroupRepository) repository.TrainingRepository {
	return &trainingRepository{db: db, groupRepo: groupRepo}
}

func (r *trainingRepository) GetByID(ctx context.Context, id int) (*models.Training, error) {
	query := `
		SELECT id, group_id, start_time, end_time, custom_name, training_class,
		       academic_duration, created_at
		FROM sport.training
		WHERE id = $1
	`

	training := &models.Training{}
	err := r.db.GetContext(ctx, training, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return training, nil
}

func (r *trainingRepository) GetDetails(ctx context.Context, id int) (*models.TrainingDetails, error) {
	query := `
		SELECT
			t.id, t.group_id, t.start_time, t.end_time, t.custom_name,
			t.training_class, t.academic_duration, t.created_at,
			g.id AS g_id, g.semester_id, g.sport_id, g.name, g.capacity,
			g.is_club, g.accredited, g.allowed_gender, g.created_at AS g_created_at,
			COALESCE(sp.name, '') AS sport_name,
			(SELECT count(*) FROM sport.training_checkin c WHERE c.training_id = t.id) AS checkin_count
		FROM sport.training t
		JOIN sport.sport_group g ON g.id = t.group_id
		LEFT JOIN sport.sport sp ON sp.id = g.sport_id
		WHERE t.id = $1
	`

	details := &models.TrainingDetails{}
	row := r.db.QueryRowxContext(ctx, query, id)
	err := row.Scan(
		&details.ID, &details.GroupID, &details.Start, &details.End,
		&details.CustomName, &details.TrainingClass, &details.AcademicDuration,
		&details.CreatedAt,
		&details.Group.ID, &details.Group.SemesterID, &details.Group.SportID,
		&details.Group.Name, &details.Group.Capacity, &details.Group.IsClub,
		&details.Group.Accredited, &details.Group.AllowedGender,
		&details.Group.CreatedAt, &details.Group.SportName,
		&details.CheckInCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	roster, err := r.groupRepo.GetRoster(ctx, details.GroupID)
	if err != nil {
		return nil, err
	}
	details.Roster = *roster

	return details, nil
}

func (r *trainingRepository) GetForStudent(ctx context.Context, student *models.Student, semesterID int, start, end time.Time) ([]models.TrainingDetails, error) {
	// Special sportless groups (self training, medical leave) never show
	// up in the calendar. Banned students do not see the group at all;
	// students from the allowed list see it regardless of medical group.
	query := `
		SELECT
			t.id, t.group_id, t.start_time, t.end_time, t.custom_name,
			t.training_class, t.academic_duration, t.created_at,
			g.id AS g_id, g.semester_id, g.sport_id, g.name, g.capacity,
			g.is_club, g.accredited, g.allowed_gender, g.created_at AS g_created_at,
			COALESCE(sp.name, '') AS sport_name,
			(SELECT count(*) FROM sport.training_checkin c WHERE c.training_id = t.id) AS checkin_count
		FROM sport.training t
		JOIN sport.sport_group g ON g.id = t.group_id
		JOIN sport.sport sp ON sp.id = g.sport_id
		WHERE g.semester_id = $1
		  AND (t.start_time, t.end_time) OVERLAPS ($2, $3)
		  AND (
			EXISTS (
				SELECT 1 FROM sport.group_allowed_medgroup gm
				WHERE gm.group_id = g.id AND gm.medical_group_id = $4
			)
			OR EXISTS (
				SELECT 1 FROM sport.group_allowed_student ga
				WHERE ga.group_id = g.id AND ga.student_id = $5
			)
		  )
		  AND NOT EXISTS (
			SELECT 1 FROM sport.group_banned_student gb
			WHERE gb.group_id = g.id AND gb.student_id = $5
		  )
		ORDER BY t.start_time
	`

	rows, err := r.db.QueryxContext(ctx, query, semesterID, start, end, student.MedicalGroupID, student.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanDetails(ctx, rows)
}

func (r *trainingRepository) GetForTrainer(ctx context.Context, trainerID, semesterID int, start, end time.Time) ([]models.TrainingDetails, error) {
	query := `
		SELECT
			t.id, t.group_id, t.start_time, t.end_time, t.custom_name,
			t.training_class, t.academic_duration, t.created_at,
			g.id AS g_id, g.semester_id, g.sport_id, g.name, g.capacity,
			g.is_club, g.accredited, g.allowed_gender, g.created_at AS g_created_at,
			COALESCE(sp.name, '') AS sport_name,
			(SELECT count(*) FROM sport.training_checkin c WHERE c.training_id = t.id) AS checkin_count
		FROM sport.training t
		JOIN sport.sport_group g ON g.id = t.group_id
		LEFT JOIN sport.sport sp ON sp.id = g.sport_id
		JOIN sport.group_trainer gt ON gt.group_id = g.id
		WHERE g.semester_id = $1
		  AND gt.trainer_id = $2
		  AND (t.start_time, t.end_time) OVERLAPS ($3, $4)
		ORDER BY t.start_time
	`

	rows, err := r.db.QueryxContext(ctx, query, semesterID, trainerID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanDetails(ctx, rows)
}

func (r *trainingRepository) scanDetails(ctx context.Context, rows *sqlx.Rows) ([]models.TrainingDetails, error) {
	var trainings []models.TrainingDetails
	for rows.Next() {
		var details models.TrainingDetails
		err := rows.Scan(
			&details.ID, &details.GroupID, &details.Start, &details.End,
			&details.CustomName, &details.TrainingClass, &details.AcademicDuration,
			&details.CreatedAt,
			&details.Group.ID, &details.Group.SemesterID, &details.Group.SportID,
			&details.Group.Name, &details.Group.Capacity, &details.Group.IsClub,
			&details.Group.Accredited, &details.Group.AllowedGender,
			&details.Group.CreatedAt, &details.Group.SportName,
			&details.CheckInCount,
		)
		if err != nil {
			return nil, err
		}
		trainings = append(trainings, details)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Rosters are loaded once per distinct group, not once per training.
	rosters := make(map[int]*models.GroupRoster)
	for i := range trainings {
		groupID := trainings[i].GroupID
		roster, ok := rosters[groupID]
		if !ok {
			var err error
			roster, err = r.groupRepo.GetRoster(ctx, groupID)
			if err != nil {
				return nil, err
			}
			rosters[groupID] = roster
		}
		trainings[i].Roster = *roster
	}

	return trainings, nil
}
