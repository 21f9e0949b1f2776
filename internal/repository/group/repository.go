package group

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"unisport-backend/internal/models"
	"unisport-backend/internal/repository"
)

type groupRepository struct {
	db *sqlx.DB
}

func NewGroupRepository(db *sqlx.DB) repository.GroupRepository {
	return &groupRepository{db: db}
}

const groupColumns = `
	g.id, g.semester_id, g.sport_id, g.name, g.capacity, g.is_club,
	g.accredited, g.allowed_gender, g.created_at,
	COALESCE(sp.name, '') AS sport_name
`

func (r *groupRepository) GetByID(ctx context.Context, id int) (*models.Group, error) {
	query := `
		SELECT ` + groupColumns + `
		FROM sport.sport_group g
		LEFT JOIN sport.sport sp ON sp.id = g.sport_id
		WHERE g.id = $1
	`

	group := &models.Group{}
	err := r.db.GetContext(ctx, group, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return group, nil
}

func (r *groupRepository) GetInfo(ctx context.Context, groupID, semesterID int) (*models.GroupInfo, error) {
	query := `
		SELECT ` + groupColumns + `,
			se.name AS semester_name,
			COALESCE(sp.description, '') AS description
		FROM sport.sport_group g
		LEFT JOIN sport.sport sp ON sp.id = g.sport_id
		JOIN sport.semester se ON se.id = g.semester_id
		WHERE g.id = $1 AND g.semester_id = $2
	`

	info := &models.GroupInfo{}
	row := r.db.QueryRowxContext(ctx, query, groupID, semesterID)
	err := row.Scan(
		&info.ID, &info.SemesterID, &info.SportID, &info.Name, &info.Capacity,
		&info.IsClub, &info.Accredited, &info.AllowedGender, &info.CreatedAt,
		&info.SportName, &info.SemesterName, &info.Description,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	trainers, err := r.getTrainers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	info.Trainers = trainers

	medGroups, err := r.getAllowedMedicalGroupNames(ctx, groupID)
	if err != nil {
		return nil, err
	}
	info.AllowedMedicalGroups = medGroups

	schedule, err := r.getSchedule(ctx, groupID)
	if err != nil {
		return nil, err
	}
	info.Schedule = schedule

	return info, nil
}

func (r *groupRepository) getTrainers(ctx context.Context, groupID int) ([]models.Trainer, error) {
	query := `
		SELECT t.id, t.email, t.first_name, t.last_name
		FROM sport.trainer t
		JOIN sport.group_trainer gt ON gt.trainer_id = t.id
		WHERE gt.group_id = $1
		ORDER BY t.last_name, t.first_name
	`

	var trainers []models.Trainer
	if err := r.db.SelectContext(ctx, &trainers, query, groupID); err != nil {
		return nil, err
	}
	return trainers, nil
}

func (r *groupRepository) getAllowedMedicalGroupNames(ctx context.Context, groupID int) ([]string, error) {
	query := `
		SELECT m.name
		FROM sport.medical_group m
		JOIN sport.group_allowed_medgroup gm ON gm.medical_group_id = m.id
		WHERE gm.group_id = $1
		ORDER BY m.id
	`

	var names []string
	if err := r.db.SelectContext(ctx, &names, query, groupID); err != nil {
		return nil, err
	}
	return names, nil
}

func (r *groupRepository) getSchedule(ctx context.Context, groupID int) ([]models.ScheduleSlot, error) {
	query := `
		SELECT id, group_id, weekday, start_time, end_time, training_class
		FROM sport.schedule
		WHERE group_id = $1
		ORDER BY weekday, start_time
	`

	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, groupID); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *groupRepository) GetRoster(ctx context.Context, groupID int) (*models.GroupRoster, error) {
	roster := &models.GroupRoster{GroupID: groupID}

	lists := []struct {
		query string
		dst   *[]int
	}{
		{`SELECT medical_group_id FROM sport.group_allowed_medgroup WHERE group_id = $1`, &roster.AllowedMedicalGroups},
		{`SELECT student_id FROM sport.group_allowed_student WHERE group_id = $1`, &roster.AllowedStudents},
		{`SELECT student_id FROM sport.group_banned_student WHERE group_id = $1`, &roster.BannedStudents},
		{`SELECT trainer_id FROM sport.group_trainer WHERE group_id = $1`, &roster.Trainers},
	}
	for _, list := range lists {
		if err := r.db.SelectContext(ctx, list.dst, list.query, groupID); err != nil {
			return nil, err
		}
	}

	return roster, nil
}

func (r *groupRepository) IsTrainerOfGroup(ctx context.Context, groupID, trainerID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM sport.group_trainer
			WHERE group_id = $1 AND trainer_id = $2
		)
	`

	var isTrainer bool
	if err := r.db.GetContext(ctx, &isTrainer, query, groupID, trainerID); err != nil {
		return false, err
	}
	return isTrainer, nil
}
