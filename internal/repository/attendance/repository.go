package attendance

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"unisport-backend/internal/models"
	"unisport-backend/internal/repository"
)

type attendanceRepository struct {
	db *sqlx.DB
}

func NewAttendanceRepository(db *sqlx.DB) repository.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// MarkHours applies the whole batch atomically. Positive hours upsert the
// (student, training) row, zero hours delete it: an absent row and a
// zero-hour row mean the same thing, so only one representation is stored.
func (r *attendanceRepository) MarkHours(ctx context.Context, trainingID int, marks []models.StudentHoursEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin mark transaction: %w", err)
	}
	defer tx.Rollback()

	upsert, err := tx.PrepareContext(ctx, `
		INSERT INTO sport.attendance (student_id, training_id, hours)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT unique_attendance
		DO UPDATE SET hours = excluded.hours, updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return err
	}
	defer upsert.Close()

	del, err := tx.PrepareContext(ctx, `
		DELETE FROM sport.attendance WHERE student_id = $1 AND training_id = $2
	`)
	if err != nil {
		return err
	}
	defer del.Close()

	for _, mark := range marks {
		if mark.Hours > 0 {
			_, err = upsert.ExecContext(ctx, mark.StudentID, trainingID, mark.Hours)
		} else {
			_, err = del.ExecContext(ctx, mark.StudentID, trainingID)
		}
		if err != nil {
			return fmt.Errorf("mark hours for student %d: %w", mark.StudentID, err)
		}
	}

	return tx.Commit()
}

func (r *attendanceRepository) GetSemesterRecords(ctx context.Context, studentID, semesterID int) ([]models.AttendanceRecord, error) {
	query := `
		SELECT a.hours, r.debt AS cause_debt
		FROM sport.attendance a
		JOIN sport.training t ON t.id = a.training_id
		JOIN sport.sport_group g ON g.id = t.group_id
		LEFT JOIN sport.self_sport_report r ON r.id = a.cause_report_id
		WHERE a.student_id = $1 AND g.semester_id = $2
	`

	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID, semesterID); err != nil {
		return nil, err
	}
	return records, nil
}

// GetGrades returns everyone the trainer may put hours for: students who
// checked in plus students who already received hours for the training.
func (r *attendanceRepository) GetGrades(ctx context.Context, trainingID int) ([]models.StudentGrade, error) {
	query := `
		SELECT
			s.id AS student_id,
			s.first_name,
			s.last_name,
			s.email,
			COALESCE(a.hours, 0) AS hours,
			m.id, m.name, m.description
		FROM sport.student s
		LEFT JOIN sport.medical_group m ON m.id = s.medical_group_id
		LEFT JOIN sport.attendance a
			ON a.student_id = s.id AND a.training_id = $1
		WHERE s.id IN (
			SELECT student_id FROM sport.attendance WHERE training_id = $1
			UNION
			SELECT student_id FROM sport.training_checkin WHERE training_id = $1
		)
		ORDER BY s.last_name, s.first_name
	`

	rows, err := r.db.QueryContext(ctx, query, trainingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grades []models.StudentGrade
	for rows.Next() {
		var grade models.StudentGrade
		var medID *int
		var medName, medDescription *string
		err := rows.Scan(
			&grade.StudentID, &grade.FirstName, &grade.LastName, &grade.Email,
			&grade.Hours, &medID, &medName, &medDescription,
		)
		if err != nil {
			return nil, err
		}
		if medID != nil {
			grade.MedicalGroup = &models.MedicalGroup{
				ID:          *medID,
				Name:        *medName,
				Description: *medDescription,
			}
		}
		grades = append(grades, grade)
	}

	return grades, rows.Err()
}

// GetDetailedHistory merges three sources into one timeline: graded
// attendance, self-sport reports without an attendance row yet, and medical
// references without one. The two side ledgers surface under the sentinel
// group id since they are not tied to a real training.
func (r *attendanceRepository) GetDetailedHistory(ctx context.Context, studentID, semesterID int) ([]models.HistoryEntry, error) {
	query := `
		SELECT
			g.id AS group_id,
			COALESCE(NULLIF(sp.name, ''), g.name) AS group_name,
			t.custom_name,
			t.start_time AS "timestamp",
			a.hours,
			a.hours > 0 AS approved
		FROM sport.attendance a
		JOIN sport.training t ON t.id = a.training_id
		JOIN sport.sport_group g ON g.id = t.group_id
		LEFT JOIN sport.sport sp ON sp.id = g.sport_id
		WHERE a.student_id = $1 AND g.semester_id = $2

		UNION ALL

		SELECT
			$3 AS group_id,
			'Self training' AS group_name,
			'[Self] ' || COALESCE(r.training_type, 'sport') AS custom_name,
			r.uploaded AS "timestamp",
			r.hours,
			r.approved
		FROM sport.self_sport_report r
		WHERE r.student_id = $1 AND r.semester_id = $2
		  AND NOT EXISTS (
			SELECT 1 FROM sport.attendance a WHERE a.cause_report_id = r.id
		  )

		UNION ALL

		SELECT
			$3 AS group_id,
			'Medical leave' AS group_name,
			NULL AS custom_name,
			mr.uploaded AS "timestamp",
			mr.hours,
			mr.approved
		FROM sport.medical_reference mr
		WHERE mr.student_id = $1 AND mr.semester_id = $2
		  AND NOT EXISTS (
			SELECT 1 FROM sport.attendance a WHERE a.cause_reference_id = mr.id
		  )

		ORDER BY "timestamp"
	`

	var history []models.HistoryEntry
	if err := r.db.SelectContext(ctx, &history, query, studentID, semesterID, models.SpecialGroupID); err != nil {
		return nil, err
	}
	return history, nil
}

func (r *attendanceRepository) GetComplexScores(ctx context.Context, semesterID int) ([]models.StudentScore, error) {
	query := `
		SELECT
			s.id AS student_id,
			COALESCE(att.total, 0) - COALESCE(d.debt, 0) AS score
		FROM sport.student s
		LEFT JOIN (
			SELECT a.student_id, SUM(a.hours) AS total
			FROM sport.attendance a
			JOIN sport.training t ON t.id = a.training_id
			JOIN sport.sport_group g ON g.id = t.group_id
			WHERE g.semester_id = $1
			GROUP BY a.student_id
		) att ON att.student_id = s.id
		LEFT JOIN sport.debt d
			ON d.student_id = s.id AND d.semester_id = $1
	`

	var scores []models.StudentScore
	if err := r.db.SelectContext(ctx, &scores, query, semesterID); err != nil {
		return nil, err
	}
	return scores, nil
}
