package web

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"unisport-backend/internal/models"
	"unisport-backend/internal/repository"
	"unisport-backend/internal/service"
)

type Handler struct {
	semesterService   service.SemesterService
	checkInService    service.CheckInService
	attendanceService service.AttendanceService
	hoursService      service.HoursService
	trainingService   service.TrainingService
	studentRepo       repository.StudentRepository
	validate          *validator.Validate
	logger            *zap.Logger
	jwtSecret         string
}

func NewHandler(
	semesterService service.SemesterService,
	checkInService service.CheckInService,
	attendanceService service.AttendanceService,
	hoursService service.HoursService,
	trainingService service.TrainingService,
	studentRepo repository.StudentRepository,
	logger *zap.Logger,
	jwtSecret string,
) *Handler {
	return &Handler{
		semesterService:   semesterService,
		checkInService:    checkInService,
		attendanceService: attendanceService,
		hoursService:      hoursService,
		trainingService:   trainingService,
		studentRepo:       studentRepo,
		validate:          validator.New(),
		logger:            logger,
		jwtSecret:         jwtSecret,
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logging(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Use(Auth(h.jwtSecret, h.studentRepo))

		r.Route("/trainings", func(r chi.Router) {
			r.Get("/", h.getCalendar)
			r.Post("/{trainingID}/check-in", h.postCheckIn)
			r.Get("/{trainingID}/grades", h.getGrades)
			r.Get("/{trainingID}/grades.csv", h.getGradesCSV)
			r.Post("/{trainingID}/grades", h.postGrades)
		})

		r.Get("/groups/{groupID}", h.getGroupInfo)

		r.Route("/semesters", func(r chi.Router) {
			r.Get("/", h.getSemesters)
			r.Get("/current", h.getCurrentSemester)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/hours", h.getBriefHours)
			r.Get("/hours/{semesterID}", h.getDetailedHours)
			r.Get("/summary", h.getHoursSummary)
			r.Get("/negative-hours", h.getNegativeHours)
			r.Get("/better-than", h.getBetterThan)
		})
	})

	return r
}

type checkInRequest struct {
	CheckIn *bool `json:"check_in" validate:"required"`
}

func (h *Handler) postCheckIn(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r)
	if principal.Student == nil {
		writeError(w, http.StatusForbidden, errCodeDenied, "only students can check in")
		return
	}

	trainingID, ok := pathID(w, r, "trainingID")
	if !ok {
		return
	}

	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errCodeValidation, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, errCodeValidation, "check_in flag is required")
		return
	}

	var err error
	if *req.CheckIn {
		err = h.checkInService.CheckIn(r.Context(), principal.Student.ID, trainingID)
	} else {
		err = h.checkInService.CancelCheckIn(r.Context(), principal.Student.ID, trainingID)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{})
}

func (h *Handler) getCalendar(w http.ResponseWriter, r *http.Request) {
	start, end, ok := rangeParams(w, r)
	if !ok {
		return
	}

	items, err := h.trainingService.GetCalendar(r.Context(), principalFrom(r), start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) getGrades(w http.ResponseWriter, r *http.Request) {
	trainingID, ok := pathID(w, r, "trainingID")
	if !ok {
		return
	}

	grades, err := h.attendanceService.GetGrades(r.Context(), principalFrom(r), trainingID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"students": grades})
}

func (h *Handler) getGradesCSV(w http.ResponseWriter, r *http.Request) {
	trainingID, ok := pathID(w, r, "trainingID")
	if !ok {
		return
	}

	grades, err := h.attendanceService.GetGrades(r.Context(), principalFrom(r), trainingID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="training-%d.csv"`, trainingID))

	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"Student ID", "Full Name", "Email", "Medical Group", "Hours"})
	for _, grade := range grades {
		medGroup := ""
		if grade.MedicalGroup != nil {
			medGroup = grade.MedicalGroup.Name
		}
		_ = writer.Write([]string{
			strconv.Itoa(grade.StudentID),
			grade.FullName(),
			grade.Email,
			medGroup,
			strconv.FormatFloat(grade.Hours, 'f', -1, 64),
		})
	}
	writer.Flush()
}

type markRequest struct {
	StudentsHours []models.StudentHoursEntry `json:"students_hours" validate:"required,dive"`
}

func (h *Handler) postGrades(w http.ResponseWriter, r *http.Request) {
	trainingID, ok := pathID(w, r, "trainingID")
	if !ok {
		return
	}

	var req markRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errCodeValidation, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, errCodeValidation, "students_hours is required")
		return
	}

	report, err := h.attendanceService.GradeTraining(r.Context(), principalFrom(r), trainingID, req.StudentsHours)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) getGroupInfo(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	info, err := h.trainingService.GetGroupInfo(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *Handler) getSemesters(w http.ResponseWriter, r *http.Request) {
	semesters, err := h.semesterService.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, semesters)
}

func (h *Handler) getCurrentSemester(w http.ResponseWriter, r *http.Request) {
	semester, err := h.semesterService.GetCurrent(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, semester)
}

func (h *Handler) getBriefHours(w http.ResponseWriter, r *http.Request) {
	student, ok := requireStudent(w, r)
	if !ok {
		return
	}

	brief, err := h.hoursService.GetBriefHours(r.Context(), student)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, brief)
}

func (h *Handler) getDetailedHours(w http.ResponseWriter, r *http.Request) {
	student, ok := requireStudent(w, r)
	if !ok {
		return
	}
	semesterID, ok := pathID(w, r, "semesterID")
	if !ok {
		return
	}

	history, err := h.hoursService.GetDetailedHours(r.Context(), student.ID, semesterID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *Handler) getHoursSummary(w http.ResponseWriter, r *http.Request) {
	student, ok := requireStudent(w, r)
	if !ok {
		return
	}

	summary, err := h.hoursService.GetHoursSummary(r.Context(), student.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) getNegativeHours(w http.ResponseWriter, r *http.Request) {
	student, ok := requireStudent(w, r)
	if !ok {
		return
	}

	hours, err := h.hoursService.GetNegativeHours(r.Context(), student)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"negative_hours": hours})
}

func (h *Handler) getBetterThan(w http.ResponseWriter, r *http.Request) {
	student, ok := requireStudent(w, r)
	if !ok {
		return
	}

	value, err := h.hoursService.BetterThan(r.Context(), student.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"better_than": value})
}

func requireStudent(w http.ResponseWriter, r *http.Request) (*models.Student, bool) {
	principal := principalFrom(r)
	if principal == nil || principal.Student == nil {
		writeError(w, http.StatusForbidden, errCodeDenied, "student profile required")
		return nil, false
	}
	return principal.Student, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, errCodeValidation, "invalid "+name)
		return 0, false
	}
	return id, true
}

func rangeParams(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")
	if startStr == "" || endStr == "" {
		writeError(w, http.StatusBadRequest, errCodeValidation, "start and end are required")
		return time.Time{}, time.Time{}, false
	}

	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, errCodeValidation, "invalid start")
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, errCodeValidation, "invalid end")
		return time.Time{}, time.Time{}, false
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, errCodeValidation, "start must precede end")
		return time.Time{}, time.Time{}, false
	}

	return start, end, true
}
