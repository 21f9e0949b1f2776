package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"unisport-backend/internal/models/config"
	"unisport-backend/internal/repository"
	attendance_repo "unisport-backend/internal/repository/attendance"
	checkin_repo "unisport-backend/internal/repository/checkin"
	debt_repo "unisport-backend/internal/repository/debt"
	group_repo "unisport-backend/internal/repository/group"
	semester_repo "unisport-backend/internal/repository/semester"
	student_repo "unisport-backend/internal/repository/student"
	training_repo "unisport-backend/internal/repository/training"
	"unisport-backend/internal/service"
	attendance_service "unisport-backend/internal/service/attendance"
	checkin_service "unisport-backend/internal/service/checkin"
	hours_service "unisport-backend/internal/service/hours"
	semester_service "unisport-backend/internal/service/semester"
	training_service "unisport-backend/internal/service/training"
	"unisport-backend/internal/web"
	"unisport-backend/migrations"
	database "unisport-backend/pkg"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		fx.Provide(
			newLogger,
			newSportRules,
			database.NewPostgres,

			semester_repo.NewSemesterRepository,
			student_repo.NewStudentRepository,
			group_repo.NewGroupRepository,
			training_repo.NewTrainingRepository,
			checkin_repo.NewCheckInRepository,
			attendance_repo.NewAttendanceRepository,
			debt_repo.NewDebtRepository,

			semester_service.NewSemesterService,
			checkin_service.NewCheckInService,
			attendance_service.NewAttendanceService,
			hours_service.NewHoursService,
			training_service.NewTrainingService,

			newHandler,
		),
		fx.Invoke(applyMigrations),
		fx.Invoke(registerServer),
	)

	app.Run()
}

func newLogger() (*zap.Logger, error) {
	if config.AppConfig.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func newSportRules() config.SportConfig {
	return config.AppConfig.Sport
}

func newHandler(
	semesterService service.SemesterService,
	checkInService service.CheckInService,
	attendanceService service.AttendanceService,
	hoursService service.HoursService,
	trainingService service.TrainingService,
	studentRepo repository.StudentRepository,
	logger *zap.Logger,
) *web.Handler {
	return web.NewHandler(
		semesterService,
		checkInService,
		attendanceService,
		hoursService,
		trainingService,
		studentRepo,
		logger,
		config.AppConfig.Auth.JWTSecret,
	)
}

func applyMigrations(db *sqlx.DB) error {
	return migrations.Apply(db)
}

func registerServer(lc fx.Lifecycle, handler *web.Handler, logger *zap.Logger) {
	server := &http.Server{
		Addr:              ":" + config.AppConfig.HTTPPort,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			listener, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return err
			}
			logger.Info("HTTP server listening", zap.String("addr", server.Addr))
			go func() {
				if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
