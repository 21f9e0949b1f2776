package config

import "time"

// AppConfig глобальная конфигурация приложения
var AppConfig *Config

// Config основной конфиг
type Config struct {
	Environment string
	HTTPPort    string
	Auth        AuthConfig
	Sport       SportConfig
	Database    DatabaseConfig
}

type AuthConfig struct {
	// JWTSecret verifies tokens issued by the SSO gateway.
	JWTSecret string
}

// SportConfig - институтские правила учёта часов
type SportConfig struct {
	// TrainingEditableInterval is how long after a training starts the
	// trainer may still put or change hours for it.
	TrainingEditableInterval time.Duration
	// CheckInWindow is how far in advance a student may check in.
	CheckInWindow time.Duration
	// MaxDailyHours caps the academic hours a student may collect from
	// check-ins on one calendar day.
	MaxDailyHours int
	// MaxDailySportHours is the same cap restricted to one sport.
	MaxDailySportHours int
}
