package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"unisport-backend/internal/models"
	"unisport-backend/internal/repository"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	requestIDKey contextKey = "request_id"
)

// Claims is what the SSO gateway puts into its tokens. Authentication
// itself happens there; this layer only verifies and resolves the caller.
type Claims struct {
	UserID      int  `json:"user_id"`
	IsStaff     bool `json:"is_staff"`
	IsSuperuser bool `json:"is_superuser"`
	jwt.RegisteredClaims
}

// RequestID tags every request with an id for log correlation.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// Logging writes one structured line per request.
func Logging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			next.ServeHTTP(w, r)

			id, _ := r.Context().Value(requestIDKey).(string)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("request_id", id),
				zap.Duration("took", time.Since(started)),
			)
		})
	}
}

// Auth verifies the bearer token and resolves the caller into a Principal
// once; handlers downstream pick the role variant they need.
func Auth(secret string, studentRepo repository.StudentRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, http.StatusUnauthorized, errCodeUnauthorized, "authorization required")
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(
				strings.TrimPrefix(header, "Bearer "),
				claims,
				func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
				jwt.WithValidMethods([]string{"HS256"}),
			)
			if err != nil || !token.Valid {
				writeError(w, http.StatusUnauthorized, errCodeUnauthorized, "invalid token")
				return
			}

			principal := &models.Principal{
				UserID:      claims.UserID,
				IsStaff:     claims.IsStaff,
				IsSuperuser: claims.IsSuperuser,
			}

			// Student and trainer profiles share the user id space.
			student, err := studentRepo.GetByID(r.Context(), claims.UserID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, errCodeInternal, "failed to resolve caller")
				return
			}
			principal.Student = student

			trainer, err := studentRepo.GetTrainerByID(r.Context(), claims.UserID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, errCodeInternal, "failed to resolve caller")
				return
			}
			principal.Trainer = trainer

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func principalFrom(r *http.Request) *models.Principal {
	principal, _ := r.Context().Value(principalKey).(*models.Principal)
	return principal
}
