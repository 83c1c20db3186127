package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
)

// RoleOwner роль владельца площадки в JWT
const RoleOwner = "admin"

const (
	msgMissingToken = "Se requiere autenticación"
	msgInvalidToken = "Token inválido o expirado"
	msgForbidden    = "Acceso restringido al administrador"
)

type contextKey string

const subjectKey contextKey = "owner_subject"

// OwnerAuth проверяет Bearer JWT (HS256) и роль владельца
// Нет токена или подпись неверна -> 401, роль не та -> 403
func OwnerAuth(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			claims := jwt.MapClaims{}
			_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(t *jwt.Token) (interface{}, error) {
				return key, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil {
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			if role, _ := claims["role"].(string); role != RoleOwner {
				handlers.RespondForbidden(w, msgForbidden)
				return
			}

			subject, _ := claims.GetSubject()
			ctx := context.WithValue(r.Context(), subjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubjectFromContext subject токена владельца, положенный OwnerAuth
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok && subject != ""
}

// NewOwnerToken выпускает токен владельца (используется в тестах и утилитах)
func NewOwnerToken(secret, subject string, claims jwt.MapClaims) (string, error) {
	mc := jwt.MapClaims{
		"sub":  subject,
		"role": RoleOwner,
	}
	for k, v := range claims {
		mc[k] = v
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("middleware: sign token: %w", err)
	}
	return token, nil
}
