package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Mas2205/UrbanFootCenter-sub000/models"
)

type contextKey string

const principalContextKey contextKey = "principal"

// Имена claims в токене сервиса идентификации платформы.
const (
	jwtClaimUserID = "user_id"
	jwtClaimRole   = "role"
)

var ErrNoPrincipal = errors.New("principal not found in request context")

// Authenticator проверяет Bearer-токен и кладёт принципала в контекст.
// Пользователей сервис не ведёт: роли и ID приходят из JWT внешнего
// сервиса идентификации.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			http.Error(w, "Unauthorized: Bearer token expected", http.StatusUnauthorized)
			return
		}

		principal, err := a.parsePrincipal(tokenString)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), principalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) parsePrincipal(tokenString string) (models.Principal, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return models.Principal{}, err
	}
	if !token.Valid {
		return models.Principal{}, errors.New("token is not valid")
	}

	userIDClaim, ok := claims[jwtClaimUserID]
	if !ok {
		return models.Principal{}, fmt.Errorf("missing %q claim in token", jwtClaimUserID)
	}
	userIDFloat, ok := userIDClaim.(float64)
	if !ok || userIDFloat != float64(int(userIDFloat)) || int(userIDFloat) <= 0 {
		return models.Principal{}, fmt.Errorf("invalid %q claim in token", jwtClaimUserID)
	}

	roleClaim, ok := claims[jwtClaimRole].(string)
	if !ok {
		return models.Principal{}, fmt.Errorf("missing or invalid %q claim in token", jwtClaimRole)
	}

	role := models.UserRole(roleClaim)
	switch role {
	case models.RoleAdmin, models.RoleSuperAdmin, models.RoleCaptain:
	default:
		return models.Principal{}, fmt.Errorf("unknown role value in claim: %q", roleClaim)
	}

	return models.Principal{UserID: int(userIDFloat), Role: role}, nil
}

// RequireAdmin пропускает только администраторов. Вешается после Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := PrincipalFromContext(r.Context())
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if !principal.IsAdmin() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func PrincipalFromContext(ctx context.Context) (models.Principal, error) {
	principal, ok := ctx.Value(principalContextKey).(models.Principal)
	if !ok {
		return models.Principal{}, ErrNoPrincipal
	}
	return principal, nil
}

// WithPrincipal кладёт принципала в контекст. Используется в тестах хендлеров.
func WithPrincipal(ctx context.Context, principal models.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}
