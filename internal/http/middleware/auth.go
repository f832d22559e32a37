package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/user"
	"github.com/ultramanx88/internship-system-sub007/internal/http/response"
	"github.com/ultramanx88/internship-system-sub007/internal/security"
)

type contextKey string

const ContextIdentityKey contextKey = "identity"

type AuthMiddleware struct {
	jwt *security.JWTProvider
}

func NewAuthMiddleware(jwt *security.JWTProvider) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

// Authenticate resolves the bearer token into the caller identity the
// services trust: user id, role set and active role. The active role must be
// one of the granted roles or it is dropped.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "missing authorization header", nil))
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid authorization header", nil))
			return
		}
		claims, err := m.jwt.Parse(parts[1])
		if err != nil {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid token", err))
			return
		}
		userID, err := common.ParseUUID(claims.UserID)
		if err != nil {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid user id", err))
			return
		}
		roles := make([]user.Role, 0, len(claims.Roles))
		for _, role := range claims.Roles {
			roles = append(roles, user.Role(strings.ToLower(strings.TrimSpace(role))))
		}
		active := user.Role(strings.ToLower(strings.TrimSpace(claims.Role)))
		if active == "" && len(roles) == 1 {
			active = roles[0]
		}
		if active != "" {
			found := false
			for _, role := range roles {
				if role == active {
					found = true
					break
				}
			}
			if !found {
				active = ""
			}
		}
		identity := user.Identity{UserID: userID, Roles: roles, Active: active}
		ctx := context.WithValue(r.Context(), ContextIdentityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequireRole(role user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				response.Error(w, common.NewError(common.CodeUnauthorized, "identity not found", nil))
				return
			}
			if !identity.Has(role) {
				response.Error(w, common.NewError(common.CodeForbidden, "insufficient role", nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func IdentityFromContext(ctx context.Context) (user.Identity, bool) {
	identity, ok := ctx.Value(ContextIdentityKey).(user.Identity)
	return identity, ok
}
