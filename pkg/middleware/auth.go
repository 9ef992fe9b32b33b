package middleware

import (
	"context"
	"net/http"
	"strings"

	httputil "busport/pkg/http"
	"busport/pkg/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
)

// Claims is the bearer-token payload shared by both token domains. User
// and admin tokens are signed with distinct secrets; a token from one
// domain never verifies in the other.
type Claims struct {
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// UserAuth verifies a bearer token against the user-domain secret and
// stores the caller's id in the request context.
func UserAuth(secret []byte) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			claims, ok := verifyBearer(w, r, secret)
			if !ok {
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UserRoleKey, claims.Role)
			next(w, r.WithContext(ctx), ps)
		}
	}
}

// AdminAuth verifies a bearer token against the admin-domain secret and
// additionally requires the role claim to be "admin".
func AdminAuth(secret []byte) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			claims, ok := verifyBearer(w, r, secret)
			if !ok {
				return
			}

			if claims.Role != model.RoleAdmin {
				writeAuthError(w, http.StatusForbidden, "Admin access required")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UserRoleKey, claims.Role)
			next(w, r.WithContext(ctx), ps)
		}
	}
}

func verifyBearer(w http.ResponseWriter, r *http.Request, secret []byte) (*Claims, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		writeAuthError(w, http.StatusUnauthorized, "Missing token")
		return nil, false
	}

	if !strings.HasPrefix(header, "Bearer ") {
		writeAuthError(w, http.StatusUnauthorized, "Invalid token format")
		return nil, false
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		writeAuthError(w, http.StatusUnauthorized, "Invalid token")
		return nil, false
	}

	if claims.UserID == "" {
		writeAuthError(w, http.StatusUnauthorized, "Invalid token")
		return nil, false
	}

	return claims, true
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	httputil.WriteJSON(w, status, httputil.ErrorResponse{
		Success: false,
		Error:   message,
	})
}

// UserIDFromContext returns the authenticated caller's id, empty when
// the request did not pass an auth middleware.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}
