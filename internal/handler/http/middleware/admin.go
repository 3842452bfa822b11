package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/mir-hr/attendance-backend-go/internal/handler/http/response"
)

// AuthRequired rejects requests without a verified token.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.Unauthorized(w, "Missing or invalid token")
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// AdminOnly gates the batch-processing trigger routes.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, "Missing or invalid token")
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role != "admin" {
			response.Forbidden(w, "Admin privilege required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
