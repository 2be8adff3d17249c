package middleware

import (
	"net/http"
	"strings"

	"golocal-spaces/pkg/utils"

	"go.uber.org/zap"
)

// AuthJWT validates the bearer token and stores the user id and type in the request context.
func AuthJWT(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			userID, userType, err := utils.ParseToken(parts[1], secret)
			if err != nil {
				logger.Warn("Invalid or expired token",
					zap.String("path", r.URL.Path),
					zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := utils.SetUserContext(r.Context(), userID, userType)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUserType rejects callers whose token user type is not allowed.
// "both" satisfies any requirement.
func RequireUserType(logger *zap.Logger, allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userType, ok := utils.GetRoleFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if userType == "both" {
				next.ServeHTTP(w, r)
				return
			}
			for _, a := range allowed {
				if userType == a {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.Warn("User type not allowed",
				zap.String("user_type", userType),
				zap.String("path", r.URL.Path))
			utils.ResponseForbidden(w, "Not allowed for this account type")
		})
	}
}
