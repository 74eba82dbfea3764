package auth

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/lmoretti/taskvault-be/internal/apperr"
	"github.com/lmoretti/taskvault-be/internal/metrics"
	"github.com/lmoretti/taskvault-be/internal/models"
)

// UserLookup loads a live user record during request resolution.
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (models.User, error)
}

// Middleware resolves the bearer credential on every protected request.
// Resolution is linear: extract, verify, parse the subject, reload the user.
// The user row is reloaded every time: a token is proof of a past login,
// not a cache of identity, so a deleted user's still-valid token fails.
func Middleware(codec *TokenCodec, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, present := bearerToken(r)
			if !present {
				metrics.AuthFailuresTotal.WithLabelValues("missing_credentials").Inc()
				apperr.Write(w, apperr.New(apperr.KindUnauthenticated, "Authentication credentials were not provided"))
				return
			}

			claims, err := codec.Parse(tokenStr)
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues(string(apperr.KindOf(err))).Inc()
				log.Warn().Err(err).Msg("Token validation failed")
				apperr.Write(w, err)
				return
			}

			if claims.Subject == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing_subject").Inc()
				log.Warn().Msg("Token accepted by codec but carries no subject")
				apperr.Write(w, apperr.New(apperr.KindInvalidCredentials, "Could not validate credentials"))
				return
			}

			userID, err := strconv.ParseInt(claims.Subject, 10, 64)
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("bad_subject").Inc()
				log.Warn().Str("subject", claims.Subject).Msg("Token subject is not a valid user id")
				apperr.Write(w, apperr.New(apperr.KindInvalidCredentials, "Could not validate credentials"))
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("user_not_found").Inc()
				log.Warn().Int64("user_id", userID).Msg("Token subject has no live user record")
				apperr.Write(w, apperr.New(apperr.KindInvalidCredentials, "User not found"))
				return
			}

			ctx := WithIdentity(r.Context(), Identity{ID: user.ID, Email: user.Email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the credential from the Authorization header. The
// second return distinguishes "absent" from "present but empty".
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		return "", false
	}
	token := strings.TrimSpace(authHeader[len(prefix):])
	if token == "" {
		return "", false
	}
	return token, true
}
