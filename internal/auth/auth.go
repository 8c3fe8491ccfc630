// Package auth guards the API with HS256 bearer tokens issued by the platform.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"restauranthub/internal/apiclient"
	"restauranthub/internal/commons"
	apperrors "restauranthub/internal/errors"
)

type Claims struct {
	RestaurantID string `json:"restaurantId,omitempty"`
	jwt.RegisteredClaims
}

type claimsKey struct{}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok
}

type Authenticator struct {
	secret   []byte
	denylist Denylist
	logger   *zap.Logger
	now      func() time.Time
}

func NewAuthenticator(secret string, denylist Denylist, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		secret:   []byte(secret),
		denylist: denylist,
		logger:   logger,
		now:      time.Now,
	}
}

// Verify parses and validates a raw token, including the revocation check.
func (a *Authenticator) Verify(ctx context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.NewUnauthorizedError("token expired")
		}
		return nil, apperrors.NewUnauthorizedError("invalid token")
	}

	if claims.ID != "" {
		revoked, err := a.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, apperrors.NewInternalError("checking token revocation", err)
		}
		if revoked {
			return nil, apperrors.NewUnauthorizedError("token revoked")
		}
	}
	return claims, nil
}

// Middleware rejects requests without a valid bearer token. The token is kept on
// the context so upstream calls made for the request carry it.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := commons.TraceID(r.Context())

		raw, ok := bearerToken(r)
		if !ok {
			commons.WriteError(w, traceID, apperrors.NewUnauthorizedError("authorization header is missing"), a.logger)
			return
		}

		claims, err := a.Verify(r.Context(), raw)
		if err != nil {
			commons.WriteError(w, traceID, err, a.logger)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		ctx = apiclient.ContextWithToken(ctx, raw)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type verifyRequest struct {
	Token string `json:"token"`
}

type VerifyResponse struct {
	Valid        bool       `json:"valid"`
	Subject      string     `json:"subject"`
	RestaurantID string     `json:"restaurantId,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
}

// VerifyToken checks the token in the body, or the bearer header when the body
// has none.
func (a *Authenticator) VerifyToken(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	raw, ok := bearerToken(r)
	if !ok {
		var req verifyRequest
		if err := commons.DecodeJSON(r, &req); err != nil {
			commons.WriteError(w, traceID, err, a.logger)
			return
		}
		raw = req.Token
	}
	if raw == "" {
		commons.WriteError(w, traceID, apperrors.NewValidationError("token is required",
			apperrors.ValidationDetail{Field: "token", Message: "must not be empty"}), a.logger)
		return
	}

	claims, err := a.Verify(r.Context(), raw)
	if err != nil {
		commons.WriteError(w, traceID, err, a.logger)
		return
	}

	resp := VerifyResponse{Valid: true, Subject: claims.Subject, RestaurantID: claims.RestaurantID}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time.UTC()
		resp.ExpiresAt = &exp
	}
	commons.WriteJSON(w, http.StatusOK, resp, a.logger)
}

// Logout revokes the token that authenticated the request. It must run behind
// Middleware.
func (a *Authenticator) Logout(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		commons.WriteError(w, traceID, apperrors.NewUnauthorizedError("not authenticated"), a.logger)
		return
	}
	if claims.ID == "" {
		commons.WriteError(w, traceID, apperrors.NewValidationError("token has no id and cannot be revoked",
			apperrors.ValidationDetail{Field: "jti", Message: "must be present"}), a.logger)
		return
	}

	ttl := claims.ExpiresAt.Time.Sub(a.now())
	if ttl > 0 {
		if err := a.denylist.Revoke(r.Context(), claims.ID, ttl); err != nil {
			commons.WriteError(w, traceID, apperrors.NewInternalError("revoking token", err), a.logger)
			return
		}
	}

	a.logger.Info("token revoked", zap.String("traceId", traceID), zap.String("subject", claims.Subject))
	w.WriteHeader(http.StatusNoContent)
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
