package premium

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/healthsure/dlt-insurance/pkg/config"
	"github.com/healthsure/dlt-insurance/pkg/types"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// JWTClaims represents JWT token claims
type JWTClaims struct {
	HolderID string `json:"holder_id"`
	jwt.RegisteredClaims
}

// TokenValidator implements JWT token validation for policy holders
type TokenValidator struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	metrics  MetricsRecorder
}

// NewTokenValidator creates a new token validator
func NewTokenValidator(cfg *config.JWTConfig, metrics MetricsRecorder) *TokenValidator {
	return &TokenValidator{
		secret:   []byte(cfg.SecretKey),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      time.Duration(cfg.AccessTokenTTL) * time.Second,
		metrics:  metrics,
	}
}

// ValidateToken validates a bearer token and returns the holder claims
func (tv *TokenValidator) ValidateToken(tokenString string) (*types.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tv.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	if claims.HolderID == "" {
		return nil, fmt.Errorf("token missing holder identity")
	}

	return &types.UserClaims{
		HolderID: claims.HolderID,
		Subject:  claims.Subject,
	}, nil
}

// GenerateToken issues a signed token for a holder
func (tv *TokenValidator) GenerateToken(holderID string) (string, error) {
	now := time.Now()

	claims := &JWTClaims{
		HolderID: holderID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tv.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tv.issuer,
			Audience:  jwt.ClaimStrings{tv.audience},
			Subject:   holderID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tv.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Middleware authenticates requests and stores holder claims in the request
// context.
func (tv *TokenValidator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			tv.metrics.RecordAuthAttempt("bearer", "failed")
			writeAuthError(w, "Authorization header required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			tv.metrics.RecordAuthAttempt("bearer", "failed")
			writeAuthError(w, "Bearer token required")
			return
		}

		claims, err := tv.ValidateToken(tokenString)
		if err != nil {
			tv.metrics.RecordAuthAttempt("bearer", "failed")
			writeAuthError(w, "Invalid or expired token")
			return
		}

		tv.metrics.RecordAuthAttempt("bearer", "success")
		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext extracts holder claims stored by the auth middleware
func ClaimsFromContext(ctx context.Context) (*types.UserClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*types.UserClaims)
	return claims, ok
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"error":{"code":"unauthorized","message":%q}}`, message)
}
