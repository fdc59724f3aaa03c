package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"finance_tracker/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of an issued token
const DefaultTokenTTL = 24 * time.Hour

var (
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("invalid token")
)

// JWTClaims custom claims for JWT
type JWTClaims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTUtil issues and verifies HS256 bearer tokens with a single process-wide key.
// There is no revocation: a token stays valid until it expires.
type JWTUtil struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewJWTUtil creates a new JWTUtil. A non-positive ttl falls back to DefaultTokenTTL.
func NewJWTUtil(secretKey string, ttl time.Duration) *JWTUtil {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTUtil{secretKey: []byte(secretKey), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source used for issuing and verifying
func (ju *JWTUtil) WithClock(now func() time.Time) *JWTUtil {
	ju.now = now
	return ju
}

// GenerateToken generates a new JWT token for the user
func (ju *JWTUtil) GenerateToken(user *model.User) (string, error) {
	issuedAt := ju.now()
	claims := &JWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ju.ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Subject:   strconv.Itoa(user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(ju.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken checks signature, algorithm and expiry. Errors wrap either
// ErrTokenExpired or ErrTokenMalformed.
func (ju *JWTUtil) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ju.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(ju.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
