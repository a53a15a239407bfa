package jwtutil

import (
	"time"

	"parts-service/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

var (
	signingKey      []byte
	expirationHours int
)

// Initialize configures the JWT utility from application config
func Initialize(cfg *config.JWTConfig) {
	signingKey = []byte(cfg.SigningKey)
	expirationHours = cfg.ExpirationHours
}

// ViewerClaims represents the JWT claims carried by catalog callers. Role is
// one of guest/customer/privileged; MarkupPercent is only meaningful for
// privileged resellers.
type ViewerClaims struct {
	UserID        uint             `json:"user_id"`
	Email         string           `json:"email,omitempty"`
	Role          string           `json:"role"`
	MarkupPercent *decimal.Decimal `json:"markup_percent,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed token for the given claims
func GenerateToken(claims *ViewerClaims) (string, error) {
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expirationHours) * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*ViewerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ViewerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return signingKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*ViewerClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
