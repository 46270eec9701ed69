package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/array/applications-console/internal/config"
	appErrors "github.com/array/applications-console/internal/errors"
	"github.com/array/applications-console/internal/handlers"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OperatorKey is the echo context key holding the authenticated operator
const OperatorKey = "operator"

// Claims are the claims of an operator access token
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs an RS256 access token for operator
func IssueToken(cfg config.JWTConfig, operator, role string, now time.Time) (string, error) {
	if cfg.PrivateKey == nil {
		return "", errors.New("jwt private key is not configured")
	}
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   operator,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTokenDuration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(cfg.PrivateKey)
}

// ParseToken verifies signature, issuer and expiry of an access token
func ParseToken(cfg config.JWTConfig, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return cfg.PublicKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Auth requires a Bearer token signed by the console's key
func Auth(cfg config.JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return handlers.SendError(c, appErrors.AuthMissingToken)
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				return handlers.SendError(c, appErrors.AuthInvalidToken,
					appErrors.WithDetails("Invalid authorization header format"))
			}

			claims, err := ParseToken(cfg, parts[1])
			if err != nil {
				return handlers.SendError(c, appErrors.AuthInvalidToken)
			}

			c.Set(OperatorKey, claims.Subject)
			return next(c)
		}
	}
}

// GetOperator returns the authenticated operator, if any
func GetOperator(c echo.Context) (string, bool) {
	operator, ok := c.Get(OperatorKey).(string)
	return operator, ok && operator != ""
}
