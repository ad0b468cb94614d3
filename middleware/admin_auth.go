// middleware/admin_auth.go
package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/vitalroots/referral_backend/models"
)

// TokenVerifier decides whether a presented admin credential is valid.
// The ledger never inspects credentials itself; it only consumes this
// boolean gate.
type TokenVerifier func(token string) bool

// EnvTokenVerifier builds the default verifier from the environment:
// ADMIN_TOKEN_HASH (bcrypt) when set, otherwise a constant-time comparison
// against ADMIN_TOKEN. With neither set every credential is rejected.
func EnvTokenVerifier() TokenVerifier {
	hash := os.Getenv("ADMIN_TOKEN_HASH")
	plain := os.Getenv("ADMIN_TOKEN")

	return func(token string) bool {
		if token == "" {
			return false
		}
		if hash != "" {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
		}
		if plain != "" {
			return subtle.ConstantTimeCompare([]byte(plain), []byte(token)) == 1
		}
		return false
	}
}

// AdminClaims is the JWT payload for admin session tokens issued by
// /admin/login.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

// IssueAdminToken creates a signed admin session token valid for 12 hours.
func IssueAdminToken() (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET environment variable is required")
	}

	claims := &AdminClaims{
		Role: "admin",
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(12 * time.Hour).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// verifyAdminJWT validates a Bearer session token.
func verifyAdminJWT(tokenString string) bool {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return false
	}

	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return false
	}
	return claims.Role == "admin"
}

// AdminAuth guards admin-only routes. It accepts either the shared
// credential in the x-admin-token header (the browser client's scheme) or
// a Bearer session token from /admin/login.
func AdminAuth(verify TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := c.Request().Header.Get("x-admin-token"); token != "" {
				if verify(token) {
					return next(c)
				}
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Detail: "Invalid admin token"})
			}

			auth := c.Request().Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				if verifyAdminJWT(strings.TrimPrefix(auth, "Bearer ")) {
					return next(c)
				}
			}

			return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Detail: "Admin credentials required"})
		}
	}
}
